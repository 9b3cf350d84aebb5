// Package demoapp is a small blog application, assembled on webapp.App, that the
// test suites in demotests exercise. Accounts can register, log in, and delete
// themselves; logged-in users write, edit, and delete posts; a JSON API exposes
// the posts read-only plus authenticated creation.
package demoapp

import (
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"net/http"

	"github.com/TotallyNotChase/flask-unittest/webapp"
)

type demo struct {
	app       *webapp.App
	store     *Store
	templates map[string]*template.Template
}

// New builds a fresh application with an empty store. Settings are passed
// through to webapp.New; the demo suites mostly rely on the defaults.
func New(settings webapp.Settings) (*webapp.App, error) {
	store, err := NewStore()
	if err != nil {
		return nil, err
	}
	app := webapp.New("flaskr", settings)
	d := &demo{
		app:       app,
		store:     store,
		templates: newTemplates(),
	}
	d.routes()
	return app, nil
}

func (d *demo) routes() {
	d.app.RouteFunc("blog.index", "GET", "/{$}", d.index)

	d.app.RouteFunc("auth.register", "GET", "/auth/register", d.registerForm)
	d.app.RouteFunc("auth.register", "POST", "/auth/register", d.register)
	d.app.RouteFunc("auth.login", "GET", "/auth/login", d.loginForm)
	d.app.RouteFunc("auth.login", "POST", "/auth/login", d.login)
	d.app.RouteFunc("auth.logout", "GET", "/auth/logout", d.logout)
	d.app.RouteFunc("auth.delete", "GET", "/auth/delete", d.loginRequired(d.deleteForm))
	d.app.RouteFunc("auth.delete", "POST", "/auth/delete", d.loginRequired(d.deleteAccount))

	d.app.RouteFunc("blog.create", "GET", "/create", d.loginRequired(d.createForm))
	d.app.RouteFunc("blog.create", "POST", "/create", d.loginRequired(d.create))
	d.app.RouteFunc("blog.update", "GET", "/{id}/update", d.loginRequired(d.updateForm))
	d.app.RouteFunc("blog.update", "POST", "/{id}/update", d.loginRequired(d.update))
	d.app.RouteFunc("blog.delete", "POST", "/{id}/delete", d.loginRequired(d.deletePost))

	d.app.RouteFunc("api.posts", "GET", "/api/posts", d.apiPosts)
	d.app.RouteFunc("api.posts", "POST", "/api/posts", d.apiCreatePost)
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// currentUser resolves the logged-in user from the session cookie, or nil.
func (d *demo) currentUser(r *http.Request) *User {
	id, ok := d.app.Session(r).Int("user_id")
	if !ok {
		return nil
	}
	user, ok := d.store.UserByID(id)
	if !ok {
		return nil
	}
	return &user
}

// loginRequired redirects anonymous requests to the login page.
func (d *demo) loginRequired(next func(http.ResponseWriter, *http.Request, User)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := d.currentUser(r)
		if user == nil {
			http.Redirect(w, r, "/auth/login", http.StatusFound)
			return
		}
		next(w, r, *user)
	}
}

func (d *demo) render(w http.ResponseWriter, status int, page string, data pageData) {
	tmpl, ok := d.templates[page]
	if !ok {
		d.app.Logger().Error().Str("page", page).Msg("no such template")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		d.app.Logger().Error().Err(err).Str("page", page).Msg("template execution failed")
	}
}

func (d *demo) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		d.app.Logger().Error().Err(err).Msg("response encoding failed")
	}
}
