package demoapp

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/TotallyNotChase/flask-unittest/webapp"
)

func (d *demo) registerForm(w http.ResponseWriter, r *http.Request) {
	d.render(w, http.StatusOK, "register", pageData{User: d.currentUser(r)})
}

func (d *demo) register(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	var flash string
	switch {
	case username == "":
		flash = "Username is required."
	case password == "":
		flash = "Password is required."
	}
	if flash == "" {
		if _, err := d.store.CreateUser(username, hashPassword(password)); errors.Is(err, ErrUserExists) {
			flash = fmt.Sprintf("User %s is already registered.", username)
		} else if err != nil {
			d.app.Logger().Error().Err(err).Msg("register failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}
	if flash != "" {
		d.render(w, http.StatusOK, "register", pageData{User: d.currentUser(r), Flash: flash})
		return
	}
	http.Redirect(w, r, "/auth/login", http.StatusFound)
}

func (d *demo) loginForm(w http.ResponseWriter, r *http.Request) {
	d.render(w, http.StatusOK, "login", pageData{User: d.currentUser(r)})
}

func (d *demo) login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, found := d.store.UserByName(username)
	var flash string
	switch {
	case !found:
		flash = "Incorrect username."
	case user.PasswordHash != hashPassword(password):
		flash = "Incorrect password."
	}
	if flash != "" {
		d.render(w, http.StatusOK, "login", pageData{User: d.currentUser(r), Flash: flash})
		return
	}

	if err := d.app.SetSession(w, webapp.Session{"user_id": user.ID}); err != nil {
		d.app.Logger().Error().Err(err).Msg("session could not be written")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (d *demo) logout(w http.ResponseWriter, r *http.Request) {
	d.app.ClearSession(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (d *demo) deleteForm(w http.ResponseWriter, r *http.Request, user User) {
	d.render(w, http.StatusOK, "delete", pageData{User: &user})
}

func (d *demo) deleteAccount(w http.ResponseWriter, r *http.Request, user User) {
	if err := d.store.DeleteUser(user.Username); err != nil {
		d.app.Logger().Error().Err(err).Str("user", user.Username).Msg("account deletion failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	d.app.ClearSession(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
