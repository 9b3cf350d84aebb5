package demoapp

import (
	"net/http"
	"strconv"
)

func (d *demo) postViews(user *User) ([]postView, error) {
	posts, err := d.store.Posts()
	if err != nil {
		return nil, err
	}
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, postView{
			ID:      p.ID,
			Title:   p.Title,
			Body:    p.Body,
			Author:  p.Author,
			Created: p.Created.Format("2006-01-02"),
			Mine:    user != nil && user.ID == p.AuthorID,
		})
	}
	return views, nil
}

func (d *demo) index(w http.ResponseWriter, r *http.Request) {
	user := d.currentUser(r)
	views, err := d.postViews(user)
	if err != nil {
		d.app.Logger().Error().Err(err).Msg("posts could not be listed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	d.render(w, http.StatusOK, "index", pageData{User: user, Posts: views})
}

func (d *demo) createForm(w http.ResponseWriter, r *http.Request, user User) {
	d.render(w, http.StatusOK, "create", pageData{User: &user})
}

func (d *demo) create(w http.ResponseWriter, r *http.Request, user User) {
	title := r.PostFormValue("title")
	body := r.PostFormValue("body")
	if title == "" {
		d.render(w, http.StatusOK, "create", pageData{
			User:  &user,
			Flash: "Title is required.",
			Form:  formValues{Title: title, Body: body},
		})
		return
	}
	if _, err := d.store.CreatePost(user, title, body); err != nil {
		d.app.Logger().Error().Err(err).Msg("post could not be created")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// ownPostFromPath resolves the {id} path segment to a post owned by the user,
// writing the appropriate error response when it cannot.
func (d *demo) ownPostFromPath(w http.ResponseWriter, r *http.Request, user User) (Post, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return Post{}, false
	}
	post, found := d.store.PostByID(id)
	if !found {
		http.NotFound(w, r)
		return Post{}, false
	}
	if post.AuthorID != user.ID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return Post{}, false
	}
	return post, true
}

func (d *demo) updateForm(w http.ResponseWriter, r *http.Request, user User) {
	post, ok := d.ownPostFromPath(w, r, user)
	if !ok {
		return
	}
	d.render(w, http.StatusOK, "update", pageData{
		User: &user,
		Post: postView{ID: post.ID, Title: post.Title, Body: post.Body},
	})
}

func (d *demo) update(w http.ResponseWriter, r *http.Request, user User) {
	post, ok := d.ownPostFromPath(w, r, user)
	if !ok {
		return
	}
	title := r.PostFormValue("title")
	body := r.PostFormValue("body")
	if title == "" {
		d.render(w, http.StatusOK, "update", pageData{
			User:  &user,
			Flash: "Title is required.",
			Post:  postView{ID: post.ID, Title: post.Title, Body: post.Body},
		})
		return
	}
	if err := d.store.UpdatePost(post.ID, title, body); err != nil {
		d.app.Logger().Error().Err(err).Int("post", post.ID).Msg("post could not be updated")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (d *demo) deletePost(w http.ResponseWriter, r *http.Request, user User) {
	post, ok := d.ownPostFromPath(w, r, user)
	if !ok {
		return
	}
	if err := d.store.DeletePost(post.ID); err != nil {
		d.app.Logger().Error().Err(err).Int("post", post.ID).Msg("post could not be deleted")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (d *demo) apiPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := d.store.Posts()
	if err != nil {
		d.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	d.writeJSON(w, http.StatusOK, map[string]interface{}{
		"posts": posts,
		"count": len(posts),
	})
}

func (d *demo) apiCreatePost(w http.ResponseWriter, r *http.Request) {
	user := d.currentUser(r)
	if user == nil {
		d.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	var in struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		d.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if in.Title == "" {
		d.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Title is required."})
		return
	}
	post, err := d.store.CreatePost(*user, in.Title, in.Body)
	if err != nil {
		d.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	d.writeJSON(w, http.StatusCreated, post)
}
