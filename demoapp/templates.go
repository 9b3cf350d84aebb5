package demoapp

import (
	"html/template"
)

const baseHTML = `<!doctype html>
<html>
<head>
  <title>{{block "title" .}}Flaskr{{end}} - Flaskr</title>
</head>
<body>
<nav>
  <h1>Flaskr</h1>
  <ul>
    {{if .User}}
    <li><span>{{.User.Username}}</span></li>
    <li><a href="/auth/logout">Log Out</a></li>
    <li><a href="/auth/delete">Delete Me!</a></li>
    {{else}}
    <li><a href="/auth/register">Register</a></li>
    <li><a href="/auth/login">Log In</a></li>
    {{end}}
  </ul>
</nav>
<section class="content">
  <header>{{block "header" .}}{{end}}</header>
  {{if .Flash}}<div class="flash">{{.Flash}}</div>{{end}}
  {{block "content" .}}{{end}}
</section>
</body>
</html>
`

const indexHTML = `{{define "title"}}Posts{{end}}
{{define "header"}}
  <h1>Posts</h1>
  {{if .User}}<a class="action" href="/create">New</a>{{end}}
{{end}}
{{define "content"}}
  {{range $i, $p := .Posts}}
    {{if $i}}<hr>{{end}}
    <article class="post">
      <header>
        <div>
          <h1>{{$p.Title}}</h1>
          <div class="about">by {{$p.Author}} on {{$p.Created}}</div>
        </div>
        {{if $p.Mine}}<a class="action" href="/{{$p.ID}}/update">Edit</a>{{end}}
      </header>
      <p>{{$p.Body}}</p>
    </article>
  {{end}}
{{end}}
`

const registerHTML = `{{define "title"}}Register{{end}}
{{define "header"}}<h1>Register</h1>{{end}}
{{define "content"}}
  <form method="post">
    <label for="username">Username</label>
    <input name="username" id="username" required>
    <label for="password">Password</label>
    <input type="password" name="password" id="password" required>
    <input type="submit" value="Register">
  </form>
{{end}}
`

const loginHTML = `{{define "title"}}Log In{{end}}
{{define "header"}}<h1>Log In</h1>{{end}}
{{define "content"}}
  <form method="post">
    <label for="username">Username</label>
    <input name="username" id="username" required>
    <label for="password">Password</label>
    <input type="password" name="password" id="password" required>
    <input type="submit" value="Log In">
  </form>
{{end}}
`

const createHTML = `{{define "title"}}New Post{{end}}
{{define "header"}}<h1>New Post</h1>{{end}}
{{define "content"}}
  <form method="post">
    <label for="title">Title</label>
    <input name="title" id="title" value="{{.Form.Title}}">
    <label for="body">Body</label>
    <textarea name="body" id="body">{{.Form.Body}}</textarea>
    <input type="submit" value="Save">
  </form>
{{end}}
`

const deleteHTML = `{{define "title"}}Delete Account{{end}}
{{define "header"}}<h1>Delete Account</h1>{{end}}
{{define "content"}}
  <p>This permanently removes the account of {{.User.Username}} along with every post it wrote.</p>
  <form method="post">
    <input class="danger" type="submit" value="Delete Me!">
  </form>
{{end}}
`

const updateHTML = `{{define "title"}}Edit "{{.Post.Title}}"{{end}}
{{define "header"}}<h1>Edit "{{.Post.Title}}"</h1>{{end}}
{{define "content"}}
  <form method="post">
    <label for="title">Title</label>
    <input name="title" id="title" value="{{.Post.Title}}">
    <label for="body">Body</label>
    <textarea name="body" id="body">{{.Post.Body}}</textarea>
    <input type="submit" value="Save">
  </form>
  <hr>
  <form action="/{{.Post.ID}}/delete" method="post">
    <input class="danger" type="submit" value="Delete">
  </form>
{{end}}
`

// postView is a Post prepared for rendering. Mine tells the index template
// whether to show the edit link.
type postView struct {
	ID      int
	Title   string
	Body    string
	Author  string
	Created string
	Mine    bool
}

type formValues struct {
	Title string
	Body  string
}

// pageData is the data every page template renders from. Fields that a given
// page does not use stay zero.
type pageData struct {
	User  *User
	Flash string
	Posts []postView
	Post  postView
	Form  formValues
}

func newTemplates() map[string]*template.Template {
	base := template.Must(template.New("base").Parse(baseHTML))
	pages := map[string]string{
		"index":    indexHTML,
		"register": registerHTML,
		"login":    loginHTML,
		"create":   createHTML,
		"update":   updateHTML,
		"delete":   deleteHTML,
	}
	set := make(map[string]*template.Template, len(pages))
	for name, text := range pages {
		set[name] = template.Must(template.Must(base.Clone()).Parse(text))
	}
	return set
}
