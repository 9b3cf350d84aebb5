package demotests

import (
	"net/url"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TotallyNotChase/flask-unittest/webapp"
	"github.com/TotallyNotChase/flask-unittest/webtest"
)

// ClientCases exercises the app through in-process clients. The app instance is
// shared across the case's methods, which is why every method that registers the
// mock account also deletes it again.
func ClientCases(app *webapp.App) []webtest.Case {
	return []webtest.Case{
		clientSetupCase(app),
		clientIndexCase(app),
		clientAuthCase(app),
		clientBlogCase(app),
		clientAPICase(app),
	}
}

func clientSetupCase(app *webapp.App) webtest.Case {
	requireClient := func(t *webtest.T, client *webapp.Client) {
		require.NotNil(t, client)
		require.Same(t, app, client.App())
	}
	return webtest.ClientCase{
		Name:     "setup",
		App:      app,
		SetUp:    requireClient,
		TearDown: requireClient,
		Tests: []webtest.ClientTest{
			{Name: "client is injected", Run: requireClient},
		},
	}
}

func clientIndexCase(app *webapp.App) webtest.Case {
	return webtest.ClientCase{
		Name: "index",
		App:  app,
		Tests: []webtest.ClientTest{
			{Name: "anonymous visitors see register and login links", Run: func(t *webtest.T, client *webapp.Client) {
				doc := indexDoc(t, client)
				assert.True(t, hasLink(doc, "/auth/register"))
				assert.True(t, hasLink(doc, "/auth/login"))
			}},
		},
	}
}

func clientAuthCase(app *webapp.App) webtest.Case {
	return webtest.ClientCase{
		Name: "auth",
		App:  app,
		Tests: []webtest.ClientTest{
			{Name: "register", Run: func(t *webtest.T, client *webapp.Client) {
				signup(t, client, MockUser.Username, MockUser.Password)
				login(t, client, MockUser.Username, MockUser.Password)
				deleteAccount(t, client)
			}},
			{Name: "login shows the username in the nav", Run: func(t *webtest.T, client *webapp.Client) {
				signup(t, client, MockUser.Username, MockUser.Password)
				login(t, client, MockUser.Username, MockUser.Password)

				assert.Equal(t, MockUser.Username, navUsername(indexDoc(t, client)))

				deleteAccount(t, client)
			}},
			{Name: "duplicate registration is rejected", Run: func(t *webtest.T, client *webapp.Client) {
				signup(t, client, MockUser.Username, MockUser.Password)

				resp, err := client.PostForm("/auth/register",
					credentials(MockUser.Username, MockUser.Password), webapp.FollowRedirects())
				require.NoError(t, err)
				webtest.AssertStatus(t, resp, 200)
				webtest.AssertBodyContains(t, resp, "is already registered")
				assert.Contains(t, pageTitle(parseHTML(t, resp.Body)), "Register")

				login(t, client, MockUser.Username, MockUser.Password)
				deleteAccount(t, client)
			}},
			{Name: "login with unknown credentials fails", Run: func(t *webtest.T, client *webapp.Client) {
				resp, err := client.PostForm("/auth/login",
					credentials("definitely not real", "supah secret"), webapp.FollowRedirects())
				require.NoError(t, err)
				webtest.AssertStatus(t, resp, 200)
				webtest.AssertBodyContains(t, resp, "Incorrect username.")
				assert.Contains(t, pageTitle(parseHTML(t, resp.Body)), "Log In")
			}},
			{Name: "login with wrong password fails", Run: func(t *webtest.T, client *webapp.Client) {
				signup(t, client, MockUser.Username, MockUser.Password)

				resp, err := client.PostForm("/auth/login",
					credentials(MockUser.Username, "not the password"), webapp.FollowRedirects())
				require.NoError(t, err)
				webtest.AssertStatus(t, resp, 200)
				webtest.AssertBodyContains(t, resp, "Incorrect password.")

				login(t, client, MockUser.Username, MockUser.Password)
				deleteAccount(t, client)
			}},
		},
	}
}

func clientBlogCase(app *webapp.App) webtest.Case {
	return webtest.ClientCase{
		Name: "blog",
		App:  app,
		SetUp: func(t *webtest.T, client *webapp.Client) {
			signup(t, client, MockUser.Username, MockUser.Password)
			login(t, client, MockUser.Username, MockUser.Password)
		},
		TearDown: func(t *webtest.T, client *webapp.Client) {
			deleteAccount(t, client)
		},
		Tests: []webtest.ClientTest{
			{Name: "index after login", Run: func(t *webtest.T, client *webapp.Client) {
				doc := indexDoc(t, client)
				assert.Equal(t, MockUser.Username, navUsername(doc))
				assert.True(t, hasLink(doc, "/auth/logout"))
				assert.True(t, hasLink(doc, "/auth/delete"))
				assert.True(t, hasLink(doc, "/create"))
			}},
			{Name: "post creation", Run: func(t *webtest.T, client *webapp.Client) {
				createPost(t, client, MockPosts[0])
			}},
			{Name: "post edit", Run: func(t *webtest.T, client *webapp.Client) {
				createPost(t, client, MockPosts[0])
				editPost(t, client, MockPosts[0].Title, MockPosts[2])
			}},
			{Name: "post delete", Run: func(t *webtest.T, client *webapp.Client) {
				createPost(t, client, MockPosts[1])
				deletePost(t, client, MockPosts[1])
			}},
			{Name: "posts are not editable by others", Run: func(t *webtest.T, client *webapp.Client) {
				createPost(t, client, MockPosts[0])

				logout(t, client)
				_, found := postEditLink(indexDoc(t, client), MockPosts[0].Title)
				assert.False(t, found, "logged-out visitors must not see edit links")

				// log back in so tearDown can delete the account
				login(t, client, MockUser.Username, MockUser.Password)
			}},
			{Name: "post without a title is rejected", Run: func(t *webtest.T, client *webapp.Client) {
				resp, err := client.PostForm("/create",
					url.Values{"title": {""}, "body": {"a body without a title"}}, webapp.FollowRedirects())
				require.NoError(t, err)
				webtest.AssertStatus(t, resp, 200)
				webtest.AssertBodyContains(t, resp, "Title is required.")
			}},
		},
	}
}

type postPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func clientAPICase(app *webapp.App) webtest.Case {
	return webtest.ClientCase{
		Name: "api",
		App:  app,
		SetUp: func(t *webtest.T, client *webapp.Client) {
			signup(t, client, MockUser.Username, MockUser.Password)
			login(t, client, MockUser.Username, MockUser.Password)
		},
		TearDown: func(t *webtest.T, client *webapp.Client) {
			deleteAccount(t, client)
		},
		Tests: []webtest.ClientTest{
			{Name: "created posts are served as JSON", Run: func(t *webtest.T, client *webapp.Client) {
				resp, err := client.PostJSON("/api/posts", postPayload{Title: MockPosts[0].Title, Body: MockPosts[0].Body})
				require.NoError(t, err)
				webtest.RequireStatus(t, resp, 201)
				webtest.AssertJSONField(t, resp, MockPosts[0].Title, "title")

				resp, err = client.Get("/api/posts")
				require.NoError(t, err)
				webtest.RequireStatus(t, resp, 200)
				webtest.AssertJSONField(t, resp, MockPosts[0].Title, "posts", "[0]", "title")
				webtest.AssertJSONField(t, resp, MockPosts[0].Body, "posts", "[0]", "body")
			}},
			{Name: "creation requires authentication", Run: func(t *webtest.T, client *webapp.Client) {
				anon, err := client.App().NewClient(webapp.ClientOptions{DisableCookies: true})
				require.NoError(t, err)

				resp, err := anon.PostJSON("/api/posts", postPayload{Title: "nope"})
				require.NoError(t, err)
				webtest.AssertStatus(t, resp, 401)
				webtest.AssertJSONField(t, resp, "authentication required", "error")
			}},
			{Name: "creation requires a title", Run: func(t *webtest.T, client *webapp.Client) {
				resp, err := client.PostJSON("/api/posts", postPayload{Body: "a body without a title"})
				require.NoError(t, err)
				webtest.AssertStatus(t, resp, 400)
				webtest.AssertJSONField(t, resp, "Title is required.", "error")
			}},
		},
	}
}
