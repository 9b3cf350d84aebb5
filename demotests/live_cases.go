package demotests

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TotallyNotChase/flask-unittest/webtest"
)

// LiveCases exercises the app over real HTTP. The server is shared by all cases
// in the suite, so each flow cleans up the account it registered.
func LiveCases() []webtest.LiveCase {
	return []webtest.LiveCase{
		liveSetupCase(),
		liveIndexCase(),
		liveAuthCase(),
		liveBlogCase(),
	}
}

// browser drives the live server the way a real user agent would: one cookie
// jar per test method, redirects followed.
type browser struct {
	t    *webtest.T
	base string
	http *http.Client
}

func newBrowser(t *webtest.T, server *webtest.LiveServer) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: server.URL(),
		http: &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
}

func (b *browser) get(path string) *goquery.Document {
	resp, err := b.http.Get(b.base + path)
	require.NoError(b.t, err)
	return b.page(resp)
}

func (b *browser) postForm(path string, data url.Values) *goquery.Document {
	resp, err := b.http.PostForm(b.base+path, data)
	require.NoError(b.t, err)
	return b.page(resp)
}

func (b *browser) page(resp *http.Response) *goquery.Document {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	require.Equal(b.t, 200, resp.StatusCode, "unexpected status for %s: %s", resp.Request.URL, body)
	return parseHTML(b.t, body)
}

// follow clicks the link with the given text on the page and returns both the
// resolved href and the page it leads to.
func (b *browser) follow(doc *goquery.Document, text string) (string, *goquery.Document) {
	href, found := linkByText(doc, text)
	require.True(b.t, found, "no %q link on the page", text)
	return href, b.get(href)
}

func liveSignup(b *browser, username, password string) {
	doc := b.postForm("/auth/register", credentials(username, password))
	assert.Contains(b.t, pageTitle(doc), "Log In")
}

func liveLogin(b *browser, username, password string) {
	doc := b.postForm("/auth/login", credentials(username, password))
	assert.Contains(b.t, pageTitle(doc), "Posts")
	assert.Equal(b.t, username, navUsername(doc))
}

func liveLogout(b *browser) {
	_, doc := b.follow(b.get("/"), "Log Out")
	assertAnonymousNav(b.t, doc)
}

// liveDeleteAccount walks the two-step flow: the Delete Me! link leads to a
// confirmation page, whose form posts back to the same path.
func liveDeleteAccount(b *browser) {
	href, confirm := b.follow(b.get("/"), "Delete Me!")
	assert.Contains(b.t, pageTitle(confirm), "Delete Account")

	doc := b.postForm(href, nil)
	assert.Contains(b.t, pageTitle(doc), "Posts")
	assertAnonymousNav(b.t, doc)
}

func assertAnonymousNav(t *webtest.T, doc *goquery.Document) {
	_, hasRegister := linkByText(doc, "Register")
	_, hasLogin := linkByText(doc, "Log In")
	assert.True(t, hasRegister)
	assert.True(t, hasLogin)
}

func liveCreatePost(b *browser, post MockPost) {
	_, form := b.follow(b.get("/"), "New")
	assert.Contains(b.t, pageTitle(form), "New Post")

	doc := b.postForm("/create", url.Values{"title": {post.Title}, "body": {post.Body}})
	assertPostShown(b.t, doc, post)
}

func liveEditPost(b *browser, oldTitle string, newPost MockPost) {
	editLink, found := postEditLink(b.get("/"), oldTitle)
	require.True(b.t, found, "no edit link for %q", oldTitle)

	form := b.get(editLink)
	assert.Contains(b.t, pageTitle(form), "Edit")

	doc := b.postForm(editLink, url.Values{"title": {newPost.Title}, "body": {newPost.Body}})
	assertPostShown(b.t, doc, newPost)
}

func liveDeletePost(b *browser, post MockPost) {
	deleteLink, found := postDeleteLink(b.get("/"), post.Title)
	require.True(b.t, found, "no delete link for %q", post.Title)

	doc := b.postForm(deleteLink, nil)
	assertPostGone(b.t, doc, post)
}

func liveSetupCase() webtest.LiveCase {
	return webtest.LiveCase{
		Name: "setup",
		Tests: []webtest.LiveTest{
			{Name: "server reports its base url", Run: func(t *webtest.T, server *webtest.LiveServer) {
				require.NotEmpty(t, server.URL())
				assert.True(t, strings.HasPrefix(server.URL(), "http://"))
				assert.Equal(t, "http://"+server.App().ServerAddr(), server.URL())
			}},
		},
	}
}

func liveIndexCase() webtest.LiveCase {
	return webtest.LiveCase{
		Name: "index",
		Tests: []webtest.LiveTest{
			{Name: "anonymous visitors see register and login links", Run: func(t *webtest.T, server *webtest.LiveServer) {
				b := newBrowser(t, server)
				assertAnonymousNav(t, b.get("/"))
			}},
		},
	}
}

func liveAuthCase() webtest.LiveCase {
	return webtest.LiveCase{
		Name: "auth",
		Tests: []webtest.LiveTest{
			{Name: "register, log in, log out", Run: func(t *webtest.T, server *webtest.LiveServer) {
				b := newBrowser(t, server)
				liveSignup(b, MockUser.Username, MockUser.Password)
				liveLogin(b, MockUser.Username, MockUser.Password)
				liveLogout(b)

				liveLogin(b, MockUser.Username, MockUser.Password)
				liveDeleteAccount(b)
			}},
			{Name: "deleted accounts cannot log back in", Run: func(t *webtest.T, server *webtest.LiveServer) {
				b := newBrowser(t, server)
				liveSignup(b, MockUser.Username, MockUser.Password)
				liveLogin(b, MockUser.Username, MockUser.Password)
				liveDeleteAccount(b)

				doc := b.postForm("/auth/login", credentials(MockUser.Username, MockUser.Password))
				assert.Contains(b.t, doc.Text(), "Incorrect username.")
			}},
		},
	}
}

func liveBlogCase() webtest.LiveCase {
	return webtest.LiveCase{
		Name: "blog",
		SetUp: func(t *webtest.T, server *webtest.LiveServer) {
			b := newBrowser(t, server)
			liveSignup(b, MockUser.Username, MockUser.Password)
		},
		TearDown: func(t *webtest.T, server *webtest.LiveServer) {
			b := newBrowser(t, server)
			liveLogin(b, MockUser.Username, MockUser.Password)
			liveDeleteAccount(b)
		},
		Tests: []webtest.LiveTest{
			{Name: "create a post", Run: func(t *webtest.T, server *webtest.LiveServer) {
				b := newBrowser(t, server)
				liveLogin(b, MockUser.Username, MockUser.Password)
				liveCreatePost(b, MockPosts[0])
			}},
			{Name: "edit a post", Run: func(t *webtest.T, server *webtest.LiveServer) {
				b := newBrowser(t, server)
				liveLogin(b, MockUser.Username, MockUser.Password)
				liveCreatePost(b, MockPosts[0])
				liveEditPost(b, MockPosts[0].Title, MockPosts[2])
			}},
			{Name: "delete a post", Run: func(t *webtest.T, server *webtest.LiveServer) {
				b := newBrowser(t, server)
				liveLogin(b, MockUser.Username, MockUser.Password)
				liveCreatePost(b, MockPosts[1])
				liveDeletePost(b, MockPosts[1])
			}},
		},
	}
}
