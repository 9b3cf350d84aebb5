package demotests

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TotallyNotChase/flask-unittest/webapp"
	"github.com/TotallyNotChase/flask-unittest/webtest"
)

func credentials(username, password string) url.Values {
	return url.Values{"username": {username}, "password": {password}}
}

func parseHTML(t *webtest.T, body []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	require.NoError(t, err)
	return doc
}

func pageTitle(doc *goquery.Document) string {
	return doc.Find("title").Text()
}

func hasLink(doc *goquery.Document, href string) bool {
	return doc.Find(`a[href="`+href+`"]`).Length() > 0
}

// linkByText finds an anchor by its visible text, the way a person (or a
// browser-driving test) would.
func linkByText(doc *goquery.Document, text string) (string, bool) {
	href, found := "", false
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if strings.TrimSpace(a.Text()) == text {
			href, found = a.Attr("href")
			return false
		}
		return true
	})
	return href, found
}

func navUsername(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("ul > li:nth-child(1) > span").Text())
}

func postTitles(doc *goquery.Document) []string {
	var titles []string
	doc.Find("article.post > header > div > h1").Each(func(_ int, h1 *goquery.Selection) {
		titles = append(titles, strings.TrimSpace(h1.Text()))
	})
	return titles
}

func postBodies(doc *goquery.Document) []string {
	var bodies []string
	doc.Find("article.post > p").Each(func(_ int, p *goquery.Selection) {
		bodies = append(bodies, strings.TrimSpace(p.Text()))
	})
	return bodies
}

// postEditLink finds the edit link of the post with the given title. The link
// sits on the post's header, next to the title block.
func postEditLink(doc *goquery.Document, title string) (string, bool) {
	link, found := "", false
	doc.Find("article.post > header > div > h1").EachWithBreak(func(_ int, h1 *goquery.Selection) bool {
		if strings.TrimSpace(h1.Text()) != title {
			return true
		}
		link, found = h1.Parent().Parent().Find("a").Attr("href")
		return false
	})
	return link, found
}

// postDeleteLink is the edit link with the update action swapped for delete.
func postDeleteLink(doc *goquery.Document, title string) (string, bool) {
	link, found := postEditLink(doc, title)
	if !found {
		return "", false
	}
	return strings.Replace(link, "update", "delete", 1), true
}

func assertPostShown(t *webtest.T, doc *goquery.Document, post MockPost) {
	assert.Contains(t, postTitles(doc), post.Title)
	assert.Contains(t, postBodies(doc), post.Body)
}

func assertPostGone(t *webtest.T, doc *goquery.Document, post MockPost) {
	assert.NotContains(t, postTitles(doc), post.Title)
	assert.NotContains(t, postBodies(doc), post.Body)
}

// signup registers the credentials and checks that the app redirected to the
// login page.
func signup(t *webtest.T, client *webapp.Client, username, password string) {
	resp, err := client.PostForm("/auth/register", credentials(username, password), webapp.FollowRedirects())
	require.NoError(t, err)
	webtest.RequireStatus(t, resp, 200)
	require.Contains(t, pageTitle(parseHTML(t, resp.Body)), "Log In")
}

// login signs in and checks that the index page with the logged-in navigation
// is showing.
func login(t *webtest.T, client *webapp.Client, username, password string) {
	resp, err := client.PostForm("/auth/login", credentials(username, password), webapp.FollowRedirects())
	require.NoError(t, err)
	webtest.RequireStatus(t, resp, 200)
	doc := parseHTML(t, resp.Body)
	require.Contains(t, pageTitle(doc), "Posts")
	require.True(t, hasLink(doc, "/auth/logout"), "logged-in nav should link to logout")
	require.True(t, hasLink(doc, "/auth/delete"), "logged-in nav should link to account deletion")
}

// logout signs out and checks that the anonymous navigation is back.
func logout(t *webtest.T, client *webapp.Client) {
	resp, err := client.Get("/auth/logout", webapp.FollowRedirects())
	require.NoError(t, err)
	webtest.RequireStatus(t, resp, 200)
	doc := parseHTML(t, resp.Body)
	require.Contains(t, pageTitle(doc), "Posts")
	require.True(t, hasLink(doc, "/auth/register"))
	require.True(t, hasLink(doc, "/auth/login"))
}

// deleteAccount removes the signed-in account and checks that the anonymous
// navigation is back.
func deleteAccount(t *webtest.T, client *webapp.Client) {
	resp, err := client.Do("POST", "/auth/delete", "", nil, webapp.FollowRedirects())
	require.NoError(t, err)
	webtest.RequireStatus(t, resp, 200)
	doc := parseHTML(t, resp.Body)
	require.Contains(t, pageTitle(doc), "Posts")
	require.True(t, hasLink(doc, "/auth/register"))
	require.True(t, hasLink(doc, "/auth/login"))
}

// indexDoc fetches and parses the index page.
func indexDoc(t *webtest.T, client *webapp.Client) *goquery.Document {
	resp, err := client.Get("/")
	require.NoError(t, err)
	webtest.RequireStatus(t, resp, 200)
	return parseHTML(t, resp.Body)
}

// createPost submits a new post and checks that it shows up on the index page.
func createPost(t *webtest.T, client *webapp.Client, post MockPost) {
	resp, err := client.PostForm("/create",
		url.Values{"title": {post.Title}, "body": {post.Body}}, webapp.FollowRedirects())
	require.NoError(t, err)
	webtest.RequireStatus(t, resp, 200)
	assertPostShown(t, parseHTML(t, resp.Body), post)
}

// editPost rewrites an existing post through its edit form and checks the result.
func editPost(t *webtest.T, client *webapp.Client, oldTitle string, newPost MockPost) {
	editLink, found := postEditLink(indexDoc(t, client), oldTitle)
	require.True(t, found, "no edit link for %q", oldTitle)

	resp, err := client.PostForm(editLink,
		url.Values{"title": {newPost.Title}, "body": {newPost.Body}}, webapp.FollowRedirects())
	require.NoError(t, err)
	webtest.RequireStatus(t, resp, 200)
	assertPostShown(t, parseHTML(t, resp.Body), newPost)
}

// deletePost removes a post through its delete action and checks it is gone.
func deletePost(t *webtest.T, client *webapp.Client, post MockPost) {
	deleteLink, found := postDeleteLink(indexDoc(t, client), post.Title)
	require.True(t, found, "no delete link for %q", post.Title)

	resp, err := client.Do("POST", deleteLink, "", nil, webapp.FollowRedirects())
	require.NoError(t, err)
	webtest.RequireStatus(t, resp, 200)
	assertPostGone(t, parseHTML(t, resp.Body), post)
}
