package webtest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TotallyNotChase/flask-unittest/harness"
	"github.com/TotallyNotChase/flask-unittest/webapp"
)

// runWithT runs fn as if it were a test body, returning the collected results.
func runWithT(fn func(t *T)) harness.Results {
	return harness.Run(nil, nil, func(c *harness.Context) {
		c.Run("method", func(c *harness.Context) {
			fn(newT(c))
		})
	})
}

func textResponse(status int, body string) *webapp.Response {
	return &webapp.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:       []byte(body),
	}
}

func TestAssertStatus(t *testing.T) {
	ok := runWithT(func(t *T) {
		AssertStatus(t, textResponse(200, "fine"), 200)
	})
	assert.True(t, ok.OK())

	bad := runWithT(func(t *T) {
		AssertStatus(t, textResponse(500, "broken"), 200)
	})
	require.False(t, bad.OK())
	assert.Contains(t, errorsAsText(bad.Failures[0]), "broken")
}

func TestRequireStatusStopsTheTest(t *testing.T) {
	reached := false
	results := runWithT(func(t *T) {
		RequireStatus(t, textResponse(404, "nope"), 200)
		reached = true
	})

	assert.False(t, results.OK())
	assert.False(t, reached)
}

func TestAssertBodyContains(t *testing.T) {
	results := runWithT(func(t *T) {
		AssertBodyContains(t, textResponse(200, "<title>Posts</title>"), "Posts")
		AssertBodyContains(t, textResponse(200, "<title>Posts</title>"), "Register")
	})

	assert.False(t, results.OK())
}

func TestAssertHeader(t *testing.T) {
	results := runWithT(func(t *T) {
		resp := textResponse(200, "")
		AssertHeader(t, resp, "Content-Type", "text/html; charset=utf-8")
	})

	assert.True(t, results.OK())
}

func TestAssertRedirectsTo(t *testing.T) {
	redirect := &webapp.Response{
		StatusCode: http.StatusFound,
		Header:     http.Header{"Location": []string{"/auth/login"}},
	}
	results := runWithT(func(t *T) {
		AssertRedirectsTo(t, redirect, "/auth/login")
	})
	assert.True(t, results.OK())

	notRedirect := runWithT(func(t *T) {
		AssertRedirectsTo(t, textResponse(200, ""), "/auth/login")
	})
	assert.False(t, notRedirect.OK())
}

func TestAssertJSONField(t *testing.T) {
	resp := &webapp.Response{
		StatusCode: 200,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       []byte(`{"framework": {"name": "flask", "lang": "python"}}`),
	}

	good := runWithT(func(t *T) {
		AssertJSONField(t, resp, "flask", "framework", "name")
	})
	assert.True(t, good.OK())

	wrongValue := runWithT(func(t *T) {
		AssertJSONField(t, resp, "django", "framework", "name")
	})
	assert.False(t, wrongValue.OK())

	missingPath := runWithT(func(t *T) {
		AssertJSONField(t, resp, "flask", "framework", "version")
	})
	require.False(t, missingPath.OK())
	assert.Contains(t, errorsAsText(missingPath.Failures[0]), "could not read")
}
