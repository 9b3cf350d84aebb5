package webtest

import (
	"github.com/buger/jsonparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TotallyNotChase/flask-unittest/webapp"
)

// RequireStatus stops the test immediately unless the response has the wanted
// status code.
func RequireStatus(t *T, resp *webapp.Response, want int) {
	require.NotNil(t, resp)
	require.Equal(t, want, resp.StatusCode, "unexpected response status; body: %s", resp.Text())
}

// AssertStatus checks the response status code and reports a failure without
// stopping the test.
func AssertStatus(t *T, resp *webapp.Response, want int) bool {
	if !assert.NotNil(t, resp) {
		return false
	}
	return assert.Equal(t, want, resp.StatusCode, "unexpected response status; body: %s", resp.Text())
}

// AssertBodyContains checks that the response body contains the substring.
func AssertBodyContains(t *T, resp *webapp.Response, substring string) bool {
	if !assert.NotNil(t, resp) {
		return false
	}
	return assert.Contains(t, resp.Text(), substring)
}

// AssertHeader checks one response header.
func AssertHeader(t *T, resp *webapp.Response, name, want string) bool {
	if !assert.NotNil(t, resp) {
		return false
	}
	return assert.Equal(t, want, resp.Header.Get(name), "unexpected %s header", name)
}

// AssertRedirectsTo checks that the response is a redirect to the given location.
func AssertRedirectsTo(t *T, resp *webapp.Response, location string) bool {
	if !assert.NotNil(t, resp) {
		return false
	}
	ok := assert.True(t, isRedirectStatus(resp.StatusCode),
		"expected a redirect status, got %d; body: %s", resp.StatusCode, resp.Text())
	return assert.Equal(t, location, resp.Location()) && ok
}

// AssertJSONField checks one string field of a JSON response body. The path
// addresses nested objects, as in AssertJSONField(t, resp, "flask", "framework",
// "name").
func AssertJSONField(t *T, resp *webapp.Response, want string, path ...string) bool {
	if !assert.NotNil(t, resp) {
		return false
	}
	value, err := jsonparser.GetString(resp.Body, path...)
	if err != nil {
		t.Errorf("could not read %v from response body: %s (body: %s)", path, err, resp.Text())
		return false
	}
	return assert.Equal(t, want, value)
}

func isRedirectStatus(status int) bool {
	return status >= 300 && status < 400
}
