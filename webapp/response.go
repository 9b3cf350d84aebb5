package webapp

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Response is the outcome of one Client request, after any redirects were followed.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) Text() string { return string(r.Body) }

func (r *Response) JSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// Location returns the Location header, which is set on redirect responses.
func (r *Response) Location() string { return r.Header.Get("Location") }
