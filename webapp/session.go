package webapp

import (
	"crypto/sha256"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
)

const sessionCookieName = "session"

// Session is the signed, cookie-backed state that persists across requests from the
// same client. Values round-trip through JSON, so numbers come back as float64; use
// the typed getters when that matters.
type Session map[string]interface{}

func (s Session) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s Session) String(key string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return ""
}

func (s Session) Int(key string) (int, bool) {
	switch v := s[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func newSessionCodec(secretKey string) *securecookie.SecureCookie {
	hashKey := sha256.Sum256([]byte(secretKey))
	codec := securecookie.New(hashKey[:], nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	return codec
}

// Session returns the session carried by the request, or an empty session if the
// request has no session cookie or the cookie fails signature validation.
func (a *App) Session(r *http.Request) Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return Session{}
	}
	var s Session
	if err := a.codec.Decode(sessionCookieName, cookie.Value, &s); err != nil {
		a.logger.Warn().Err(err).Msg("discarding invalid session cookie")
		return Session{}
	}
	return s
}

// SetSession writes the session to the response as a signed cookie, replacing any
// session the client had.
func (a *App) SetSession(w http.ResponseWriter, s Session) error {
	encoded, err := a.codec.Encode(sessionCookieName, s)
	if err != nil {
		return fmt.Errorf("could not encode session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
	})
	return nil
}

// ClearSession tells the client to drop its session cookie.
func (a *App) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
