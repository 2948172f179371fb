package theme

import (
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// SessionName is the cookie that carries the theme preference.
	SessionName = "folio_theme"
	sessionKey  = "theme"
	// one year
	sessionMaxAge = 365 * 24 * 60 * 60
)

// SessionStore persists the theme in a gorilla session cookie. It needs the
// echo-contrib session middleware on the request.
type SessionStore struct {
	c echo.Context
}

func NewSessionStore(c echo.Context) *SessionStore {
	return &SessionStore{c: c}
}

// Load ignores malformed values so a stale cookie falls back to the default.
func (s *SessionStore) Load() (Theme, bool, error) {
	sess, err := session.Get(SessionName, s.c)
	if err != nil {
		return "", false, err
	}
	raw, _ := sess.Values[sessionKey].(string)
	t, err := Parse(raw)
	if err != nil {
		return "", false, nil
	}
	return t, true, nil
}

func (s *SessionStore) Save(t Theme) error {
	sess, err := session.Get(SessionName, s.c)
	if err != nil {
		return err
	}
	sess.Values[sessionKey] = string(t)
	sess.Options.MaxAge = sessionMaxAge
	return sess.Save(s.c.Request(), s.c.Response())
}
