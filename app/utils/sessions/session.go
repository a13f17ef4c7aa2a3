package sessions

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "catalog-session"

	tokenSessionKey = "sessionToken"
)

// SessionStore backs the page-redirect login flow. It stores the same signed
// session token the API carries in the token cookie, so both flows run
// through one verification path.
type SessionStore interface {
	GetToken(r *http.Request) string
	SetToken(w http.ResponseWriter, r *http.Request, token string) error
	ClearToken(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(time.Hour / time.Second),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		log.Printf("Error getting session: %v", err)
	}
	return session
}

func (c *CookieSessionStore) GetToken(r *http.Request) string {
	session := c.getSession(r)
	if session == nil {
		return ""
	}
	token, ok := session.Values[tokenSessionKey].(string)
	if !ok {
		return ""
	}
	return token
}

func (c *CookieSessionStore) SetToken(w http.ResponseWriter, r *http.Request, token string) error {
	session := c.getSession(r)
	if session == nil {
		return nil
	}
	session.Values[tokenSessionKey] = token
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearToken(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	if session == nil {
		return nil
	}
	delete(session.Values, tokenSessionKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
