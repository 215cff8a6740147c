package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

const (
	SessionIDKey = "sessionID"
	cookieName   = "storefront"
	cookieField  = "sid"
)

type SessionCookieOptions struct {
	Secure bool
	Domain string
	MaxAge time.Duration
}

// NewCookieStore signs the session cookie with key. The cookie only carries
// the session id; the session itself lives server side.
func NewCookieStore(key []byte, opts SessionCookieOptions) *sessions.CookieStore {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   int(opts.MaxAge.Seconds()),
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// SessionCookie puts the shopper's session id into the gin context under
// SessionIDKey, issuing a new id when the cookie is missing or unreadable.
// Every response re-issues the cookie so its expiry slides forward.
func SessionCookie(store sessions.Store, newID func() string, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Get(c.Request, cookieName)
		if err != nil {
			log.Debugf("Middleware: discarding unreadable session cookie: %v", err)
		}

		id, _ := sess.Values[cookieField].(string)
		if id == "" {
			id = newID()
			sess.Values[cookieField] = id
			log.Debugf("Middleware: issued new session %s", id)
		}
		if err := sess.Save(c.Request, c.Writer); err != nil {
			log.Errorf("Middleware: could not write session cookie: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not start session"})
			return
		}

		c.Set(SessionIDKey, id)
		c.Next()
	}
}
