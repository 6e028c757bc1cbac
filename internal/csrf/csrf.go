// Package csrf wires CSRF protection for the entree form.
//
// github.com/utrack/gin-csrf keeps a per-session salt in an encrypted cookie
// session and expects salt-bound tokens back on unsafe requests.
package csrf

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	gincsrf "github.com/utrack/gin-csrf"
	"golang.org/x/crypto/hkdf"
)

const (
	FieldName         = "_csrf"
	HeaderName        = "X-CSRF-Token"
	DefaultCookieName = "entrees_session"
)

// Options configures a Guard
type Options struct {
	Secret     string // server secret all keys are derived from; empty generates one
	CookieName string
	Secure     bool // send the session cookie over HTTPS only
	MaxAge     int  // seconds; 0 keeps the cookie for the browser session
}

// Guard issues tokens for forms and rejects unsafe requests without a valid one
type Guard struct {
	store       cookie.Store
	cookieName  string
	tokenSecret string
}

// New creates a Guard whose cookie and token keys are derived from opts.Secret
func New(opts Options) (*Guard, error) {
	secret := []byte(opts.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		log.Printf("[CSRF] No session secret configured, sessions will not survive a restart")
	}

	keys, err := deriveKeys(secret, 3)
	if err != nil {
		return nil, err
	}

	store := cookie.NewStore(keys[0], keys[1])
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	name := opts.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	return &Guard{
		store:       store,
		cookieName:  name,
		tokenSecret: base64.RawURLEncoding.EncodeToString(keys[2]),
	}, nil
}

// deriveKeys expands the server secret into n independent 32 byte keys:
// cookie authentication, cookie encryption and token signing
func deriveKeys(secret []byte, n int) ([][]byte, error) {
	kdf := hkdf.New(sha256.New, secret, nil, []byte("go-entrees session cookie"))
	keys := make([][]byte, n)
	for i := range keys {
		keys[i] = make([]byte, 32)
		if _, err := io.ReadFull(kdf, keys[i]); err != nil {
			return nil, fmt.Errorf("failed to derive key %d: %w", i, err)
		}
	}
	return keys, nil
}

// Sessions returns the middleware that loads the session cookie
func (g *Guard) Sessions() gin.HandlerFunc {
	return sessions.Sessions(g.cookieName, g.store)
}

// Protect returns the route middleware. Safe methods pass and may call Token;
// unsafe methods without a valid token get onFailure and the chain is aborted.
func (g *Guard) Protect(onFailure gin.HandlerFunc) gin.HandlerFunc {
	return gincsrf.Middleware(gincsrf.Options{
		Secret:      g.tokenSecret,
		TokenGetter: TokenFromRequest,
		ErrorFunc: func(c *gin.Context) {
			onFailure(c)
			c.Abort()
		},
	})
}

// Token returns the token of the request's session, creating the session salt when missing.
// It needs Protect on the route and must run before the response body is written.
func (g *Guard) Token(c *gin.Context) string {
	return gincsrf.GetToken(c)
}

// TokenFromRequest returns the token submitted in the form body or the request header
func TokenFromRequest(c *gin.Context) string {
	if token := c.PostForm(FieldName); token != "" {
		return token
	}
	return c.GetHeader(HeaderName)
}
