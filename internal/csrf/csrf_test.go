package csrf

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter issues a token on GET /token and accepts POST /submit only with a valid one
func newTestRouter(t *testing.T, g *Guard) *gin.Engine {
	t.Helper()
	forbidden := func(c *gin.Context) {
		c.String(http.StatusForbidden, "forbidden")
	}
	r := gin.New()
	r.Use(g.Sessions())
	r.GET("/token", g.Protect(forbidden), func(c *gin.Context) {
		c.String(http.StatusOK, g.Token(c))
	})
	r.POST("/submit", g.Protect(forbidden), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func getToken(t *testing.T, r http.Handler, cookies []*http.Cookie) (string, []*http.Cookie) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/token", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /token = %d: %s", w.Code, w.Body.String())
	}
	return w.Body.String(), w.Result().Cookies()
}

func submit(r http.Handler, token string, cookies []*http.Cookie) int {
	form := url.Values{}
	if token != "" {
		form.Set(FieldName, token)
	}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestTokenRoundTrip(t *testing.T) {
	g, err := New(Options{Secret: "test-secret"})
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRouter(t, g)

	token, cookies := getToken(t, r, nil)
	if token == "" {
		t.Fatal("empty token")
	}
	if len(cookies) == 0 || cookies[0].Name != DefaultCookieName {
		t.Fatalf("session cookie not set: %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Errorf("session cookie should be HttpOnly")
	}
	if cookies[0].SameSite != http.SameSiteLaxMode {
		t.Errorf("session cookie SameSite = %v, want Lax", cookies[0].SameSite)
	}

	if code := submit(r, token, cookies); code != http.StatusNoContent {
		t.Errorf("valid token: got %d, want %d", code, http.StatusNoContent)
	}
	// tokens are reusable within the session
	if code := submit(r, token, cookies); code != http.StatusNoContent {
		t.Errorf("second use of token: got %d, want %d", code, http.StatusNoContent)
	}
}

func TestVerifyRejects(t *testing.T) {
	g, err := New(Options{Secret: "test-secret"})
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRouter(t, g)
	token, cookies := getToken(t, r, nil)
	otherToken, otherCookies := getToken(t, r, nil)

	testCases := []struct {
		name    string
		token   string
		cookies []*http.Cookie
	}{
		{"no token", "", cookies},
		{"no cookie", token, nil},
		{"garbage token", "not-a-token", cookies},
		{"tampered token", token + "x", cookies},
		{"token of another session", otherToken, cookies},
		{"cookie of another session", token, otherCookies},
	}
	for _, tc := range testCases {
		if code := submit(r, tc.token, tc.cookies); code != http.StatusForbidden {
			t.Errorf("%s: got %d, want %d", tc.name, code, http.StatusForbidden)
		}
	}
}

func TestSessionKeepsToken(t *testing.T) {
	g, err := New(Options{Secret: "test-secret"})
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRouter(t, g)
	first, cookies := getToken(t, r, nil)
	second, _ := getToken(t, r, cookies)
	if second != first {
		t.Errorf("token changed within the session: %q != %q", first, second)
	}
	if code := submit(r, second, cookies); code != http.StatusNoContent {
		t.Errorf("got %d, want %d", code, http.StatusNoContent)
	}
}

func TestDifferentSecretsDoNotShareSessions(t *testing.T) {
	g1, _ := New(Options{Secret: "one"})
	g2, _ := New(Options{Secret: "two"})
	token, cookies := getToken(t, newTestRouter(t, g1), nil)
	if code := submit(newTestRouter(t, g2), token, cookies); code != http.StatusForbidden {
		t.Errorf("cookie from another secret: got %d, want %d", code, http.StatusForbidden)
	}
}

func TestHeaderToken(t *testing.T) {
	g, _ := New(Options{})
	r := newTestRouter(t, g)
	token, cookies := getToken(t, r, nil)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set(HeaderName, token)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("header token: got %d, want %d", w.Code, http.StatusNoContent)
	}
}

func TestDeriveKeysIndependent(t *testing.T) {
	keys, err := deriveKeys([]byte("secret"), 3)
	if err != nil {
		t.Fatal(err)
	}
	if string(keys[0]) == string(keys[1]) || string(keys[1]) == string(keys[2]) {
		t.Error("derived keys repeat")
	}
	again, _ := deriveKeys([]byte("secret"), 3)
	if string(again[2]) != string(keys[2]) {
		t.Error("key derivation is not deterministic")
	}
}
