// Package web provides the HTTP server and web interface for go-entrees
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-entrees/internal/config"
	"github.com/go-while/go-entrees/internal/models"
)

// Store is the persistence the web handlers depend on
type Store interface {
	GetEntreeTypes(ctx context.Context) ([]*models.EntreeType, error)
	GetEntreeListing(ctx context.Context) ([]*models.EntreeListing, error)
	CreateEntree(ctx context.Context, e *models.Entree) error
}

// CSRFGuard issues form tokens and rejects unsafe requests without one
type CSRFGuard interface {
	Sessions() gin.HandlerFunc
	Protect(onFailure gin.HandlerFunc) gin.HandlerFunc
	Token(c *gin.Context) string
}

// WebServer represents the web server
type WebServer struct {
	DB         Store
	Router     *gin.Engine
	Config     *config.WebConfig
	CSRF       CSRFGuard
	templates  Templates
	StartTime  time.Time // Track server start time for uptime calculations
	httpServer *http.Server
}

// TemplateData represents common template data
type TemplateData struct {
	Title       string
	CurrentTime string
	Port        int
	AppVersion  string
}

// NewServer creates a new web server instance
func NewServer(db Store, webconfig *config.WebConfig, guard CSRFGuard, templates Templates) *WebServer {
	mode := webconfig.GinMode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	if webconfig.Debug {
		mode = gin.DebugMode
	}
	gin.SetMode(mode)

	router := gin.New()

	// Configure Gin to trust reverse proxy headers
	// Set trusted proxies for common reverse proxy setups (nginx, etc.)
	router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy like nginx with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	server := &WebServer{
		DB:        db,
		Router:    router,
		Config:    webconfig,
		CSRF:      guard,
		templates: templates,
		StartTime: time.Now(),
	}
	server.httpServer = &http.Server{
		Addr:              ":" + strconv.Itoa(webconfig.ListenPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	router.Use(secure.New(secureConfig))
	router.Use(server.ApacheLogFormat())
	router.Use(gin.Recovery())
	router.Use(guard.Sessions())

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	// Static files first (highest priority)
	s.Router.GET("/static/*filepath", EmbeddedStaticHandler("/static"))
	s.Router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	s.Router.GET("/", s.entreesPage)
	protect := s.CSRF.Protect(s.csrfFailed)
	s.Router.GET("/entrees/new", protect, s.newEntreePage)
	s.Router.POST("/entrees", protect, s.createEntree)

	s.Router.NoRoute(func(c *gin.Context) {
		s.renderError(c, http.StatusNotFound, "Page not found", c.Request.URL.Path)
	})
}

// Start starts the web server with SSL support if configured.
// It returns http.ErrServerClosed after Shutdown.
func (s *WebServer) Start() error {
	addr := s.httpServer.Addr
	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		log.Printf("[WEB]: Starting HTTPS server on %s", addr)
		return s.httpServer.ListenAndServeTLS(s.Config.CertFile, s.Config.KeyFile)
	}
	log.Printf("[WEB]: Starting HTTP server on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Uptime returns how long ago the server was created
func (s *WebServer) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// Shutdown stops accepting connections and waits for active requests until ctx expires
func (s *WebServer) Shutdown(ctx context.Context) error {
	log.Printf("[WEB]: Shutting down after %s uptime", s.Uptime().Round(time.Second))
	return s.httpServer.Shutdown(ctx)
}

func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}
