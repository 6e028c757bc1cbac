// Web server for go-entrees
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/go-while/go-entrees/internal/config"
	"github.com/go-while/go-entrees/internal/csrf"
	"github.com/go-while/go-entrees/internal/database"
	"github.com/go-while/go-entrees/internal/web"
)

var (
	// command-line flags
	webport     int
	webssl      bool
	webcertFile string
	webkeyFile  string
	dbDriver    string
	dbDSN       string
	pprofAddr   string

	Prof *prof.Profiler
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	flag.IntVar(&webport, "webport", 0, "Web server port (default: PORT from environment or .env, else 8081)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&dbDriver, "dbdriver", "", "Database driver: sqlite3, pgx or mysql (default: DB_DRIVER or sqlite3)")
	flag.StringVar(&dbDSN, "dbdsn", "", "Database DSN (default: DB_DSN, or a sqlite file in DB_DATA_DIR)")
	flag.StringVar(&pprofAddr, "pprof", "", "Serve pprof and write memory profiles, e.g. :51111 (default: off)")
	flag.Parse()

	log.Printf("Starting go-entrees: Web Server (version: %s)", appVersion)

	mainConfig, err := config.Load()
	if err != nil {
		log.Fatalf("[WEB]: Error loading configuration: %v", err)
	}
	webConfig := &mainConfig.Web

	// Override config with command-line flags if provided
	if webport > 0 {
		webConfig.ListenPort = webport
		log.Printf("[WEB]: Overriding listen port with command-line flag: %d", webConfig.ListenPort)
	} else {
		log.Printf("[WEB]: No port flag provided, using: %d", webConfig.ListenPort)
	}
	if webssl {
		webConfig.SSL = true
		log.Printf("[WEB]: SSL enabled via command-line flag")
	}
	if webcertFile != "" {
		webConfig.CertFile = webcertFile
		log.Printf("[WEB]: SSL cert file set: %s", webConfig.CertFile)
	}
	if webkeyFile != "" {
		webConfig.KeyFile = webkeyFile
		log.Printf("[WEB]: SSL key file set: %s", webConfig.KeyFile)
	}
	if dbDriver != "" {
		mainConfig.Database.Driver = dbDriver
	}
	if dbDSN != "" {
		mainConfig.Database.DSN = dbDSN
	}
	if err := mainConfig.Validate(); err != nil {
		log.Fatalf("[WEB]: Invalid configuration: %v", err)
	}

	if pprofAddr != "" {
		Prof = prof.NewProf()
		go Prof.PprofWeb(pprofAddr)
		Prof.StartMemProfile(5*time.Minute, 30*time.Second)
		log.Printf("[WEB]: pprof listening on %s", pprofAddr)
	}

	protocol := "http"
	if webConfig.SSL {
		protocol = "https"
	}
	log.Printf("[WEB]: Starting go-entrees web server on %s://localhost:%d", protocol, webConfig.ListenPort)

	ctx := context.Background()
	db, err := database.OpenDatabase(ctx, database.DBConfigFrom(mainConfig.Database))
	if err != nil {
		log.Fatalf("[WEB]: Failed to initialize database: %v", err)
	}

	guard, err := csrf.New(csrf.Options{
		Secret: webConfig.SessionSecret,
		Secure: webConfig.SSL,
	})
	if err != nil {
		log.Fatalf("[WEB]: Failed to initialize csrf guard: %v", err)
	}

	templates, err := web.LoadEmbeddedTemplates()
	if err != nil {
		log.Fatalf("[WEB]: Failed to load templates: %v", err)
	}

	server := web.NewServer(db, webConfig, guard, templates)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine so it doesn't block
	webServerErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			webServerErrChan <- err
		}
	}()
	log.Printf("[WEB]: Server started successfully. Press Ctrl+C to gracefully shutdown...")

	// Wait for either shutdown signal or server error
	select {
	case <-sigChan:
		log.Printf("[WEB]: Received shutdown signal, initiating graceful shutdown...")
	case err := <-webServerErrChan:
		log.Printf("[WEB]: Web server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WEB]: Error during HTTP shutdown: %v", err)
	}

	if db.EntreeTypeCache != nil {
		log.Printf("[WEB]: Entree type cache stats: %v", db.EntreeTypeCache.GetStats())
	}

	if err := db.Shutdown(); err != nil {
		log.Printf("[WEB]: Failed to shutdown database: %v", err)
	} else {
		log.Printf("[WEB]: Database shutdown completed successfully")
	}
	log.Printf("[WEB]: Graceful shutdown completed")
}
