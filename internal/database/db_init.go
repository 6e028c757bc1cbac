package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite3 driver

	"github.com/go-while/go-entrees/internal/cache"
	"github.com/go-while/go-entrees/internal/config"
	"github.com/go-while/go-entrees/internal/models"
)

// SQLiteFileName is the database file created below DataDir when no DSN is configured
const SQLiteFileName = "entrees.sq3"

// DBConfig represents database configuration
type DBConfig struct {
	// Driver name: sqlite3, pgx or mysql
	Driver string
	// DSN for the driver; empty means a sqlite file below DataDir
	DSN string
	// Directory to store database files
	DataDir string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// SQLite performance settings
	WALMode   bool   // Write-Ahead Logging
	SyncMode  string // OFF, NORMAL, FULL
	CacheSize int    // KB

	// Seed the default entree types into an empty database
	SeedDefaults bool

	// How long GetEntreeTypes may serve a cached list; 0 disables the cache
	EntreeTypeCacheExpiry time.Duration
}

// DefaultDBConfig returns default database configuration
func DefaultDBConfig() *DBConfig {
	return &DBConfig{
		Driver:          "sqlite3",
		DataDir:         "./data",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 0, // Unlimited for SQLite - connections don't need to be recycled
		WALMode:         true,
		SyncMode:        "NORMAL",
		CacheSize:       -16384, // -16384 == 1024 KB * 16384 = 16MB cache
		SeedDefaults:    true,

		EntreeTypeCacheExpiry: time.Minute,
	}
}

// DBConfigFrom returns the default tuning with driver, DSN and data directory taken from cfg
func DBConfigFrom(cfg config.DatabaseConfig) *DBConfig {
	dbconfig := DefaultDBConfig()
	if cfg.Driver != "" {
		dbconfig.Driver = cfg.Driver
	}
	dbconfig.DSN = cfg.DSN
	if cfg.DataDir != "" {
		dbconfig.DataDir = cfg.DataDir
	}
	return dbconfig
}

// OpenDatabase opens the configured database, applies migrations and seeds reference data
func OpenDatabase(ctx context.Context, dbconfig *DBConfig) (*Database, error) {
	if dbconfig == nil {
		dbconfig = DefaultDBConfig()
	}
	dialect, err := DialectFor(dbconfig.Driver)
	if err != nil {
		return nil, err
	}

	db := &Database{
		dbconfig: dbconfig,
		dialect:  dialect,
	}
	if dbconfig.EntreeTypeCacheExpiry > 0 {
		db.EntreeTypeCache = cache.NewEntreeTypeCache(dbconfig.EntreeTypeCacheExpiry)
	}

	if err := db.initMainDB(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize main database: %w", err)
	}

	// Run migrations to ensure all tables exist
	if err := db.Migrate(ctx); err != nil {
		db.Shutdown()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	if dbconfig.SeedDefaults {
		count, err := db.CountEntreeTypes(ctx)
		if err != nil {
			db.Shutdown()
			return nil, err
		}
		if count == 0 {
			added, err := db.SeedEntreeTypes(ctx, models.DefaultEntreeTypes)
			if err != nil {
				db.Shutdown()
				return nil, fmt.Errorf("failed to seed entree types: %w", err)
			}
			log.Printf("[DATABASE] Seeded %d default entree types", added)
		}
	}

	log.Printf("[DATABASE] Database initialized: driver=%s", dialect.Name())
	return db, nil
}

// initMainDB initializes the main database connection
func (db *Database) initMainDB(ctx context.Context) error {
	dsn := db.dbconfig.DSN
	if db.dialect.Name() == "sqlite3" {
		if dsn == "" {
			if err := createDirIfNotExists(db.dbconfig.DataDir); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			dsn = filepath.Join(db.dbconfig.DataDir, SQLiteFileName)
		}
		dsn = db.sqliteDSN(dsn)
		log.Printf("[DATABASE] Initializing main database at: %s", dsn)
	}

	mainDB, err := sql.Open(db.dialect.DriverName(), dsn)
	if err != nil {
		return fmt.Errorf("failed to open main database: %w", err)
	}

	// Configure connection pool
	mainDB.SetMaxOpenConns(db.dbconfig.MaxOpenConns)
	mainDB.SetMaxIdleConns(db.dbconfig.MaxIdleConns)
	mainDB.SetConnMaxLifetime(db.dbconfig.ConnMaxLifetime)

	// Test connection
	if err := mainDB.PingContext(ctx); err != nil {
		if cerr := mainDB.Close(); cerr != nil {
			return fmt.Errorf("failed to ping main database: %w; also failed to close mainDB: %v", err, cerr)
		}
		return fmt.Errorf("failed to ping main database: %w", err)
	}

	db.mainDB = mainDB
	return nil
}

// sqliteDSN appends connection parameters to a sqlite file name.
// go-sqlite3 applies them on every new connection of the pool.
func (db *Database) sqliteDSN(path string) string {
	params := []string{
		"_foreign_keys=on",
		"_busy_timeout=30000", // 30 seconds
		fmt.Sprintf("_cache_size=%d", db.dbconfig.CacheSize),
	}
	if db.dbconfig.SyncMode != "" {
		params = append(params, "_synchronous="+db.dbconfig.SyncMode)
	}
	if db.dbconfig.WALMode {
		params = append(params, "_journal_mode=WAL")
	}
	sep := "?"
	for _, p := range params {
		path += sep + p
		sep = "&"
	}
	return path
}
