// Package database provides database abstraction and management for go-entrees
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/go-while/go-entrees/internal/cache"
)

var (
	ErrUnknownEntreeType = errors.New("unknown entree type")
	ErrEntreeTypeInUse   = errors.New("entree type is referenced by entrees")
)

// Database wraps the main database connection and the SQL dialect spoken by its driver
type Database struct {
	mainDB  *sql.DB
	dialect Dialect

	// Database configuration
	dbconfig *DBConfig

	// nil when EntreeTypeCacheExpiry is 0
	EntreeTypeCache *cache.EntreeTypeCache

	closeOnce sync.Once
}

// Shutdown closes the main database
func (db *Database) Shutdown() error {
	var err error
	db.closeOnce.Do(func() {
		if db.mainDB == nil {
			return
		}
		log.Printf("[DATABASE] Closing %s database...", db.dialect.Name())
		if cerr := db.mainDB.Close(); cerr != nil {
			err = fmt.Errorf("failed to close main database: %w", cerr)
			return
		}
		log.Printf("[DATABASE] Main database closed")
	})
	return err
}
