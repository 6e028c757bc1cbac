package database

import (
	"context"
	"database/sql"
	"log"
	"math/rand"
	"strings"
	"time"
)

const (
	maxRetries = 50
	baseDelay  = 10 * time.Millisecond
	maxDelay   = 25 * time.Millisecond
)

// isRetryableError checks if the error is a retryable SQLite error
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked") ||
		strings.Contains(errStr, "busy")
}

// retryDelay sleeps with backoff and jitter; it returns false when ctx is done
func retryDelay(ctx context.Context, attempt int) bool {
	delay := time.Duration(attempt+1) * baseDelay
	if delay > maxDelay {
		delay = maxDelay
	}

	// Add random jitter (up to 50% of delay)
	jitter := time.Duration(rand.Int63n(int64(delay) / 2))
	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay + jitter):
		return true
	}
}

// retryableExec executes a SQL statement with retry logic for lock conflicts
func (db *Database) retryableExec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	query = db.dialect.Rebind(query)
	var result sql.Result
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		result, err = db.mainDB.ExecContext(ctx, query, args...)

		if !db.dialect.Retryable() || !isRetryableError(err) {
			return result, err
		}

		log.Printf("[WARN] SQLite retry attempt %d/%d for query (first 50 chars): %s... Error: %v",
			attempt+1, maxRetries, truncateString(query, 50), err)
		if attempt < maxRetries-1 && !retryDelay(ctx, attempt) {
			return result, ctx.Err()
		}
	}

	return result, err
}

// retryableQuery executes a query that returns multiple rows with retry logic
func (db *Database) retryableQuery(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	query = db.dialect.Rebind(query)
	var rows *sql.Rows
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		rows, err = db.mainDB.QueryContext(ctx, query, args...)

		if !db.dialect.Retryable() || !isRetryableError(err) {
			return rows, err
		}

		log.Printf("[WARN] SQLite retry attempt %d/%d for query (first 50 chars): %s... Error: %v",
			attempt+1, maxRetries, truncateString(query, 50), err)
		if attempt < maxRetries-1 && !retryDelay(ctx, attempt) {
			return nil, ctx.Err()
		}
	}

	return rows, err
}

// retryableQueryRowScan executes a QueryRow and Scan with retry logic
func (db *Database) retryableQueryRowScan(ctx context.Context, query string, args []interface{}, dest ...interface{}) error {
	query = db.dialect.Rebind(query)
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err = db.mainDB.QueryRowContext(ctx, query, args...).Scan(dest...)

		if !db.dialect.Retryable() || !isRetryableError(err) {
			return err
		}

		log.Printf("[WARN] SQLite retry attempt %d/%d for QueryRow scan (first 50 chars): %s... Error: %v",
			attempt+1, maxRetries, truncateString(query, 50), err)
		if attempt < maxRetries-1 && !retryDelay(ctx, attempt) {
			return ctx.Err()
		}
	}

	return err
}
