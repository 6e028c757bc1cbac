package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-while/go-entrees/internal/models"
)

// CreateEntree validates the entree, checks its entree type and inserts it.
// On success e.ID holds the generated id.
func (db *Database) CreateEntree(ctx context.Context, e *models.Entree) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := db.GetEntreeTypeByID(ctx, e.EntreeTypeID); err != nil {
		return err
	}

	var description sql.NullString
	if e.Description != "" {
		description = sql.NullString{String: e.Description, Valid: true}
	}

	id, err := db.insertReturningID(ctx,
		`INSERT INTO entrees (name, description, price_cents, entree_type_id) VALUES (?, ?, ?, ?)`,
		e.Name, description, e.Price.Cents(), e.EntreeTypeID)
	if err != nil {
		return fmt.Errorf("failed to create entree %q: %w", e.Name, err)
	}
	e.ID = id
	return nil
}

// GetEntreeListing returns all entrees joined with their entree type, oldest first
func (db *Database) GetEntreeListing(ctx context.Context) ([]*models.EntreeListing, error) {
	rows, err := db.retryableQuery(ctx, `SELECT e.id, e.name, e.description, e.price_cents, e.entree_type_id,
		t.name, t.is_vegetarian
		FROM entrees e
		JOIN entree_types t ON t.id = e.entree_type_id
		ORDER BY e.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entrees: %w", err)
	}
	defer rows.Close()

	var listing []*models.EntreeListing
	for rows.Next() {
		var (
			l           models.EntreeListing
			description sql.NullString
			cents       int64
		)
		if err := rows.Scan(&l.ID, &l.Name, &description, &cents, &l.EntreeTypeID, &l.EntreeTypeName, &l.IsVegetarian); err != nil {
			return nil, fmt.Errorf("failed to scan entree: %w", err)
		}
		l.Description = description.String
		l.Price = models.Price(cents)
		listing = append(listing, &l)
	}
	return listing, rows.Err()
}

// CountEntrees returns the number of stored entrees
func (db *Database) CountEntrees(ctx context.Context) (int64, error) {
	var count int64
	if err := db.retryableQueryRowScan(ctx, `SELECT COUNT(*) FROM entrees`, nil, &count); err != nil {
		return 0, fmt.Errorf("failed to count entrees: %w", err)
	}
	return count, nil
}
