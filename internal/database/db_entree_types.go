package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-while/go-entrees/internal/models"
)

// GetEntreeTypes returns all entree types ordered by name
func (db *Database) GetEntreeTypes(ctx context.Context) ([]*models.EntreeType, error) {
	if db.EntreeTypeCache != nil {
		if types, ok := db.EntreeTypeCache.Get(); ok {
			return types, nil
		}
	}
	types, err := db.queryEntreeTypes(ctx)
	if err != nil {
		return nil, err
	}
	if db.EntreeTypeCache != nil {
		db.EntreeTypeCache.Set(types)
	}
	return types, nil
}

// invalidateEntreeTypes drops the cached list after a write
func (db *Database) invalidateEntreeTypes() {
	if db.EntreeTypeCache != nil {
		db.EntreeTypeCache.Clear()
	}
}

func (db *Database) queryEntreeTypes(ctx context.Context) ([]*models.EntreeType, error) {
	rows, err := db.retryableQuery(ctx, `SELECT id, name, is_vegetarian FROM entree_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entree types: %w", err)
	}
	defer rows.Close()

	var types []*models.EntreeType
	for rows.Next() {
		t := &models.EntreeType{}
		if err := rows.Scan(&t.ID, &t.Name, &t.IsVegetarian); err != nil {
			return nil, fmt.Errorf("failed to scan entree type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// GetEntreeTypeByID returns one entree type; ErrUnknownEntreeType when it does not exist
func (db *Database) GetEntreeTypeByID(ctx context.Context, id int64) (*models.EntreeType, error) {
	t := &models.EntreeType{}
	err := db.retryableQueryRowScan(ctx, `SELECT id, name, is_vegetarian FROM entree_types WHERE id = ?`,
		[]interface{}{id}, &t.ID, &t.Name, &t.IsVegetarian)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownEntreeType, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entree type %d: %w", id, err)
	}
	return t, nil
}

// GetEntreeTypeByName returns one entree type; ErrUnknownEntreeType when it does not exist
func (db *Database) GetEntreeTypeByName(ctx context.Context, name string) (*models.EntreeType, error) {
	t := &models.EntreeType{}
	err := db.retryableQueryRowScan(ctx, `SELECT id, name, is_vegetarian FROM entree_types WHERE name = ?`,
		[]interface{}{name}, &t.ID, &t.Name, &t.IsVegetarian)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntreeType, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entree type %q: %w", name, err)
	}
	return t, nil
}

// CountEntreeTypes returns the number of entree types
func (db *Database) CountEntreeTypes(ctx context.Context) (int64, error) {
	var count int64
	if err := db.retryableQueryRowScan(ctx, `SELECT COUNT(*) FROM entree_types`, nil, &count); err != nil {
		return 0, fmt.Errorf("failed to count entree types: %w", err)
	}
	return count, nil
}

// AddEntreeType inserts a new entree type and sets its ID
func (db *Database) AddEntreeType(ctx context.Context, t *models.EntreeType) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return models.ErrNameRequired
	}
	id, err := db.insertReturningID(ctx, `INSERT INTO entree_types (name, is_vegetarian) VALUES (?, ?)`, t.Name, t.IsVegetarian)
	if err != nil {
		return fmt.Errorf("failed to add entree type %q: %w", t.Name, err)
	}
	t.ID = id
	db.invalidateEntreeTypes()
	return nil
}

// DeleteEntreeType removes an entree type that no entree references
func (db *Database) DeleteEntreeType(ctx context.Context, name string) error {
	t, err := db.GetEntreeTypeByName(ctx, name)
	if err != nil {
		return err
	}
	var refs int64
	if err := db.retryableQueryRowScan(ctx, `SELECT COUNT(*) FROM entrees WHERE entree_type_id = ?`, []interface{}{t.ID}, &refs); err != nil {
		return fmt.Errorf("failed to count entrees of type %q: %w", name, err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: %q has %d entrees", ErrEntreeTypeInUse, name, refs)
	}
	if _, err := db.retryableExec(ctx, `DELETE FROM entree_types WHERE id = ?`, t.ID); err != nil {
		return fmt.Errorf("failed to delete entree type %q: %w", name, err)
	}
	db.invalidateEntreeTypes()
	return nil
}

// SeedEntreeTypes inserts every given entree type whose name is not present yet
func (db *Database) SeedEntreeTypes(ctx context.Context, types []models.EntreeType) (int, error) {
	existing, err := db.queryEntreeTypes(ctx)
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, t := range existing {
		have[t.Name] = true
	}

	added := 0
	for _, t := range types {
		if have[t.Name] {
			continue
		}
		et := t
		if err := db.AddEntreeType(ctx, &et); err != nil {
			return added, err
		}
		have[et.Name] = true
		added++
	}
	return added, nil
}

// insertReturningID runs an INSERT and returns the generated primary key
func (db *Database) insertReturningID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if db.dialect.UseReturning() {
		var id int64
		err := db.retryableQueryRowScan(ctx, query+" RETURNING id", args, &id)
		return id, err
	}
	res, err := db.retryableExec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
