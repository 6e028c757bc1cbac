// Package models defines core data structures for go-entrees
package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxEntreeNameLength is the maximum number of characters in an entree name
const MaxEntreeNameLength = 70

var (
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = fmt.Errorf("name exceeds %d characters", MaxEntreeNameLength)
	ErrEntreeTypeRequired = errors.New("entree type is required")
)

// EntreeType represents a category of entree (e.g. Beef, Jackfruit)
type EntreeType struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	IsVegetarian bool   `json:"is_vegetarian" db:"is_vegetarian"`
}

// Entree represents a menu item
type Entree struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Description  string `json:"description" db:"description"` // empty means no description
	Price        Price  `json:"price" db:"price_cents"`
	EntreeTypeID int64  `json:"entree_type_id" db:"entree_type_id"`
}

// EntreeListing is an entree joined with its entree type for the main page
type EntreeListing struct {
	Entree
	EntreeTypeName string `json:"entree_type_name"`
	IsVegetarian   bool   `json:"is_vegetarian"`
}

// DefaultEntreeTypes is the reference data seeded into an empty database
var DefaultEntreeTypes = []EntreeType{
	{Name: "Beef", IsVegetarian: false},
	{Name: "Chicken", IsVegetarian: false},
	{Name: "Goat", IsVegetarian: false},
	{Name: "Jackfruit", IsVegetarian: true},
	{Name: "Plant-based", IsVegetarian: true},
	{Name: "Pork", IsVegetarian: false},
	{Name: "Soy", IsVegetarian: true},
}

// NormalizeName trims surrounding whitespace and applies NFC normalization
// so that length checks count what the user sees.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// NewEntree builds a validated Entree from raw submission values
func NewEntree(name, description, price string, entreeTypeID int64) (*Entree, error) {
	e := &Entree{
		Name:         NormalizeName(name),
		Description:  strings.TrimSpace(description),
		EntreeTypeID: entreeTypeID,
	}
	p, err := ParsePrice(price)
	if err != nil {
		return nil, err
	}
	e.Price = p
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks an entree before it is stored
func (e *Entree) Validate() error {
	if e.Name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(e.Name) > MaxEntreeNameLength {
		return ErrNameTooLong
	}
	if err := e.Price.Validate(); err != nil {
		return err
	}
	if e.EntreeTypeID <= 0 {
		return ErrEntreeTypeRequired
	}
	return nil
}
