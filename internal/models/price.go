package models

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidPrice = errors.New("invalid price")

var priceRe = regexp.MustCompile(`^(\d+)(?:\.(\d+))?$`)

// maxWhole keeps whole*100 plus rounding inside int64
const maxWhole = (math.MaxInt64 - 100) / 100

// Price is a decimal amount stored as cents
type Price int64

// ParsePrice parses a decimal string like "12", "12.5" or "12.50".
// Digits beyond the cents are rounded half up.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: price is required", ErrInvalidPrice)
	}
	m := priceRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q is not a decimal amount", ErrInvalidPrice, s)
	}
	whole, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || whole > maxWhole {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidPrice, s)
	}

	frac := m[2]
	roundUp := len(frac) > 2 && frac[2] >= '5'
	if len(frac) > 2 {
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPrice, err)
	}
	if roundUp {
		cents++
	}

	p := Price(whole*100 + cents)
	if err := p.Validate(); err != nil {
		return 0, err
	}
	return p, nil
}

// Validate reports whether the price is positive
func (p Price) Validate() error {
	if p <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidPrice)
	}
	return nil
}

// Cents returns the price in cents
func (p Price) Cents() int64 {
	return int64(p)
}

func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", int64(p)/100, int64(p)%100)
}
