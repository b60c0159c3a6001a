package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Status is the sale state shared by dishes and setmeals.
type Status int8

const (
	StatusDisabled Status = 0
	StatusEnabled  Status = 1
)

var (
	ErrEmptyName       = errors.New("name must not be empty")
	ErrNegativePrice   = errors.New("price must not be negative")
	ErrInvalidStatus   = errors.New("status must be 0 or 1")
	ErrInvalidCategory = errors.New("category id must be greater than zero")
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusDisabled || s == StatusEnabled
}

// Flavor is a named set of options offered for a dish, such as spiciness.
type Flavor struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Dish is a single sellable menu entry.
type Dish struct {
	ID          int64
	CategoryID  int64
	Name        string
	Image       string
	Description string
	Price       decimal.Decimal
	Status      Status
	Flavors     []Flavor
}

// Validate enforces dish invariants.
func (d *Dish) Validate() error {
	return validate(d.Name, d.CategoryID, d.Price, d.Status)
}

// Setmeal is a fixed-price combo bundling several dishes.
type Setmeal struct {
	ID          int64
	CategoryID  int64
	Name        string
	Image       string
	Description string
	Price       decimal.Decimal
	Status      Status
	DishIDs     []int64
}

// Validate enforces setmeal invariants.
func (s *Setmeal) Validate() error {
	return validate(s.Name, s.CategoryID, s.Price, s.Status)
}

func validate(name string, categoryID int64, price decimal.Decimal, status Status) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if categoryID <= 0 {
		return ErrInvalidCategory
	}
	if price.IsNegative() {
		return ErrNegativePrice
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
