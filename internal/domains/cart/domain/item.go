package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrAmbiguousSelection = errors.New("exactly one of dish id or setmeal id must be set")
	ErrInvalidNumber      = errors.New("cart item number must be greater than zero")
)

// Selection identifies a catalog entry as the customer picks it.
type Selection struct {
	DishID     *int64
	SetmealID  *int64
	DishFlavor string
}

// Validate enforces that the selection points at exactly one dish or one setmeal.
func (s Selection) Validate() error {
	hasDish := s.DishID != nil && *s.DishID > 0
	hasSetmeal := s.SetmealID != nil && *s.SetmealID > 0
	if hasDish == hasSetmeal {
		return ErrAmbiguousSelection
	}
	return nil
}

// Item is one line of a user's shopping cart.
type Item struct {
	ID         int64
	UserID     int64
	Name       string
	Image      string
	DishID     *int64
	SetmealID  *int64
	DishFlavor string
	Number     int32
	Amount     decimal.Decimal
	CreateTime time.Time
}

// NewItem builds a fresh line with quantity one.
func NewItem(userID int64, sel Selection, name, image string, amount decimal.Decimal, now time.Time) (*Item, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	return &Item{
		UserID:     userID,
		Name:       name,
		Image:      image,
		DishID:     cloneID(sel.DishID),
		SetmealID:  cloneID(sel.SetmealID),
		DishFlavor: sel.DishFlavor,
		Number:     1,
		Amount:     amount,
		CreateTime: now,
	}, nil
}

// Increment adds one unit.
func (i *Item) Increment() {
	i.Number++
}

// Decrement removes one unit and reports whether the line should be deleted.
func (i *Item) Decrement() (remove bool) {
	if i.Number <= 1 {
		return true
	}
	i.Number--
	return false
}

// Clone returns a deep copy.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	c.DishID = cloneID(i.DishID)
	c.SetmealID = cloneID(i.SetmealID)
	return &c
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
