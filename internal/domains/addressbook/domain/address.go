package domain

import (
	"errors"
	"strings"
)

var (
	ErrMissingConsignee = errors.New("consignee is required")
	ErrMissingPhone     = errors.New("phone is required")
	ErrMissingDetail    = errors.New("address detail is required")
)

// Address is a delivery address owned by one user.
type Address struct {
	ID           int64
	UserID       int64
	Consignee    string
	Sex          string
	Phone        string
	ProvinceName string
	CityName     string
	DistrictName string
	Detail       string
	Label        string
	IsDefault    bool
}

// Validate checks the fields an order snapshot depends on.
func (a *Address) Validate() error {
	switch {
	case strings.TrimSpace(a.Consignee) == "":
		return ErrMissingConsignee
	case strings.TrimSpace(a.Phone) == "":
		return ErrMissingPhone
	case strings.TrimSpace(a.Detail) == "":
		return ErrMissingDetail
	}
	return nil
}

// FullAddress composes province, city, district and detail without separators.
func (a *Address) FullAddress() string {
	return a.ProvinceName + a.CityName + a.DistrictName + a.Detail
}

func (a *Address) Clone() *Address {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}
