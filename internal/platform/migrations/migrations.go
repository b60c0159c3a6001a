// Package migrations applies the relational schema of every bounded context.
package migrations

import (
	"errors"

	"gorm.io/gorm"

	addresssql "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/adapters/persistence/sqlstore"
	cartsql "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/adapters/persistence/sqlstore"
	catalogsql "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/adapters/persistence/sqlstore"
	ordersql "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/adapters/persistence/sqlstore"
)

var steps = []struct {
	name string
	run  func(*gorm.DB) error
}{
	{"catalog", catalogsql.AutoMigrate},
	{"address_book", addresssql.AutoMigrate},
	{"shopping_cart", cartsql.AutoMigrate},
	{"orders", ordersql.AutoMigrate},
}

// Run applies the schema for all bounded contexts in dependency order.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	var errs []error
	for _, step := range steps {
		if err := step.run(db); err != nil {
			errs = append(errs, &StepError{Step: step.name, Err: err})
		}
	}
	return errors.Join(errs...)
}

// StepError names the schema step that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return "migrate " + e.Step + ": " + e.Err.Error() }

func (e *StepError) Unwrap() error { return e.Err }
