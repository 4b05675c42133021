package models

import (
	"fmt"

	"github.com/go-playground/validator"
)

var validate = validator.New()

// Validate checks the search parameters against the search flow rules:
// a known seriya and a 6-digit numeric code.
func (p SearchParams) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid search params: %w", err)
	}
	return nil
}

// Validate checks the creation payload against the create flow rules:
// a known seriya, a 7-digit numeric code and a known record type.
func (d CreateRecordData) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid record data: %w", err)
	}
	return nil
}
