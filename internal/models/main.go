// Package models defines the core data structures for users and blacklist records.
package models

import "time"

// PassportSeriya defines the set of valid passport series prefixes.
type PassportSeriya string

const (
	// SeriyaAD passport series "AD".
	SeriyaAD PassportSeriya = "AD"
	// SeriyaAB passport series "AB".
	SeriyaAB PassportSeriya = "AB"
	// SeriyaKA passport series "KA".
	SeriyaKA PassportSeriya = "KA"
	// SeriyaAE passport series "AE".
	SeriyaAE PassportSeriya = "AE"
	// SeriyaAC passport series "AC".
	SeriyaAC PassportSeriya = "AC"
)

// RecordType defines the set of valid blacklist record types.
type RecordType string

const (
	// TypeNasiyaMijoz marks a customer with an open installment debt.
	TypeNasiyaMijoz RecordType = "NasiyaMijoz"
	// TypePulTolamagan marks a customer who did not pay.
	TypePulTolamagan RecordType = "PulTolamagan"
)

// UserSummary represents the authenticated user as returned by the server.
// It is replaced wholesale on each fetch, never partially mutated.
type UserSummary struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Name is the display name of the user.
	Name string `json:"name"`
	// Username is the login name of the user.
	Username string `json:"username"`
	// Phone is the contact phone number of the user.
	Phone string `json:"phone"`
	// Role is the optional role of the user.
	Role string `json:"role,omitempty"`
}

// Record holds one blacklist entry. Records are immutable from the client's
// point of view: created once, deleted by ID, never updated in place.
type Record struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`
	// Name is the optional first name of the listed person.
	Name string `json:"name,omitempty"`
	// Surname is the optional last name of the listed person.
	Surname string `json:"surname,omitempty"`
	// PassportSeriya is the passport series prefix.
	PassportSeriya PassportSeriya `json:"passportSeriya"`
	// PassportCode is the numeric part of the passport number.
	PassportCode string `json:"passportCode"`
	// Type is the blacklist reason.
	Type RecordType `json:"type"`
	// UserID identifies the user who created the record.
	UserID string `json:"userId"`
	// User optionally embeds the creator's summary.
	User *UserSummary `json:"user,omitempty"`
	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"createdAt"`
}

// Credentials is the login request payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the successful login response payload.
type LoginResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// SearchParams identifies a passport for the public search flow.
// Search uses 6-digit codes; record creation uses 7-digit codes.
type SearchParams struct {
	PassportSeriya string `json:"passportSeriya" validate:"required,oneof=AD AB KA AE AC"`
	PassportCode   string `json:"passportCode" validate:"required,len=6,numeric"`
}

// CreateRecordData is the payload for creating a new blacklist record.
type CreateRecordData struct {
	Name           string `json:"name,omitempty" validate:"omitempty,max=100"`
	Surname        string `json:"surname,omitempty" validate:"omitempty,max=100"`
	PassportSeriya string `json:"passportSeriya" validate:"required,oneof=AD AB KA AE AC"`
	PassportCode   string `json:"passportCode" validate:"required,len=7,numeric"`
	Type           string `json:"type" validate:"required,oneof=NasiyaMijoz PulTolamagan"`
}
