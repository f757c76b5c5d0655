package portfolio

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the property does not exist.
	ErrNotFound = errors.New("portfolio: property not found")
	// ErrNoCredential indicates no billing credential is configured for the
	// property. Statement generation must fail hard on this, never default.
	ErrNoCredential = errors.New("portfolio: no credential configured for property")
)

// Property is one managed rental unit owned by an account.
type Property struct {
	ID            string
	OwnerID       string
	Name          string
	Address       string
	OwnerEmail    string
	BillingAPIKey string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks required fields before persistence.
func (p Property) Validate() error {
	if p.ID == "" {
		return errors.New("portfolio: property id required")
	}
	if p.OwnerID == "" {
		return errors.New("portfolio: owner id required")
	}
	if p.Name == "" {
		return errors.New("portfolio: property name required")
	}
	return nil
}
