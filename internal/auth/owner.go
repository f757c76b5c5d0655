package auth

import (
	"context"
	"database/sql"
	"errors"
)

// PropertyOwnerChecker validates property ownership for an account.
type PropertyOwnerChecker interface {
	EnsurePropertyOwner(ctx context.Context, accountID, propertyID string) error
}

// OwnerChecker checks property ownership against the portfolio table.
// Managers and admins pass the check for any property.
type OwnerChecker struct {
	db *sql.DB
}

// NewOwnerChecker constructs an OwnerChecker.
func NewOwnerChecker(db *sql.DB) *OwnerChecker {
	if db == nil {
		return nil
	}
	return &OwnerChecker{db: db}
}

// EnsurePropertyOwner verifies the property belongs to the account.
func (c *OwnerChecker) EnsurePropertyOwner(ctx context.Context, accountID, propertyID string) error {
	if c == nil || c.db == nil {
		return nil
	}
	if accountID == "" || propertyID == "" {
		return nil
	}
	if role := RoleFromContext(ctx); RoleAtLeast(role, RoleManager) {
		return nil
	}
	var ownerID string
	err := c.db.QueryRowContext(ctx, `
SELECT owner_id FROM properties WHERE id = $1 LIMIT 1`, propertyID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != accountID {
		return ErrOwnerMismatch
	}
	return nil
}
