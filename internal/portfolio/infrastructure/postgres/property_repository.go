package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	portfolio "owner-portal/internal/portfolio/domain"
)

// PropertyRepository persists properties.
type PropertyRepository struct {
	db *sql.DB
}

// NewPropertyRepository constructs a repository.
func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// Create inserts a property.
func (r *PropertyRepository) Create(ctx context.Context, p *portfolio.Property) error {
	if r == nil || r.db == nil {
		return errors.New("property repo: nil db")
	}
	if p == nil {
		return errors.New("property repo: nil property")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `
INSERT INTO properties (
	id, owner_id, name, address, owner_email, billing_api_key, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.OwnerID, p.Name, p.Address, p.OwnerEmail, p.BillingAPIKey, p.CreatedAt, p.UpdatedAt)
	return err
}

// Get fetches a property by id.
func (r *PropertyRepository) Get(ctx context.Context, id string) (*portfolio.Property, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("property repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, name, address, owner_email, billing_api_key, created_at, updated_at
FROM properties
WHERE id = $1
LIMIT 1`, id)
	return scanProperty(row)
}

// ListByOwner lists properties for one owner account; an empty owner id
// lists all properties.
func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]portfolio.Property, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("property repo: nil db")
	}
	query := `
SELECT id, owner_id, name, address, owner_email, billing_api_key, created_at, updated_at
FROM properties
ORDER BY created_at ASC`
	args := []any{}
	if ownerID != "" {
		query = `
SELECT id, owner_id, name, address, owner_email, billing_api_key, created_at, updated_at
FROM properties
WHERE owner_id = $1
ORDER BY created_at ASC`
		args = append(args, ownerID)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []portfolio.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		if p != nil {
			result = append(result, *p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update overwrites mutable fields.
func (r *PropertyRepository) Update(ctx context.Context, p *portfolio.Property) error {
	if r == nil || r.db == nil {
		return errors.New("property repo: nil db")
	}
	if p == nil {
		return errors.New("property repo: nil property")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE properties
SET name = $2, address = $3, owner_email = $4, billing_api_key = $5, updated_at = $6
WHERE id = $1`,
		p.ID, p.Name, p.Address, p.OwnerEmail, p.BillingAPIKey, p.UpdatedAt)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return portfolio.ErrNotFound
	}
	return nil
}

// BillingCredential resolves the billing API key for a property. A missing
// property or empty key yields ErrNoCredential.
func (r *PropertyRepository) BillingCredential(ctx context.Context, propertyID string) (string, error) {
	if r == nil || r.db == nil {
		return "", errors.New("property repo: nil db")
	}
	var key sql.NullString
	err := r.db.QueryRowContext(ctx, `
SELECT billing_api_key FROM properties WHERE id = $1 LIMIT 1`, propertyID).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", portfolio.ErrNoCredential
	}
	if err != nil {
		return "", err
	}
	if !key.Valid || key.String == "" {
		return "", portfolio.ErrNoCredential
	}
	return key.String, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (*portfolio.Property, error) {
	var p portfolio.Property
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Address, &p.OwnerEmail, &p.BillingAPIKey, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, portfolio.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
