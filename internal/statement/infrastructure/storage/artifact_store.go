package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	statement "owner-portal/internal/statement/domain"
)

// Store writes rendered report artifacts under a fixed root directory.
// Regeneration overwrites the previous artifact at the same path; there is
// no versioning and no locking, so concurrent writers race last-wins.
type Store struct {
	root string
}

// NewStore constructs a store rooted at dir, creating it if absent.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("artifact store: empty root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("artifact store: create root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the output directory.
func (s *Store) Root() string { return s.root }

// StatementFilename returns the artifact filename for a statement format,
// e.g. statement_prop-1_2026_08.pdf.
func StatementFilename(propertyID string, period statement.Period, ext string) string {
	return fmt.Sprintf("statement_%s_%s.%s", propertyID, period.Key(), ext)
}

// TaxFileFilename returns the SAFT artifact filename,
// e.g. saft_prop-1_2026_08.xml.
func TaxFileFilename(propertyID string, period statement.Period) string {
	return fmt.Sprintf("saft_%s_%s.xml", propertyID, period.Key())
}

// Write stores one artifact as a single full-buffer write and returns its
// absolute path.
func (s *Store) Write(filename string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("artifact store: nil store")
	}
	if filename == "" {
		return "", errors.New("artifact store: empty filename")
	}
	if len(data) == 0 {
		return "", errors.New("artifact store: empty artifact")
	}
	path := filepath.Join(s.root, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("artifact store: write %s: %w", filename, err)
	}
	return path, nil
}

// Open returns the stored artifact bytes.
func (s *Store) Open(filename string) ([]byte, error) {
	if s == nil {
		return nil, errors.New("artifact store: nil store")
	}
	data, err := os.ReadFile(filepath.Join(s.root, filename))
	if err != nil {
		return nil, fmt.Errorf("artifact store: read %s: %w", filename, err)
	}
	return data, nil
}
