// Package repository implements the domain repositories on top of GORM.
package repository

import (
	"context"
	"errors"
	"fmt"

	"consciousbet/internal/domain"

	"gorm.io/gorm"
)

// Store is the GORM backed domain.Store
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open GORM connection
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Users returns the user repository bound to this store's connection
func (s *Store) Users() domain.UserRepository {
	return &UserRepository{db: s.db}
}

// Bets returns the bet repository bound to this store's connection
func (s *Store) Bets() domain.BetRepository {
	return &BetRepository{db: s.db}
}

// Credentials returns the credential repository bound to this store's connection
func (s *Store) Credentials() domain.CredentialRepository {
	return &CredentialRepository{db: s.db}
}

// Atomic runs fn inside a database transaction
func (s *Store) Atomic(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx}) // Returning an error rolls back
	})
}

// translate maps GORM errors onto the domain taxonomy
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %w", what, err)
}
