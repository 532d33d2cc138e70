// Package service holds the business operations behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"fmt"

	"consciousbet/internal/domain"

	"github.com/sirupsen/logrus"
)

// Cache is the read-model cache the services populate and invalidate
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

// missing names the looked-up entity when err is a not-found error
func missing(err error, what string, key any) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s %v: %w", what, key, domain.ErrNotFound)
	}
	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), domain.ErrValidation)
}

// cacheFailed logs a cache error; the request goes on against the database
func cacheFailed(op string, userID uint, err error) {
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"op":      op,
		"error":   err.Error(),
	}).Warn("Cache unavailable")
}
