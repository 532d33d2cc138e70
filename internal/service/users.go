package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"consciousbet/internal/cache"
	"consciousbet/internal/domain"

	"github.com/sirupsen/logrus"
)

// UpdateUser carries the profile fields to change; nil fields are left alone
type UpdateUser struct {
	Name  *string
	Email *string
	Age   *int
}

// UserService manages user profiles
type UserService struct {
	store domain.Store
	cache Cache
}

func NewUserService(store domain.Store, c Cache) *UserService {
	if c == nil {
		c = cache.Nop{}
	}
	return &UserService{store: store, cache: c}
}

// Create stores a new profile; the email must not belong to another user or login
func (s *UserService) Create(ctx context.Context, user *domain.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		if err := emailInUse(ctx, tx, user.Email, 0); err != nil {
			return err
		}
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("User created")
	return nil
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, "user", id)
	}
	return user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, missing(err, "user with email", email)
	}
	return user, nil
}

func (s *UserService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.store.Users().ExistsByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.store.Users().List(ctx)
}

func (s *UserService) Page(ctx context.Context, page domain.Page) ([]domain.User, int64, error) {
	return s.store.Users().ListPage(ctx, page)
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.store.Users().Count(ctx)
}

// Update applies the non-nil fields of in; a new email must not belong to another user or login
func (s *UserService) Update(ctx context.Context, id uint, in UpdateUser) (*domain.User, error) {
	var user *domain.User
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		var err error
		if user, err = tx.Users().FindByID(ctx, id); err != nil {
			return missing(err, "user", id)
		}
		if in.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*in.Email))
			if email != user.Email {
				if err := emailInUse(ctx, tx, email, id); err != nil {
					return err
				}
				user.Email = email
			}
		}
		if in.Name != nil {
			user.Name = *in.Name
		}
		if in.Age != nil {
			user.Age = *in.Age
		}
		return tx.Users().Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	logrus.WithField("user_id", id).Info("User updated")
	return user, nil
}

// Delete removes the profile together with its bets and login
func (s *UserService) Delete(ctx context.Context, id uint) error {
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		if _, err := tx.Users().FindByID(ctx, id); err != nil {
			return missing(err, "user", id)
		}
		if err := tx.Users().Delete(ctx, id); err != nil {
			return err
		}
		return tx.Credentials().DeleteByUserID(ctx, id) // Only the login this profile owns
	})
	if err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, cache.UserKeys(id)...); err != nil {
		cacheFailed("invalidate", id, err)
	}
	logrus.WithField("user_id", id).Info("User deleted")
	return nil
}

// emailInUse fails with ErrConflict when email names another user's profile or a
// login not owned by self. Logins without a profile, like the seeded admin, count as taken.
func emailInUse(ctx context.Context, tx domain.Store, email string, self uint) error {
	exists, err := tx.Users().ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return emailTaken(email)
	}
	cred, err := tx.Credentials().FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case !cred.OwnedBy(self):
		return emailTaken(email)
	}
	return nil
}

func emailTaken(email string) error {
	return fmt.Errorf("email %s is already in use: %w", email, domain.ErrConflict)
}
