package service

import (
	"context" // Request scoped context
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strings" // Email normalisation
	"time"    // Token expiry

	"consciousbet/internal/auth"   // Token issuing
	"consciousbet/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// Register is the input of AuthService.Register
type Register struct {
	Name     string
	Email    string
	Age      int
	Password string
}

// Session is a freshly issued token
type Session struct {
	Token     string
	Email     string
	Role      string
	ExpiresAt time.Time
}

var errBadCredentials = fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)

// AuthService registers accounts and issues tokens
type AuthService struct {
	store  domain.Store
	tokens *auth.Tokens
}

func NewAuthService(store domain.Store, tokens *auth.Tokens) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

// Register creates the user profile and its login in one transaction
func (s *AuthService) Register(ctx context.Context, in Register) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost) // Hash the password
	if err != nil {
		return nil, err
	}
	user := &domain.User{Name: in.Name, Email: email, Age: in.Age}
	err = s.store.Atomic(ctx, func(tx domain.Store) error {
		if err := emailInUse(ctx, tx, email, 0); err != nil {
			return err
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		return tx.Credentials().Create(ctx, &domain.Credential{
			UserID:       &user.ID, // Login belongs to the new profile
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleUser,
		})
	})
	if err != nil {
		return nil, err
	}
	// Log the registration
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,    // New user ID
		"email":   user.Email, // Login email
	}).Info("User registered")
	return user, nil
}

// Login checks the password and issues a token
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	cred, err := s.store.Credentials().FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errBadCredentials // Unknown email
	} else if err != nil {
		return nil, err
	}
	// Compare provided password with stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		logrus.WithField("email", cred.Email).Warn("Failed login")
		return nil, errBadCredentials
	}
	session, err := s.issue(cred)
	if err != nil {
		return nil, err
	}
	logrus.WithField("email", cred.Email).Info("User logged in")
	return session, nil
}

// Validate reports whether token is valid and, if so, whose it is
func (s *AuthService) Validate(token string) (string, bool) {
	email, err := s.tokens.SubjectOf(token)
	if err != nil {
		return "", false
	}
	return email, true
}

// Refresh trades a valid token for a new one, provided the login still exists
func (s *AuthService) Refresh(ctx context.Context, token string) (*Session, error) {
	email, err := s.tokens.SubjectOf(token)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", domain.ErrUnauthorized)
	}
	cred, err := s.store.Credentials().FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("login %s no longer exists: %w", email, domain.ErrUnauthorized)
	} else if err != nil {
		return nil, err
	}
	return s.issue(cred)
}

// Credential returns the login behind email
func (s *AuthService) Credential(ctx context.Context, email string) (*domain.Credential, error) {
	return s.store.Credentials().FindByEmail(ctx, email)
}

// EnsureAdmin creates the admin login unless one already exists for email.
// It reports whether a login was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.store.Credentials().FindByEmail(ctx, email)
	if err == nil {
		return false, nil // Already seeded
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	cred := &domain.Credential{Email: email, PasswordHash: string(hash), Role: domain.RoleAdmin}
	if err := s.store.Credentials().Create(ctx, cred); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return false, nil // Seeded concurrently
		}
		return false, err
	}
	logrus.WithField("email", cred.Email).Info("Admin user created")
	return true, nil
}

func (s *AuthService) issue(cred *domain.Credential) (*Session, error) {
	token, expires, err := s.tokens.Issue(cred.Email, cred.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Email: cred.Email, Role: cred.Role, ExpiresAt: expires}, nil
}
