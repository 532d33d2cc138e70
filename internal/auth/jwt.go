// Package auth issues and verifies the HS256 bearer tokens of the API.
package auth

import (
	"errors"  // Error wrapping
	"strings" // Header parsing
	"time"    // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrInvalidToken covers every malformed, forged or expired token
var ErrInvalidToken = errors.New("invalid token")

// JWT Claims
type Claims struct {
	Role                 string `json:"role"` // Custom claim for the caller role
	jwt.RegisteredClaims                      // Standard JWT claims; Subject is the login email
}

// Tokens signs and checks tokens with one shared secret
type Tokens struct {
	secret []byte           // HMAC key
	ttl    time.Duration    // Token lifetime
	now    func() time.Time // Clock
}

// NewTokens builds a token service; ttl is the lifetime of every issued token
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a token for subject carrying role
func (t *Tokens) Issue(subject, role string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	// Set token claims
	claims := Claims{
		Role: role, // Custom claim for role
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,                     // Login email
			ExpiresAt: jwt.NewNumericDate(expires), // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),     // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	signed, err := token.SignedString(t.secret)                // Sign the token with the secret
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Parse parses and validates a token string
func (t *Tokens) Parse(tokenStr string) (*Claims, error) {
	keyFunc := func(token *jwt.Token) (any, error) {
		return t.secret, nil // Return the secret key for validation
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), // Reject alg switching
		jwt.WithTimeFunc(t.now),
	)
	// Check for parsing errors
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.Subject != "" {
		return claims, nil // Return claims if valid
	}
	return nil, ErrInvalidToken
}

// Validate reports whether tokenStr is well-formed, correctly signed and unexpired
func (t *Tokens) Validate(tokenStr string) bool {
	_, err := t.Parse(tokenStr)
	return err == nil
}

// SubjectOf returns the subject of a valid token
func (t *Tokens) SubjectOf(tokenStr string) (string, error) {
	claims, err := t.Parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}
