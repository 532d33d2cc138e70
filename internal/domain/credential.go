package domain

// Roles a credential can carry
const (
	RoleUser  = "user"  // Regular account
	RoleAdmin = "admin" // Administrator, may delete users and bets
)

// Credential Model (login record, kept apart from the User profile)
type Credential struct {
	ID           uint   `gorm:"primaryKey"`                    // Primary key
	UserID       *uint  `gorm:"uniqueIndex"`                   // Owning profile; nil for the seeded admin
	Email        string `gorm:"size:150;uniqueIndex;not null"` // Login email, lower-cased
	PasswordHash string `gorm:"not null"`                      // Bcrypt hash
	Role         string `gorm:"size:16;not null;default:user"` // Role: user or admin
}

// OwnedBy reports whether the credential belongs to the profile userID
func (c Credential) OwnedBy(userID uint) bool {
	return c.UserID != nil && *c.UserID == userID
}

// IsAdmin reports whether the credential carries the admin role
func (c Credential) IsAdmin() bool {
	return c.Role == RoleAdmin
}
