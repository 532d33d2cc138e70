package domain

import "time"

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                       // Primary key
	Name      string    `gorm:"size:100;not null" json:"name"`              // Display name
	Email     string    `gorm:"size:150;uniqueIndex;not null" json:"email"` // Unique email, stored lower-cased
	Age       int       `gorm:"not null" json:"age"`                        // Age in years (18+)
	CreatedAt time.Time `json:"createdAt"`                                  // Creation timestamp
	UpdatedAt time.Time `json:"updatedAt"`                                  // Last update timestamp
}
