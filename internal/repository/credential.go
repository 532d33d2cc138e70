package repository

import (
	"context"
	"strings"

	"consciousbet/internal/domain"

	"gorm.io/gorm"
)

// CredentialRepository stores login records in the credentials table
type CredentialRepository struct {
	db *gorm.DB
}

func (r *CredentialRepository) Create(ctx context.Context, cred *domain.Credential) error {
	cred.Email = strings.ToLower(cred.Email)
	return translate(r.db.WithContext(ctx).Create(cred).Error, "create credential")
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	var cred domain.Credential
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&cred).Error; err != nil {
		return nil, translate(err, "credential")
	}
	return &cred, nil
}

// DeleteByUserID removes the login of a profile; a missing login is not an error
func (r *CredentialRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Credential{}).Error
	return translate(err, "delete credential")
}
