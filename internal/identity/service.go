// Package identity centralizes user resolution so every caller fails the
// same way on an unknown account.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gelvpress/gelv-backend/pkg/db/models"
	pkgerrors "github.com/gelvpress/gelv-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service resolves user accounts.
type Service struct {
	db *gorm.DB
}

// NewService builds the identity service.
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &Service{db: db}, nil
}

// WithTx returns a service bound to the provided transaction handle.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	if tx == nil {
		return s
	}
	return &Service{db: tx}
}

// ResolveByID loads a user by id, failing with a coded not-found error.
func (s *Service) ResolveByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return &user, nil
}

// ResolveByEmail loads a user by email, failing with a coded not-found error.
// Matching is case-insensitive on the normalized address.
func (s *Service) ResolveByEmail(ctx context.Context, email string) (*models.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "LOWER(email) = ?", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no account for this email")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return &user, nil
}
