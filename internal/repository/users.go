// Package repository holds the durable user store behind an interface so
// the service layer can be tested against fakes.
package repository

import (
	"context"
	"errors"
	"fmt"

	"bitwise74/auth-api/internal/model"

	"gorm.io/gorm"
)

var (
	// ErrDuplicateEmail is returned by Create when the unique email
	// constraint rejects the insert
	ErrDuplicateEmail = errors.New("email already registered")
	ErrNotFound       = errors.New("user not found")
)

type Users interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// SetVerified is idempotent, flagging an already verified user is a no-op
	SetVerified(ctx context.Context, email string) error
}

type GormUsers struct {
	db *gorm.DB
}

func NewGormUsers(db *gorm.DB) *GormUsers {
	return &GormUsers{db: db}
}

// Create inserts the user in its own transaction. The uniqueness constraint
// on email is the sole arbiter between concurrent registrations, so a
// duplicate-key error rolls back cleanly and maps to ErrDuplicateEmail.
func (r *GormUsers) Create(ctx context.Context, u *model.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(u).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}

		return fmt.Errorf("failed to create user, %w", err)
	}

	return nil
}

func (r *GormUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	return &u, nil
}

func (r *GormUsers) SetVerified(ctx context.Context, email string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&model.User{}).
			Where("email = ?", email).
			Update("is_verified", true).Error
	})
	if err != nil {
		return fmt.Errorf("failed to mark user as verified, %w", err)
	}

	return nil
}
