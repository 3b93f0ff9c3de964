// Package auth provides user accounts and JWT authentication.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"pricecraft/internal/core/apperror"
	"pricecraft/internal/core/entity"
)

// Role is the coarse access level of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is an account that can sign in to the service.
type User struct {
	entity.Audited

	Email        string `db:"email" json:"email"`
	Name         string `db:"name" json:"name"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         Role   `db:"role" json:"role"`
	IsActive     bool   `db:"is_active" json:"isActive"`
}

// NewUser creates an active user with a hashed password.
func NewUser(email, name, password string, role Role) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		Audited:      entity.NewAudited(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}, nil
}

// Validate implements entity.Validatable.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").
			WithDetail("field", "email")
	}
	if u.PasswordHash == "" {
		return apperror.NewValidation("password is required").
			WithDetail("field", "password")
	}
	if u.Role != RoleAdmin && u.Role != RoleUser {
		return apperror.NewValidation("invalid role").
			WithDetail("field", "role")
	}
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
