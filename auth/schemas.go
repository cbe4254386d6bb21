package auth

import (
	"github.com/jrsteele09/squadhub/internal/validation"
	"github.com/jrsteele09/squadhub/users"
)

// LoginRequest is the body of the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"email" msg:"Invalid email address"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

func (r LoginRequest) Validate() error {
	return validation.Err(r)
}

// RegisterRequest is the body of the register endpoint.
type RegisterRequest struct {
	Email     string         `json:"email" validate:"email" msg:"Invalid email address"`
	FirstName string         `json:"first_name" validate:"required" msg:"First name is required"`
	LastName  string         `json:"last_name" validate:"required" msg:"Last name is required"`
	Role      users.RoleType `json:"role" validate:"oneof=PLAYER COACH STAFF ADMIN"`
	Team      *int64         `json:"team"`
	Password  string         `json:"password" validate:"min=8" msg:"Password must be at least 8 characters"`
	Password2 string         `json:"password2" validate:"eqfield=Password" msg:"Passwords don't match"`
}

func (r RegisterRequest) Validate() error {
	return validation.Err(r)
}

// PasswordChangeRequest is the password form. Only NewPassword is sent.
type PasswordChangeRequest struct {
	NewPassword     string `json:"new_password" validate:"min=8" msg:"Password must be at least 8 characters"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=NewPassword" msg:"Passwords don't match"`
}

func (r PasswordChangeRequest) Validate() error {
	return validation.Err(r)
}
