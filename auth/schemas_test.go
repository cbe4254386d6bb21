package auth_test

import (
	"testing"

	"github.com/jrsteele09/squadhub/apierrors"
	"github.com/jrsteele09/squadhub/auth"
	"github.com/jrsteele09/squadhub/users"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validate(t *testing.T) {
	valid := auth.RegisterRequest{
		Email:     testEmail,
		FirstName: "Casey",
		LastName:  "Coach",
		Role:      users.RolePlayer,
		Password:  testPassword,
		Password2: testPassword,
	}

	tests := []struct {
		name     string
		mutate   func(*auth.RegisterRequest)
		expected map[string]string
	}{
		{"valid", func(*auth.RegisterRequest) {}, map[string]string{}},
		{"bad email", func(r *auth.RegisterRequest) { r.Email = "casey" }, map[string]string{"email": "Invalid email address"}},
		{"missing names", func(r *auth.RegisterRequest) { r.FirstName, r.LastName = "", "" }, map[string]string{
			"first_name": "First name is required",
			"last_name":  "Last name is required",
		}},
		{"short password", func(r *auth.RegisterRequest) { r.Password, r.Password2 = "short", "short" }, map[string]string{
			"password": "Password must be at least 8 characters",
		}},
		{"mismatch", func(r *auth.RegisterRequest) { r.Password2 = "different1" }, map[string]string{
			"password2": "Passwords don't match",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			fields := apierrors.FromError(req.Validate())
			if len(tt.expected) == 0 {
				require.NoError(t, req.Validate())
				return
			}
			require.Len(t, fields, len(tt.expected))
			for field, msg := range tt.expected {
				require.Equal(t, msg, fields.First(field))
			}
		})
	}
}
