package userservice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bloglistapp/bloglist/internal/common"
)

func TestValidateUsername(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		wantErr  map[string]string
	}{
		{
			name:     "valid username",
			username: "testuser",
		},
		{
			name:     "empty username",
			username: "",
			wantErr:  map[string]string{"username": "must be provided"},
		},
		{
			name:     "too short",
			username: "ab",
			wantErr:  map[string]string{"username": "must be between 3 and 25 characters long"},
		},
		{
			name:     "too long",
			username: strings.Repeat("a", 26),
			wantErr:  map[string]string{"username": "must be between 3 and 25 characters long"},
		},
		{
			name:     "invalid characters",
			username: "test user!",
			wantErr:  map[string]string{"username": "must only contain letters and numbers"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateUsername(v, tc.username)

			if tc.wantErr == nil {
				assert.True(t, v.Valid())
			} else {
				assert.Equal(t, tc.wantErr, v.Errors)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		valid    bool
	}{
		{
			name:     "valid password",
			password: "sekret",
			valid:    true,
		},
		{
			name:     "minimum length",
			password: "abc",
			valid:    true,
		},
		{
			name:     "empty password",
			password: "",
			valid:    false,
		},
		{
			name:     "too short",
			password: "ab",
			valid:    false,
		},
		{
			name:     "longer than the bcrypt bound",
			password: strings.Repeat("a", 73),
			valid:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validatePassword(v, tc.password)
			assert.Equal(t, tc.valid, v.Valid())
		})
	}
}

func TestValidateEmail(t *testing.T) {
	testCases := []struct {
		name  string
		email string
		valid bool
	}{
		{
			name:  "valid email",
			email: "testuser@example.com",
			valid: true,
		},
		{
			name:  "absent email is fine",
			email: "",
			valid: true,
		},
		{
			name:  "invalid email",
			email: "not-an-email",
			valid: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateEmail(v, tc.email)
			assert.Equal(t, tc.valid, v.Valid())
		})
	}
}
