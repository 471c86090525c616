package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegister(t *testing.T) {
	v := NewUserValidator()
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		want     error
	}{
		{"ok", "Anna", "anna@example.com", "secret1", nil},
		{"two rune name", "Ái", "ai@example.com", "secret1", nil},
		{"short name", "A", "a@example.com", "secret1", ErrNameTooShort},
		{"blank name", "  ", "a@example.com", "secret1", ErrNameTooShort},
		{"bad email", "Anna", "anna.example.com", "secret1", ErrInvalidEmail},
		{"email without tld", "Anna", "anna@localhost", "secret1", ErrInvalidEmail},
		{"display name email", "Anna", "Anna <anna@example.com>", "secret1", ErrInvalidEmail},
		{"short password", "Anna", "anna@example.com", "12345", ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateRegister(ctx, tt.userName, tt.email, tt.password)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateLogin(t *testing.T) {
	v := NewUserValidator()
	ctx := context.Background()

	assert.NoError(t, v.ValidateLogin(ctx, "admin@example.com", "admin123"))
	assert.ErrorIs(t, v.ValidateLogin(ctx, "admin", "admin123"), ErrInvalidEmail)
	assert.ErrorIs(t, v.ValidateLogin(ctx, "admin@example.com", ""), ErrPasswordRequired)
}
