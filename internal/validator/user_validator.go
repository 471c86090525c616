package validator

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"paintshop/internal/usecase"
)

var (
	ErrNameTooShort     = errors.New("name must be at least 2 characters")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordRequired = errors.New("password required")
)

const (
	minNameLen     = 2
	minPasswordLen = 6
	maxPasswordLen = 72 // bcryptの上限
)

type userValidator struct{}

// Usecaseは interface を依存注入
func NewUserValidator() usecase.UserValidator {
	return &userValidator{}
}

// 会員登録の入力を検証
func (v *userValidator) ValidateRegister(ctx context.Context, name, email, password string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < minNameLen {
		return ErrNameTooShort
	}
	if !isEmail(email) {
		return ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLen {
		return errors.New("password too long")
	}
	return nil
}

// ログインの入力を検証
func (v *userValidator) ValidateLogin(ctx context.Context, email, password string) error {
	if !isEmail(email) {
		return ErrInvalidEmail
	}
	if password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// 名前付き形式（"A <a@b.c>"）は受け付けない
func isEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return strings.Contains(s[at+1:], ".")
}
