package usecase

import (
	"context"
	"errors"
	"strings"

	repo "paintshop/internal/repository"
)

type AuthUsecase struct {
	users     repo.UserRepository
	validator UserValidator
	verifier  PasswordVerifier
	issuer    AccessTokenIssuer
	clock     Clock
}

// DI
func NewAuthUsecase(users repo.UserRepository, validator UserValidator, verifier PasswordVerifier, issuer AccessTokenIssuer, clock Clock) *AuthUsecase {
	return &AuthUsecase{users: users, validator: validator, verifier: verifier, issuer: issuer, clock: clock}
}

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

// handlerがJSONにして返す
type LoginOutput struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// emailかパスワードが違うときは同じメッセージ
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if err := u.validator.ValidateLogin(ctx, email, in.Password); err != nil {
		return LoginOutput{}, &AppError{Kind: KindInvalidInput, Message: err.Error(), Err: err}
	}

	user, err := u.users.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return LoginOutput{}, NewAppError(KindUnauthenticated, "invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, storeError(err, "user")
	}

	if !u.verifier.Verify(in.Password, user.PasswordHash) {
		return LoginOutput{}, NewAppError(KindUnauthenticated, "invalid credentials")
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, now)
	if err != nil {
		return LoginOutput{}, &AppError{Kind: KindInternal, Message: "token error", Err: err}
	}

	return LoginOutput{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(expiresAt.Sub(now).Seconds()),
	}, nil
}
