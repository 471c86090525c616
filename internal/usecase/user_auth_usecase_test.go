package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"paintshop/internal/domain/model"
	repo "paintshop/internal/repository"
	"paintshop/internal/usecase"
	"paintshop/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubIssuer struct {
	ttl time.Duration
	err error
}

func (s stubIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return "token-" + string(role), now.Add(s.ttl), nil
}

func newUserUsecase(users *UserRepoMock) *usecase.UserUsecase {
	return usecase.NewUserUsecase(users, validator.NewUserValidator(), usecase.NewBcryptPasswordHasher(bcrypt.MinCost), fixedClock{t: testNow})
}

func TestRegister_Success(t *testing.T) {
	users := new(UserRepoMock)
	uc := newUserUsecase(users)

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "new@example.com" && u.Role == model.RoleUser && u.PasswordHash != "secret1"
	})).Return(nil).Once()

	u, err := uc.Register(context.Background(), usecase.RegisterInput{
		Name:     " Kiss Anna ",
		Email:    " New@Example.com ",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "Kiss Anna", u.Name)
	assert.True(t, usecase.NewBcryptPasswordVerifier().Verify("secret1", u.PasswordHash))
	users.AssertExpectations(t)
}

func TestRegister_Rejections(t *testing.T) {
	tests := []struct {
		name string
		in   usecase.RegisterInput
	}{
		{"short name", usecase.RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"}},
		{"bad email", usecase.RegisterInput{Name: "Anna", Email: "not-an-email", Password: "secret1"}},
		{"short password", usecase.RegisterInput{Name: "Anna", Email: "a@example.com", Password: "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			_, err := newUserUsecase(users).Register(context.Background(), tt.in)
			assert.Equal(t, usecase.KindInvalidInput, usecase.KindOf(err))
			users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

// email重複 => 409
func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(UserRepoMock)
	users.On("Create", mock.Anything, mock.Anything).Return(repo.ErrConflict)

	_, err := newUserUsecase(users).Register(context.Background(), usecase.RegisterInput{Name: "Anna", Email: "a@example.com", Password: "secret1"})
	assert.Equal(t, usecase.KindConflict, usecase.KindOf(err))
}

func TestListUsers_AdminOnly(t *testing.T) {
	users := new(UserRepoMock)
	users.On("List", mock.Anything).Return([]model.User{{ID: 1}, {ID: 2}}, nil)
	uc := newUserUsecase(users)

	_, err := uc.List(context.Background(), userP)
	assert.Equal(t, usecase.KindForbidden, usecase.KindOf(err))

	list, err := uc.List(context.Background(), adminP)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func newAuthUsecase(t *testing.T, users *UserRepoMock, issuer usecase.AccessTokenIssuer) *usecase.AuthUsecase {
	t.Helper()
	return usecase.NewAuthUsecase(users, validator.NewUserValidator(), usecase.NewBcryptPasswordVerifier(), issuer, fixedClock{t: testNow})
}

func hashFor(t *testing.T, plain string) string {
	t.Helper()
	h, err := usecase.NewBcryptPasswordHasher(bcrypt.MinCost).Hash(plain)
	require.NoError(t, err)
	return h
}

func TestLogin_Success(t *testing.T) {
	users := new(UserRepoMock)
	users.On("FindByEmail", mock.Anything, "admin@example.com").
		Return(model.User{ID: 1, Email: "admin@example.com", Role: model.RoleAdmin, PasswordHash: hashFor(t, "admin123")}, nil)

	out, err := newAuthUsecase(t, users, stubIssuer{ttl: 30 * time.Minute}).
		Login(context.Background(), usecase.LoginInput{Email: "Admin@Example.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "token-admin", out.AccessToken)
	assert.Equal(t, "bearer", out.TokenType)
	assert.Equal(t, 1800, out.ExpiresIn)
}

// ユーザー不在とパスワード違いは同じエラー
func TestLogin_InvalidCredentials(t *testing.T) {
	users := new(UserRepoMock)
	users.On("FindByEmail", mock.Anything, "user@example.com").
		Return(model.User{ID: 2, Role: model.RoleUser, PasswordHash: hashFor(t, "user123")}, nil)
	users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(model.User{}, repo.ErrNotFound)
	uc := newAuthUsecase(t, users, stubIssuer{ttl: time.Minute})

	_, errWrong := uc.Login(context.Background(), usecase.LoginInput{Email: "user@example.com", Password: "nope123"})
	_, errMissing := uc.Login(context.Background(), usecase.LoginInput{Email: "ghost@example.com", Password: "user123"})

	for _, err := range []error{errWrong, errMissing} {
		ae, ok := usecase.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, usecase.KindUnauthenticated, ae.Kind)
		assert.Equal(t, "invalid credentials", ae.Message)
	}
}

func TestLogin_IssuerFailure(t *testing.T) {
	users := new(UserRepoMock)
	users.On("FindByEmail", mock.Anything, "user@example.com").
		Return(model.User{ID: 2, Role: model.RoleUser, PasswordHash: hashFor(t, "user123")}, nil)

	_, err := newAuthUsecase(t, users, stubIssuer{err: errors.New("boom")}).
		Login(context.Background(), usecase.LoginInput{Email: "user@example.com", Password: "user123"})
	assert.Equal(t, usecase.KindInternal, usecase.KindOf(err))
}
