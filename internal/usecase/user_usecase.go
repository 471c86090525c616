package usecase

import (
	"context"
	"errors"
	"strings"

	"paintshop/internal/domain/model"
	repo "paintshop/internal/repository"
)

type UserUsecase struct {
	users     repo.UserRepository
	validator UserValidator
	hasher    PasswordHasher
	clock     Clock
}

// DI
func NewUserUsecase(users repo.UserRepository, validator UserValidator, hasher PasswordHasher, clock Clock) *UserUsecase {
	return &UserUsecase{users: users, validator: validator, hasher: hasher, clock: clock}
}

// 会員登録の入力
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// 会員登録。roleは常にuser。
func (u *UserUsecase) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := u.validator.ValidateRegister(ctx, in.Name, in.Email, in.Password); err != nil {
		return model.User{}, &AppError{Kind: KindInvalidInput, Message: err.Error(), Err: err}
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, &AppError{Kind: KindInternal, Message: "hash error", Err: err}
	}

	now := u.clock.Now()
	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashed,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	//email重複はDBの一意制約で判定
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return model.User{}, &AppError{Kind: KindConflict, Message: "email already registered", Err: err}
		}
		return model.User{}, storeError(err, "user")
	}

	return *user, nil
}

func (u *UserUsecase) List(ctx context.Context, p Principal) ([]model.User, error) {
	if err := requireAdmin(p); err != nil {
		return []model.User{}, err
	}

	users, err := u.users.List(ctx)
	if err != nil {
		return []model.User{}, storeError(err, "users")
	}
	return users, nil
}
