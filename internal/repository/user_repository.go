package repository

import (
	"context"

	"paintshop/internal/domain/model"
)

// ユーザーの保存・取得を約束
type UserRepository interface {
	// メール重複はErrConflict
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
}
