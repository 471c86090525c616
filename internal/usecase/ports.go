package usecase

import (
	"context"
	"time"

	"paintshop/internal/domain/model"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID int64, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

// usecaseがValidatorに依存する約束
type UserValidator interface {
	ValidateRegister(ctx context.Context, name, email, password string) error
	ValidateLogin(ctx context.Context, email, password string) error
}

// 注文の通知。キューに積むだけですぐ返る。
type OrderNotifier interface {
	OrderPlaced(order model.Order)
	OrderCompleted(order model.Order, items []model.OrderItem, email string)
}

// 注文の領収書PDFを作る約束。namesは商品ID→商品名。
type ReceiptRenderer interface {
	Render(order model.Order, items []model.OrderItem, names map[int64]string) ([]byte, error)
}
