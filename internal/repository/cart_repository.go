package repository

import (
	"context"

	"paintshop/internal/domain/model"
)

type CartRepository interface {
	Create(ctx context.Context, cart model.Cart) (model.Cart, error)
	FindByID(ctx context.Context, cartID int64) (model.Cart, error)
	// 行ロック（SELECT ... FOR UPDATE）付きで取得。Tx内でのみ意味がある。
	FindByIDForUpdate(ctx context.Context, cartID int64) (model.Cart, error)
	// 最新の未注文カート
	FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 未注文のときだけordered=trueにする。更新できなければfalse。
	MarkOrdered(ctx context.Context, cartID int64) (bool, error)
	// 明細ごと削除
	Delete(ctx context.Context, cartID int64) error
}
