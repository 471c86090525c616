package repository

import (
	"context"

	"paintshop/internal/domain/model"

	"github.com/shopspring/decimal"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同一商品はプラス（ON CONFLICTで原子的に加算）
	UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty decimal.Decimal) (model.CartItem, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	DeleteByID(ctx context.Context, cartItemID int64) error
}
