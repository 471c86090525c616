package usecase

import (
	"context"
	"errors"
	"time"

	"paintshop/internal/domain/model"
	repo "paintshop/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase はカートの業務ロジックです。
// 注文済みカートは変更できません。
type CartUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

// DI
func NewCartUsecase(tx repo.TransactionManager, clock Clock) *CartUsecase {
	return &CartUsecase{tx: tx, clock: clock}
}

type AddCartItemInput struct {
	ProductID int64
	Quantity  decimal.Decimal
}

// priceは今の商品価格
type CartItemOutput struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type CartOutput struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Ordered   bool             `json:"ordered"`
	CreatedAt time.Time        `json:"created_at"`
	Items     []CartItemOutput `json:"items"`
	Total     decimal.Decimal  `json:"total"`
}

// カート作成（ユーザーは何個でもカートを持てる）
func (u *CartUsecase) CreateCart(ctx context.Context, p Principal, userID int64) (model.Cart, error) {
	if err := requireOwnerOrAdmin(p, userID); err != nil {
		return model.Cart{}, err
	}

	var cart model.Cart

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Users().FindByID(ctx, userID); err != nil {
			return storeError(err, "user")
		}

		now := u.clock.Now()
		created, err := r.Carts().Create(ctx, model.Cart{
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return storeError(err, "cart")
		}
		cart = created
		return nil
	})
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 明細追加（同一商品は数量加算）
func (u *CartUsecase) AddItem(ctx context.Context, p Principal, cartID int64, in AddCartItemInput) (model.CartItem, error) {
	if err := requireAuthenticated(p); err != nil {
		return model.CartItem{}, err
	}
	if !in.Quantity.IsPositive() {
		return model.CartItem{}, invalidInput("quantity must be positive")
	}
	if !fitsScale(in.Quantity, quantityScale) {
		return model.CartItem{}, invalidInput("quantity must have at most 3 decimal places")
	}
	if in.ProductID <= 0 {
		return model.CartItem{}, invalidInput("invalid product_id")
	}

	var item model.CartItem

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート行をロック（checkoutと直列化）
		cart, err := r.Carts().FindByIDForUpdate(ctx, cartID)
		if err != nil {
			return storeError(err, "cart")
		}
		if err := requireOwnerOrAdmin(p, cart.UserID); err != nil {
			return err
		}
		if cart.Ordered {
			return invalidState("cart already ordered")
		}

		if _, err := r.Products().FindByID(ctx, in.ProductID); err != nil {
			return storeError(err, "product")
		}

		saved, err := r.CartItems().UpsertByCartAndProduct(ctx, cart.ID, in.ProductID, in.Quantity)
		if err != nil {
			return storeError(err, "cart item")
		}
		item = saved
		return nil
	})
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

func (u *CartUsecase) GetCart(ctx context.Context, p Principal, cartID int64) (CartOutput, error) {
	if err := requireAuthenticated(p); err != nil {
		return CartOutput{}, err
	}

	var out CartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByID(ctx, cartID)
		if err != nil {
			return storeError(err, "cart")
		}
		if err := requireOwnerOrAdmin(p, cart.UserID); err != nil {
			return err
		}

		out, err = buildCartOutput(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

// 最新の未注文カート
func (u *CartUsecase) GetActiveCart(ctx context.Context, p Principal, userID int64) (CartOutput, error) {
	if err := requireOwnerOrAdmin(p, userID); err != nil {
		return CartOutput{}, err
	}

	var out CartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindActiveByUserID(ctx, userID)
		if err != nil {
			return storeError(err, "active cart")
		}

		out, err = buildCartOutput(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

func (u *CartUsecase) DeleteItem(ctx context.Context, p Principal, cartID int64, itemID int64) error {
	if err := requireAuthenticated(p); err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByIDForUpdate(ctx, cartID)
		if err != nil {
			return storeError(err, "cart")
		}
		if err := requireOwnerOrAdmin(p, cart.UserID); err != nil {
			return err
		}
		if cart.Ordered {
			return invalidState("cart already ordered")
		}

		//別カートの明細は存在しない扱い
		item, err := r.CartItems().FindByID(ctx, itemID)
		if err != nil {
			return storeError(err, "cart item")
		}
		if item.CartID != cart.ID {
			return notFound("cart item")
		}

		return storeError(r.CartItems().DeleteByID(ctx, itemID), "cart item")
	})
}

// 未注文カートだけ削除できる（明細も消える）
func (u *CartUsecase) DeleteCart(ctx context.Context, p Principal, cartID int64) error {
	if err := requireAuthenticated(p); err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByIDForUpdate(ctx, cartID)
		if err != nil {
			return storeError(err, "cart")
		}
		if err := requireOwnerOrAdmin(p, cart.UserID); err != nil {
			return err
		}
		if cart.Ordered {
			return invalidState("cart already ordered")
		}

		return storeError(r.Carts().Delete(ctx, cart.ID), "cart")
	})
}

// 商品が削除済みなら価格0で返す
func buildCartOutput(ctx context.Context, r repo.TxRepos, cart model.Cart) (CartOutput, error) {
	items, err := r.CartItems().ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartOutput{}, storeError(err, "cart items")
	}

	out := CartOutput{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Ordered:   cart.Ordered,
		CreatedAt: cart.CreatedAt,
		Items:     make([]CartItemOutput, 0, len(items)),
		Total:     decimal.Zero,
	}

	for _, it := range items {
		row := CartItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: decimal.Zero,
			Subtotal:  decimal.Zero,
		}

		prod, err := r.Products().FindByID(ctx, it.ProductID)
		switch {
		case err == nil:
			row.ProductName = prod.Name
			row.Unit = prod.Unit
			row.UnitPrice = prod.Price
			row.Subtotal = it.Quantity.Mul(prod.Price)
		case errors.Is(err, repo.ErrNotFound):
		default:
			return CartOutput{}, storeError(err, "product")
		}

		out.Total = out.Total.Add(row.Subtotal)
		out.Items = append(out.Items, row)
	}
	// checkout時と同じ丸め
	out.Total = out.Total.Round(moneyScale)
	return out, nil
}
