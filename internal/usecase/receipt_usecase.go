package usecase

import (
	"context"
	"errors"

	"paintshop/internal/domain/model"
	repo "paintshop/internal/repository"
)

// 注文の領収書（本人かadmin）
type ReceiptUsecase struct {
	tx       repo.TransactionManager
	renderer ReceiptRenderer
}

// DI
func NewReceiptUsecase(tx repo.TransactionManager, renderer ReceiptRenderer) *ReceiptUsecase {
	return &ReceiptUsecase{tx: tx, renderer: renderer}
}

func (u *ReceiptUsecase) Receipt(ctx context.Context, p Principal, orderID int64) ([]byte, error) {
	if err := requireAuthenticated(p); err != nil {
		return nil, err
	}
	if orderID <= 0 {
		return nil, invalidInput("invalid id")
	}

	var order model.Order
	var items []model.OrderItem
	names := map[int64]string{}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return storeError(err, "order")
		}
		if err := requireOwnerOrAdmin(p, o.UserID); err != nil {
			return err
		}
		order = o

		items, err = r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return storeError(err, "order items")
		}

		//削除済み商品は名前なし（PDF側でProduct #id）
		for _, it := range items {
			if _, ok := names[it.ProductID]; ok {
				continue
			}
			prod, err := r.Products().FindByID(ctx, it.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			if err != nil {
				return storeError(err, "product")
			}
			names[it.ProductID] = prod.Name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pdf, err := u.renderer.Render(order, items, names)
	if err != nil {
		return nil, &AppError{Kind: KindInternal, Message: "receipt error", Err: err}
	}
	return pdf, nil
}
