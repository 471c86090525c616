package usecase

import (
	"context"
	"strings"

	"paintshop/internal/domain/model"
	repo "paintshop/internal/repository"

	"github.com/shopspring/decimal"
)

// 在庫（保管場所ごとの数量）の管理。変更は監査ログに残す。
type InventoryUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

// DI
func NewInventoryUsecase(tx repo.TransactionManager, clock Clock) *InventoryUsecase {
	return &InventoryUsecase{tx: tx, clock: clock}
}

type CreateInventoryInput struct {
	ProductID int64
	Location  string
	Quantity  decimal.Decimal
}

// nilの項目は変更しない
type UpdateInventoryInput struct {
	Location *string
	Quantity *decimal.Decimal
}

func (u *InventoryUsecase) List(ctx context.Context, p Principal, productID *int64) ([]model.Inventory, error) {
	if err := requireAdmin(p); err != nil {
		return []model.Inventory{}, err
	}

	var rows []model.Inventory
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		rows, err = r.Inventory().List(ctx, productID)
		return storeError(err, "inventory")
	})
	if err != nil {
		return []model.Inventory{}, err
	}
	return rows, nil
}

func (u *InventoryUsecase) Get(ctx context.Context, p Principal, inventoryID int64) (model.Inventory, error) {
	if err := requireAdmin(p); err != nil {
		return model.Inventory{}, err
	}

	var inv model.Inventory
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		inv, err = r.Inventory().FindByID(ctx, inventoryID)
		return storeError(err, "inventory")
	})
	if err != nil {
		return model.Inventory{}, err
	}
	return inv, nil
}

func (u *InventoryUsecase) Create(ctx context.Context, p Principal, in CreateInventoryInput) (model.Inventory, error) {
	if err := requireAdmin(p); err != nil {
		return model.Inventory{}, err
	}
	if in.ProductID <= 0 {
		return model.Inventory{}, invalidInput("invalid product_id")
	}
	if strings.TrimSpace(in.Location) == "" {
		return model.Inventory{}, invalidInput("location required")
	}
	if in.Quantity.IsNegative() {
		return model.Inventory{}, invalidInput("quantity must be >= 0")
	}
	if !fitsScale(in.Quantity, quantityScale) {
		return model.Inventory{}, invalidInput("quantity must have at most 3 decimal places")
	}

	var created model.Inventory

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, in.ProductID); err != nil {
			return storeError(err, "product")
		}

		inv, err := r.Inventory().Create(ctx, model.Inventory{
			ProductID: in.ProductID,
			Location:  strings.TrimSpace(in.Location),
			Quantity:  in.Quantity,
			UpdatedAt: u.clock.Now(),
		})
		if err != nil {
			return storeError(err, "inventory")
		}
		created = inv

		return writeAudit(ctx, r, u.clock, p.UserID, model.AuditActionCreateInventory, model.AuditResourceInventory, inv.ID, nil, inv)
	})
	if err != nil {
		return model.Inventory{}, err
	}
	return created, nil
}

func (u *InventoryUsecase) Update(ctx context.Context, p Principal, inventoryID int64, in UpdateInventoryInput) (model.Inventory, error) {
	if err := requireAdmin(p); err != nil {
		return model.Inventory{}, err
	}
	if in.Location != nil && strings.TrimSpace(*in.Location) == "" {
		return model.Inventory{}, invalidInput("location required")
	}
	if in.Quantity != nil && in.Quantity.IsNegative() {
		return model.Inventory{}, invalidInput("quantity must be >= 0")
	}
	if in.Quantity != nil && !fitsScale(*in.Quantity, quantityScale) {
		return model.Inventory{}, invalidInput("quantity must have at most 3 decimal places")
	}

	var updated model.Inventory

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Inventory().FindByID(ctx, inventoryID)
		if err != nil {
			return storeError(err, "inventory")
		}

		after := before
		if in.Location != nil {
			after.Location = strings.TrimSpace(*in.Location)
		}
		if in.Quantity != nil {
			after.Quantity = *in.Quantity
		}
		after.UpdatedAt = u.clock.Now()

		if err := r.Inventory().Update(ctx, after); err != nil {
			return storeError(err, "inventory")
		}
		updated = after

		return writeAudit(ctx, r, u.clock, p.UserID, model.AuditActionUpdateInventory, model.AuditResourceInventory, inventoryID, before, after)
	})
	if err != nil {
		return model.Inventory{}, err
	}
	return updated, nil
}

func (u *InventoryUsecase) Delete(ctx context.Context, p Principal, inventoryID int64) error {
	if err := requireAdmin(p); err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Inventory().FindByID(ctx, inventoryID)
		if err != nil {
			return storeError(err, "inventory")
		}
		if err := r.Inventory().Delete(ctx, inventoryID); err != nil {
			return storeError(err, "inventory")
		}

		return writeAudit(ctx, r, u.clock, p.UserID, model.AuditActionDeleteInventory, model.AuditResourceInventory, inventoryID, before, nil)
	})
}
