package repository

import (
	"context"

	"paintshop/internal/domain/model"
)

type InventoryRepository interface {
	List(ctx context.Context, productID *int64) ([]model.Inventory, error)
	FindByID(ctx context.Context, inventoryID int64) (model.Inventory, error)
	Create(ctx context.Context, inv model.Inventory) (model.Inventory, error)
	Update(ctx context.Context, inv model.Inventory) error
	Delete(ctx context.Context, inventoryID int64) error
}
