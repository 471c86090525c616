package repository

import (
	"context"

	"paintshop/internal/domain/model"
	repo "paintshop/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// productIDがnilなら全件
func (r *InventoryGormRepository) List(ctx context.Context, productID *int64) ([]model.Inventory, error) {
	q := r.db.WithContext(ctx).Model(&model.Inventory{})
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	}

	var rows []model.Inventory
	if err := q.Order("id asc").Find(&rows).Error; err != nil {
		return []model.Inventory{}, err
	}
	return rows, nil
}

func (r *InventoryGormRepository) FindByID(ctx context.Context, inventoryID int64) (model.Inventory, error) {
	var inv model.Inventory
	if err := r.db.WithContext(ctx).Where("id = ?", inventoryID).First(&inv).Error; err != nil {
		return model.Inventory{}, translate(err)
	}
	return inv, nil
}

func (r *InventoryGormRepository) Create(ctx context.Context, inv model.Inventory) (model.Inventory, error) {
	if err := r.db.WithContext(ctx).Create(&inv).Error; err != nil {
		return model.Inventory{}, translate(err)
	}
	return inv, nil
}

// 在庫数と保管場所を更新
func (r *InventoryGormRepository) Update(ctx context.Context, inv model.Inventory) error {
	res := r.db.WithContext(ctx).Model(&model.Inventory{}).
		Where("id = ?", inv.ID).
		Updates(map[string]interface{}{
			"location":   inv.Location,
			"quantity":   inv.Quantity,
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *InventoryGormRepository) Delete(ctx context.Context, inventoryID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Inventory{}, inventoryID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
