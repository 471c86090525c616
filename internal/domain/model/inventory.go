package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 倉庫ごとの在庫
type Inventory struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64           `gorm:"not null;index" json:"product_id"`
	Location  string          `gorm:"type:varchar(255)" json:"location"`
	Quantity  decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0" json:"quantity"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

func (Inventory) TableName() string {
	return "inventory"
}
