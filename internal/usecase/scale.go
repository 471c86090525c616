package usecase

import "github.com/shopspring/decimal"

// DBカラムの小数桁（numeric(12,3) / numeric(12,2)）
const (
	quantityScale = 3
	moneyScale    = 2
)

// 桁あふれはDB側で丸められるので受け付けない
func fitsScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Round(scale))
}
