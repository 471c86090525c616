package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 集計単位
type StatsInterval string

const (
	StatsDaily   StatsInterval = "daily"
	StatsWeekly  StatsInterval = "weekly"
	StatsMonthly StatsInterval = "monthly"
	StatsYearly  StatsInterval = "yearly"
)

type OrderStatsRow struct {
	Period  string          `json:"period"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type StatsRepository interface {
	// [from, to]の注文を期間ラベルごとに件数・売上で集計
	OrderStats(ctx context.Context, interval StatsInterval, from, to time.Time) ([]OrderStatsRow, error)
}
