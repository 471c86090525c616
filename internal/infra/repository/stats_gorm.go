package repository

import (
	"context"
	"fmt"
	"time"

	"paintshop/internal/domain/model"
	repo "paintshop/internal/repository"

	"gorm.io/gorm"
)

// 期間ラベルのto_charフォーマット
var statsPeriodFormats = map[repo.StatsInterval]string{
	repo.StatsDaily:   "YYYY-MM-DD",
	repo.StatsWeekly:  "IYYY-\"W\"IW",
	repo.StatsMonthly: "YYYY-MM",
	repo.StatsYearly:  "YYYY",
}

type StatsGormRepository struct {
	db *gorm.DB
}

// DI
func NewStatsGormRepository(db *gorm.DB) *StatsGormRepository {
	return &StatsGormRepository{db: db}
}

func (r *StatsGormRepository) OrderStats(ctx context.Context, interval repo.StatsInterval, from, to time.Time) ([]repo.OrderStatsRow, error) {
	format, ok := statsPeriodFormats[interval]
	if !ok {
		return nil, fmt.Errorf("unknown stats interval %q", interval)
	}

	period := fmt.Sprintf("to_char(created_at, '%s')", format)

	var rows []repo.OrderStatsRow
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select(period+" AS period, COUNT(*) AS orders, COALESCE(SUM(total_price), 0) AS revenue").
		Scopes(createdBetween(&from, &to)).
		Group("period").
		Order("period asc").
		Scan(&rows).Error
	if err != nil {
		return []repo.OrderStatsRow{}, translate(err)
	}
	if rows == nil {
		rows = []repo.OrderStatsRow{}
	}
	return rows, nil
}
