package usecase

import (
	"context"
	"strings"
	"time"

	repo "paintshop/internal/repository"
)

const (
	statsDateLayout  = "2006-01-02"
	statsDefaultDays = 30
)

type StatsUsecase struct {
	stats repo.StatsRepository
	clock Clock
}

// DI
func NewStatsUsecase(stats repo.StatsRepository, clock Clock) *StatsUsecase {
	return &StatsUsecase{stats: stats, clock: clock}
}

// 日付はYYYY-MM-DD。空なら直近30日。
type StatsInput struct {
	Interval string
	Start    string
	End      string
}

type StatsOutput struct {
	Interval repo.StatsInterval   `json:"interval"`
	Start    string               `json:"start"`
	End      string               `json:"end"`
	Rows     []repo.OrderStatsRow `json:"rows"`
}

func (u *StatsUsecase) OrderStats(ctx context.Context, p Principal, in StatsInput) (StatsOutput, error) {
	if err := requireAdmin(p); err != nil {
		return StatsOutput{}, err
	}

	interval := repo.StatsInterval(strings.ToLower(strings.TrimSpace(in.Interval)))
	switch interval {
	case "":
		interval = repo.StatsDaily
	case repo.StatsDaily, repo.StatsWeekly, repo.StatsMonthly, repo.StatsYearly:
	default:
		return StatsOutput{}, invalidInput("invalid interval")
	}

	today := truncateDay(u.clock.Now().UTC())
	end := today
	start := today.AddDate(0, 0, -statsDefaultDays)

	var err error
	if strings.TrimSpace(in.End) != "" {
		if end, err = time.Parse(statsDateLayout, strings.TrimSpace(in.End)); err != nil {
			return StatsOutput{}, invalidInput("invalid end")
		}
		if strings.TrimSpace(in.Start) == "" {
			start = end.AddDate(0, 0, -statsDefaultDays)
		}
	}
	if strings.TrimSpace(in.Start) != "" {
		if start, err = time.Parse(statsDateLayout, strings.TrimSpace(in.Start)); err != nil {
			return StatsOutput{}, invalidInput("invalid start")
		}
	}
	if start.After(end) {
		return StatsOutput{}, invalidInput("start must be before end")
	}

	//endの日は丸ごと含める
	to := end.AddDate(0, 0, 1).Add(-time.Nanosecond)

	rows, err := u.stats.OrderStats(ctx, interval, start, to)
	if err != nil {
		return StatsOutput{}, storeError(err, "stats")
	}

	return StatsOutput{
		Interval: interval,
		Start:    start.Format(statsDateLayout),
		End:      end.Format(statsDateLayout),
		Rows:     rows,
	}, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
