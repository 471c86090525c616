package repository

import (
	"time"

	"gorm.io/gorm"
)

// page<1は1ページ目、limitが範囲外ならdefLimit
func paginate(page, limit, defLimit, maxLimit int) func(*gorm.DB) *gorm.DB {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > maxLimit {
		limit = defLimit
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

// 両端を含む
func createdBetween(from, to *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where("created_at >= ?", *from)
		}
		if to != nil {
			db = db.Where("created_at <= ?", *to)
		}
		return db
	}
}
