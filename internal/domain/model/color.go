package model

import "time"

// 塗料の色
type Color struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	HexCode   string `gorm:"type:varchar(7)" json:"hex_code"`
	RGBCode   string `gorm:"column:rgb_code;type:varchar(20)" json:"rgb_code"`
	Available bool   `gorm:"not null;default:true" json:"available"`
}

// ユーザーが作った調色レシピ
type Mix struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64          `gorm:"not null;index" json:"user_id"`
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`
	Components []MixComponent `gorm:"foreignKey:MixID;constraint:OnDelete:CASCADE" json:"components,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 比率はMix内の相対値
type MixComponent struct {
	MixID   int64   `gorm:"primaryKey" json:"mix_id"`
	ColorID int64   `gorm:"primaryKey" json:"color_id"`
	Ratio   float64 `gorm:"not null" json:"ratio"`
	Color   Color   `gorm:"foreignKey:ColorID;constraint:OnDelete:RESTRICT" json:"-"`
}
