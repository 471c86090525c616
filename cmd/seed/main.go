package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"paintshop/internal/config"
	"paintshop/internal/domain/model"
	"paintshop/internal/infra/db"
	"paintshop/internal/logger"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	name, email, password, phone, address string
	role                                  model.Role
}

var users = []seedUser{
	{"Admin", "admin@example.com", "admin123", "00000000", "Admin street 1", model.RoleAdmin},
	{"User", "user@example.com", "user123", "11111111", "User street 2", model.RoleUser},
}

var products = []model.Product{
	{Name: "Alma", Price: decimal.NewFromInt(300), StockQuantity: decimal.NewFromInt(100), Unit: "l"},
	{Name: "Banán", Price: decimal.NewFromInt(400), StockQuantity: decimal.NewFromInt(100), Unit: "l"},
}

var colors = []model.Color{
	{Name: "White", HexCode: "#FFFFFF", RGBCode: "255,255,255", Available: true},
	{Name: "Black", HexCode: "#000000", RGBCode: "0,0,0", Available: true},
	{Name: "Red", HexCode: "#FF0000", RGBCode: "255,0,0", Available: true},
	{Name: "Blue", HexCode: "#0000FF", RGBCode: "0,0,255", Available: true},
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("load .env", "err", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "paintshop-seed", Env: cfg.GoEnv, Level: cfg.LogLevel})

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Error("connect", "err", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("migrate", "err", err)
		os.Exit(1)
	}

	if err := gormDB.Transaction(func(tx *gorm.DB) error { return seed(tx, log) }); err != nil {
		log.Error("seed failed", "err", err)
		os.Exit(1)
	}
	log.Info("database seeding complete")
}

// 何度流しても同じ状態になる（既にある行は触らない）
func seed(tx *gorm.DB, log *slog.Logger) error {
	for _, u := range users {
		var n int64
		if err := tx.Model(&model.User{}).Where("email = ?", u.email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		row := model.User{
			Name:         u.name,
			Email:        u.email,
			PasswordHash: string(hash),
			Phone:        u.phone,
			Address:      u.address,
			Role:         u.role,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		log.Info("user seeded", "email", u.email)
	}

	for _, p := range products {
		p := p
		if err := tx.Where(model.Product{Name: p.Name}).FirstOrCreate(&p).Error; err != nil {
			return err
		}
	}

	for _, c := range colors {
		c := c
		if err := tx.Where(model.Color{Name: c.Name}).FirstOrCreate(&c).Error; err != nil {
			return err
		}
	}
	log.Info("catalog seeded", "products", len(products), "colors", len(colors))
	return nil
}
