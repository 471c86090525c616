package repository_test

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"paintshop/internal/domain/model"
	"paintshop/internal/infra/db"
	infraRepo "paintshop/internal/infra/repository"
	repo "paintshop/internal/repository"
	"paintshop/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TEST_DATABASE_DSN が無ければスキップ
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

type nopNotifier struct{ placed atomic.Int32 }

func (n *nopNotifier) OrderPlaced(model.Order)                              { n.placed.Add(1) }
func (n *nopNotifier) OrderCompleted(model.Order, []model.OrderItem, string) {}

type fixture struct {
	user    model.User
	apple   model.Product
	banana  model.Product
	cartID  int64
	carts   *usecase.CartUsecase
	orders  *usecase.OrderUsecase
	notify  *nopNotifier
	txm     *infraRepo.TxManagerGorm
	gormDB  *gorm.DB
	userCtx usecase.Principal
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gormDB := openTestDB(t)
	ctx := context.Background()

	suffix := time.Now().Format("20060102150405.000000000")
	user := model.User{Name: "it", Email: "it-" + suffix + "@example.com", PasswordHash: "x", Role: model.RoleUser}
	require.NoError(t, gormDB.Create(&user).Error)

	apple := model.Product{Name: "Alma " + suffix, Price: decimal.NewFromInt(100), StockQuantity: decimal.NewFromInt(10)}
	banana := model.Product{Name: "Banán " + suffix, Price: decimal.NewFromInt(50), StockQuantity: decimal.NewFromInt(10)}
	require.NoError(t, gormDB.Create(&apple).Error)
	require.NoError(t, gormDB.Create(&banana).Error)

	txm := infraRepo.NewTxManagerGorm(gormDB)
	notify := &nopNotifier{}
	p := usecase.Principal{UserID: user.ID, Role: model.RoleUser}

	carts := usecase.NewCartUsecase(txm, usecase.SystemClock{})
	cart, err := carts.CreateCart(ctx, p, user.ID)
	require.NoError(t, err)

	return fixture{
		user:    user,
		apple:   apple,
		banana:  banana,
		cartID:  cart.ID,
		carts:   carts,
		orders:  usecase.NewOrderUsecase(txm, notify, usecase.SystemClock{}),
		notify:  notify,
		txm:     txm,
		gormDB:  gormDB,
		userCtx: p,
	}
}

func TestCartItemUpsertAccumulatesConcurrently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 10
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := f.carts.AddItem(ctx, f.userCtx, f.cartID, usecase.AddCartItemInput{
				ProductID: f.apple.ID,
				Quantity:  decimal.RequireFromString("1.5"),
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	var items []model.CartItem
	require.NoError(t, f.gormDB.Where("cart_id = ?", f.cartID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.True(t, items[0].Quantity.Equal(decimal.RequireFromString("15")), "got %s", items[0].Quantity)
}

func TestCheckoutSnapshotsPricesAndClosesCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, f.userCtx, f.cartID, usecase.AddCartItemInput{ProductID: f.apple.ID, Quantity: decimal.NewFromInt(2)})
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, f.userCtx, f.cartID, usecase.AddCartItemInput{ProductID: f.banana.ID, Quantity: decimal.NewFromInt(1)})
	require.NoError(t, err)

	out, err := f.orders.Checkout(ctx, f.userCtx, usecase.CheckoutInput{UserID: f.user.ID, CartID: f.cartID})
	require.NoError(t, err)
	assert.Equal(t, string(model.OrderStatusPending), out.Status)
	assert.True(t, out.TotalPrice.Equal(decimal.NewFromInt(250)), "got %s", out.TotalPrice)

	// 後から価格が変わってもスナップショットは変わらない
	require.NoError(t, f.gormDB.Model(&model.Product{}).Where("id = ?", f.apple.ID).Update("price", decimal.NewFromInt(999)).Error)

	var items []model.OrderItem
	require.NoError(t, f.gormDB.Where("order_id = ?", out.ID).Order("product_id").Find(&items).Error)
	require.Len(t, items, 2)
	for _, it := range items {
		if it.ProductID == f.apple.ID {
			assert.True(t, it.UnitPrice.Equal(decimal.NewFromInt(100)))
		}
	}

	// 注文済みカートにはもう足せない
	_, err = f.carts.AddItem(ctx, f.userCtx, f.cartID, usecase.AddCartItemInput{ProductID: f.apple.ID, Quantity: decimal.NewFromInt(1)})
	assert.Equal(t, usecase.KindInvalidState, usecase.KindOf(err))
}

func TestConcurrentCheckoutCreatesOneOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, f.userCtx, f.cartID, usecase.AddCartItemInput{ProductID: f.apple.ID, Quantity: decimal.NewFromInt(1)})
	require.NoError(t, err)

	const n = 5
	var ok atomic.Int32
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := f.orders.Checkout(ctx, f.userCtx, usecase.CheckoutInput{UserID: f.user.ID, CartID: f.cartID})
			if err == nil {
				ok.Add(1)
				return nil
			}
			if usecase.KindOf(err) != usecase.KindInvalidState {
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(1), f.notify.placed.Load())

	var count int64
	require.NoError(t, f.gormDB.Model(&model.Order{}).Where("user_id = ?", f.user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMarkOrderedIsConditional(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var first, second bool
	err := f.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		if first, err = r.Carts().MarkOrdered(ctx, f.cartID); err != nil {
			return err
		}
		second, err = r.Carts().MarkOrdered(ctx, f.cartID)
		return err
	})
	require.NoError(t, err)
	assert.True(t, first)
	assert.False(t, second)
}

func TestAuditLogListFiltersAndCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	audits := infraRepo.NewAuditLogGormRepository(f.gormDB)

	for i := 0; i < 3; i++ {
		require.NoError(t, audits.Create(ctx, model.AuditLog{
			ActorUserID:  f.user.ID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   int64(i + 1),
			CreatedAt:    time.Now(),
		}))
	}

	rows, total, err := audits.List(ctx, repo.AuditLogFilter{ActorUserID: &f.user.ID, Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 2)
	assert.Greater(t, rows[0].ID, rows[1].ID)
}
