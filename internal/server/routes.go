package server

import (
	"net/http"

	"paintshop/internal/config"
	"paintshop/internal/handler"
	"paintshop/internal/metrics"

	"github.com/labstack/echo/v4"
)

// Handlers はルートに載せるハンドラ一式
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	AdminOrder   *handler.AdminOrderHandler
	Inventory    *handler.InventoryHandler
	Stats        *handler.StatsHandler
	Audit        *handler.AuditHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers, loginLimiter echo.MiddlewareFunc, m *metrics.Metrics) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	h.Auth.RegisterRoutes(e, loginLimiter)
	h.User.RegisterRoutes(e, cfg)
	h.Product.RegisterRoutes(e)
	h.AdminProduct.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.AdminOrder.RegisterRoutes(e, cfg)
	h.Inventory.RegisterRoutes(e, cfg)
	h.Stats.RegisterRoutes(e, cfg)
	h.Audit.RegisterRoutes(e, cfg)
}
