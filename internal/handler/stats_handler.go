package handler

import (
	"net/http"

	"paintshop/internal/config"
	"paintshop/internal/middleware"
	"paintshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type StatsHandler struct {
	uc *usecase.StatsUsecase
}

// DI
func NewStatsHandler(uc *usecase.StatsUsecase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// GET /stats?interval=daily|weekly|monthly|yearly&start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *StatsHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/stats", h.orderStats, middleware.AuthJWT(cfg), middleware.AdminRoleGuard())
}

func (h *StatsHandler) orderStats(c echo.Context) error {
	out, err := h.uc.OrderStats(c.Request().Context(), principalFromContext(c), usecase.StatsInput{
		Interval: c.QueryParam("interval"),
		Start:    c.QueryParam("start"),
		End:      c.QueryParam("end"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
