package handler

import (
	"net/http"

	"paintshop/internal/config"
	"paintshop/internal/middleware"
	"paintshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

// /orders配下だがadmin限定
func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	guard := []echo.MiddlewareFunc{middleware.AuthJWT(cfg), middleware.AdminRoleGuard()}

	e.PATCH("/orders/:orderID/status", h.updateStatus, guard...)
	e.DELETE("/orders/:orderID", h.deleteOrder, guard...)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	orderID, ok := parseIDParam(c, "orderID")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	// 操作した管理者（監査ログ用）
	out, err := h.uc.UpdateStatus(
		c.Request().Context(),
		principalFromContext(c),
		orderID,
		usecase.UpdateOrderStatusInput{Status: req.Status},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) deleteOrder(c echo.Context) error {
	orderID, ok := parseIDParam(c, "orderID")
	if !ok {
		return badRequest(c, "invalid id")
	}

	if err := h.uc.Delete(c.Request().Context(), principalFromContext(c), orderID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
