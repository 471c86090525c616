package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"paintshop/internal/config"
	"paintshop/internal/middleware"
	"paintshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc      *usecase.OrderUsecase
	receipt *usecase.ReceiptUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase, receipt *usecase.ReceiptUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, receipt: receipt}
}

// user_idを省略したら自分の注文
type CheckoutRequest struct {
	UserID int64 `json:"user_id"`
	CartID int64 `json:"cart_id"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.checkout)
	g.GET("", h.list)
	g.GET("/user/:userID", h.listByUser)
	g.GET("/:orderID", h.detail)
	g.GET("/:orderID/items", h.items)
	g.GET("/:orderID/receipt", h.receiptPDF)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	p := principalFromContext(c)

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.UserID == 0 {
		req.UserID = p.UserID
	}

	out, err := h.uc.Checkout(c.Request().Context(), p, usecase.CheckoutInput{
		UserID: req.UserID,
		CartID: req.CartID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

// userは自分の注文だけ（usecase側で絞る）
func (h *OrderHandler) list(c echo.Context) error {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return badRequest(c, "invalid page")
	}
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return badRequest(c, "invalid limit")
	}

	var userID *int64
	if v := c.QueryParam("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid user_id")
		}
		userID = &id
	}

	fromPtr, err := parseTimeQuery(c, "from")
	if err != nil {
		return badRequest(c, err.Error())
	}
	toPtr, err := parseTimeQuery(c, "to")
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.uc.List(c.Request().Context(), principalFromContext(c), usecase.ListOrdersInput{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
		UserID: userID,
		From:   fromPtr,
		To:     toPtr,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listByUser(c echo.Context) error {
	userID, ok := parseIDParam(c, "userID")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return badRequest(c, "invalid page")
	}
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return badRequest(c, "invalid limit")
	}

	out, err := h.uc.ListByUser(c.Request().Context(), principalFromContext(c), userID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "orderID")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.Get(c.Request().Context(), principalFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) items(c echo.Context) error {
	id, ok := parseIDParam(c, "orderID")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.ListItems(c.Request().Context(), principalFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) receiptPDF(c echo.Context) error {
	id, ok := parseIDParam(c, "orderID")
	if !ok {
		return badRequest(c, "invalid id")
	}

	pdf, err := h.receipt.Receipt(c.Request().Context(), principalFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`inline; filename="receipt-%d.pdf"`, id))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// RFC3339かYYYY-MM-DD
func parseTimeQuery(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	if tm, err := time.Parse(time.RFC3339, v); err == nil {
		return &tm, nil
	}
	tm, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &tm, nil
}
