package handler

import (
	"net/http"

	"paintshop/internal/config"
	"paintshop/internal/middleware"
	"paintshop/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /cartsのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// user_idを省略したら自分のカート
type CreateCartRequest struct {
	UserID int64 `json:"user_id"`
}

type AddCartItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// /carts 配下を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/carts")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.createCart)
	g.GET("/user/:userID/active", h.getActiveCart)
	g.GET("/:cartID", h.getCart)
	g.POST("/:cartID/items", h.addItem)
	g.DELETE("/:cartID/items/:itemID", h.deleteItem)
	g.DELETE("/:cartID", h.deleteCart)
}

func (h *CartHandler) createCart(c echo.Context) error {
	p := principalFromContext(c)

	var req CreateCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.UserID == 0 {
		req.UserID = p.UserID
	}

	cart, err := h.uc.CreateCart(c.Request().Context(), p, req.UserID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, cart)
}

func (h *CartHandler) addItem(c echo.Context) error {
	cartID, ok := parseIDParam(c, "cartID")
	if !ok {
		return badRequest(c, "invalid cart id")
	}

	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	item, err := h.uc.AddItem(c.Request().Context(), principalFromContext(c), cartID, usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) getCart(c echo.Context) error {
	cartID, ok := parseIDParam(c, "cartID")
	if !ok {
		return badRequest(c, "invalid cart id")
	}

	out, err := h.uc.GetCart(c.Request().Context(), principalFromContext(c), cartID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) getActiveCart(c echo.Context) error {
	userID, ok := parseIDParam(c, "userID")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	out, err := h.uc.GetActiveCart(c.Request().Context(), principalFromContext(c), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	cartID, ok := parseIDParam(c, "cartID")
	if !ok {
		return badRequest(c, "invalid cart id")
	}
	itemID, ok := parseIDParam(c, "itemID")
	if !ok {
		return badRequest(c, "invalid item id")
	}

	if err := h.uc.DeleteItem(c.Request().Context(), principalFromContext(c), cartID, itemID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *CartHandler) deleteCart(c echo.Context) error {
	cartID, ok := parseIDParam(c, "cartID")
	if !ok {
		return badRequest(c, "invalid cart id")
	}

	if err := h.uc.DeleteCart(c.Request().Context(), principalFromContext(c), cartID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
