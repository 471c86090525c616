package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"paintshop/internal/domain/model"
	"paintshop/internal/middleware"
	"paintshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

var kindStatus = map[usecase.ErrorKind]int{
	usecase.KindNotFound:        http.StatusNotFound,
	usecase.KindForbidden:       http.StatusForbidden,
	usecase.KindInvalidState:    http.StatusBadRequest,
	usecase.KindInvalidInput:    http.StatusUnprocessableEntity,
	usecase.KindUnauthenticated: http.StatusUnauthorized,
	usecase.KindConflict:        http.StatusConflict,
	usecase.KindInternal:        http.StatusInternalServerError,
}

// usecaseのエラーをHTTPに変換。500は原因をログに残してメッセージは伏せる。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	ae, ok := usecase.AsAppError(err)
	if !ok || ae.Kind == usecase.KindInternal {
		slog.Default().Error("internal error",
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"route", c.Path(),
			"err", err,
		)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	status, ok := kindStatus[ae.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorResponse{Error: ae.Message})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

//middleware.AuthJWT が c.Set("user_id", int64) した値を取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// 未ログインならゼロ値（usecase側でunauthenticated）
func principalFromContext(c echo.Context) usecase.Principal {
	id, ok := getUserIDFromContext(c)
	if !ok {
		return usecase.Principal{}
	}
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	return usecase.Principal{UserID: id, Role: model.Role(role)}
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// 空ならdef
func queryInt(c echo.Context, name string, def int) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
