package usecase

import (
	"errors"
	"fmt"

	repo "paintshop/internal/repository"
)

// handlerがHTTPステータスに変換する分類
type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"
	KindForbidden       ErrorKind = "forbidden"
	KindInvalidState    ErrorKind = "invalid_state"
	KindInvalidInput    ErrorKind = "invalid_input"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindConflict        ErrorKind = "conflict"
	KindInternal        ErrorKind = "internal"
)

type AppError struct {
	Kind    ErrorKind
	Message string
	// ログ用の原因（レスポンスには出さない）
	Err error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(kind ErrorKind, message string) error {
	return &AppError{Kind: kind, Message: message}
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

// AppError以外はinternal扱い
func KindOf(err error) ErrorKind {
	if ae, ok := AsAppError(err); ok {
		return ae.Kind
	}
	return KindInternal
}

func notFound(what string) error {
	return NewAppError(KindNotFound, what+" not found")
}

func invalidInput(msg string) error {
	return NewAppError(KindInvalidInput, msg)
}

func invalidState(msg string) error {
	return NewAppError(KindInvalidState, msg)
}

// repositoryのエラーを分類する。ErrNotFoundはwhat not found。
func storeError(err error, what string) error {
	if err == nil {
		return nil
	}
	if _, ok := AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return notFound(what)
	case errors.Is(err, repo.ErrConflict):
		return &AppError{Kind: KindConflict, Message: what + " already exists", Err: err}
	default:
		return &AppError{Kind: KindInternal, Message: "db error", Err: err}
	}
}
