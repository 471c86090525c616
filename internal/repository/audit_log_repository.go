package repository

import (
	"context"
	"time"

	"paintshop/internal/domain/model"
)

// 監査ログの絞り込み条件。nilは条件なし。
type AuditLogFilter struct {
	ActorUserID  *int64
	Action       *model.AuditAction
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	From         *time.Time
	To           *time.Time
	Page         int
	Limit        int
}

// 監査ログは追記のみ。
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error

	// 新しい順。totalは条件に合う全件数。
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, int64, error)
}
