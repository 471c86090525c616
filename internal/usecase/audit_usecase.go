package usecase

import (
	"context"
	"time"

	"paintshop/internal/domain/model"
	repo "paintshop/internal/repository"
)

// 監査ログの閲覧（admin）
type AuditUsecase struct {
	tx repo.TransactionManager
}

// DI
func NewAuditUsecase(tx repo.TransactionManager) *AuditUsecase {
	return &AuditUsecase{tx: tx}
}

type ListAuditLogsInput struct {
	ActorUserID  *int64
	Action       string
	ResourceType string
	ResourceID   *int64
	From         *time.Time
	To           *time.Time
	Page         int
	Limit        int
}

type AuditLogListOutput struct {
	Items []model.AuditLog `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *AuditUsecase) List(ctx context.Context, p Principal, in ListAuditLogsInput) (AuditLogListOutput, error) {
	if err := requireAdmin(p); err != nil {
		return AuditLogListOutput{}, err
	}
	if in.Page == 0 {
		in.Page = 1
	}
	if in.Limit == 0 {
		in.Limit = 50
	}
	if in.Page < 1 {
		return AuditLogListOutput{}, invalidInput("invalid page")
	}
	if in.Limit < 1 || in.Limit > 200 {
		return AuditLogListOutput{}, invalidInput("invalid limit")
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return AuditLogListOutput{}, invalidInput("from must be before to")
	}

	f := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		From:        in.From,
		To:          in.To,
		Page:        in.Page,
		Limit:       in.Limit,
	}

	switch a := model.AuditAction(in.Action); a {
	case "":
	case model.AuditActionUpdateOrderStatus, model.AuditActionDeleteOrder,
		model.AuditActionCreateInventory, model.AuditActionUpdateInventory, model.AuditActionDeleteInventory:
		f.Action = &a
	default:
		return AuditLogListOutput{}, invalidInput("invalid action")
	}

	switch rt := model.AuditResourceType(in.ResourceType); rt {
	case "":
	case model.AuditResourceOrder, model.AuditResourceInventory:
		f.ResourceType = &rt
	default:
		return AuditLogListOutput{}, invalidInput("invalid resource_type")
	}

	out := AuditLogListOutput{Page: in.Page, Limit: in.Limit}
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		logs, total, err := r.AuditLogs().List(ctx, f)
		if err != nil {
			return storeError(err, "audit logs")
		}
		out.Items = logs
		out.Total = total
		return nil
	})
	if err != nil {
		return AuditLogListOutput{}, err
	}
	if out.Items == nil {
		out.Items = []model.AuditLog{}
	}
	return out, nil
}
