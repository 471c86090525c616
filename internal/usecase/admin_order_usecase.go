package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	"paintshop/internal/domain/model"
	repo "paintshop/internal/repository"
)

type AdminOrderUsecase struct {
	tx       repo.TransactionManager
	notifier OrderNotifier
	clock    Clock
	log      *slog.Logger
}

// DI
func NewAdminOrderUsecase(tx repo.TransactionManager, notifier OrderNotifier, clock Clock, log *slog.Logger) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, notifier: notifier, clock: clock, log: log}
}

type UpdateOrderStatusInput struct {
	Status string
}

type orderStatusSnapshot struct {
	Status model.OrderStatus `json:"status"`
}

// ステータス更新。どの状態からどの状態へも変更できる。
// completedになったらcommit後にメール通知を1回だけ積む。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, p Principal, orderID int64, in UpdateOrderStatusInput) (OrderOutput, error) {
	if err := requireAdmin(p); err != nil {
		return OrderOutput{}, err
	}
	if orderID <= 0 {
		return OrderOutput{}, invalidInput("invalid id")
	}

	//DBに触る前に検証
	newStatus, ok := model.ParseOrderStatus(in.Status)
	if !ok {
		return OrderOutput{}, invalidInput("invalid status")
	}

	var updated model.Order
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return storeError(err, "order")
		}
		before := o.Status

		// ステータス更新（同じ値でもそのまま書く）
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			return storeError(err, "order")
		}
		o.Status = newStatus

		//監査ログ（UPDATE_ORDER_STATUS）
		if err := writeAudit(ctx, r, u.clock, p.UserID, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID,
			orderStatusSnapshot{Status: before}, orderStatusSnapshot{Status: newStatus}); err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return storeError(err, "order items")
		}

		updated = o
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	if newStatus == model.OrderStatusCompleted {
		u.notifyCompleted(ctx, updated)
	}
	return out, nil
}

// 通知用の読み込みに失敗してもログだけ（ステータス更新は成功扱い）
func (u *AdminOrderUsecase) notifyCompleted(ctx context.Context, o model.Order) {
	if u.notifier == nil {
		return
	}

	var items []model.OrderItem
	var email string

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		items, err = r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return err
		}
		owner, err := r.Users().FindByID(ctx, o.UserID)
		if err != nil {
			return err
		}
		email = owner.Email
		return nil
	})
	if err != nil {
		u.log.Error("load order for completion email", "order_id", o.ID, "user_id", o.UserID, "err", err)
		return
	}

	u.notifier.OrderCompleted(o, items, email)
}

// 明細ごと削除
func (u *AdminOrderUsecase) Delete(ctx context.Context, p Principal, orderID int64) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	if orderID <= 0 {
		return invalidInput("invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return storeError(err, "order")
		}

		if err := r.Orders().Delete(ctx, orderID); err != nil {
			return storeError(err, "order")
		}

		//監査ログ（DELETE_ORDER）
		return writeAudit(ctx, r, u.clock, p.UserID, model.AuditActionDeleteOrder, model.AuditResourceOrder, orderID,
			toOrderOutput(o, nil), nil)
	})
}

// 「誰が」「何を」「どの対象に」「どう変えたか」を残す
func writeAudit(ctx context.Context, r repo.TxRepos, clock Clock, actorID int64, action model.AuditAction,
	resource model.AuditResourceType, resourceID int64, before, after interface{}) error {
	beforeJSON, err := marshalAudit(before)
	if err != nil {
		return &AppError{Kind: KindInternal, Message: "audit error", Err: err}
	}
	afterJSON, err := marshalAudit(after)
	if err != nil {
		return &AppError{Kind: KindInternal, Message: "audit error", Err: err}
	}

	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    clock.Now(),
	}); err != nil {
		return storeError(err, "audit log")
	}
	return nil
}

// nilは空文字
func marshalAudit(v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
