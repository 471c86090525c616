package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"paintshop/internal/domain/model"
	"paintshop/internal/infra/events"
	repo "paintshop/internal/repository"
)

// タスク名（メトリクスのラベルにもなる）
const (
	TaskOrderPlacedEvent    = "order_placed_event"
	TaskOrderCompletedEvent = "order_completed_event"
	TaskOrderCompletedEmail = "order_completed_email"
)

type Enqueuer interface {
	Enqueue(t Task) bool
}

type NotifierConfig struct {
	ShopName string
}

// Notifier は注文イベントをタスクにしてキューに積む。送信はワーカー側。
type Notifier struct {
	cfg       NotifierConfig
	queue     Enqueuer
	mailer    Mailer
	publisher events.Publisher
	receipt   *PDFReceipt
	products  repo.ProductRepository
	now       func() time.Time
	log       *slog.Logger
}

// DI
func NewNotifier(
	cfg NotifierConfig,
	queue Enqueuer,
	mailer Mailer,
	publisher events.Publisher,
	products repo.ProductRepository,
	log *slog.Logger,
) *Notifier {
	return &Notifier{
		cfg:       cfg,
		queue:     queue,
		mailer:    mailer,
		publisher: publisher,
		receipt:   NewPDFReceipt(cfg.ShopName),
		products:  products,
		now:       time.Now,
		log:       log,
	}
}

func (n *Notifier) OrderPlaced(order model.Order) {
	ev := events.NewOrderEvent(events.TypeOrderPlaced, order, n.now())
	n.queue.Enqueue(Task{
		Name: TaskOrderPlacedEvent,
		Run: func(ctx context.Context) error {
			return n.publisher.Publish(ctx, ev)
		},
	})
}

// 完了メール（領収書PDF付き）とイベントを1件ずつ積む
func (n *Notifier) OrderCompleted(order model.Order, items []model.OrderItem, email string) {
	ev := events.NewOrderEvent(events.TypeOrderCompleted, order, n.now())
	n.queue.Enqueue(Task{
		Name: TaskOrderCompletedEvent,
		Run: func(ctx context.Context) error {
			return n.publisher.Publish(ctx, ev)
		},
	})

	if email == "" {
		n.log.Warn("order owner has no email, skip completion mail", "order_id", order.ID, "user_id", order.UserID)
		return
	}

	n.queue.Enqueue(Task{
		Name: TaskOrderCompletedEmail,
		Run: func(ctx context.Context) error {
			return n.sendCompletedEmail(ctx, order, items, email)
		},
	})
}

func (n *Notifier) sendCompletedEmail(ctx context.Context, order model.Order, items []model.OrderItem, email string) error {
	names := n.productNames(ctx, items)
	lines := receiptLines(items, names)

	body, err := renderCompletedEmail(n.cfg.ShopName, order, lines)
	if err != nil {
		return fmt.Errorf("render mail: %w", err)
	}
	pdf, err := n.receipt.render(order, lines)
	if err != nil {
		return err
	}

	return n.mailer.Send(ctx, Message{
		To:       email,
		Subject:  completedSubject(order),
		HTMLBody: body,
		Attachments: []Attachment{{
			Filename:    fmt.Sprintf("receipt-%d.pdf", order.ID),
			ContentType: "application/pdf",
			Data:        pdf,
		}},
	})
}

// 取れなかった商品名はReceipt側で「Product #id」になる
func (n *Notifier) productNames(ctx context.Context, items []model.OrderItem) map[int64]string {
	names := make(map[int64]string, len(items))
	if n.products == nil {
		return names
	}
	for _, it := range items {
		if _, ok := names[it.ProductID]; ok {
			continue
		}
		p, err := n.products.FindByID(ctx, it.ProductID)
		if err != nil {
			n.log.Debug("product name lookup failed", "product_id", it.ProductID, "err", err)
			continue
		}
		names[it.ProductID] = p.Name
	}
	return names
}
