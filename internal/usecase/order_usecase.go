package usecase

import (
	"context"
	"time"

	"paintshop/internal/domain/model"
	repo "paintshop/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx       repo.TransactionManager
	notifier OrderNotifier
	clock    Clock
}

// DI
func NewOrderUsecase(tx repo.TransactionManager, notifier OrderNotifier, clock Clock) *OrderUsecase {
	return &OrderUsecase{tx: tx, notifier: notifier, clock: clock}
}

type CheckoutInput struct {
	UserID int64
	CartID int64
}

type ListOrdersInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderItemOutput struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderOutput struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	Status     string            `json:"status"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	CreatedAt  time.Time         `json:"created_at"`
	Items      []OrderItemOutput `json:"items"`
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// カートを注文にする。全部1トランザクション。
func (u *OrderUsecase) Checkout(ctx context.Context, p Principal, in CheckoutInput) (OrderOutput, error) {
	//本人かadminだけ
	if err := requireOwnerOrAdmin(p, in.UserID); err != nil {
		return OrderOutput{}, err
	}
	if in.CartID <= 0 {
		return OrderOutput{}, invalidInput("invalid cart_id")
	}

	var created model.Order
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//同じカートへの同時注文・明細追加はここで直列化
		cart, err := r.Carts().FindByIDForUpdate(ctx, in.CartID)
		if err != nil {
			return storeError(err, "cart")
		}
		if cart.Ordered {
			return invalidState("cart already ordered")
		}
		if cart.UserID != in.UserID {
			return invalidState("cart does not belong to user")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return storeError(err, "cart items")
		}
		if len(cartItems) == 0 {
			return invalidState("cart is empty")
		}

		//価格は今の商品価格を使う
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		total := decimal.Zero
		now := u.clock.Now()

		for _, ci := range cartItems {
			prod, err := r.Products().FindByID(ctx, ci.ProductID)
			if err != nil {
				return storeError(err, "product")
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				UnitPrice: prod.Price,
				CreatedAt: now,
			})
			total = total.Add(ci.Quantity.Mul(prod.Price))
		}

		// 注文作成（合計はtotal_priceの桁に丸めて保存・返却する）
		order := model.Order{
			UserID:     in.UserID,
			Status:     model.OrderStatusPending,
			TotalPrice: total.Round(moneyScale),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return storeError(err, "order")
		}
		order.ID = orderID

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return storeError(err, "order items")
		}

		//ordered=falseのときだけ更新できる（二重注文防止）
		marked, err := r.Carts().MarkOrdered(ctx, cart.ID)
		if err != nil {
			return storeError(err, "cart")
		}
		if !marked {
			return invalidState("cart already ordered")
		}

		created = order
		out = toOrderOutput(order, orderItems)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	//commit後に通知（失敗しても注文は成立）
	if u.notifier != nil {
		u.notifier.OrderPlaced(created)
	}
	return out, nil
}

// adminは全件、userは自分の注文だけ
func (u *OrderUsecase) List(ctx context.Context, p Principal, in ListOrdersInput) (OrderListOutput, error) {
	if err := requireAuthenticated(p); err != nil {
		return OrderListOutput{}, err
	}
	if !p.IsAdmin() {
		uid := p.UserID
		in.UserID = &uid
	}
	return u.list(ctx, in)
}

func (u *OrderUsecase) ListByUser(ctx context.Context, p Principal, userID int64, page, limit int) (OrderListOutput, error) {
	if err := requireOwnerOrAdmin(p, userID); err != nil {
		return OrderListOutput{}, err
	}
	return u.list(ctx, ListOrdersInput{Page: page, Limit: limit, UserID: &userID})
}

func (u *OrderUsecase) list(ctx context.Context, in ListOrdersInput) (OrderListOutput, error) {
	// page/limitの最低限チェック
	if in.Page == 0 {
		in.Page = 1
	}
	if in.Limit == 0 {
		in.Limit = 50
	}
	if in.Page < 1 {
		return OrderListOutput{}, invalidInput("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return OrderListOutput{}, invalidInput("invalid limit")
	}
	if in.Status != "" {
		st, ok := model.ParseOrderStatus(in.Status)
		if !ok {
			return OrderListOutput{}, invalidInput("invalid status")
		}
		in.Status = string(st)
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return OrderListOutput{}, invalidInput("from must be before to")
	}

	out := OrderListOutput{Page: in.Page, Limit: in.Limit}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().List(ctx, repo.OrderListFilter{
			Page:   in.Page,
			Limit:  in.Limit,
			Status: in.Status,
			UserID: in.UserID,
			From:   in.From,
			To:     in.To,
		})
		if err != nil {
			return storeError(err, "orders")
		}

		out.Total = total
		out.Items = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return storeError(err, "order items")
			}
			out.Items = append(out.Items, toOrderOutput(o, items))
		}
		return nil
	})
	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) Get(ctx context.Context, p Principal, orderID int64) (OrderOutput, error) {
	if err := requireAuthenticated(p); err != nil {
		return OrderOutput{}, err
	}
	if orderID <= 0 {
		return OrderOutput{}, invalidInput("invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return storeError(err, "order")
		}
		if err := requireOwnerOrAdmin(p, o.UserID); err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return storeError(err, "order items")
		}

		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListItems(ctx context.Context, p Principal, orderID int64) ([]OrderItemOutput, error) {
	o, err := u.Get(ctx, p, orderID)
	if err != nil {
		return []OrderItemOutput{}, err
	}
	return o.Items, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	return OrderOutput{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
		Items:      outItems,
	}
}
