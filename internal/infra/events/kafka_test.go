package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"paintshop/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_NopWithoutBrokers(t *testing.T) {
	p := NewPublisher(nil, "orders")

	_, ok := p.(NopPublisher)
	assert.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), OrderEvent{}))
	assert.NoError(t, p.Close())
}

func TestNewPublisher_KafkaWithBrokers(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "orders")

	_, ok := p.(*KafkaPublisher)
	assert.True(t, ok)
}

func TestNewOrderEvent_JSON(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	o := model.Order{ID: 7, UserID: 3, Status: model.OrderStatusCompleted, TotalPrice: decimal.RequireFromString("250.00")}

	ev := NewOrderEvent(TypeOrderCompleted, o, now)
	assert.NotEmpty(t, ev.EventID)

	b, err := json.Marshal(ev)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "order.completed", got["type"])
	assert.Equal(t, float64(7), got["order_id"])
	assert.Equal(t, "completed", got["status"])
	assert.Equal(t, "250", got["total_price"])
}
