package usecase_test

import (
	"context"
	"testing"

	"paintshop/internal/domain/model"
	repo "paintshop/internal/repository"
	"paintshop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListAuditLogs(t *testing.T) {
	tx, repos := newTxMocks()
	uc := usecase.NewAuditUsecase(tx)

	orderID := int64(4)
	repos.auditLogs.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool {
		return f.Page == 1 && f.Limit == 50 &&
			f.ResourceType != nil && *f.ResourceType == model.AuditResourceOrder &&
			f.ResourceID != nil && *f.ResourceID == 4 &&
			f.Action == nil
	})).Return([]model.AuditLog{{ID: 9, ResourceID: 4}}, int64(1), nil).Once()

	out, err := uc.List(context.Background(), adminP, usecase.ListAuditLogsInput{ResourceType: "order", ResourceID: &orderID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Len(t, out.Items, 1)
	repos.auditLogs.AssertExpectations(t)
}

func TestListAuditLogs_Rejections(t *testing.T) {
	tx, _ := newTxMocks()
	uc := usecase.NewAuditUsecase(tx)

	_, err := uc.List(context.Background(), userP, usecase.ListAuditLogsInput{})
	assert.Equal(t, usecase.KindForbidden, usecase.KindOf(err))

	_, err = uc.List(context.Background(), adminP, usecase.ListAuditLogsInput{Action: "DROP_TABLE"})
	assert.Equal(t, usecase.KindInvalidInput, usecase.KindOf(err))

	_, err = uc.List(context.Background(), adminP, usecase.ListAuditLogsInput{Limit: 500})
	assert.Equal(t, usecase.KindInvalidInput, usecase.KindOf(err))

	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}
