package repository

import (
	"testing"
	"time"

	"paintshop/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 接続しないでSQLだけ組み立てる
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=127.0.0.1 user=dry dbname=dry sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestPaginate(t *testing.T) {
	db := dryRunDB(t)

	// LIMIT/OFFSETはプレースホルダになるので句の中身を見る
	tests := []struct {
		name        string
		page, limit int
		wantLimit   int
		wantOffset  int
	}{
		{"second page", 2, 10, 10, 10},
		{"page zero", 0, 10, 10, 0},
		{"limit over max", 1, 1000, 50, 0},
		{"limit zero", 3, 0, 50, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows []model.Order
			stmt := db.Scopes(paginate(tt.page, tt.limit, 50, 100)).Find(&rows).Statement

			c, ok := stmt.Clauses["LIMIT"]
			require.True(t, ok)
			limit, ok := c.Expression.(clause.Limit)
			require.True(t, ok)
			require.NotNil(t, limit.Limit)
			assert.Equal(t, tt.wantLimit, *limit.Limit)
			assert.Equal(t, tt.wantOffset, limit.Offset)
			assert.Contains(t, stmt.SQL.String(), "LIMIT")
		})
	}
}

func TestCreatedBetween(t *testing.T) {
	db := dryRunDB(t)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var rows []model.AuditLog
	stmt := db.Scopes(createdBetween(&from, &to)).Find(&rows).Statement
	assert.Contains(t, stmt.SQL.String(), "created_at >= $1")
	assert.Contains(t, stmt.SQL.String(), "created_at <= $2")
	assert.Equal(t, []interface{}{from, to}, stmt.Vars)

	stmt = db.Scopes(createdBetween(nil, nil)).Find(&rows).Statement
	assert.NotContains(t, stmt.SQL.String(), "created_at")
}
