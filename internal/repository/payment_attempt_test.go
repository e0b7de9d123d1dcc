package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandapam/portal/internal/db"
	"github.com/mandapam/portal/internal/domain"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetMaxOpenConns(1)

	_, err = db.Migrate(context.Background(), conn, "../../migrations")
	require.NoError(t, err)

	return conn
}

func TestPaymentAttempts_RecordAndList(t *testing.T) {
	repo := newPaymentAttemptRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	msg := "timeout"

	require.NoError(t, repo.Record(ctx, &domain.PaymentAttempt{
		EventID: 1, MemberID: 7, Phone: "9876543210", OrderID: "order_1", PaymentID: "pay_1",
		Attempt: 1, Outcome: domain.AttemptNetworkError, Error: &msg, CreatedAt: base,
	}))
	require.NoError(t, repo.Record(ctx, &domain.PaymentAttempt{
		EventID: 1, MemberID: 7, Phone: "9876543210", OrderID: "order_1", PaymentID: "pay_1",
		Attempt: 2, Outcome: domain.AttemptRecovered, CreatedAt: base.Add(10 * time.Second),
	}))
	require.NoError(t, repo.Record(ctx, &domain.PaymentAttempt{
		EventID: 2, MemberID: 8, Phone: "9123456780", OrderID: "order_2", PaymentID: "pay_2",
		Attempt: 1, Outcome: domain.AttemptConfirmed, CreatedAt: base,
	}))

	got, err := repo.List(ctx, AttemptFilter{PaymentID: "pay_1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.AttemptRecovered, got[0].Outcome)
	assert.Nil(t, got[0].Error)
	require.NotNil(t, got[1].Error)
	assert.Equal(t, "timeout", *got[1].Error)

	got, err = repo.List(ctx, AttemptFilter{EventID: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "order_2", got[0].OrderID)

	got, err = repo.List(ctx, AttemptFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
