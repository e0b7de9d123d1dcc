package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mandapam/portal/internal/db"
	"github.com/mandapam/portal/internal/domain"
)

const defaultAttemptLimit = 100

type paymentAttemptRepository struct {
	db *sqlx.DB
}

func newPaymentAttemptRepository(db *sqlx.DB) *paymentAttemptRepository {
	return &paymentAttemptRepository{
		db: db,
	}
}

func (r *paymentAttemptRepository) Record(ctx context.Context, attempt *domain.PaymentAttempt) error {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}

	const query = `
				INSERT INTO payment_attempts (id, event_id, member_id, phone, order_id, payment_id, attempt, outcome, error, created_at)
				VALUES (:id, :event_id, :member_id, :phone, :order_id, :payment_id, :attempt, :outcome, :error, :created_at)
				`
	_, err := r.db.NamedExecContext(ctx, query, attempt)
	if err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == db.DuplicateEntry {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("db insert payment attempt: %w", err)
	}

	return nil
}

func (r *paymentAttemptRepository) List(ctx context.Context, filter AttemptFilter) ([]domain.PaymentAttempt, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.EventID > 0 {
		where = append(where, "event_id = ?")
		args = append(args, filter.EventID)
	}
	if filter.OrderID != "" {
		where = append(where, "order_id = ?")
		args = append(args, filter.OrderID)
	}
	if filter.PaymentID != "" {
		where = append(where, "payment_id = ?")
		args = append(args, filter.PaymentID)
	}
	if filter.Phone != "" {
		where = append(where, "phone = ?")
		args = append(args, filter.Phone)
	}

	limit := filter.Limit
	if limit <= 0 || limit > defaultAttemptLimit {
		limit = defaultAttemptLimit
	}

	query := `SELECT id, event_id, member_id, phone, order_id, payment_id, attempt, outcome, error, created_at FROM payment_attempts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, attempt DESC LIMIT ?"
	args = append(args, limit)

	attempts := make([]domain.PaymentAttempt, 0)
	if err := r.db.SelectContext(ctx, &attempts, query, args...); err != nil {
		return nil, fmt.Errorf("db select payment attempts: %w", err)
	}

	return attempts, nil
}
