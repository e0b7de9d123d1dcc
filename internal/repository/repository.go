package repository

import (
	"context"

	"github.com/mandapam/portal/internal/domain"

	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	PaymentAttempts PaymentAttempts
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		PaymentAttempts: newPaymentAttemptRepository(db),
	}
}

type AttemptFilter struct {
	EventID   int64  `form:"event_id"`
	OrderID   string `form:"order_id"`
	PaymentID string `form:"payment_id"`
	Phone     string `form:"phone"`
	Limit     int    `form:"limit"`
}

type PaymentAttempts interface {
	Record(ctx context.Context, attempt *domain.PaymentAttempt) error
	List(ctx context.Context, filter AttemptFilter) ([]domain.PaymentAttempt, error)
}
