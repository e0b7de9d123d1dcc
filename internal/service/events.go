package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/internal/upstream"
)

type EventReader interface {
	GetEvent(ctx context.Context, eventID int64) (*domain.Event, error)
	Exhibitors(ctx context.Context, eventID int64) ([]domain.Exhibitor, error)
}

type Events struct {
	reader EventReader
}

func newEvents(reader EventReader) *Events {
	return &Events{reader: reader}
}

func (s *Events) Get(ctx context.Context, eventID int64) (*domain.Event, error) {
	event, err := s.reader.GetEvent(ctx, eventID)
	if err != nil {
		var apiErr *upstream.APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *Events) Exhibitors(ctx context.Context, eventID int64) ([]domain.Exhibitor, error) {
	exhibitors, err := s.reader.Exhibitors(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list exhibitors: %w", err)
	}
	if exhibitors == nil {
		exhibitors = []domain.Exhibitor{}
	}
	return exhibitors, nil
}
