// Package events carries booking lifecycle notifications to outside consumers.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

type Type string

const (
	TypeConfirmed Type = "booking.confirmed"
	TypeCancelled Type = "booking.cancelled"
	TypeExpired   Type = "booking.expired"
	TypeNoShow    Type = "booking.no_show"
	TypeCompleted Type = "booking.completed"
)

// BookingEvent is the payload published after a lifecycle transition commits.
type BookingEvent struct {
	Type             Type      `json:"type"`
	BookingID        string    `json:"booking_id"`
	CourtID          int64     `json:"court_id"`
	Date             string    `json:"date"`
	StartTime        string    `json:"start_time"`
	EndTime          string    `json:"end_time"`
	RecurringGroupID string    `json:"recurring_group_id,omitempty"`
	PriorStatus      string    `json:"prior_status"`
	NewStatus        string    `json:"new_status"`
	Reason           string    `json:"reason,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, event BookingEvent) error

func (f PublisherFunc) Publish(ctx context.Context, event BookingEvent) error {
	return f(ctx, event)
}

// LogPublisher writes events to the context logger. It is the default when no
// broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, event BookingEvent) error {
	log.Ctx(ctx).Info().
		Str("component", "booking_events").
		Str("event_type", string(event.Type)).
		Str("booking_id", event.BookingID).
		Int64("court_id", event.CourtID).
		Str("date", event.Date).
		Str("prior_status", event.PriorStatus).
		Str("new_status", event.NewStatus).
		Time("occurred_at", event.OccurredAt).
		Msg("Booking event")
	return nil
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event BookingEvent) error {
	var errs []error
	for _, publisher := range m {
		if publisher == nil {
			continue
		}
		if err := publisher.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
