// Package events publishes catalog changes to RabbitMQ after they commit.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	MovieCreated EventType = "movie.created"
	MovieUpdated EventType = "movie.updated"
	MovieDeleted EventType = "movie.deleted"
)

// MovieEvent carries enough for consumers to react without reading the catalog.
type MovieEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	MovieID    uint      `json:"movieId"`
	Title      string    `json:"title,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewMovieEvent(eventType EventType, movieID uint, title string) MovieEvent {
	return MovieEvent{
		ID:         uuid.New(),
		Type:       eventType,
		MovieID:    movieID,
		Title:      title,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event MovieEvent) error
	Close() error
}

type nopPublisher struct{}

// Nop is used when no broker is configured.
func Nop() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, MovieEvent) error { return nil }
func (nopPublisher) Close() error                             { return nil }
