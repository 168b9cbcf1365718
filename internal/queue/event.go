// Package queue defines the catalog events exchanged over RabbitMQ, the
// publisher used by the service and the consumer that writes them to an
// audit log.
package queue

import "time"

// EventType names what happened to the catalog.
type EventType string

const (
	GenreCreated EventType = "genre.created"
	MovieCreated EventType = "movie.created"
	MovieUpdated EventType = "movie.updated"
	MovieDeleted EventType = "movie.deleted"
)

// CatalogEvent is published after a write commits. It carries enough for
// downstream consumers to log or index the change without querying the
// primary database. JSON names follow the API's field names.
type CatalogEvent struct {
	Type       EventType `json:"type"`
	GenreID    int64     `json:"idGenero,omitempty"`
	GenreName  string    `json:"nombre,omitempty"`
	MovieID    int64     `json:"idPelicula,omitempty"`
	MovieCode  string    `json:"codigo,omitempty"`
	MovieTitle string    `json:"titulo,omitempty"`
	Fields     []string  `json:"campos,omitempty"`
	OccurredAt string    `json:"occurred_at"`
}

// Stamp sets OccurredAt to t in RFC 3339 UTC and returns the event.
func (e CatalogEvent) Stamp(t time.Time) CatalogEvent {
	e.OccurredAt = t.UTC().Format(time.RFC3339)
	return e
}
