package store

import (
	"context"
	"errors"
)

// Collection names used by the chat core.
const (
	CollectionParticipants = "participants"
	CollectionMessages     = "messages"
)

// Filter selects documents whose top-level fields equal the given values.
// A nil or empty filter matches every document in the collection. The
// reserved key "id" addresses the document identifier instead of a body
// field.
type Filter map[string]any

// Patch names top-level body fields to overwrite on a matched document.
type Patch map[string]any

// Document is a stored record: the assigned identifier plus the raw JSON body.
type Document struct {
	ID   string
	Body []byte
}

// ErrNoDocument is returned when FindOne, UpdateOne or DeleteOne match nothing.
var ErrNoDocument = errors.New("no matching document")

// Store is the minimal document-store contract the chat core consumes.
// Implementations must preserve insertion order in FindAll results.
type Store interface {
	// Insert stores doc in the named collection and returns the assigned id.
	Insert(ctx context.Context, collection string, doc any) (string, error)

	// FindAll returns every document matching filter, in insertion order.
	FindAll(ctx context.Context, collection string, filter Filter) ([]Document, error)

	// FindOne returns the oldest document matching filter.
	FindOne(ctx context.Context, collection string, filter Filter) (*Document, error)

	// UpdateOne applies patch to the oldest document matching filter.
	UpdateOne(ctx context.Context, collection string, filter Filter, patch Patch) error

	// DeleteOne removes the oldest document matching filter.
	DeleteOne(ctx context.Context, collection string, filter Filter) error

	// Close closes the underlying database connection.
	Close() error
}
