package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"batepapo/internal/store"
)

// Participant is a registered chat member.
type Participant struct {
	Name     string `json:"name"`
	LastSeen int64  `json:"lastSeen"` // unix milliseconds
}

// Registry tracks registered participants and their last-seen timestamps.
// All mutation of participant records goes through here, for request
// handlers and the presence sweeper alike.
type Registry struct {
	store store.Store
	log   *zerolog.Logger
	now   func() time.Time

	// mu serializes Join's find-then-insert pair so two concurrent joins
	// of the same name cannot both observe "absent".
	mu sync.Mutex
}

// NewRegistry creates a participant registry over the given store.
func NewRegistry(st store.Store, logger *zerolog.Logger) *Registry {
	return &Registry{
		store: st,
		log:   logger,
		now:   time.Now,
	}
}

// Join registers a new participant with lastSeen set to now. It returns
// ErrNameTaken when the exact name is already registered; at most one of
// any set of concurrent joins for a name succeeds.
func (r *Registry) Join(ctx context.Context, name string) (*Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.store.FindOne(ctx, store.CollectionParticipants, store.Filter{"name": name})
	if err == nil {
		return nil, ErrNameTaken
	}
	if !errors.Is(err, store.ErrNoDocument) {
		return nil, fmt.Errorf("check participant: %w", err)
	}

	p := &Participant{Name: name, LastSeen: r.now().UnixMilli()}
	if _, err := r.store.Insert(ctx, store.CollectionParticipants, p); err != nil {
		return nil, fmt.Errorf("insert participant: %w", err)
	}

	r.log.Info().Str("name", name).Msg("participant joined")
	return p, nil
}

// List returns all registered participants in insertion order.
func (r *Registry) List(ctx context.Context) ([]Participant, error) {
	docs, err := r.store.FindAll(ctx, store.CollectionParticipants, nil)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	participants := make([]Participant, 0, len(docs))
	for _, doc := range docs {
		var p Participant
		if err := json.Unmarshal(doc.Body, &p); err != nil {
			return nil, fmt.Errorf("unmarshal participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, nil
}

// Exists reports whether a participant with the exact name is registered.
func (r *Registry) Exists(ctx context.Context, name string) (bool, error) {
	_, err := r.store.FindOne(ctx, store.CollectionParticipants, store.Filter{"name": name})
	if err == nil {
		return true, nil
	}
	if errors.Is(err, store.ErrNoDocument) {
		return false, nil
	}
	return false, fmt.Errorf("check participant: %w", err)
}

// Touch sets the participant's lastSeen to now. Returns ErrNotOnline when
// no participant with that name is registered.
func (r *Registry) Touch(ctx context.Context, name string) error {
	err := r.store.UpdateOne(ctx,
		store.CollectionParticipants,
		store.Filter{"name": name},
		store.Patch{"lastSeen": r.now().UnixMilli()},
	)
	if errors.Is(err, store.ErrNoDocument) {
		return ErrNotOnline
	}
	if err != nil {
		return fmt.Errorf("touch participant: %w", err)
	}
	return nil
}

// Remove deletes the participant record. Removing an absent name is a no-op.
func (r *Registry) Remove(ctx context.Context, name string) error {
	err := r.store.DeleteOne(ctx, store.CollectionParticipants, store.Filter{"name": name})
	if errors.Is(err, store.ErrNoDocument) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	return nil
}
