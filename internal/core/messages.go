package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"batepapo/internal/store"
)

// Broadcast is the recipient sentinel addressing every participant.
const Broadcast = "Todos"

// Message kinds.
const (
	KindStatus  = "status"
	KindMessage = "message"
	KindPrivate = "private_message"
)

// Texts of the system-generated presence notices.
const (
	joinedText = "entra na sala..."
	leftText   = "sai da sala..."
)

// TimeLayout is the display precision of message timestamps.
const TimeLayout = "15:04:05"

// Message is one entry of the append-only chat log.
type Message struct {
	ID   string `json:"id,omitempty"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Kind string `json:"kind"`
	Time string `json:"time"`
}

// MessageLog is the append-only store of chat events. Messages are never
// updated; insertion order is the sole ordering key.
type MessageLog struct {
	store store.Store
	log   *zerolog.Logger
	now   func() time.Time
}

// NewMessageLog creates a message log over the given store.
func NewMessageLog(st store.Store, logger *zerolog.Logger) *MessageLog {
	return &MessageLog{
		store: st,
		log:   logger,
		now:   time.Now,
	}
}

// Append stores the message, stamping its display time at insertion, and
// returns it with the assigned id.
func (l *MessageLog) Append(ctx context.Context, msg Message) (Message, error) {
	msg.ID = ""
	msg.Time = l.now().Format(TimeLayout)

	id, err := l.store.Insert(ctx, store.CollectionMessages, msg)
	if err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}
	msg.ID = id

	return msg, nil
}

// AppendJoined appends the broadcast status notice for a participant entering the room.
func (l *MessageLog) AppendJoined(ctx context.Context, name string) error {
	_, err := l.Append(ctx, Message{From: name, To: Broadcast, Text: joinedText, Kind: KindStatus})
	return err
}

// AppendLeft appends the broadcast status notice for a participant leaving the room.
func (l *MessageLog) AppendLeft(ctx context.Context, name string) error {
	_, err := l.Append(ctx, Message{From: name, To: Broadcast, Text: leftText, Kind: KindStatus})
	return err
}

// VisibleTo returns the messages user is entitled to see, in insertion
// order, truncated to the trailing limit entries when limit is positive.
func (l *MessageLog) VisibleTo(ctx context.Context, user string, limit int) ([]Message, error) {
	docs, err := l.store.FindAll(ctx, store.CollectionMessages, nil)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	msgs := make([]Message, 0, len(docs))
	for _, doc := range docs {
		var m Message
		if err := json.Unmarshal(doc.Body, &m); err != nil {
			return nil, fmt.Errorf("unmarshal message: %w", err)
		}
		m.ID = doc.ID
		msgs = append(msgs, m)
	}

	return lastN(Visible(user, msgs), limit), nil
}

// Delete removes the message with the given id on behalf of requester.
// Returns ErrMessageNotFound when the id is unknown and ErrNotSender when
// the requester did not author the message.
func (l *MessageLog) Delete(ctx context.Context, id, requester string) error {
	doc, err := l.store.FindOne(ctx, store.CollectionMessages, store.Filter{"id": id})
	if errors.Is(err, store.ErrNoDocument) {
		return ErrMessageNotFound
	}
	if err != nil {
		return fmt.Errorf("find message: %w", err)
	}

	var m Message
	if err := json.Unmarshal(doc.Body, &m); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	if m.From != requester {
		return ErrNotSender
	}

	if err := l.store.DeleteOne(ctx, store.CollectionMessages, store.Filter{"id": id}); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	l.log.Info().Str("message_id", id).Str("requester", requester).Msg("message deleted")
	return nil
}
