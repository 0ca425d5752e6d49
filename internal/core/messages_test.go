package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAppendStampsTimeAndID(t *testing.T) {
	req := require.New(t)
	msgs := newTestMessageLog(t, newTestStore(t))
	ctx := context.Background()

	msgs.now = at(time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC))

	stored, err := msgs.Append(ctx, Message{From: "alice", To: Broadcast, Text: "oi", Kind: KindMessage})
	req.NoError(err)
	req.NotEmpty(stored.ID)
	req.Equal("15:09:26", stored.Time)

	visible, err := msgs.VisibleTo(ctx, "alice", 0)
	req.NoError(err)
	req.Len(visible, 1)
	req.Equal(stored.ID, visible[0].ID)
	req.Equal("15:09:26", visible[0].Time)
}

func TestVisibleToKeepsInsertionOrderAndLimit(t *testing.T) {
	req := require.New(t)
	msgs := newTestMessageLog(t, newTestStore(t))
	ctx := context.Background()

	texts := []string{"um", "dois", "tres", "quatro", "cinco"}
	for _, text := range texts {
		_, err := msgs.Append(ctx, Message{From: "alice", To: Broadcast, Text: text, Kind: KindMessage})
		req.NoError(err)
	}
	// invisible to bob, must not count against his limit window
	_, err := msgs.Append(ctx, Message{From: "alice", To: "carol", Text: "psst", Kind: KindPrivate})
	req.NoError(err)

	all, err := msgs.VisibleTo(ctx, "bob", 0)
	req.NoError(err)
	req.Len(all, 5)
	for i, m := range all {
		req.Equal(texts[i], m.Text)
	}

	last, err := msgs.VisibleTo(ctx, "bob", 1)
	req.NoError(err)
	req.Len(last, 1)
	req.Equal("cinco", last[0].Text)

	lastTwo, err := msgs.VisibleTo(ctx, "bob", 2)
	req.NoError(err)
	req.Len(lastTwo, 2)
	req.Equal("quatro", lastTwo[0].Text)
	req.Equal("cinco", lastTwo[1].Text)
}

func TestDeleteBySender(t *testing.T) {
	req := require.New(t)
	msgs := newTestMessageLog(t, newTestStore(t))
	ctx := context.Background()

	stored, err := msgs.Append(ctx, Message{From: "alice", To: Broadcast, Text: "typo", Kind: KindMessage})
	req.NoError(err)

	req.NoError(msgs.Delete(ctx, stored.ID, "alice"))

	visible, err := msgs.VisibleTo(ctx, "alice", 0)
	req.NoError(err)
	req.Empty(visible)
}

func TestDeleteByNonSender(t *testing.T) {
	req := require.New(t)
	msgs := newTestMessageLog(t, newTestStore(t))
	ctx := context.Background()

	stored, err := msgs.Append(ctx, Message{From: "alice", To: Broadcast, Text: "oi", Kind: KindMessage})
	req.NoError(err)

	err = msgs.Delete(ctx, stored.ID, "bob")
	req.ErrorIs(err, ErrNotSender)

	// message survives the rejected delete
	visible, err := msgs.VisibleTo(ctx, "alice", 0)
	req.NoError(err)
	req.Len(visible, 1)
}

func TestDeleteUnknownMessage(t *testing.T) {
	msgs := newTestMessageLog(t, newTestStore(t))

	err := msgs.Delete(context.Background(), "no-such-id", "alice")
	require.ErrorIs(t, err, ErrMessageNotFound)
}
