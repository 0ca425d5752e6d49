package core

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"batepapo/internal/store"
	"batepapo/internal/store/sqlite"
)

// newTestStore creates an in-memory document store.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	require.NoError(t, err, "create test store")
	t.Cleanup(func() { st.Close() })

	return st
}

func newTestRegistry(t *testing.T, st store.Store) *Registry {
	t.Helper()

	logger := zerolog.Nop()
	return NewRegistry(st, &logger)
}

func newTestMessageLog(t *testing.T, st store.Store) *MessageLog {
	t.Helper()

	logger := zerolog.Nop()
	return NewMessageLog(st, &logger)
}

// at pins a clock to a fixed instant.
func at(instant time.Time) func() time.Time {
	return func() time.Time { return instant }
}
