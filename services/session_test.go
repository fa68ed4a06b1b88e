package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"kitchen-menu/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordingJournal struct {
	mu      sync.Mutex
	entries []JournalEntry
}

func (j *recordingJournal) Record(_ context.Context, e JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func (j *recordingJournal) all() []JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]JournalEntry(nil), j.entries...)
}

func newTestSession(t *testing.T, j Journal) *Session {
	t.Helper()
	s := NewSession("test", newTestEngine(t, testMenu()), j, zaptest.NewLogger(t))
	t.Cleanup(s.Close)
	return s
}

func TestSessionDispatch(t *testing.T) {
	j := &recordingJournal{}
	s := newTestSession(t, j)
	ctx := context.Background()

	v, err := s.Dispatch(ctx, AddItem{Draft: soupDraft()})
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", v.Items[0].Name)

	_, err = s.Dispatch(ctx, ReplaceItem{ID: "missing", Draft: soupDraft()})
	assert.ErrorIs(t, err, ErrItemNotFound)

	// Journal writes happen after the reply; Close flushes them.
	s.Close()
	entries := j.all()
	require.Len(t, entries, 2)
	assert.Equal(t, KindAddItem, entries[0].Kind)
	assert.Equal(t, "ok", entries[0].Result)
	assert.Equal(t, 4, entries[0].Visible)
	assert.Equal(t, "not_found", entries[1].Result)
	assert.Equal(t, "test", entries[1].SessionID)
}

func TestSessionReads(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	_, err := s.Dispatch(ctx, SetSearchTerm{Text: "salmon"})
	require.NoError(t, err)

	v, err := s.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Grilled Salmon"}, names(v.Items))

	// Item lookups ignore the active search.
	it, ok, err := s.Item(ctx, cake.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, cake.Name, it.Name)

	_, ok, err = s.Item(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	f, err := s.FilterEditorState(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, models.FilterSnapshot{MaxPrice: 500}, f)
}

func TestSessionSerialisesConcurrentDispatch(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Dispatch(ctx, AddItem{Draft: soupDraft()})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	v, err := s.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 23, v.Total)
	seen := map[string]bool{}
	for _, it := range v.Items {
		assert.False(t, seen[it.ID])
		seen[it.ID] = true
	}
}

func TestSessionClosed(t *testing.T) {
	s := NewSession("closed", newTestEngine(t, testMenu()), nil, nil)
	s.Close()
	s.Close()

	_, err := s.Dispatch(context.Background(), SetSearchTerm{Text: "x"})
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = s.View(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSessionDispatchHonoursContext(t *testing.T) {
	s := newTestSession(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := s.Dispatch(ctx, SetSearchTerm{Text: "x"})
	// Either the send or the wait notices the expired context.
	if err != nil {
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
}

func TestSessionRejectsNilAndPointerIntents(t *testing.T) {
	j := &recordingJournal{}
	s := newTestSession(t, j)
	ctx := context.Background()

	tests := []struct {
		name string
		in   Intent
	}{
		{"nil", nil},
		{"typed nil search", (*SetSearchTerm)(nil)},
		{"typed nil add", (*AddItem)(nil)},
		{"pointer transition", &Transition{}},
		{"foreign type", bogusIntent{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Dispatch(ctx, tt.in)
			assert.ErrorIs(t, err, ErrUnknownIntent)
		})
	}

	v, err := s.Dispatch(ctx, SetSearchTerm{Text: "cake"})
	require.NoError(t, err, "session keeps running")
	assert.Equal(t, []string{"Chocolate Lava Cake"}, names(v.Items))

	s.Close()
	assert.Len(t, j.all(), 1, "rejected intents never reach the journal")
}

// blockingJournal holds every write until release is closed or the write times out.
type blockingJournal struct {
	release chan struct{}
}

func (j blockingJournal) Record(ctx context.Context, _ JournalEntry) error {
	select {
	case <-j.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestSessionRepliesBeforeJournalWrite(t *testing.T) {
	j := blockingJournal{release: make(chan struct{})}
	s := NewSession("slow-journal", newTestEngine(t, testMenu()), j, zaptest.NewLogger(t))
	defer s.Close()
	defer close(j.release)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	start := time.Now()
	for _, term := range []string{"c", "ca", "cak", "cake"} {
		_, err := s.Dispatch(ctx, SetSearchTerm{Text: term})
		require.NoError(t, err)
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
