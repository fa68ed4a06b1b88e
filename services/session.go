package services

import (
	"context"
	"sync"
	"time"

	"kitchen-menu/models"

	"go.uber.org/zap"
)

const (
	defaultQueueSize    = 16
	journalQueueSize    = 64
	journalWriteTimeout = 3 * time.Second
)

type envelope struct {
	intent Intent
	read   func(*Engine)
	sent   time.Time
	reply  chan result
}

type result struct {
	view View
	err  error
}

// Session serialises every intent for one user through a single goroutine, so each
// intent runs to completion before the next one starts.
type Session struct {
	id      string
	engine  *Engine
	journal Journal
	log     *zap.Logger

	queue     chan envelope
	entries   chan JournalEntry
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewSession starts the session loop over engine. journal may be nil.
func NewSession(id string, engine *Engine, journal Journal, log *zap.Logger) *Session {
	if journal == nil {
		journal = NopJournal{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		id:      id,
		engine:  engine,
		journal: journal,
		log:     log.Named("session").With(zap.String("session_id", id)),
		queue:   make(chan envelope, defaultQueueSize),
		entries: make(chan JournalEntry, journalQueueSize),
		done:    make(chan struct{}),
	}
	journalDone := make(chan struct{})
	go s.writeJournal(journalDone)
	go s.run(journalDone)
	return s
}

// ID returns the chat key the session was created for.
func (s *Session) ID() string { return s.id }

func (s *Session) run(journalDone <-chan struct{}) {
	defer func() {
		close(s.entries)
		<-journalDone
		close(s.done)
	}()
	for env := range s.queue {
		if env.read != nil {
			env.read(s.engine)
			env.reply <- result{}
			continue
		}
		view, err := s.engine.Handle(env.intent)
		kind := env.intent.Kind()
		res := resultLabel(err)

		intentsHandled.WithLabelValues(kind, res).Inc()
		intentLatency.WithLabelValues(kind).Observe(time.Since(env.sent).Seconds())
		visibleItems.Observe(float64(len(view.Items)))

		if err != nil {
			s.log.Warn("intent rejected", zap.String("kind", kind), zap.Error(err))
		} else {
			s.log.Debug("intent handled", zap.String("kind", kind), zap.Int("visible", len(view.Items)), zap.Int("total", view.Total))
		}
		env.reply <- result{view: view, err: err}

		s.enqueueJournal(JournalEntry{SessionID: s.id, Kind: kind, Result: res, Payload: env.intent, Visible: len(view.Items)})
	}
}

// enqueueJournal hands e to the journal writer without waiting. A full buffer means the
// journal is far behind; the entry is dropped and counted as a failure.
func (s *Session) enqueueJournal(e JournalEntry) {
	select {
	case s.entries <- e:
	default:
		journalFailures.Inc()
		s.log.Warn("journal backlog full, entry dropped", zap.String("kind", e.Kind))
	}
}

func (s *Session) writeJournal(done chan<- struct{}) {
	defer close(done)
	for e := range s.entries {
		s.record(e)
	}
}

func (s *Session) record(e JournalEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
	defer cancel()
	if err := s.journal.Record(ctx, e); err != nil {
		journalFailures.Inc()
		s.log.Error("journal write failed", zap.String("kind", e.Kind), zap.Error(err))
	}
}

// Dispatch queues in and waits for the resulting view. Once queued, the intent is
// applied even if ctx is cancelled while waiting for the reply.
func (s *Session) Dispatch(ctx context.Context, in Intent) (View, error) {
	if err := CheckIntent(in); err != nil {
		intentsHandled.WithLabelValues("unknown", resultLabel(err)).Inc()
		return View{}, err
	}
	res, err := s.submit(ctx, envelope{intent: in})
	if err != nil {
		return View{}, err
	}
	return res.view, res.err
}

// View returns the current view.
func (s *Session) View(ctx context.Context) (View, error) {
	var v View
	_, err := s.submit(ctx, envelope{read: func(e *Engine) { v = e.View() }})
	return v, err
}

// Item looks up a catalog item, ignoring the active filters.
func (s *Session) Item(ctx context.Context, id string) (models.MenuItem, bool, error) {
	var (
		item models.MenuItem
		ok   bool
	)
	_, err := s.submit(ctx, envelope{read: func(e *Engine) { item, ok = e.Item(id) }})
	return item, ok, err
}

// FilterEditorState returns the values a filter editor should open with.
func (s *Session) FilterEditorState(ctx context.Context, defaultMax int64) (models.FilterSnapshot, error) {
	var f models.FilterSnapshot
	_, err := s.submit(ctx, envelope{read: func(e *Engine) { f = e.FilterEditorState(defaultMax) }})
	return f, err
}

func (s *Session) submit(ctx context.Context, env envelope) (result, error) {
	env.sent = time.Now()
	env.reply = make(chan result, 1)

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return result{}, ErrSessionClosed
	}
	select {
	case s.queue <- env:
		s.mu.RUnlock()
	case <-ctx.Done():
		s.mu.RUnlock()
		return result{}, ctx.Err()
	}

	select {
	case res := <-env.reply:
		return res, nil
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
}

// Close stops accepting intents, lets queued ones finish, flushes the journal and waits
// for both loops to exit.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.queue)
		s.mu.Unlock()
	})
	<-s.done
}
