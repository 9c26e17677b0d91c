package gcal

import (
	"context"
	"sync"
	"time"

	"github.com/temperhq/taskcal/internal/model"
	"github.com/temperhq/taskcal/internal/source"
)

// State is the loader's lifecycle position. The states are mutually
// exclusive by construction: there is no way to be loading and failed at
// the same time.
type State int

const (
	// StateIdle: no provider token; nothing to show.
	StateIdle State = iota

	// StateInitializing: token present, API client being established.
	StateInitializing

	// StateReady: client usable, no fetch in flight yet.
	StateReady

	// StateLoading: a fetch is in flight.
	StateLoading

	// StateLoaded: the last fetch succeeded.
	StateLoaded

	// StateFailed: client setup or the last fetch failed.
	StateFailed
)

// String returns a short name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Snapshot is an immutable view of the loader for rendering.
type Snapshot struct {
	State  State
	Events []model.Event

	// ErrMessage is the panel-level error text, empty when healthy.
	ErrMessage string
}

// Loader drives the calendar feed through its lifecycle: idle until a
// provider token appears, then client setup, then fetch cycles.
//
// Every token change bumps an internal generation counter, and Initialize
// and Fetch discard their results when the generation moved while they
// were in flight. Overlapping refreshes therefore resolve to the newest
// request rather than to whichever response lands last.
type Loader struct {
	mu      sync.Mutex
	factory ClientFactory
	now     func() time.Time

	token      string
	generation uint64
	client     EventLister
	state      State
	events     []model.Event
	errMessage string
}

// NewLoader creates a loader in the idle state. A nil factory uses the
// real Calendar API client.
func NewLoader(factory ClientFactory) *Loader {
	if factory == nil {
		factory = DefaultFactory
	}
	return &Loader{
		factory: factory,
		now:     time.Now,
		state:   StateIdle,
	}
}

// SetToken installs a new provider token and reports whether the caller
// should run Initialize. An empty token resets to idle, dropping cached
// events and any error. An unchanged token is a no-op.
func (l *Loader) SetToken(token string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if token == l.token {
		return false
	}

	l.token = token
	l.generation++
	l.client = nil
	l.events = nil
	l.errMessage = ""

	if token == "" {
		l.state = StateIdle
		return false
	}
	l.state = StateInitializing
	return true
}

// Initialize establishes the API client for the current token. On success
// the loader reaches StateReady and the caller should issue the automatic
// first fetch. A setup error is surfaced in the snapshot, never fatal.
func (l *Loader) Initialize(ctx context.Context) error {
	l.mu.Lock()
	token := l.token
	gen := l.generation
	l.mu.Unlock()

	if token == "" {
		return nil
	}

	client, err := l.factory(ctx, token)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		// Token changed while we were connecting; this result is stale.
		return nil
	}
	if err != nil {
		l.state = StateFailed
		l.errMessage = "could not connect to the calendar service"
		return err
	}
	l.client = client
	l.state = StateReady
	return nil
}

// Fetch loads the upcoming event window. Prior events are cleared on
// failure so the panel never silently shows stale data, and the error
// message auto-clears on the next success. Stale completions (token
// change or a newer fetch) are discarded.
func (l *Loader) Fetch(ctx context.Context) error {
	l.mu.Lock()
	if l.client == nil {
		l.mu.Unlock()
		return nil
	}
	client := l.client
	l.generation++
	gen := l.generation
	l.state = StateLoading
	l.mu.Unlock()

	events, err := client.ListUpcoming(ctx, l.now())

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		return nil
	}
	if err != nil {
		l.state = StateFailed
		l.events = nil
		l.errMessage = source.AsFetchError(err).Message
		return err
	}
	l.state = StateLoaded
	l.events = events
	l.errMessage = ""
	return nil
}

// Snapshot returns the current state, events, and error message. The
// returned event slice is a copy.
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	events := make([]model.Event, len(l.events))
	copy(events, l.events)
	return Snapshot{
		State:      l.state,
		Events:     events,
		ErrMessage: l.errMessage,
	}
}
