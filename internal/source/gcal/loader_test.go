package gcal

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/temperhq/taskcal/internal/model"
)

// fakeLister returns canned results and records calls.
type fakeLister struct {
	events []model.Event
	err    error
	calls  int
}

func (f *fakeLister) ListUpcoming(ctx context.Context, now time.Time) ([]model.Event, error) {
	f.calls++
	return f.events, f.err
}

func fakeFactory(lister EventLister, err error) ClientFactory {
	return func(ctx context.Context, token string) (EventLister, error) {
		if err != nil {
			return nil, err
		}
		return lister, nil
	}
}

func TestLoaderStartsIdle(t *testing.T) {
	l := NewLoader(fakeFactory(&fakeLister{}, nil))
	if snap := l.Snapshot(); snap.State != StateIdle {
		t.Errorf("new loader state = %s, want idle", snap.State)
	}
}

func TestLoaderTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{events: []model.Event{{ID: "e1", Summary: "standup"}}}
	l := NewLoader(fakeFactory(lister, nil))

	if !l.SetToken("tok-1") {
		t.Fatal("SetToken with a fresh token should request initialization")
	}
	if snap := l.Snapshot(); snap.State != StateInitializing {
		t.Fatalf("after SetToken state = %s, want initializing", snap.State)
	}

	if err := l.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if snap := l.Snapshot(); snap.State != StateReady {
		t.Fatalf("after Initialize state = %s, want ready", snap.State)
	}

	if err := l.Fetch(ctx); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	snap := l.Snapshot()
	if snap.State != StateLoaded {
		t.Errorf("after Fetch state = %s, want loaded", snap.State)
	}
	if len(snap.Events) != 1 || snap.Events[0].ID != "e1" {
		t.Errorf("events = %v, want the fetched event", snap.Events)
	}

	// Clearing the token drops everything and returns to idle.
	if l.SetToken("") {
		t.Error("clearing the token must not request initialization")
	}
	snap = l.Snapshot()
	if snap.State != StateIdle || len(snap.Events) != 0 || snap.ErrMessage != "" {
		t.Errorf("after clearing token: %+v, want empty idle snapshot", snap)
	}
}

func TestLoaderSameTokenIsNoop(t *testing.T) {
	l := NewLoader(fakeFactory(&fakeLister{}, nil))
	l.SetToken("tok-1")
	if l.SetToken("tok-1") {
		t.Error("repeating the same token should not restart initialization")
	}
}

func TestLoaderSetupFailureIsSurfacedNotFatal(t *testing.T) {
	l := NewLoader(fakeFactory(nil, errors.New("network down")))
	l.SetToken("tok-1")

	if err := l.Initialize(context.Background()); err == nil {
		t.Fatal("Initialize should report the setup error")
	}
	snap := l.Snapshot()
	if snap.State != StateFailed {
		t.Errorf("state = %s, want failed", snap.State)
	}
	if snap.ErrMessage == "" {
		t.Error("setup failure must leave a user-visible message")
	}
}

func TestLoaderFetchErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		code int
		want string
	}{
		{"expired token", 401, "calendar token expired, sign in again"},
		{"missing scope", 403, "no permission to read the calendar"},
		{"server error", 500, "could not fetch calendar events"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &fakeLister{err: classify(&googleapi.Error{Code: tt.code})}
			l := NewLoader(fakeFactory(lister, nil))
			l.SetToken("tok-1")
			if err := l.Initialize(context.Background()); err != nil {
				t.Fatalf("Initialize: %v", err)
			}
			if err := l.Fetch(context.Background()); err == nil {
				t.Fatal("Fetch should fail")
			}
			if got := l.Snapshot().ErrMessage; got != tt.want {
				t.Errorf("error message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoaderClearsEventsOnFetchFailure(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{events: []model.Event{{ID: "e1"}}}
	l := NewLoader(fakeFactory(lister, nil))
	l.SetToken("tok-1")
	if err := l.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := l.Fetch(ctx); err != nil {
		t.Fatalf("first Fetch: %v", err)
	}

	lister.err = errors.New("connection reset")
	if err := l.Fetch(ctx); err == nil {
		t.Fatal("second Fetch should fail")
	}
	snap := l.Snapshot()
	if len(snap.Events) != 0 {
		t.Errorf("stale events survived a failed fetch: %v", snap.Events)
	}
	if snap.State != StateFailed {
		t.Errorf("state = %s, want failed", snap.State)
	}

	// A later success restores events and clears the error.
	lister.err = nil
	if err := l.Fetch(ctx); err != nil {
		t.Fatalf("third Fetch: %v", err)
	}
	snap = l.Snapshot()
	if snap.ErrMessage != "" || snap.State != StateLoaded || len(snap.Events) != 1 {
		t.Errorf("recovery snapshot = %+v", snap)
	}
}

func TestLoaderDiscardsStaleInitialize(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{}

	// The factory swaps the token while the first Initialize is in
	// flight, making that call's result stale.
	var l *Loader
	factory := func(ctx context.Context, token string) (EventLister, error) {
		if token == "tok-1" {
			l.SetToken("tok-2")
		}
		return lister, nil
	}
	l = NewLoader(factory)

	l.SetToken("tok-1")
	if err := l.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	// The stale completion for tok-1 must not reach ready; tok-2 is
	// still waiting for its own initialization.
	if snap := l.Snapshot(); snap.State != StateInitializing {
		t.Errorf("state = %s, want initializing for the new token", snap.State)
	}

	if err := l.Initialize(ctx); err != nil {
		t.Fatalf("Initialize for tok-2: %v", err)
	}
	if snap := l.Snapshot(); snap.State != StateReady {
		t.Errorf("state = %s, want ready", snap.State)
	}
}

func TestLoaderFetchWithoutClientIsNoop(t *testing.T) {
	l := NewLoader(fakeFactory(&fakeLister{}, nil))
	if err := l.Fetch(context.Background()); err != nil {
		t.Errorf("Fetch before initialization should be a no-op, got %v", err)
	}
	if snap := l.Snapshot(); snap.State != StateIdle {
		t.Errorf("state = %s, want idle", snap.State)
	}
}
