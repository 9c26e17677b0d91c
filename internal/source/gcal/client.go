// Package gcal adapts the Google Calendar API into the application's
// event model. The vendor SDK surface is fully contained here: callers
// see model.Event slices and source.FetchError values, nothing else.
package gcal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/temperhq/taskcal/internal/model"
	"github.com/temperhq/taskcal/internal/source"
)

const (
	// upcomingWindow is the fixed forward fetch window.
	upcomingWindow = 30 * 24 * time.Hour

	// maxResults caps a single fetch.
	maxResults = 100

	// fetchTimeout bounds one API round-trip.
	fetchTimeout = 30 * time.Second
)

// EventLister is the narrow read surface the rest of the app depends on.
type EventLister interface {
	// ListUpcoming returns the events of the primary calendar from now
	// through the upcoming window, recurring events expanded, ordered
	// by start time ascending.
	ListUpcoming(ctx context.Context, now time.Time) ([]model.Event, error)
}

// ClientFactory builds an EventLister from a provider access token.
// The Loader uses it so tests can substitute a fake provider.
type ClientFactory func(ctx context.Context, accessToken string) (EventLister, error)

// Client implements EventLister against the Google Calendar v3 API.
type Client struct {
	svc *calendar.Service
	loc *time.Location
}

// NewClient builds a Calendar API client authenticated with the given
// OAuth access token. Events are bucketed in loc; nil means local time.
func NewClient(ctx context.Context, accessToken string, loc *time.Location) (*Client, error) {
	if accessToken == "" {
		return nil, errors.New("access token cannot be empty")
	}
	if loc == nil {
		loc = time.Local
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	httpClient := oauth2.NewClient(ctx, ts)

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}

	return &Client{svc: svc, loc: loc}, nil
}

// DefaultFactory is the ClientFactory used outside of tests.
func DefaultFactory(ctx context.Context, accessToken string) (EventLister, error) {
	return NewClient(ctx, accessToken, nil)
}

// ListUpcoming fetches the primary calendar's events for the fixed
// forward window. Cancelled instances are excluded and recurring events
// arrive pre-expanded to single instances.
func (c *Client) ListUpcoming(ctx context.Context, now time.Time) ([]model.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	resp, err := c.svc.Events.List("primary").
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.Add(upcomingWindow).Format(time.RFC3339)).
		ShowDeleted(false).
		SingleEvents(true).
		MaxResults(maxResults).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err)
	}

	events := make([]model.Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		ev, ok := eventFromAPI(item, c.loc)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// classify maps a Calendar API error onto the shared fetch taxonomy.
// 401 means the token expired, 403 means the calendar scope was not
// granted; everything else is generic.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return &source.FetchError{
				Kind:    source.FetchErrorTokenExpired,
				Message: "calendar token expired, sign in again",
				Err:     err,
			}
		case http.StatusForbidden:
			return &source.FetchError{
				Kind:    source.FetchErrorInsufficientScope,
				Message: "no permission to read the calendar",
				Err:     err,
			}
		}
	}
	return &source.FetchError{
		Kind:    source.FetchErrorGeneric,
		Message: "could not fetch calendar events",
		Err:     err,
	}
}
