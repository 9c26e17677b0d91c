package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/temperhq/taskcal/internal/model"
)

const authPrefix = "/auth/v1"

// CalendarReadonlyScope is requested during OAuth sign-in so the session
// carries a provider token usable against the calendar API.
const CalendarReadonlyScope = "https://www.googleapis.com/auth/calendar.readonly"

// credentials is the request body shared by password sign-in and sign-up.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInWithPassword exchanges email/password credentials for a session.
// Bad credentials and unconfirmed accounts come back as *AuthError.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error) {
	query := url.Values{"grant_type": {"password"}}

	var resp sessionResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "/token",
		query:  query,
		body:   credentials{Email: email, Password: password},
		result: &resp,
	})
	if err != nil {
		return nil, fmt.Errorf("signing in: %w", err)
	}
	return resp.toModel(), nil
}

// SignUp registers a new account. Depending on backend settings the
// response may carry a live session or only the created user (email
// confirmation pending); in the latter case the session has no tokens
// and the caller should tell the user to check their inbox.
func (c *Client) SignUp(ctx context.Context, email, password string) (*model.Session, error) {
	var resp sessionResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "/signup",
		body:   credentials{Email: email, Password: password},
		result: &resp,
	})
	if err != nil {
		return nil, fmt.Errorf("signing up: %w", err)
	}
	return resp.toModel(), nil
}

// RefreshSession exchanges a refresh token for a fresh session. Used on
// startup to resume the persisted session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*model.Session, error) {
	query := url.Values{"grant_type": {"refresh_token"}}

	var resp sessionResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "/token",
		query:  query,
		body:   map[string]string{"refresh_token": refreshToken},
		result: &resp,
	})
	if err != nil {
		return nil, fmt.Errorf("refreshing session: %w", err)
	}
	return resp.toModel(), nil
}

// SignOut revokes the session server-side. A failure here is logged and
// otherwise ignored; the local session is dropped regardless.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "/logout",
		bearer: accessToken,
	})
	if err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	return nil
}
