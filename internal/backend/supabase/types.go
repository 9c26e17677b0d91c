package supabase

import (
	"errors"
	"fmt"
	"time"

	"github.com/temperhq/taskcal/internal/model"
)

// AuthError is returned by the auth endpoints. Message is suitable for
// the sign-in form; Detail keeps the backend's own wording for logs.
type AuthError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *AuthError) Error() string {
	if e.Detail != "" && e.Detail != e.Message {
		return fmt.Sprintf("%s (%d: %s)", e.Message, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// IsAuthError reports whether err (or any error in its chain) is an
// AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// authMessage picks the form-level message for an auth failure. The
// backend's own description is preferred when present since it already
// distinguishes bad credentials from unconfirmed accounts.
func authMessage(status int, detail string) string {
	if detail != "" {
		return detail
	}
	switch status {
	case 400, 401:
		return "invalid email or password"
	case 422:
		return "invalid sign-up details"
	case 429:
		return "too many attempts, try again later"
	default:
		return "authentication failed"
	}
}

// errorResponse covers the error payload shapes the backend produces.
// GoTrue uses error/error_description or msg depending on the endpoint;
// PostgREST uses message.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (r errorResponse) message() string {
	switch {
	case r.ErrorDescription != "":
		return r.ErrorDescription
	case r.Msg != "":
		return r.Msg
	case r.Message != "":
		return r.Message
	default:
		return r.Error
	}
}

// sessionResponse is the wire shape of a GoTrue session.
type sessionResponse struct {
	AccessToken   string       `json:"access_token"`
	TokenType     string       `json:"token_type"`
	ExpiresIn     int          `json:"expires_in"`
	RefreshToken  string       `json:"refresh_token"`
	ProviderToken string       `json:"provider_token"`
	User          userResponse `json:"user"`
}

// userResponse is the wire shape of a GoTrue user record.
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// toModel converts the wire session into the application model.
func (r *sessionResponse) toModel() *model.Session {
	return &model.Session{
		AccessToken:   r.AccessToken,
		RefreshToken:  r.RefreshToken,
		ProviderToken: r.ProviderToken,
		ExpiresAt:     time.Now().Add(time.Duration(r.ExpiresIn) * time.Second),
		User: model.User{
			ID:        r.User.ID,
			Email:     r.User.Email,
			CreatedAt: r.User.CreatedAt,
		},
	}
}
