package app

import (
	"errors"

	"github.com/temperhq/taskcal/internal/backend/supabase"
)

// errNoFlow means an OAuth code arrived without a pending PKCE flow,
// e.g. after the form was restarted.
var errNoFlow = errors.New("no sign-in flow in progress, start again")

// authMessage turns an auth failure into a user-facing banner string.
// Typed backend errors already carry a readable message; anything else
// gets a generic line with the detail appended.
func authMessage(err error) string {
	var authErr *supabase.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return "could not sign in: " + err.Error()
}
