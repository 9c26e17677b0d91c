package supabase

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/temperhq/taskcal/internal/model"
)

// PKCEFlow holds the one-time secrets for a browser-based OAuth sign-in.
// The verifier stays local; its S256 challenge rides along in the
// authorize URL and the backend checks the pair when the code comes back.
type PKCEFlow struct {
	Verifier string
	URL      string
}

// StartOAuth builds the Google authorize URL with the calendar read-only
// scope and a fresh PKCE verifier. The user opens the URL in a browser,
// signs in, and pastes the code from the redirect back into the app.
func (c *Client) StartOAuth(redirectTo string) PKCEFlow {
	verifier := uuid.NewString() + uuid.NewString()

	sum := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(sum[:])

	query := url.Values{
		"provider":              {"google"},
		"scopes":                {CalendarReadonlyScope},
		"redirect_to":           {redirectTo},
		"code_challenge":        {challenge},
		"code_challenge_method": {"s256"},
	}

	return PKCEFlow{
		Verifier: verifier,
		URL:      c.baseURL + authPrefix + "/authorize?" + query.Encode(),
	}
}

// ExchangeCode trades an OAuth callback code plus the flow's verifier for
// a session. The resulting session carries the Google provider token when
// the requested scopes were granted.
func (c *Client) ExchangeCode(ctx context.Context, code, verifier string) (*model.Session, error) {
	query := url.Values{"grant_type": {"pkce"}}

	var resp sessionResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "/token",
		query:  query,
		body: map[string]string{
			"auth_code":     code,
			"code_verifier": verifier,
		},
		result: &resp,
	})
	if err != nil {
		return nil, fmt.Errorf("exchanging oauth code: %w", err)
	}
	return resp.toModel(), nil
}
