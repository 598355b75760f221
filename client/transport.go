// file: client/transport.go

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// refreshTimeout bounds each refresh-token exchange so a hung refresh call
// cannot stall the request that triggered it indefinitely.
const refreshTimeout = 10 * time.Second

// ErrNoRefreshToken is returned when a 401 arrives and the storage holds no
// refresh token to recover with.
var ErrNoRefreshToken = errors.New("no refresh token available")

// AuthTransport is an http.RoundTripper that attaches the stored access
// token to every outgoing request and transparently recovers from token
// expiry: on a 401 it exchanges the refresh token for a new access token and
// resubmits the original request exactly once. A second 401, or a failed
// refresh, surfaces to the caller unmodified.
//
// Concurrent requests that hit 401 at the same time share a single refresh
// exchange: the first one through the mutex performs it, the rest observe the
// already-updated storage and reuse the result.
type AuthTransport struct {
	Base    http.RoundTripper
	Storage TokenStorage

	refreshURL    string
	refreshClient *http.Client

	mu sync.Mutex
}

// NewAuthTransport creates an AuthTransport refreshing against the given API
// base URL. A nil base falls back to http.DefaultTransport.
func NewAuthTransport(baseURL string, storage TokenStorage, base http.RoundTripper) *AuthTransport {
	return &AuthTransport{
		Base:       base,
		Storage:    storage,
		refreshURL: baseURL + "/auth/refresh-token",
		// The refresh call deliberately bypasses this transport; it must
		// never recurse into the retry logic itself.
		refreshClient: &http.Client{Timeout: refreshTimeout},
	}
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	accessToken, err := t.Storage.AccessToken()
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}

	// The incoming request must not be mutated per the RoundTripper
	// contract; work on a clone.
	attempt := req.Clone(req.Context())
	if accessToken != "" {
		attempt.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := t.base().RoundTrip(attempt)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// A request body can only be replayed when the request knows how to
	// rewind it. Without that, the 401 stands.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	newToken, refreshErr := t.refreshAccessToken(req.Context(), accessToken)
	if refreshErr != nil {
		// Surface the original 401 untouched; stored tokens are left in
		// place for an explicit logout to clear.
		return resp, nil
	}

	resp.Body.Close()

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+newToken)

	return t.base().RoundTrip(retry)
}

// refreshAccessToken performs the coalesced refresh exchange. staleToken is
// the access token that just earned a 401; if the stored token has already
// moved past it, another request refreshed first and that result is reused.
func (t *AuthTransport) refreshAccessToken(ctx context.Context, staleToken string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, err := t.Storage.AccessToken()
	if err == nil && current != "" && current != staleToken {
		return current, nil
	}

	refreshToken, err := t.Storage.RefreshToken()
	if err != nil {
		return "", fmt.Errorf("failed to read refresh token: %w", err)
	}
	if refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.refreshClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh token exchange failed with status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", errors.New("refresh response carried no access token")
	}

	if err := t.Storage.SetAccessToken(body.AccessToken); err != nil {
		return "", err
	}

	return body.AccessToken, nil
}
