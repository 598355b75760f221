// file: client/client.go

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"go-auth-api/model"
	"io"
	"net/http"
	"time"
)

// defaultTimeout bounds each request attempt end to end.
const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response decoded into the server's error payload.
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
	Details    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// UserProfile is the claim reflection returned by the current-user endpoint.
type UserProfile struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Client consumes the authentication API. All requests go through an
// AuthTransport, so an expired access token is refreshed and retried without
// the caller noticing.
type Client struct {
	baseURL string
	storage TokenStorage
	http    *http.Client
}

// New creates a Client against the given base URL with in-memory token
// storage.
func New(baseURL string) *Client {
	return NewWithStorage(baseURL, NewMemoryStorage())
}

// NewWithStorage creates a Client using the supplied token storage, for
// callers that persist tokens beyond the process lifetime.
func NewWithStorage(baseURL string, storage TokenStorage) *Client {
	return &Client{
		baseURL: baseURL,
		storage: storage,
		http: &http.Client{
			Transport: NewAuthTransport(baseURL, storage, nil),
			Timeout:   defaultTimeout,
		},
	}
}

// Storage exposes the client's token storage, mainly so callers can clear it
// on logout.
func (c *Client) Storage() TokenStorage {
	return c.storage
}

// Register creates an account and stores the issued token pair.
func (c *Client) Register(ctx context.Context, fullName, email, password string) (*model.AuthResponse, error) {
	body := model.RegisterRequest{FullName: fullName, Email: email, Password: password}

	var resp model.AuthResponse
	if err := c.post(ctx, "/auth/register", body, http.StatusCreated, &resp); err != nil {
		return nil, err
	}

	if err := c.storage.SetTokens(resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates and stores the issued token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	body := model.LoginRequest{Email: email, Password: password}

	var resp model.AuthResponse
	if err := c.post(ctx, "/auth/login", body, http.StatusOK, &resp); err != nil {
		return nil, err
	}

	if err := c.storage.SetTokens(resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshToken explicitly exchanges the stored refresh token for a new
// access token. Normally the transport does this on demand; this method is
// for callers that want to refresh eagerly.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	refreshToken, err := c.storage.RefreshToken()
	if err != nil {
		return "", err
	}
	if refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	var resp model.RefreshResponse
	if err := c.post(ctx, "/auth/refresh-token", model.RefreshTokenRequest{RefreshToken: refreshToken}, http.StatusOK, &resp); err != nil {
		return "", err
	}

	if err := c.storage.SetAccessToken(resp.AccessToken); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// CurrentUser fetches the profile bound to the current access token.
func (c *Client) CurrentUser(ctx context.Context) (*UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/user", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var profile UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Logout invalidates the server-side refresh tokens and clears local
// storage. Local tokens are cleared even if the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if cerr := c.storage.Clear(); cerr != nil {
		return cerr
	}
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return decodeAPIError(resp)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, wantStatus int, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeAPIError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil {
		json.Unmarshal(data, apiErr)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
