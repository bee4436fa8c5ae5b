// AngelaMos | 2026
// client.go

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pulsecrm/pulse-crm/internal/activity"
	"github.com/pulsecrm/pulse-crm/internal/auth"
	"github.com/pulsecrm/pulse-crm/internal/core"
	"github.com/pulsecrm/pulse-crm/internal/dashboard"
	"github.com/pulsecrm/pulse-crm/internal/lead"
	"github.com/pulsecrm/pulse-crm/internal/user"
)

const defaultTimeout = 10 * time.Second

var ErrNotSignedIn = errors.New("not signed in")

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client talks to the CRM API on behalf of one session. The session is
// restored from the store on creation and saved on every sign-in.
type Client struct {
	baseURL string
	http    *http.Client
	store   SessionStore
	now     func() time.Time

	mu      sync.RWMutex
	session *Session
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, store SessionStore, opts ...Option) (*Client, error) {
	if store == nil {
		store = NewMemoryStore()
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		store:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	session, err := store.Load()
	if err != nil {
		return nil, err
	}
	if session != nil && !session.Expired(c.now()) {
		c.session = session
	}

	return c, nil
}

// Session returns a copy of the current session or nil.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

func (c *Client) Register(
	ctx context.Context,
	req auth.RegisterRequest,
) (*Session, error) {
	var resp auth.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &resp, false); err != nil {
		return nil, err
	}
	return c.startSession(resp)
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp auth.AuthResponse
	req := auth.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp, false); err != nil {
		return nil, err
	}
	return c.startSession(resp)
}

// Logout revokes the token server-side and forgets it locally. The local
// session is cleared even if the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	serverErr := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, true)

	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	if err := c.store.Clear(); err != nil {
		return err
	}

	if serverErr != nil && !errors.Is(serverErr, ErrNotSignedIn) {
		return serverErr
	}
	return nil
}

func (c *Client) Me(ctx context.Context) (*auth.UserResponse, error) {
	var resp auth.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListLeads(ctx context.Context) ([]lead.LeadResponse, error) {
	var resp []lead.LeadResponse
	if err := c.do(ctx, http.MethodGet, "/api/leads", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetLead(ctx context.Context, id string) (*lead.LeadResponse, error) {
	var resp lead.LeadResponse
	if err := c.do(ctx, http.MethodGet, "/api/leads/"+url.PathEscape(id), nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateLead(
	ctx context.Context,
	req lead.CreateLeadRequest,
) (*lead.LeadResponse, error) {
	var resp lead.LeadResponse
	if err := c.do(ctx, http.MethodPost, "/api/leads", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateLead(
	ctx context.Context,
	id string,
	req lead.UpdateLeadRequest,
) (*lead.LeadResponse, error) {
	var resp lead.LeadResponse
	if err := c.do(ctx, http.MethodPut, "/api/leads/"+url.PathEscape(id), req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteLead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/leads/"+url.PathEscape(id), nil, nil, true)
}

func (c *Client) ListActivities(
	ctx context.Context,
	leadID string,
) ([]activity.ActivityResponse, error) {
	var resp []activity.ActivityResponse
	if err := c.do(ctx, http.MethodGet, "/api/activities/"+url.PathEscape(leadID), nil, &resp, true); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) AddActivity(
	ctx context.Context,
	req activity.CreateActivityRequest,
) (*activity.ActivityResponse, error) {
	var resp activity.ActivityResponse
	if err := c.do(ctx, http.MethodPost, "/api/activities", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]user.UserResponse, error) {
	var resp []user.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ResetPassword(
	ctx context.Context,
	userID string,
) (*user.ResetPasswordResponse, error) {
	var resp user.ResetPasswordResponse
	path := "/api/users/" + url.PathEscape(userID) + "/reset-password"
	if err := c.do(ctx, http.MethodPost, path, nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Summary(ctx context.Context) (*dashboard.SummaryResponse, error) {
	var resp dashboard.SummaryResponse
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/summary", nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) startSession(resp auth.AuthResponse) (*Session, error) {
	session := &Session{
		Token:     resp.Token,
		UserID:    resp.ID,
		Email:     resp.Email,
		Name:      resp.Name,
		Role:      resp.Role,
		ExpiresAt: resp.ExpiresAt,
	}

	if err := c.store.Save(session); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	s := *session
	return &s, nil
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	body, out any,
	authenticated bool,
) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authenticated {
		session := c.Session()
		if session == nil || session.Expired(c.now()) {
			return ErrNotSignedIn
		}
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body core.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
