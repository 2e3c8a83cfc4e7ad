package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client defines the backend operations the conversation layer depends
// on. HTTPClient is the production implementation; MockClient covers
// tests.
type Client interface {
	// SendMessage posts a user (or synthesized) message to the
	// goal-onboarding exchange and returns the assistant's reply with
	// stage and pending actions.
	SendMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error)

	// SendChatMessage posts a message to the generic chat exchange. The
	// reply may carry pending actions but no meaningful stage.
	SendChatMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error)

	// FetchGoalPlan retrieves the plan generated for a completed goal.
	FetchGoalPlan(ctx context.Context, goalID int) (*GoalPlan, error)

	// FetchGreeting retrieves the personalized chat greeting.
	FetchGreeting(ctx context.Context, userID int) (*GreetingResponse, error)

	// FetchHistory retrieves a page of chat history, newest first.
	// beforeID of zero fetches the most recent page.
	FetchHistory(ctx context.Context, userID, limit, beforeID int) (*HistoryResponse, error)

	// SkipOnboarding skips the goal-onboarding conversation.
	SkipOnboarding(ctx context.Context, userID int) (*SkipResponse, error)
}

// HTTPClient talks JSON over HTTPS to the companion backend.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

// WithAuthToken sets the bearer token attached to every request.
func WithAuthToken(token string) Option {
	return func(c *HTTPClient) {
		c.authToken = token
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = d
	}
}

// NewHTTPClient creates a client for the given base URL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendMessage posts a message to the onboarding/chat endpoint.
func (c *HTTPClient) SendMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.post(ctx, "/api/v1/goals/onboarding/message", req, &resp); err != nil {
		return nil, err
	}
	resp.normalize()
	return &resp, nil
}

// SendChatMessage posts a message to the generic chat endpoint.
func (c *HTTPClient) SendChatMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.post(ctx, "/api/v1/chat/message", req, &resp); err != nil {
		return nil, err
	}
	resp.normalize()
	return &resp, nil
}

// FetchGoalPlan retrieves the plan for a goal.
func (c *HTTPClient) FetchGoalPlan(ctx context.Context, goalID int) (*GoalPlan, error) {
	var plan GoalPlan
	path := fmt.Sprintf("/api/v1/goals/%d/plan", goalID)
	if err := c.get(ctx, path, nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// FetchGreeting retrieves the personalized greeting.
func (c *HTTPClient) FetchGreeting(ctx context.Context, userID int) (*GreetingResponse, error) {
	var resp GreetingResponse
	q := url.Values{"user_id": {strconv.Itoa(userID)}}
	if err := c.get(ctx, "/api/v1/chat/greeting", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchHistory retrieves a page of chat history.
func (c *HTTPClient) FetchHistory(ctx context.Context, userID, limit, beforeID int) (*HistoryResponse, error) {
	q := url.Values{
		"user_id": {strconv.Itoa(userID)},
		"limit":   {strconv.Itoa(limit)},
	}
	if beforeID > 0 {
		q.Set("before_id", strconv.Itoa(beforeID))
	}

	var resp HistoryResponse
	if err := c.get(ctx, "/api/v1/chat/history", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SkipOnboarding skips the goal-onboarding conversation.
func (c *HTTPClient) SkipOnboarding(ctx context.Context, userID int) (*SkipResponse, error) {
	var resp SkipResponse
	if err := c.post(ctx, "/api/v1/goals/onboarding/skip", skipRequest{UserID: userID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, truncateBody(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
