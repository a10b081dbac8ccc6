// Package backend implements the HTTP client for the external prediction and
// chat service. All intelligence lives behind this API; the client issues a
// single attempt per call with no retry or backoff and surfaces failures
// through the error taxonomy in errors.go.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config configures the HTTP backend client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client talks to the prediction/chat backend via REST endpoints.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a client against the configured base URL.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  httpClient,
	}, nil
}

// Register creates an account. A duplicate email surfaces as ErrConflict.
func (c *Client) Register(ctx context.Context, input RegisterInput) (UserProfile, error) {
	var profile UserProfile
	if err := c.do(ctx, http.MethodPost, "/users/", "", input, &profile); err != nil {
		return UserProfile{}, err
	}
	return profile, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. The endpoint is the one
// call that takes form-encoded input rather than JSON.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("backend: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", classify(resp.StatusCode, readDetail(resp))
	}
	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("backend: decode response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("backend: login response missing access token")
	}
	return token.AccessToken, nil
}

// CurrentUser fetches the profile for the given token.
func (c *Client) CurrentUser(ctx context.Context, token string) (UserProfile, error) {
	var profile UserProfile
	if err := c.do(ctx, http.MethodGet, "/users/me/", token, nil, &profile); err != nil {
		return UserProfile{}, err
	}
	return profile, nil
}

// UpdateCurrentUser persists mutable profile fields; the server is trusted to
// store them and echoes the updated record.
func (c *Client) UpdateCurrentUser(ctx context.Context, token string, update ProfileUpdate) (UserProfile, error) {
	var profile UserProfile
	if err := c.do(ctx, http.MethodPut, "/users/me/", token, update, &profile); err != nil {
		return UserProfile{}, err
	}
	return profile, nil
}

// PredictSales submits a one-hot encoded feature record to the sales model.
func (c *Client) PredictSales(ctx context.Context, token string, features SalesFeatures) (SalesPrediction, error) {
	var prediction SalesPrediction
	if err := c.do(ctx, http.MethodPost, "/predict/sales", token, features, &prediction); err != nil {
		return SalesPrediction{}, err
	}
	return prediction, nil
}

// PredictMaintenance submits sensor telemetry to the maintenance model.
func (c *Client) PredictMaintenance(ctx context.Context, token string, reading MaintenanceReading) (MaintenanceDiagnosis, error) {
	var diagnosis MaintenanceDiagnosis
	if err := c.do(ctx, http.MethodPost, "/predict/maintenance", token, reading, &diagnosis); err != nil {
		return MaintenanceDiagnosis{}, err
	}
	return diagnosis, nil
}

type chatRequest struct {
	Prompt string `json:"prompt"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat sends a prompt to the assistant and returns its reply.
func (c *Client) Chat(ctx context.Context, token, prompt string) (string, error) {
	var reply chatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", token, chatRequest{Prompt: prompt}, &reply); err != nil {
		return "", err
	}
	return reply.Response, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, payload any, target any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("backend: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return classify(resp.StatusCode, readDetail(resp))
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}
	return nil
}

// readDetail extracts FastAPI's {"detail": ...} error body; anything else is
// returned raw so the message still reaches logs.
func readDetail(resp *http.Response) string {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return ""
	}
	var wrapped struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(buf.Bytes(), &wrapped); err == nil && wrapped.Detail != "" {
		return wrapped.Detail
	}
	return strings.TrimSpace(buf.String())
}
