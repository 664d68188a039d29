package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	ErrNoEndpoint     = errors.New("remote endpoint not configured")
	ErrUnexpectedBody = errors.New("unexpected response body from remote endpoint")
)

// Client talks to the spreadsheet-backed web endpoint. The endpoint accepts
// one record per POST and answers GET with the stored records as JSON.
type Client struct {
	httpClient *http.Client
}

type Options struct {
	Timeout time.Duration
	// CredentialsJSON is a Google service-account key. When empty, requests are sent unauthenticated.
	CredentialsJSON []byte
	Scopes          []string
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := &http.Client{Timeout: timeout}
	if len(opts.CredentialsJSON) > 0 {
		scopes := opts.Scopes
		if len(scopes) == 0 {
			scopes = []string{"https://www.googleapis.com/auth/spreadsheets"}
		}
		creds, err := google.CredentialsFromJSON(ctx, opts.CredentialsJSON, scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse google credentials: %w", err)
		}
		httpClient = oauth2.NewClient(ctx, creds.TokenSource)
		httpClient.Timeout = timeout
	}

	return &Client{httpClient: httpClient}, nil
}

// Push posts a single value as JSON. Any 2xx response counts as acknowledged.
func (c *Client) Push(ctx context.Context, endpoint string, v any) error {
	if endpoint == "" {
		return ErrNoEndpoint
	}

	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to push to remote endpoint: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("remote endpoint returned status %d", resp.StatusCode)
	}

	return nil
}

// Fetch reads stored values for a month into out. The endpoint may answer
// with a bare JSON array or an object wrapping it under "records" or "data".
func (c *Client) Fetch(ctx context.Context, endpoint string, year, month int, out any) error {
	if endpoint == "" {
		return ErrNoEndpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid remote endpoint: %w", err)
	}
	q := u.Query()
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(month))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch from remote endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("remote endpoint returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return fmt.Errorf("failed to read remote response: %w", err)
	}

	return decodeList(raw, out)
}

func decodeList(raw []byte, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ErrUnexpectedBody
	}

	if raw[0] == '[' {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: %v", ErrUnexpectedBody, err)
		}
		return nil
	}

	var envelope struct {
		Records json.RawMessage `json:"records"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedBody, err)
	}

	list := envelope.Records
	if len(list) == 0 {
		list = envelope.Data
	}
	if len(list) == 0 || bytes.Equal(list, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(list, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedBody, err)
	}
	return nil
}
