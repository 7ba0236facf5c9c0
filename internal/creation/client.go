package creation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"quiz_webapp/internal/domain"
)

// ErrMissingGameID is returned when the service answers 2xx without an id.
var ErrMissingGameID = errors.New("creation service returned no gameId")

// Client talks to the quiz job-creation service.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client that posts creation requests to endpoint.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Create posts the request and decodes {gameId}. Any non-2xx status or
// transport error is returned as an error without further classification.
func (c *Client) Create(ctx context.Context, req domain.CreationRequest) (domain.CreationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.CreationResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.CreationResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.CreationResult{}, fmt.Errorf("post %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.CreationResult{}, fmt.Errorf("API error: %s - %s", resp.Status, string(msg))
	}

	var result domain.CreationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.CreationResult{}, fmt.Errorf("decode response: %w", err)
	}
	if result.GameID == "" {
		return domain.CreationResult{}, ErrMissingGameID
	}

	return result, nil
}
