package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TinyLlamaClient talks to the local TinyLlama FastAPI generation server.
type TinyLlamaClient struct {
	url        string
	httpClient *http.Client
}

// NewTinyLlamaClient creates a TinyLlama completion client.
func NewTinyLlamaClient(url string, timeout time.Duration) *TinyLlamaClient {
	return &TinyLlamaClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type tinyLlamaRequest struct {
	UserInput string `json:"user_input"`
}

type tinyLlamaResponse struct {
	Response string `json:"response"`
}

// Complete sends the prompt to the local generation server and returns the
// trimmed response text.
func (c *TinyLlamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(tinyLlamaRequest{UserInput: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal tinyllama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create tinyllama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: tinyllama request: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading tinyllama response: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: tinyllama status=%d body=%s", ErrUpstream, resp.StatusCode, truncate(string(body), 400))
	}

	var parsed tinyLlamaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: invalid tinyllama payload: %s", ErrUpstream, truncate(string(body), 400))
	}

	if strings.TrimSpace(parsed.Response) == "" {
		return "", fmt.Errorf("%w: tinyllama returned no response text", ErrUpstream)
	}
	return strings.TrimSpace(parsed.Response), nil
}
