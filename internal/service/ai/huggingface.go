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

// HuggingFaceClient is a minimal client for the Hugging Face text-generation
// inference API.
type HuggingFaceClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewHuggingFaceClient creates a Hugging Face completion client.
func NewHuggingFaceClient(url, apiKey string, timeout time.Duration) *HuggingFaceClient {
	return &HuggingFaceClient{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
	TopP         float64 `json:"top_p"`
}

type hfChoice struct {
	GeneratedText string `json:"generated_text"`
}

// Complete sends the prompt to the inference endpoint and returns the trimmed
// generated text.
func (c *HuggingFaceClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens: 256,
			Temperature:  0.7,
			TopP:         0.95,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal huggingface request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create huggingface request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: huggingface request: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading huggingface response: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: huggingface status=%d body=%s", ErrUpstream, resp.StatusCode, truncate(string(body), 400))
	}

	var parsed []hfChoice
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: invalid huggingface payload: %s", ErrUpstream, truncate(string(body), 400))
	}

	if len(parsed) == 0 || strings.TrimSpace(parsed[0].GeneratedText) == "" {
		return "", fmt.Errorf("%w: huggingface returned no generated text", ErrUpstream)
	}
	return strings.TrimSpace(parsed[0].GeneratedText), nil
}
