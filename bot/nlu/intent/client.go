// Package intent talks to the external model server that serves the
// trained classifier. Training and serving live outside this repo; the
// engine only needs ranked labels per utterance.
package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	contractx "bankbot/bot/contract"
)

const maxResponseSizeBytes = 1 << 20

type Config struct {
	URL     string        `split_words:"true" required:"true"`
	Token   string        `split_words:"true"`
	TopK    int           `split_words:"true" default:"3"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("classifier url is required")
	}

	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(cfg.Token),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	return client, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type predictRequest struct {
	Text string `json:"text"`
	TopK int    `json:"top_k"`
}

type predictResponse struct {
	Predictions []struct {
		Intent string  `json:"intent"`
		Score  float64 `json:"score"`
	} `json:"predictions"`
}

// Predict returns the model's ranked labels for text, highest confidence
// first, never empty on success.
func (c *Client) Predict(ctx context.Context, text string, topK int) ([]contractx.IntentPrediction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", contractx.ErrValidation)
	}
	if topK <= 0 {
		topK = 1
	}

	body, err := json.Marshal(predictRequest{Text: text, TopK: topK})
	if err != nil {
		return nil, fmt.Errorf("marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrClassifier, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", contractx.ErrClassifier, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: status=%d body=%s", contractx.ErrClassifier, resp.StatusCode, string(raw))
	}

	var parsed predictResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", contractx.ErrClassifier, err)
	}
	if len(parsed.Predictions) == 0 {
		return nil, contractx.ErrNoPrediction
	}

	out := make([]contractx.IntentPrediction, 0, len(parsed.Predictions))
	for _, p := range parsed.Predictions {
		out = append(out, contractx.IntentPrediction{
			Intent:     contractx.Intent(p.Intent),
			Confidence: p.Score,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out, nil
}
