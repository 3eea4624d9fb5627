// Package groq answers the questions the dialogue engine deferred: deep
// banking knowledge and anything the domain gate let through that no flow
// handles. It talks to Groq's OpenAI-compatible endpoint.
package groq

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "bankbot/bot/contract"
)

//go:embed template/fallback.txt
var fallbackRaw string

var fallbackTemplate = strings.TrimSpace(fallbackRaw)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.groq.com/openai/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"openai/gpt-oss-120b"`
	MaxCompletionToken *int          `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float64       `envconfig:"TEMPERATURE" split_words:"true" default:"0.3"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

var _ contractx.FallbackResponder = (*Responder)(nil)

type Responder struct {
	client      openai.Client
	model       string
	maxTokens   *int
	temperature float64
}

func NewResponder(cfg *Config) (*Responder, error) {
	if cfg == nil || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("groq api key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Responder{
		client:      openai.NewClient(opts...),
		model:       strings.TrimSpace(cfg.Model),
		maxTokens:   cfg.MaxCompletionToken,
		temperature: cfg.Temperature,
	}, nil
}

// Generate asks the model for a general informational answer to the user's
// question.
func (r *Responder) Generate(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: empty query", contractx.ErrValidation)
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(fmt.Sprintf(fallbackTemplate, query)),
		},
		Temperature: openai.Float(r.temperature),
	}
	if r.maxTokens != nil {
		params.MaxCompletionTokens = openai.Int(int64(*r.maxTokens))
	}

	completion, err := r.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("groq: completion has no choices")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
