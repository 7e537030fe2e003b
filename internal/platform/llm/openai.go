package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pawcare/backend/pkg/config"
)

const (
	defaultModel   = "gpt-4o-mini"
	requestTimeout = 10 * time.Second
	maxTokens      = 30
	temperature    = 0.8
)

var (
	ErrNotConfigured = errors.New("llm api key not configured")
	ErrEmptyReply    = errors.New("llm returned no content")
)

// Generator produces one short completion for a system prompt.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string) (string, error)
}

type openAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model string, opts ...option.RequestOption) Generator {
	if model == "" {
		model = defaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &openAIGenerator{client: openai.NewClient(opts...), model: model}
}

func (g *openAIGenerator) Generate(ctx context.Context, systemPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
		}),
		Model:       openai.F(openai.ChatModel(g.model)),
		MaxTokens:   openai.F(int64(maxTokens)),
		Temperature: openai.F(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyReply
	}
	return content, nil
}

type unconfigured struct{}

func (unconfigured) Generate(context.Context, string) (string, error) { return "", ErrNotConfigured }

// NewGenerator returns an OpenAI backed Generator, or one that always fails
// with ErrNotConfigured when openai.api_key is empty.
func NewGenerator(cfg *config.Config, log *zap.SugaredLogger) Generator {
	if cfg.OpenAI.APIKey == "" {
		log.Infow("openai api key is empty; dog messages use the fixed list")
		return unconfigured{}
	}
	return NewOpenAIGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
}

var Module = fx.Options(
	fx.Provide(NewGenerator),
)
