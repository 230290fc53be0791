package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trainer",
		Subsystem: "ai",
		Name:      "request_duration_seconds",
		Help:      "Duration of AI generation requests",
	}, []string{"model", "operation"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainer",
		Subsystem: "ai",
		Name:      "request_failures_total",
		Help:      "Number of AI generation failures",
	}, []string{"model", "operation"})
)

// ErrEmptyCompletion indicates the provider answered without any content.
var ErrEmptyCompletion = errors.New("empty completion")

// Config defines configuration options for the chat generator.
type Config struct {
	Provider      Provider
	APIKey        string
	BaseURL       string
	Model         string
	MaxTokens     int
	Temperature   float32
	QuestionCount int
	Logger        zerolog.Logger
}

// ChatGenerator produces interview questions and answer feedback through an
// OpenAI-compatible chat completion API.
type ChatGenerator struct {
	client *openai.Client
	cfg    Config
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewChatGenerator builds a generator using the provided configuration.
func NewChatGenerator(cfg Config) (*ChatGenerator, error) {
	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenAI
	}
	defaults, ok := providerDefaults[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s api key is required", cfg.Provider)
	}

	if cfg.Model == "" {
		cfg.Model = defaults.model
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.baseURL
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}
	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = 5
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &ChatGenerator{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/interview-trainer-api/pkg/ai"),
		logger: logger.With().Str("component", "ai_generator").Str("provider", string(cfg.Provider)).Logger(),
	}, nil
}

// Model returns the model name requests are sent to.
func (g *ChatGenerator) Model() string {
	return g.cfg.Model
}

// GenerateQuestions asks the model for a list of interview questions for the role.
func (g *ChatGenerator) GenerateQuestions(ctx context.Context, role string) ([]string, error) {
	content, err := g.complete(ctx, "questions", questionSystemPrompt(), buildQuestionPrompt(role, g.cfg.QuestionCount),
		attribute.String("interview.role", role))
	if err != nil {
		return nil, err
	}

	questions := ParseQuestionList(content)
	g.logger.Debug().Str("role", role).Int("count", len(questions)).Msg("questions generated")
	return questions, nil
}

// GenerateFeedback asks the model to grade the answer; the reply embeds "Score: X out of 10".
func (g *ChatGenerator) GenerateFeedback(ctx context.Context, question, answer string) (string, error) {
	return g.complete(ctx, "feedback", feedbackSystemPrompt(), buildFeedbackPrompt(question, answer),
		attribute.Int("interview.answer_length", len(answer)))
}

func (g *ChatGenerator) complete(parent context.Context, operation, system, prompt string, attrs ...attribute.KeyValue) (string, error) {
	attrs = append(attrs, attribute.String("model", g.cfg.Model), attribute.String("operation", operation))
	ctx, span := g.tracer.Start(parent, "ai."+operation, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	aiDuration.WithLabelValues(g.cfg.Model, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", g.fail(span, operation, fmt.Errorf("%s %s: %w", g.cfg.Provider, operation, err))
	}

	if len(resp.Choices) == 0 {
		return "", g.fail(span, operation, fmt.Errorf("%s %s: no choices returned: %w", g.cfg.Provider, operation, ErrEmptyCompletion))
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", g.fail(span, operation, fmt.Errorf("%s %s: %w", g.cfg.Provider, operation, ErrEmptyCompletion))
	}

	span.SetAttributes(attribute.Int("ai.total_tokens", resp.Usage.TotalTokens))
	return content, nil
}

func (g *ChatGenerator) fail(span trace.Span, operation string, err error) error {
	aiFailures.WithLabelValues(g.cfg.Model, operation).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	g.logger.Warn().Err(err).Str("operation", operation).Msg("ai request failed")
	return err
}
