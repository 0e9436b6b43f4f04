// Package anthropic adapts the Anthropic messages API to the
// LLMRepository used by the extraction cascade.
package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/facility-locator/internal/config"
	"github.com/facility-locator/internal/domain/repository"
)

type client struct {
	sdk            sdk.Client
	model          string
	maxTokens      int64
	requestTimeout time.Duration
	logger         *zap.Logger
}

// NewClient creates the generative-model client. The model identifier
// comes from configuration so it can be substituted without code changes.
func NewClient(cfg *config.AIConfig, logger *zap.Logger) repository.LLMRepository {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &client{
		sdk:            sdk.NewClient(opts...),
		model:          cfg.Model,
		maxTokens:      cfg.MaxTokens,
		requestTimeout: cfg.RequestTimeout,
		logger:         logger,
	}
}

// Complete sends the system instruction plus the raw user text and
// returns the concatenated text content of the response. Temperature is
// pinned to zero: deterministic for a given model version, though not a
// guarantee of identical output across versions.
func (c *client) Complete(ctx context.Context, system, user string) (string, error) {
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	msg, err := c.sdk.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		System: []sdk.TextBlockParam{
			{Text: system},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(user)),
		},
		Temperature: sdk.Float(0),
	})
	if err != nil {
		c.logger.Warn("Model call failed", zap.String("model", c.model), zap.Error(err))
		return "", fmt.Errorf("anthropic: create message: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	c.logger.Debug("Model response",
		zap.String("model", c.model),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	return sb.String(), nil
}
