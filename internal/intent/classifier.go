// Package intent decides whether a user prompt names a city or describes
// a landmark, by asking a language model for a strict JSON verdict.
package intent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/landmark-finder/internal/llm"
	"github.com/fleveque/landmark-finder/internal/model"
	"github.com/fleveque/landmark-finder/internal/storage"
)

// Classifier asks LLM clients (in configured order) to classify a prompt.
// Each client gets a single attempt; a transport or API failure falls
// through to the next client, a reply that parses but names no strategy
// does not.
type Classifier struct {
	clients  []llm.Client
	callRepo storage.ClassificationRepository // nil when the audit log is disabled
	logger   *zap.Logger
}

// NewClassifier creates a classifier. callRepo may be nil.
func NewClassifier(clients []llm.Client, callRepo storage.ClassificationRepository, logger *zap.Logger) *Classifier {
	return &Classifier{
		clients:  clients,
		callRepo: callRepo,
		logger:   logger,
	}
}

// Classify returns the City or Description verdict for prompt.
// Errors wrap ErrClassificationFailed or ErrUnknownStrategy.
func (c *Classifier) Classify(ctx context.Context, prompt string) (model.Classification, error) {
	if len(c.clients) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrClassificationFailed, llm.ErrNoClients)
	}

	userPrompt := BuildPrompt(prompt)
	var lastErr error

	for i, client := range c.clients {
		result, err := c.tryClient(ctx, client, prompt, userPrompt)
		if err == nil {
			return result, nil
		}
		// A model that answered with the wrong shape will not be overruled
		// by asking another one.
		if errors.Is(err, ErrUnknownStrategy) {
			return nil, err
		}

		lastErr = err

		if i < len(c.clients)-1 {
			c.logger.Warn("LLM provider failed, trying next",
				zap.String("prompt", prompt),
				zap.String("provider", client.ProviderName()),
				zap.Error(err),
			)
		}
	}

	return nil, lastErr
}

func (c *Classifier) tryClient(ctx context.Context, client llm.Client, prompt, userPrompt string) (model.Classification, error) {
	start := time.Now()
	reply, err := client.Complete(ctx, SystemPrompt, userPrompt)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		c.recordCall(ctx, client, prompt, nil, duration)
		return nil, fmt.Errorf("%w: %w", ErrClassificationFailed, err)
	}

	c.logger.Debug("LLM classification reply",
		zap.String("provider", client.ProviderName()),
		zap.String("reply", reply),
	)

	result, err := ParseClassification(reply)
	c.recordCall(ctx, client, prompt, result, duration)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Classifier) recordCall(ctx context.Context, client llm.Client, prompt string, result model.Classification, durationMs int64) {
	if c.callRepo == nil {
		return
	}

	call := &model.ClassificationCall{
		Prompt:   prompt,
		Provider: client.ProviderName(),
		Model:    client.ModelName(),
		Success:  result != nil,
	}
	call.DurationMs = &durationMs
	if result != nil {
		strategy := string(result.Strategy())
		call.Strategy = &strategy
	}

	if err := c.callRepo.Create(ctx, call); err != nil {
		c.logger.Error("recording classification call", zap.Error(err))
	}
}
