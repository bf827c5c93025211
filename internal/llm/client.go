// Package llm provides a provider-agnostic interface for single-shot
// language-model completions. The landmark finder uses it to classify a
// user prompt; each provider is asked once and returns the raw reply text.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fleveque/landmark-finder/internal/config"
)

// ErrNoClients is returned when llm.provider_order yields no usable client.
var ErrNoClients = errors.New("no LLM providers configured")

// Client is the interface for LLM providers that can answer a prompt.
// Both Anthropic (Claude) and OpenAI implement this interface, allowing
// the classifier to fall back from one to the other.
//
// Keep interfaces small: one method does the work, the other two only
// label audit records and logs.
type Client interface {
	Complete(ctx context.Context, system string, prompt string) (string, error)
	ProviderName() string
	ModelName() string
}

// NewClients builds the ordered client list from llm.provider_order.
// API keys are not checked here; a missing key shows up as an
// authentication error on the first call.
func NewClients(cfg config.LLMConfig, httpClient *http.Client) ([]Client, error) {
	var clients []Client

	for _, name := range cfg.ProviderOrder {
		switch name {
		case "openai":
			clients = append(clients, NewOpenAIClient(cfg.OpenAI, httpClient))
		case "anthropic":
			clients = append(clients, NewAnthropicClient(cfg.Anthropic, httpClient))
		default:
			return nil, fmt.Errorf("unknown LLM provider %q", name)
		}
	}

	if len(clients) == 0 {
		return nil, ErrNoClients
	}
	return clients, nil
}
