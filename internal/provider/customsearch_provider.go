package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"

	"github.com/fleveque/landmark-finder/internal/config"
	"github.com/fleveque/landmark-finder/internal/model"
)

// CustomSearchProvider finds images that match a description through the
// Google Custom Search JSON API in image mode.
type CustomSearchProvider struct {
	service  *customsearch.Service
	engineID string
	logger   *zap.Logger
}

// NewCustomSearchProvider builds the Custom Search client. The API key is
// attached by a transport wrapped around base, so base's timeout applies.
func NewCustomSearchProvider(ctx context.Context, cfg config.CustomSearchConfig, base *http.Client, logger *zap.Logger) (*CustomSearchProvider, error) {
	client := &http.Client{
		Transport: &transport.APIKey{
			Key:       cfg.APIKey,
			Transport: &errorMessageTransport{base: baseTransport(base)},
		},
	}
	if base != nil {
		client.Timeout = base.Timeout
	}

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating custom search service: %w", err)
	}

	return &CustomSearchProvider{
		service:  svc,
		engineID: cfg.EngineID,
		logger:   logger,
	}, nil
}

func (p *CustomSearchProvider) Name() string {
	return "google-custom-search"
}

// FetchByDescription returns direct image links for description, in the
// order the API ranked them, capped at model.MaxResults.
func (p *CustomSearchProvider) FetchByDescription(ctx context.Context, description string) []string {
	p.logger.Debug("requesting Google Custom Search", zap.String("description", description))

	search, err := p.service.Cse.List().
		Q(description).
		Cx(p.engineID).
		SearchType("image").
		Num(model.MaxResults).
		Context(ctx).
		Do()
	if err != nil {
		var msgErr *ErrorMessageError
		if errors.As(err, &msgErr) {
			p.logger.Error("Custom Search error_message",
				zap.String("description", description),
				zap.String("error_message", msgErr.Message),
			)
			return []string{model.CustomSearchErrorPrefix + msgErr.Message}
		}

		// Google reports API-level problems (bad key, quota, bad cx) as an
		// error object in the body; surface its message verbatim.
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			p.logger.Error("Custom Search API error",
				zap.String("description", description),
				zap.Int("code", apiErr.Code),
				zap.String("error_message", apiErr.Message),
			)
			return []string{model.CustomSearchErrorPrefix + apiErr.Message}
		}

		err = redactURL(err)
		p.logger.Error("Custom Search request failed", zap.String("description", description), zap.Error(err))
		return []string{fmt.Sprintf("Failed to retrieve images. Error: %v", err)}
	}

	links := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item == nil || item.Link == "" {
			continue
		}
		links = append(links, item.Link)
		if len(links) == model.MaxResults {
			break
		}
	}

	if len(links) == 0 {
		return []string{model.MsgNoImages}
	}
	return links
}
