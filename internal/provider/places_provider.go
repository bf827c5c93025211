package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"github.com/fleveque/landmark-finder/internal/config"
	"github.com/fleveque/landmark-finder/internal/model"
)

const defaultPlacesBaseURL = "https://maps.googleapis.com"

// photoMaxWidth is the fixed width requested from the Places photo endpoint.
const photoMaxWidth = 400

// statusErrorPattern matches the maps client's error for a non-OK status:
// "maps: <STATUS> - <error_message>".
var statusErrorPattern = regexp.MustCompile(`(?s)^maps: ([A-Z_]+) - (.*)$`)

// PlacesProvider looks up famous landmarks in a city through the Google
// Places text search API and turns their photo references into photo URLs.
// The photo URLs are handed to the browser as-is; this service never
// downloads them.
type PlacesProvider struct {
	client    *maps.Client
	clientErr error
	apiKey    string
	baseURL   string // e.g. "https://maps.googleapis.com"
	logger    *zap.Logger
}

// NewPlacesProvider creates a provider for the configured Places host.
// A client that cannot be built (a missing key, say) is reported on the
// first lookup rather than at startup.
func NewPlacesProvider(cfg config.PlacesConfig, httpClient *http.Client, logger *zap.Logger) *PlacesProvider {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultPlacesBaseURL
	}

	wrapped := &http.Client{
		Transport: &statusCheckTransport{base: baseTransport(httpClient)},
	}
	if httpClient != nil {
		wrapped.Timeout = httpClient.Timeout
	}

	client, err := maps.NewClient(
		maps.WithAPIKey(cfg.APIKey),
		maps.WithHTTPClient(wrapped),
		maps.WithBaseURL(baseURL),
	)

	return &PlacesProvider{
		client:    client,
		clientErr: err,
		apiKey:    cfg.APIKey,
		baseURL:   baseURL,
		logger:    logger,
	}
}

func (p *PlacesProvider) Name() string {
	return "google-places"
}

// FetchByCity returns photo URLs for up to model.MaxResults landmarks in city.
func (p *PlacesProvider) FetchByCity(ctx context.Context, city string) []string {
	p.logger.Debug("requesting Google Places text search", zap.String("city", city))

	if p.clientErr != nil {
		p.logger.Error("Places client unavailable", zap.Error(p.clientErr))
		return []string{fmt.Sprintf("Failed to retrieve landmarks. Error: %v", p.clientErr)}
	}

	resp, err := p.client.TextSearch(ctx, &maps.TextSearchRequest{
		Query: "famous landmarks in " + city,
	})
	if err != nil {
		return p.errorResult(city, err)
	}

	results := resp.Results
	if len(results) > model.MaxResults {
		results = results[:model.MaxResults]
	}

	urls := make([]string, 0, len(results))
	for _, r := range results {
		if len(r.Photos) == 0 || r.Photos[0].PhotoReference == "" {
			continue
		}
		urls = append(urls, p.PhotoURL(r.Photos[0].PhotoReference))
	}

	if len(urls) == 0 {
		return []string{model.MsgNoCityResults}
	}
	return urls
}

// errorResult maps a TextSearch failure to its single gallery message.
func (p *PlacesProvider) errorResult(city string, err error) []string {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		if m := statusErrorPattern.FindStringSubmatch(err.Error()); m != nil {
			status, message := m[1], strings.TrimSpace(m[2])
			if message == "" {
				// ZERO_RESULTS and friends carry no message and no results.
				p.logger.Info("Places returned no results", zap.String("city", city), zap.String("status", status))
				return []string{model.MsgNoResults}
			}
			p.logger.Error("Places API error",
				zap.String("city", city),
				zap.String("status", status),
				zap.String("error_message", message),
			)
			return []string{model.PlacesErrorPrefix + message}
		}
	}

	err = redactURL(err)
	p.logger.Error("Places text search failed", zap.String("city", city), zap.Error(err))
	return []string{fmt.Sprintf("Failed to retrieve landmarks. Error: %v", err)}
}

// PhotoURL builds the photo retrieval URL for a photo reference.
func (p *PlacesProvider) PhotoURL(photoReference string) string {
	return fmt.Sprintf("%s/maps/api/place/photo?maxwidth=%d&photo_reference=%s&key=%s",
		p.baseURL, photoMaxWidth, url.QueryEscape(photoReference), url.QueryEscape(p.apiKey))
}
