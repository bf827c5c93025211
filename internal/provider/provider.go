// Package provider defines the image-search capabilities the landmark finder
// dispatches to. Each lookup strategy has its own interface so an alternate
// backend can be substituted without touching the classifier.
//
// Implementations never return errors: every failure is converted into a
// single human-readable message at this boundary, so callers always get a
// non-empty list of at most model.MaxResults strings.
package provider

import "context"

// CitySearcher finds landmark photos for a city name (strategy A).
type CitySearcher interface {
	FetchByCity(ctx context.Context, city string) []string
	Name() string
}

// DescriptionSearcher finds images matching a free-text description (strategy B).
type DescriptionSearcher interface {
	FetchByDescription(ctx context.Context, description string) []string
	Name() string
}
