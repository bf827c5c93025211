// Package service contains the core business logic of the landmark finder.
// LandmarkService runs the two-branch pipeline:
//
//	classify: ask the LLM whether the prompt is a city or a description
//	fetch:    city → Places lookup, description → Custom Search lookup
//
// Every outcome, including failures, comes back as a non-empty list of
// strings ready for the gallery.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fleveque/landmark-finder/internal/intent"
	"github.com/fleveque/landmark-finder/internal/model"
	"github.com/fleveque/landmark-finder/internal/provider"
)

// Classifier is the capability the service needs from the intent package.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (model.Classification, error)
}

// LandmarkService dispatches a classified prompt to the matching searcher.
type LandmarkService struct {
	classifier   Classifier
	cities       provider.CitySearcher
	descriptions provider.DescriptionSearcher
	logger       *zap.Logger
}

// NewLandmarkService wires the classifier to one searcher per strategy.
func NewLandmarkService(
	classifier Classifier,
	cities provider.CitySearcher,
	descriptions provider.DescriptionSearcher,
	logger *zap.Logger,
) *LandmarkService {
	return &LandmarkService{
		classifier:   classifier,
		cities:       cities,
		descriptions: descriptions,
		logger:       logger,
	}
}

// ClassifyAndFetch classifies prompt and returns image URLs or a single
// explanatory message. It never returns an empty list and never fails.
func (s *LandmarkService) ClassifyAndFetch(ctx context.Context, prompt string) []string {
	s.logger.Debug("user input received", zap.String("prompt", prompt))

	c, err := s.classifier.Classify(ctx, prompt)
	if err != nil {
		if errors.Is(err, intent.ErrUnknownStrategy) {
			s.logger.Warn("LLM returned an invalid strategy", zap.String("prompt", prompt), zap.Error(err))
			return []string{model.MsgUnknownStrategy}
		}
		s.logger.Error("classifying prompt", zap.String("prompt", prompt), zap.Error(err))
		return []string{model.MsgClassifyFailed}
	}

	var results []string
	switch c := c.(type) {
	case model.City:
		s.logger.Info("fetching landmarks for city",
			zap.String("city", c.Name),
			zap.String("provider", s.cities.Name()),
		)
		results = s.cities.FetchByCity(ctx, c.Name)
	case model.Description:
		s.logger.Info("fetching images for description",
			zap.String("description", c.Text),
			zap.String("provider", s.descriptions.Name()),
		)
		results = s.descriptions.FetchByDescription(ctx, c.Text)
	default:
		s.logger.Error("unhandled classification", zap.String("prompt", prompt), zap.Any("classification", c))
		return []string{model.MsgUnknownStrategy}
	}

	if len(results) == 0 {
		return []string{model.MsgNoImages}
	}
	if len(results) > model.MaxResults {
		results = results[:model.MaxResults]
	}
	return results
}

// Classify exposes the classification step on its own (used by the CLI).
func (s *LandmarkService) Classify(ctx context.Context, prompt string) (model.Classification, error) {
	return s.classifier.Classify(ctx, prompt)
}
