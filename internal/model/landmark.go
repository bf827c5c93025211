// Package model defines the core data types for the landmark finder.
// Struct tags (the `json:"..."` and `db:"..."` annotations) tell
// serialization libraries how to map fields.
package model

import "time"

// MaxResults caps every image result list.
const MaxResults = 10

// Messages returned in place of image URLs. The gallery renders them as
// captions, so every failure path still yields a non-empty list.
const (
	MsgUnknownStrategy      = "Unable to determine strategy. Please try a different prompt."
	MsgClassifyFailed       = "An error occurred while processing your request."
	MsgNoCityResults        = "No results found for this city."
	MsgNoResults            = "No results found."
	MsgNoImages             = "No images found."
	PlacesErrorPrefix       = "Google API Error: "
	CustomSearchErrorPrefix = "Google CSE API Error: "
)

// Strategy is the wire tag the language model uses to pick a lookup path.
type Strategy string

const (
	StrategyCity        Strategy = "A"
	StrategyDescription Strategy = "B"
)

// Classification is the decision produced by the intent classifier.
// It is a closed sum type: City and Description are the only variants.
type Classification interface {
	Strategy() Strategy
	// Subject is the city name or the description, depending on the variant.
	Subject() string
	isClassification()
}

// City routes the request to the place-search lookup.
type City struct {
	Name string
}

func (City) Strategy() Strategy { return StrategyCity }
func (c City) Subject() string  { return c.Name }
func (City) isClassification()  {}

// Description routes the request to the image-search lookup.
type Description struct {
	Text string
}

func (Description) Strategy() Strategy { return StrategyDescription }
func (d Description) Subject() string  { return d.Text }
func (Description) isClassification()  {}

// ClassificationCall records one language-model classification for the
// optional audit log. Image results are never stored.
type ClassificationCall struct {
	ID         int64     `db:"id" json:"id"`
	Prompt     string    `db:"prompt" json:"prompt"`
	Provider   string    `db:"provider" json:"provider"`
	Model      string    `db:"model" json:"model"`
	Strategy   *string   `db:"strategy" json:"strategy,omitempty"`
	Success    bool      `db:"success" json:"success"`
	DurationMs *int64    `db:"duration_ms" json:"duration_ms,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
