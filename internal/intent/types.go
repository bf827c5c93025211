package intent

import "errors"

var (
	// ErrClassificationFailed indicates the reply could not be read as a classification
	// (transport failure, malformed JSON, or no client answered).
	ErrClassificationFailed = errors.New("classification failed")

	// ErrUnknownStrategy indicates well-formed JSON that names no known strategy
	// or lacks the field that strategy requires.
	ErrUnknownStrategy = errors.New("unknown classification strategy")
)
