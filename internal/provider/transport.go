package provider

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"google.golang.org/api/googleapi"
)

// baseTransport returns the client's round tripper, or the default one.
func baseTransport(c *http.Client) http.RoundTripper {
	if c != nil && c.Transport != nil {
		return c.Transport
	}
	return http.DefaultTransport
}

// statusCheckTransport fails any non-2xx reply with a *googleapi.Error
// before a client library tries to decode it.
type statusCheckTransport struct {
	base http.RoundTripper
}

func (t *statusCheckTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	// CheckResponse parses Google's {"error": {...}} body when there is one.
	if err := googleapi.CheckResponse(res); err != nil {
		res.Body.Close()
		return nil, err
	}
	return res, nil
}

// ErrorMessageError is a 2xx reply whose body carries a top-level
// error_message field.
type ErrorMessageError struct {
	Message string
}

func (e *ErrorMessageError) Error() string {
	return "error_message: " + e.Message
}

// errorMessageTransport turns a 2xx reply carrying error_message into an
// *ErrorMessageError. Generated API clients drop unknown fields, so this is
// the only place the message can be seen.
type errorMessageTransport struct {
	base http.RoundTripper
}

func (t *errorMessageTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.base.RoundTrip(req)
	if err != nil || res.StatusCode < 200 || res.StatusCode > 299 {
		return res, err
	}

	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var envelope struct {
		ErrorMessage string `json:"error_message"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.ErrorMessage != "" {
		return nil, &ErrorMessageError{Message: envelope.ErrorMessage}
	}

	res.Body = io.NopCloser(bytes.NewReader(body))
	return res, nil
}

// redactURL drops the request URL from transport errors; it carries the
// API key in its query string and the message ends up in the gallery.
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
