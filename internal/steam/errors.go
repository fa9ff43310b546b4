package steam

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a vanity name or Steam ID does not resolve to an account.
	ErrNotFound = errors.New("steam profile not found")
	// ErrPrivateProfile means the requested data is hidden by the owner's privacy settings.
	ErrPrivateProfile = errors.New("steam profile is private")
	// ErrUnavailable covers network, authentication, rate limit and timeout failures.
	ErrUnavailable = errors.New("steam web api unavailable")
)

// APIError is a non-200 answer from the Steam Web API. It unwraps to
// ErrUnavailable; callers that know better reclassify it (e.g. a 401 on the
// friend list means the list is private).
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("%s: unexpected status code %d: %s", e.Endpoint, e.StatusCode, body)
}

func (e *APIError) Unwrap() error {
	return ErrUnavailable
}

// statusCode returns the HTTP status carried by err, or 0.
func statusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
