package huntapi

import (
	"errors"
	"fmt"
)

// Error kinds shared by every integration. Callers match them with
// errors.Is after any number of %w wraps.
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrNotFound             = errors.New("not found")
	ErrMalformedResponse    = errors.New("malformed response")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrTransport            = errors.New("transport failure")
	ErrConfigurationMissing = errors.New("configuration missing")
)

// Cache-level errors.
var (
	ErrCacheKeyNotFound = errors.New("key not found")
	ErrCacheEntryStale  = errors.New("entry expired")
	ErrCacheDisabled    = errors.New("cache disabled")
)

// MissingKey builds a MalformedResponse error naming the key path that
// was absent or had the wrong shape in an upstream payload.
func MissingKey(path string) error {
	return fmt.Errorf("%w: missing key %q", ErrMalformedResponse, path)
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether err is an authentication or
// authorization failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsConfigurationMissing reports whether err means a required
// credential was absent at service construction time.
func IsConfigurationMissing(err error) bool {
	return errors.Is(err, ErrConfigurationMissing)
}
