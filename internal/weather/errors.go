package weather

import "errors"

// Configuration errors.
var (
	ErrNoDefaultProvider  = errors.New("no default provider selected, run `weather default <provider>` first")
	ErrMissingCredentials = errors.New("provider credentials are not configured, run `weather configure <provider>` first")
	ErrUnknownProvider    = errors.New("unknown weather provider")
)

// Lookup errors.
var (
	ErrTransport        = errors.New("request failed")
	ErrDecode           = errors.New("malformed response")
	ErrUnsupported      = errors.New("unsupported request")
	ErrLocationNotFound = errors.New("location not found")
	ErrProviderResponse = errors.New("provider returned an error")
)

// IsConfigError reports whether err stems from missing or invalid configuration.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrNoDefaultProvider) ||
		errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrUnknownProvider)
}
