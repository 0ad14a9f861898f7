package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrUnauthorized     = fmt.Errorf("session invalidated by server")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrNetworkFailure     = fmt.Errorf("network request failed")
	ErrMalformedResponse  = fmt.Errorf("unrecognized response shape")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotFound           = fmt.Errorf("not found")
	ErrPlaylistNotFound   = fmt.Errorf("playlist %w", ErrNotFound)
	ErrVideoNotFound      = fmt.Errorf("video %w", ErrNotFound)

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrEmptyContent    = fmt.Errorf("%w: content cannot be empty", ErrValidation)
	ErrContentTooLong  = fmt.Errorf("%w: content exceeds character limit", ErrValidation)
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
