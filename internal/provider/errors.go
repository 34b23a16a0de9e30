package provider

import "errors"

var (
	// ErrDuplicateProvider indicates a Register call reused an existing name.
	ErrDuplicateProvider = errors.New("duplicate provider")

	// ErrProviderNotFound indicates a lookup for an unregistered name.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrInvalidProviderConfig indicates a malformed provider configuration.
	// Configuration errors are fatal at startup; connection errors are not.
	ErrInvalidProviderConfig = errors.New("invalid provider config")
)
