package gateway

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a missing or rejected model credential. It is fatal
// to the action that triggered it.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("language model not configured: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("language model not configured: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ServiceError reports a transport or API failure from the model provider.
// The user may retry the same action.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("language model request failed: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsServiceError reports whether err is or wraps a *ServiceError.
func IsServiceError(err error) bool {
	var target *ServiceError
	return errors.As(err, &target)
}
