package pinflow

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError is returned when a model's quota, local or remote, is
// exhausted.
type RateLimitError struct {
	RetryAfter time.Duration
	LimitType  string // "tokens" or "requests"
	Model      string
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: %s quota exhausted, retry in %v", e.Model, e.LimitType, e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// IsRateLimitError reports whether err wraps a RateLimitError.
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

var (
	// ErrModelNotRegistered is returned when a model has no registered provider.
	ErrModelNotRegistered = errors.New("model not registered")

	// ErrEditNotSupported is returned when Edit is routed to a model that
	// only generates.
	ErrEditNotSupported = errors.New("model does not support editing")

	// ErrProviderNotConfigured is returned when generation is attempted
	// without an image generator.
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrNoImageInResult is returned when the model answered without an image.
	ErrNoImageInResult = errors.New("no image data found in response")

	// ErrPinNotFound is returned for an unknown pin ID.
	ErrPinNotFound = errors.New("pin not found")

	// ErrNoFinalImage is returned when a pin has no composite to edit or upload.
	ErrNoFinalImage = errors.New("pin has no final image")

	// ErrUploaderNotConfigured is returned by upload operations when the
	// Manager was built without an Uploader.
	ErrUploaderNotConfigured = errors.New("uploader not configured")

	// ErrNoCredentials is returned by a CredentialStore holding nothing.
	ErrNoCredentials = errors.New("no stored credentials")

	// ErrRepositoryUnavailable is returned when a repository fails verification.
	ErrRepositoryUnavailable = errors.New("repository not found, archived or not accessible")

	// ErrInvalidTransition is returned for a progress step change the state
	// machine does not allow.
	ErrInvalidTransition = errors.New("invalid progress transition")
)
