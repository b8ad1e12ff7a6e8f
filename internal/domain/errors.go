// Package domain defines domain-specific errors.
// These errors represent failures of the visualizer and its audio collaborators
// and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services and adapters can return.
var (
	// ErrUnknownModule is returned when a visualization module name is not registered.
	ErrUnknownModule = errors.New("unknown visualization module")

	// ErrInvalidFFTSize is returned when an FFT size is not a power of two in [32, 32768].
	ErrInvalidFFTSize = errors.New("invalid fft size: must be a power of two between 32 and 32768")

	// ErrUnsupportedFormat is returned when an audio file format is not supported.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrInvalidFilePath is returned when a file path is empty or invalid.
	ErrInvalidFilePath = errors.New("invalid file path")

	// ErrNotInitialized is returned when an operation is attempted on a closed or uninitialized component.
	ErrNotInitialized = errors.New("component not initialized")

	// ErrNoTrackLoaded is returned when playback is attempted with no track loaded.
	ErrNoTrackLoaded = errors.New("no track loaded")

	// ErrSampleRateMismatch is returned when a track's sample rate differs from the output device rate.
	ErrSampleRateMismatch = errors.New("sample rate does not match output")

	// ErrInvalidColor is returned when a colour string cannot be parsed.
	ErrInvalidColor = errors.New("invalid colour")
)

// AudioSourceError represents an error from an audio source or decoder.
// This wraps low-level decoder and device errors with additional context.
type AudioSourceError struct {
	Op      string // Operation that failed (e.g., "load", "play", "decode")
	Path    string // File path (if applicable)
	Message string // Error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *AudioSourceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("audio source %s failed for '%s': %s", e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("audio source %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *AudioSourceError) Unwrap() error {
	return e.Err
}

// NewAudioSourceError creates a new AudioSourceError.
func NewAudioSourceError(op, path, message string, err error) *AudioSourceError {
	return &AudioSourceError{
		Op:      op,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   any    // Value that failed validation
	Message string // Error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "VisualizerService")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Service, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
