package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyGeneration is returned when the model reply yields no usable slides
	ErrEmptyGeneration = errors.New("generation produced no slides")

	// ErrInvalidInput is returned for blank or oversized source text
	ErrInvalidInput = errors.New("invalid input text")

	// ErrPresentationNotFound is returned when no deck exists for an id
	ErrPresentationNotFound = errors.New("presentation not found")

	// ErrIDMismatch is returned when an update body names a different deck than the path
	ErrIDMismatch = errors.New("presentation id mismatch")

	// ErrNoSlides is returned when exporting a deck that has no slides
	ErrNoSlides = errors.New("presentation has no slides")

	// ErrAssetNotFound is returned when an image path does not resolve to a file
	ErrAssetNotFound = errors.New("asset not found")

	// ErrNoTemplates is returned when no template is registered
	ErrNoTemplates = errors.New("no templates configured")
)

// RequestError wraps a failure of the language model call
type RequestError struct {
	Model string
	Cause error
}

func (e *RequestError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("model request to %s failed: %v", e.Model, e.Cause)
	}
	return fmt.Sprintf("model request failed: %v", e.Cause)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// TemplateLoadError reports a template file that could not be read or parsed
type TemplateLoadError struct {
	TemplateID string
	Path       string
	Cause      error
}

func (e *TemplateLoadError) Error() string {
	return fmt.Sprintf("loading template %q from %s: %v", e.TemplateID, e.Path, e.Cause)
}

func (e *TemplateLoadError) Unwrap() error {
	return e.Cause
}
