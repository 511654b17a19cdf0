package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingMedia marks catalog leaves with no playable media parts.
	ErrMissingMedia = errors.New("missing media")
	// ErrTransient marks failures worth retrying (timeouts, connection
	// resets, 5xx responses).
	ErrTransient = errors.New("transient failure")
	// ErrPermanent marks failures retrying cannot fix (malformed
	// payloads, 4xx responses).
	ErrPermanent = errors.New("permanent failure")
	// ErrSchemaIncompatible marks optional store capabilities the
	// runtime lacks; callers degrade instead of failing.
	ErrSchemaIncompatible = errors.New("schema incompatible")
	// ErrFatal marks failures that invalidate the whole run.
	ErrFatal = errors.New("fatal failure")
)

// Wrap builds an error message that includes component context while
// tagging it with the provided marker for later classification. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsTransient reports whether err should be retried.
func IsTransient(err error) bool { return errors.Is(err, ErrTransient) }

// IsMissingMedia reports whether err marks a leaf without media.
func IsMissingMedia(err error) bool { return errors.Is(err, ErrMissingMedia) }

// IsPermanent reports whether err marks an unretryable item failure.
func IsPermanent(err error) bool { return errors.Is(err, ErrPermanent) }

// IsSchemaIncompatible reports whether err marks a missing optional
// store capability.
func IsSchemaIncompatible(err error) bool { return errors.Is(err, ErrSchemaIncompatible) }

// IsFatal reports whether err should abort the run.
func IsFatal(err error) bool { return errors.Is(err, ErrFatal) }

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
