package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks a missing conversation record or audio file.
	ErrNotFound = errors.New("not found")
	// ErrPrecondition marks an operation attempted before its input exists,
	// such as analysis without a transcript.
	ErrPrecondition = errors.New("precondition failed")
	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("validation error")
	// ErrExternal marks a failure reported by, or while reaching, a remote provider.
	ErrExternal = errors.New("external service error")
	// ErrConfiguration marks missing or unusable settings such as an absent API key.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component and operation context
// while tagging it with the provided marker for later classification. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a stable, lower-case classification for err based on the
// sentinel it wraps. Unclassified errors report "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPrecondition):
		return "precondition"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrExternal):
		return "external"
	default:
		return "internal"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{component, operation, message} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
