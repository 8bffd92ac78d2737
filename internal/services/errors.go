package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSelection = errors.New("invalid selection")
	ErrNotFound         = errors.New("not found")
	ErrRemote           = errors.New("tracking server error")
	ErrInvalidPattern   = errors.New("invalid sequence pattern")
	ErrEmptySequence    = errors.New("no frames found")
	ErrLaunch           = errors.New("viewer launch failed")
	ErrConfiguration    = errors.New("configuration error")
	ErrFilesystem       = errors.New("filesystem error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrRemote
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureMessage renders the user-facing text carried in a failed launch
// response.
func FailureMessage(err error) string {
	switch {
	case err == nil:
		return "unknown failure"
	case errors.Is(err, ErrEmptySequence):
		return "No files found for the selected component: " + err.Error()
	case errors.Is(err, ErrInvalidPattern):
		return "Component path is not a readable sequence: " + err.Error()
	case errors.Is(err, ErrNotFound):
		return "Component not found: " + err.Error()
	case errors.Is(err, ErrFilesystem):
		return "Component files could not be read: " + err.Error()
	case errors.Is(err, ErrLaunch):
		return "Viewer could not be started: " + err.Error()
	case errors.Is(err, ErrInvalidSelection):
		return "Selection cannot be viewed: " + err.Error()
	default:
		return err.Error()
	}
}

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
