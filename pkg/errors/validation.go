package errors

import (
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// ValidateDimension checks that an instance dimension lies in [lo, hi].
// A non-positive hi means there is no upper limit.
func ValidateDimension(name string, v, lo, hi int) error {
	if v < lo {
		return New(ErrCodeInvalidInstance, "%s must be at least %d, got %d", name, lo, v)
	}
	if hi > 0 && v > hi {
		return New(ErrCodeInvalidInstance, "%s must be at most %d, got %d", name, hi, v)
	}
	return nil
}

// ValidateTimeLimit validates a solver time budget.
//
// Validation rules:
//   - Must be positive
//   - Maximum of 24 hours
func ValidateTimeLimit(d time.Duration) error {
	if d <= 0 {
		return New(ErrCodeInvalidInput, "time limit must be positive, got %s", d)
	}
	const maxTimeLimit = 24 * time.Hour
	if d > maxTimeLimit {
		return New(ErrCodeInvalidInput, "time limit too long (max %s)", maxTimeLimit)
	}
	return nil
}

// ValidatePath validates an instance file path given on the command line.
// It rejects empty paths, control characters and null bytes.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidInput, "path %q names a directory", path)
	}

	return nil
}
