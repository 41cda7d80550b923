package coverage

import "errors"

// Errors reported by an allocation run. They are wrapped into core errors,
// carrying an error code, and may be checked with errors.Is.
var (
	ErrEmptySourceList    = errors.New("no font sources given")
	ErrFontNotFound       = errors.New("font not found")
	ErrFontLoadFailure    = errors.New("font cannot be loaded")
	ErrFallbackUnassigned = errors.New("fallback code-point not covered by any font")
	ErrInvalidConfig      = errors.New("invalid coverage configuration")
)
