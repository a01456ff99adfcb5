package airport

import "errors"

// Parser errors. Callers use errors.Is to tell lines that are silently
// ignored (ErrShortLine, ErrHeaderLine) from lines worth a warning
// (ErrMalformedLine).
var (
	// ErrShortLine is returned for lines shorter than the minimum data line length.
	ErrShortLine = errors.New("line too short")

	// ErrHeaderLine is returned for the utility's column header line.
	ErrHeaderLine = errors.New("column header line")

	// ErrMalformedLine is returned for lines that look like data but cannot be parsed.
	ErrMalformedLine = errors.New("malformed scan line")
)

// ErrUtilityNotFound is returned when the scanning utility does not exist or
// is not executable.
var ErrUtilityNotFound = errors.New("scanning utility not found")
