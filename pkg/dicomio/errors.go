package dicomio

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the codec. Every public operation reports exactly one
// of these through the returned error chain, with the offending file path(s)
// and the toolkit diagnostic in the message. Callers branch with errors.Is.
var (
	// ErrNotFound reports a missing, unreadable or mistyped input path.
	ErrNotFound = errors.New("file not found or not readable")

	// ErrMalformedMetadata reports a required tag that is absent or
	// cannot be parsed.
	ErrMalformedMetadata = errors.New("malformed metadata")

	// ErrUnsupportedImage reports an image the codec does not handle:
	// color reads, non-mono channel counts on write, or a bit depth
	// exceeding the decode buffer width.
	ErrUnsupportedImage = errors.New("unsupported image type")

	// ErrInvalidGeometry reports non-positive spacing or sub-1 dimensions.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrSeriesMismatch reports differing series identifiers inside one
	// directory.
	ErrSeriesMismatch = errors.New("series mismatch")

	// ErrDimensionMismatch reports differing nx/ny/nc inside one directory.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNegativeSample reports a negative quantization input.
	ErrNegativeSample = errors.New("negative sample")

	// ErrWriteFailure reports a field-set or save failure.
	ErrWriteFailure = errors.New("write failure")

	// ErrAllocation reports a volume resize failure.
	ErrAllocation = errors.New("allocation failure")

	// ErrNoFiles reports a directory without any DICOM-typed files.
	ErrNoFiles = errors.New("no dicom files found")
)

// catchPanic converts a panic escaping the DICOM toolkit into an ordinary
// error, so that no public codec operation ever propagates a panic. Installed
// with defer at the outermost boundary of each public operation.
func catchPanic(op string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: recovered from toolkit panic: %v", op, r)
	}
}
