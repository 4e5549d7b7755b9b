// Package dicomio converts between in-memory scalar image volumes and their
// on-disk DICOM representation, in two layouts: a single multi-frame file,
// and a flat directory holding one file per slice of a single series.
//
// Reads assemble a directory's slices into one contiguous volume ordered by
// ascending instance number, validating series membership and dimensional
// consistency across all files. Writes quantize a non-negative float volume
// to 8-bit samples under one shared intensity scale and stamp each file with
// resolved metadata. Every operation is synchronous, returns a single
// pass/fail outcome, and never lets a toolkit panic escape.
package dicomio
