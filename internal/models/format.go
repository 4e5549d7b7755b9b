package models

import (
	"os"
	"path/filepath"
	"strings"
)

// Format identifies the on-disk image format of a file.
type Format int

const (
	// FormatUnknown marks files the sniffer does not recognize.
	FormatUnknown Format = iota

	// FormatDICOM marks DICOM part-10 files.
	FormatDICOM
)

// dicomPreambleLen is the fixed preamble length before the "DICM" magic.
const dicomPreambleLen = 128

// DetectFormat sniffs a file's format from its name, falling back to the
// DICOM magic number probe for files without a recognized extension.
// Directories and unreadable files are reported as FormatUnknown.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dcm", ".dicom":
		return FormatDICOM
	}

	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown
	}
	defer f.Close()

	var buf [dicomPreambleLen + 4]byte
	if _, err := f.ReadAt(buf[:], 0); err != nil {
		return FormatUnknown
	}
	if string(buf[dicomPreambleLen:]) == "DICM" {
		return FormatDICOM
	}
	return FormatUnknown
}
