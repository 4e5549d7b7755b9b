package dicomio

import (
	"dcmvol/pkg/config"
)

// Metadata carries the descriptive fields stamped on written DICOM files.
// A caller-supplied Metadata is used verbatim; a nil one is replaced with
// fully resolved defaults.
type Metadata struct {
	PatientName       string
	PatientID         string
	SeriesDescription string

	StudyUID    string
	SeriesUID   string
	InstanceUID string

	InstanceNumber int
}

// defaults is the immutable process-wide write configuration. The codec
// never mutates it.
var defaults = config.Default()

// ResolveMetadata returns a fully populated metadata record. When override
// is nil, the record carries the configured default strings, three freshly
// generated identifiers under distinct namespace roots, and instance number
// 1. A non-nil override is copied verbatim.
func ResolveMetadata(override *Metadata) Metadata {
	if override != nil {
		return *override
	}

	return Metadata{
		PatientName:       defaults.Metadata.PatientName,
		PatientID:         defaults.Metadata.PatientID,
		SeriesDescription: defaults.Metadata.SeriesDescription,
		StudyUID:          GenerateUID(defaults.UIDRoots.Study),
		SeriesUID:         GenerateUID(defaults.UIDRoots.Series),
		InstanceUID:       GenerateUID(defaults.UIDRoots.Instance),
		InstanceNumber:    1,
	}
}
