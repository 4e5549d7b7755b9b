package dicomio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// sliceRecord is the transient per-file identity of one slice within a
// series: where it lives, which series it belongs to, where it sorts, and
// its geometry. Records are built during a directory scan, consumed to shape
// the output volume, and discarded.
type sliceRecord struct {
	path      string
	seriesUID string
	instance  int

	nx, ny, nz, nc int
	ux, uy, uz     float64

	valid bool
}

// openSliceRecord reads the identity and geometry of a single DICOM file.
// On any failure the returned record is invalid and the error carries the
// offending path; the caller's volume is never touched.
func openSliceRecord(path string) (sliceRecord, error) {
	rec := sliceRecord{path: path}

	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return rec, fmt.Errorf("%w: failed to read DICOM file %s (%v)", ErrNotFound, path, err)
	}

	rec.seriesUID, err = findString(&ds, tag.SeriesInstanceUID)
	if err != nil {
		return rec, fmt.Errorf("%w: failed to get SeriesInstanceUID from file %s (%v)",
			ErrMalformedMetadata, path, err)
	}

	instanceStr, err := findString(&ds, tag.InstanceNumber)
	if err != nil {
		return rec, fmt.Errorf("%w: failed to get instance number from file %s (%v)",
			ErrMalformedMetadata, path, err)
	}
	rec.instance, err = strconv.Atoi(strings.TrimSpace(instanceStr))
	if err != nil {
		return rec, fmt.Errorf("%w: instance number %q of file %s is not an integer",
			ErrMalformedMetadata, instanceStr, path)
	}

	view, err := newImageView(&ds, path)
	if err != nil {
		return rec, err
	}

	// Color images are not supported for reading.
	if !view.IsMonochrome() {
		return rec, fmt.Errorf("%w: reading of color DICOM images is not supported (file %s)",
			ErrUnsupportedImage, path)
	}
	rec.nc = 1

	rec.nx = view.Width()
	rec.ny = view.Height()
	rec.nz = view.FrameCount()
	if rec.nx < 1 || rec.ny < 1 || rec.nz < 1 {
		return rec, fmt.Errorf("%w: invalid dimensions for file %s (%d, %d, %d)",
			ErrInvalidGeometry, path, rec.nx, rec.ny, rec.nz)
	}

	pixelSpacing, err := findFloats(&ds, tag.PixelSpacing)
	if err != nil {
		return rec, fmt.Errorf("%w: failed to get pixel spacing from file %s (%v)",
			ErrMalformedMetadata, path, err)
	}
	rec.ux = pixelSpacing[0]
	if rec.ux <= 0 {
		return rec, fmt.Errorf("%w: file %s has invalid pixel spacing: %g",
			ErrInvalidGeometry, path, rec.ux)
	}

	ratio := view.HeightWidthRatio()
	rec.uy = rec.ux * ratio
	if rec.uy <= 0 {
		return rec, fmt.Errorf("%w: file %s has invalid pixel aspect ratio: %g",
			ErrInvalidGeometry, path, ratio)
	}

	thickness, err := findFloats(&ds, tag.SliceThickness)
	if err != nil {
		return rec, fmt.Errorf("%w: failed to get slice thickness from file %s (%v)",
			ErrMalformedMetadata, path, err)
	}
	rec.uz = thickness[0]
	if rec.uz <= 0 {
		return rec, fmt.Errorf("%w: file %s has invalid slice thickness: %g",
			ErrInvalidGeometry, path, rec.uz)
	}

	// Window the probe view so that extracted magnitudes follow the image's
	// own intensity range, matching viewer behavior.
	if err := view.SetMinMaxWindow(); err != nil {
		return rec, err
	}

	rec.valid = true
	return rec, nil
}

// sameSeries reports whether two records carry equal series identifiers.
func (r sliceRecord) sameSeries(other sliceRecord) bool {
	return r.seriesUID == other.seriesUID
}

// lessByInstance orders records ascending by instance number. Used with a
// stable sort so that records sharing an instance number keep their
// discovery order.
func lessByInstance(a, b sliceRecord) bool {
	return a.instance < b.instance
}
