package dicomio

import (
	"fmt"
	"math"
	"path/filepath"

	"dcmvol/internal/models"
)

// dcmExt is the fixed extension of generated slice files.
const dcmExt = "dcm"

// WriteDirectory writes the volume as one DICOM file per z-slice into the
// target directory. Metadata is resolved once for the whole series; each
// slice receives a fresh instance identifier and an incrementing instance
// number. Any per-slice failure aborts the whole call.
func WriteDirectory(path string, vol *models.Volume, meta *Metadata) (err error) {
	defer catchPanic("WriteDirectory", &err)
	return writeDirectory(path, vol, meta)
}

// writeDirectory implements the directory-series write path.
func writeDirectory(path string, vol *models.Volume, meta *Metadata) error {
	m := ResolveMetadata(meta)

	// Zero-pad slice indices to the directory-wide width.
	numSlices := vol.Nz
	padWidth := int(math.Ceil(math.Log10(float64(numSlices))))

	// One scale reference for the whole series, so all slices share the
	// same intensity scale.
	maxVal := vol.MaxAbs()

	// Reusable scratch volume holding one z-plane.
	var slice models.Volume
	slice.Ux, slice.Uy, slice.Uz = vol.Ux, vol.Uy, vol.Uz
	if err := slice.Resize(vol.Nx, vol.Ny, 1, vol.Nc); err != nil {
		return fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	for i := 0; i < numSlices; i++ {
		fullfile := filepath.Join(path, sliceFileName(i, padWidth))

		for y := 0; y < vol.Ny; y++ {
			for x := 0; x < vol.Nx; x++ {
				for c := 0; c < vol.Nc; c++ {
					slice.Set(x, y, 0, c, vol.At(x, y, i, c))
				}
			}
		}

		m.InstanceUID = GenerateUID(defaults.UIDRoots.Instance)
		m.InstanceNumber = i + 1

		if err := writeFile(fullfile, &slice, &m, maxVal); err != nil {
			return err
		}
	}

	return nil
}

// sliceFileName forms the zero-padded file name for slice index i.
func sliceFileName(i, padWidth int) string {
	return fmt.Sprintf("%0*d.%s", padWidth, i, dcmExt)
}
