package dicomio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"dcmvol/internal/models"
)

// ReadFile reads a single DICOM file into the caller's volume, resizing it
// to the file's dimensions. After a failed call the volume's contents are
// unspecified and must be discarded.
func ReadFile(path string, vol *models.Volume) (err error) {
	defer catchPanic("ReadFile", &err)
	return readFile(path, vol)
}

// ReadDirectory assembles every DICOM file of one series in a flat directory
// into the caller's volume, ordered by ascending instance number. Any invalid
// slice aborts the whole call. After a failed call the volume's contents are
// unspecified and must be discarded.
func ReadDirectory(path string, vol *models.Volume) (err error) {
	defer catchPanic("ReadDirectory", &err)
	return readDirectory(path, vol)
}

// readFile implements the single-file read path.
func readFile(path string, vol *models.Volume) error {
	rec, err := openSliceRecord(path)
	if err != nil {
		return err
	}

	view, err := openImageView(path)
	if err != nil {
		return err
	}

	vol.Ux, vol.Uy, vol.Uz = rec.ux, rec.uy, rec.uz
	if err := vol.Resize(rec.nx, rec.ny, rec.nz, rec.nc); err != nil {
		return fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	return decodeFrames(view, vol)
}

// readDirectory implements the directory-series read path.
func readDirectory(path string, vol *models.Volume) error {
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: cannot find file %s", ErrNotFound, path)
	}
	if !st.IsDir() {
		return fmt.Errorf("%w: file %s is not a directory", ErrNotFound, path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("%w: cannot read directory %s (%v)", ErrNotFound, path, err)
	}

	// Collect a record per DICOM-typed entry; other files are ignored.
	var records []sliceRecord
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fullfile := filepath.Join(path, entry.Name())
		if models.DetectFormat(fullfile) != models.FormatDICOM {
			continue
		}

		rec, err := openSliceRecord(fullfile)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return fmt.Errorf("%w in %s", ErrNoFiles, path)
	}

	// All slices must belong to the series of the first one.
	first := records[0]
	for _, rec := range records[1:] {
		if !first.sameSeries(rec) {
			return fmt.Errorf("%w: file %s is from a different series than file %s",
				ErrSeriesMismatch, rec.path, first.path)
		}
	}

	// All slices must agree on the in-plane dimensions and channel count;
	// the z-dimension accumulates across slices, as a slice may itself
	// carry multiple frames.
	nx, ny, nc := first.nx, first.ny, first.nc
	nz := 0
	for _, rec := range records {
		if rec.nx != nx || rec.ny != ny || rec.nc != nc {
			return fmt.Errorf("%w: slice %s (%dx, %dy, %dc) does not match the dimensions of slice %s (%dx, %dy, %dc)",
				ErrDimensionMismatch, rec.path, rec.nx, rec.ny, rec.nc, first.path, nx, ny, nc)
		}
		nz += rec.nz
	}

	vol.Ux, vol.Uy, vol.Uz = first.ux, first.uy, first.uz
	if err := vol.Resize(nx, ny, nz, nc); err != nil {
		return fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return lessByInstance(records[i], records[j])
	})

	// Second pass: read each slice through the single-file path and lay it
	// into the output at its z-offset.
	var slice models.Volume
	offZ := 0
	for _, rec := range records {
		if err := readFile(rec.path, &slice); err != nil {
			return err
		}

		for z := 0; z < slice.Nz; z++ {
			for y := 0; y < slice.Ny; y++ {
				for x := 0; x < slice.Nx; x++ {
					for c := 0; c < slice.Nc; c++ {
						vol.Set(x, y, z+offZ, c, slice.At(x, y, z, c))
					}
				}
			}
		}
		offZ += slice.Nz
	}

	if offZ != nz {
		return fmt.Errorf("assembled %d frames for %s, expected %d", offZ, path, nz)
	}

	return nil
}
