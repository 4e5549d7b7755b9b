// Package visualization renders 2D previews of an assembled volume, so a
// reconstruction can be checked without a DICOM viewer.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"

	"dcmvol/internal/models"
)

// Viewer extracts and saves 2D slices of a volume along any axis. Pixel
// intensities are normalized over the volume's full sample range, so
// previews stay comparable across slices.
type Viewer struct {
	vol *models.Volume

	// lo and hi are the volume's sample range used for normalization.
	lo, hi float64
}

// NewViewer creates a viewer over the given volume. Only the first channel
// is rendered.
func NewViewer(vol *models.Volume) *Viewer {
	v := &Viewer{vol: vol}
	if len(vol.Data) > 0 {
		v.lo = floats.Min(vol.Data)
		v.hi = floats.Max(vol.Data)
	}
	return v
}

// gray maps a sample onto the 16-bit grayscale range.
func (v *Viewer) gray(sample float64) color.Gray16 {
	if v.hi <= v.lo {
		return color.Gray16{}
	}
	return color.Gray16{Y: uint16((sample - v.lo) / (v.hi - v.lo) * 65535)}
}

// ExtractSlice extracts a 2D slice from the volume along the specified axis.
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	vol := v.vol
	var img *image.Gray16

	switch axis {
	case "x", "X":
		if position >= vol.Nx {
			return nil, fmt.Errorf("position %d exceeds width %d", position, vol.Nx)
		}
		img = image.NewGray16(image.Rect(0, 0, vol.Nz, vol.Ny))
		for y := 0; y < vol.Ny; y++ {
			for z := 0; z < vol.Nz; z++ {
				img.SetGray16(z, y, v.gray(vol.At(position, y, z, 0)))
			}
		}

	case "y", "Y":
		if position >= vol.Ny {
			return nil, fmt.Errorf("position %d exceeds height %d", position, vol.Ny)
		}
		img = image.NewGray16(image.Rect(0, 0, vol.Nx, vol.Nz))
		for z := 0; z < vol.Nz; z++ {
			for x := 0; x < vol.Nx; x++ {
				img.SetGray16(x, z, v.gray(vol.At(x, position, z, 0)))
			}
		}

	case "z", "Z":
		if position >= vol.Nz {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, vol.Nz)
		}
		img = image.NewGray16(image.Rect(0, 0, vol.Nx, vol.Ny))
		for y := 0; y < vol.Ny; y++ {
			for x := 0; x < vol.Nx; x++ {
				img.SetGray16(x, y, v.gray(vol.At(x, y, position, 0)))
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

// SaveSlice saves an extracted slice as a JPEG image.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveSliceSequence extracts and saves every slice along the specified axis.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = v.vol.Nx
	case "y", "Y":
		maxPos = v.vol.Ny
	case "z", "Z":
		maxPos = v.vol.Nz
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.jpg", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
