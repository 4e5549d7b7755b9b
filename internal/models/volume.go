// Package models defines the value types shared between the DICOM codec
// and its consumers: the dense scalar Volume and the on-disk format sniffer.
package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Volume is a dense 3D (optionally multi-channel) scalar image volume.
// The sample buffer is owned by the caller across codec calls; the codec
// resizes it to match discovered or declared dimensions before populating it.
type Volume struct {
	// Data holds the samples with the channel index varying fastest,
	// then x, then y, then z.
	Data []float64

	// Nx, Ny, Nz, Nc are the volume dimensions in voxels and channels.
	Nx, Ny, Nz, Nc int

	// Ux, Uy, Uz are the physical voxel spacings in mm.
	Ux, Uy, Uz float64
}

// Resize allocates the sample buffer for the given dimensions, discarding
// any previous contents. All dimensions must be at least 1.
func (v *Volume) Resize(nx, ny, nz, nc int) error {
	if nx < 1 || ny < 1 || nz < 1 || nc < 1 {
		return fmt.Errorf("invalid volume dimensions (%d, %d, %d, %d)", nx, ny, nz, nc)
	}

	n := nx * ny * nz * nc
	if n <= 0 {
		// Multiplication overflow on absurd dimensions.
		return fmt.Errorf("volume dimensions (%d, %d, %d, %d) overflow the sample buffer", nx, ny, nz, nc)
	}

	v.Nx, v.Ny, v.Nz, v.Nc = nx, ny, nz, nc
	v.Data = make([]float64, n)
	return nil
}

// index converts a voxel coordinate to a position in the sample buffer.
func (v *Volume) index(x, y, z, c int) int {
	return c + v.Nc*(x+v.Nx*(y+v.Ny*z))
}

// At returns the sample at (x, y, z, c).
func (v *Volume) At(x, y, z, c int) float64 {
	return v.Data[v.index(x, y, z, c)]
}

// Set stores a sample at (x, y, z, c).
func (v *Volume) Set(x, y, z, c int, value float64) {
	v.Data[v.index(x, y, z, c)] = value
}

// MaxAbs returns the maximum absolute sample value over the whole volume,
// or 0 for an empty volume.
func (v *Volume) MaxAbs() float64 {
	if len(v.Data) == 0 {
		return 0
	}
	return floats.Norm(v.Data, math.Inf(1))
}

// Clone returns a deep copy of the volume. The copy owns its own sample
// buffer.
func (v *Volume) Clone() *Volume {
	out := *v
	out.Data = make([]float64, len(v.Data))
	copy(out.Data, v.Data)
	return &out
}
