package dicomio

import (
	"fmt"

	"dcmvol/internal/models"
)

// decodeBufBits is the fixed width at which frames are rendered before the
// original sample resolution is recovered.
const decodeBufBits = 32

// decodeFrames copies every frame of the view into consecutive z-slabs of
// the volume at single-channel stride. The volume must already be sized to
// the view's dimensions.
func decodeFrames(view *imageView, vol *models.Volume) error {
	depth := view.Depth()
	if depth > decodeBufBits {
		return fmt.Errorf("%w: buffer is insufficiently wide for %d-bit data of image %s",
			ErrUnsupportedImage, depth, view.path)
	}

	// The toolkit renders big-endian encoded samples; on a little-endian
	// host the original resolution sits in the top bits of each word.
	var shift uint
	if hostLittleEndian() {
		shift = uint(decodeBufBits - depth)
	}

	for z := 0; z < vol.Nz; z++ {
		frameData, err := view.RenderFrame(z, decodeBufBits)
		if err != nil {
			return fmt.Errorf("could not get data from image %s frame %d: %w", view.path, z, err)
		}

		for y := 0; y < vol.Ny; y++ {
			for x := 0; x < vol.Nx; x++ {
				vox := frameData[x+y*vol.Nx] >> shift
				vol.Set(x, y, z, 0, float64(vox))
			}
		}
	}

	return nil
}
