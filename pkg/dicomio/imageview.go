package dicomio

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// imageView is the boundary adapter over the DICOM toolkit's pixel layer.
// It exposes the narrow image interface the codec consumes: validity,
// monochrome classification, dimensions, bit depth, the height/width pixel
// ratio, an optional min-max intensity window, and frame rendering to a
// caller-chosen bit width.
type imageView struct {
	path   string
	frames []*frame.Frame

	width  int
	height int
	depth  int

	mono  bool
	ratio float64

	windowed bool
	winMin   uint32
	winMax   uint32
}

// openImageView parses the file at path and builds an image view over its
// pixel data.
func openImageView(path string) (*imageView, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read DICOM file %s (%v)", ErrNotFound, path, err)
	}
	return newImageView(&ds, path)
}

// newImageView builds an image view over an already-parsed dataset.
func newImageView(ds *dicom.Dataset, path string) (*imageView, error) {
	v := &imageView{path: path, ratio: 1.0}

	pixelElem, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, fmt.Errorf("%w: file %s has no pixel data", ErrMalformedMetadata, path)
	}
	info, ok := pixelElem.Value.GetValue().(dicom.PixelDataInfo)
	if !ok {
		return nil, fmt.Errorf("%w: file %s has unreadable pixel data", ErrMalformedMetadata, path)
	}
	v.frames = info.Frames

	if v.width, err = findInt(ds, tag.Columns); err != nil {
		return nil, fmt.Errorf("%w: file %s: %v", ErrMalformedMetadata, path, err)
	}
	if v.height, err = findInt(ds, tag.Rows); err != nil {
		return nil, fmt.Errorf("%w: file %s: %v", ErrMalformedMetadata, path, err)
	}

	// Actual sample resolution. BitsStored is authoritative; fall back to
	// BitsAllocated for datasets that omit it.
	if v.depth, err = findInt(ds, tag.BitsStored); err != nil {
		if v.depth, err = findInt(ds, tag.BitsAllocated); err != nil {
			return nil, fmt.Errorf("%w: file %s: %v", ErrMalformedMetadata, path, err)
		}
	}

	v.mono = isMonochrome(ds)
	v.ratio = heightWidthRatio(ds)

	return v, nil
}

// IsMonochrome reports whether the image is classified as single-channel.
func (v *imageView) IsMonochrome() bool { return v.mono }

// Width returns the image width in pixels.
func (v *imageView) Width() int { return v.width }

// Height returns the image height in pixels.
func (v *imageView) Height() int { return v.height }

// FrameCount returns the number of frames in the pixel data.
func (v *imageView) FrameCount() int { return len(v.frames) }

// Depth returns the native bit depth of the stored samples.
func (v *imageView) Depth() int { return v.depth }

// HeightWidthRatio returns the pixel aspect ratio (height over width).
func (v *imageView) HeightWidthRatio() float64 { return v.ratio }

// SetMinMaxWindow sets the intensity window to the minimum and maximum
// sample values found across all frames.
func (v *imageView) SetMinMaxWindow() error {
	first := true
	for i := range v.frames {
		samples, err := v.frameSamples(i)
		if err != nil {
			return err
		}
		for _, s := range samples {
			if first || s < v.winMin {
				v.winMin = s
			}
			if first || s > v.winMax {
				v.winMax = s
			}
			first = false
		}
	}
	v.windowed = !first
	return nil
}

// RenderFrame decodes frame i into a buffer of bufBits-wide samples. On a
// little-endian host the samples are left-aligned within the buffer word,
// mirroring the big-endian encoding the toolkit delivers; a value-aligned
// buffer is produced otherwise. When an intensity window is set, samples are
// window-scaled to the image's native bit depth first.
func (v *imageView) RenderFrame(i, bufBits int) ([]uint32, error) {
	if i < 0 || i >= len(v.frames) {
		return nil, fmt.Errorf("file %s has no frame %d", v.path, i)
	}
	if v.depth < 1 || v.depth > bufBits {
		return nil, fmt.Errorf("%w: cannot render %d-bit data of file %s into a %d-bit buffer",
			ErrUnsupportedImage, v.depth, v.path, bufBits)
	}

	samples, err := v.frameSamples(i)
	if err != nil {
		return nil, err
	}

	fullScale := uint32(1)<<uint(v.depth) - 1
	shift := uint(0)
	if hostLittleEndian() {
		shift = uint(bufBits - v.depth)
	}

	out := make([]uint32, len(samples))
	for j, s := range samples {
		if v.windowed {
			s = v.applyWindow(s, fullScale)
		}
		out[j] = s << shift
	}
	return out, nil
}

// applyWindow maps a sample through the configured intensity window onto the
// native bit-depth range.
func (v *imageView) applyWindow(s, fullScale uint32) uint32 {
	if v.winMax <= v.winMin {
		return 0
	}
	if s < v.winMin {
		s = v.winMin
	}
	if s > v.winMax {
		s = v.winMax
	}
	span := float64(v.winMax - v.winMin)
	return uint32(math.Round(float64(s-v.winMin) / span * float64(fullScale)))
}

// frameSamples returns the raw stored samples of frame i, widened to uint32.
func (v *imageView) frameSamples(i int) ([]uint32, error) {
	fr := v.frames[i]
	if fr == nil || fr.Encapsulated {
		return nil, fmt.Errorf("%w: file %s frame %d is compressed", ErrUnsupportedImage, v.path, i)
	}

	switch nd := fr.NativeData.(type) {
	case *frame.NativeFrame[uint8]:
		return widenSamples(nd.RawData), nil
	case *frame.NativeFrame[uint16]:
		return widenSamples(nd.RawData), nil
	case *frame.NativeFrame[uint32]:
		return widenSamples(nd.RawData), nil
	case *frame.NativeFrame[int]:
		return widenSamples(nd.RawData), nil
	default:
		return nil, fmt.Errorf("could not get data from image %s frame %d", v.path, i)
	}
}

// widenSamples converts a native sample slice to uint32.
func widenSamples[T uint8 | uint16 | uint32 | int](raw []T) []uint32 {
	out := make([]uint32, len(raw))
	for i, s := range raw {
		out[i] = uint32(s)
	}
	return out
}

// hostLittleEndian reports whether the host stores integers little-endian.
func hostLittleEndian() bool {
	return binary.NativeEndian.Uint16([]byte{0x23, 0x01}) == 0x0123
}

// isMonochrome classifies the dataset as single-channel. The photometric
// interpretation decides when present; otherwise a single sample per pixel
// counts as monochrome.
func isMonochrome(ds *dicom.Dataset) bool {
	if s, err := findString(ds, tag.PhotometricInterpretation); err == nil {
		return strings.HasPrefix(strings.TrimSpace(s), "MONOCHROME")
	}
	if n, err := findInt(ds, tag.SamplesPerPixel); err == nil {
		return n == 1
	}
	return true
}

// heightWidthRatio derives the pixel aspect ratio from the PixelAspectRatio
// tag, falling back to the PixelSpacing pair, then to 1.
func heightWidthRatio(ds *dicom.Dataset) float64 {
	for _, t := range []tag.Tag{tag.PixelAspectRatio, tag.PixelSpacing} {
		vals, err := findFloats(ds, t)
		if err == nil && len(vals) == 2 && vals[0] > 0 {
			return vals[1] / vals[0]
		}
	}
	return 1.0
}

// findString returns the first string value of the given tag.
func findString(ds *dicom.Dataset, t tag.Tag) (string, error) {
	elem, err := ds.FindElementByTag(t)
	if err != nil {
		return "", fmt.Errorf("missing tag %v", t)
	}
	vals, ok := elem.Value.GetValue().([]string)
	if !ok || len(vals) == 0 {
		return "", fmt.Errorf("tag %v holds no string value", t)
	}
	return vals[0], nil
}

// findInt returns the first integer value of the given tag, accepting both
// binary and integer-string encodings.
func findInt(ds *dicom.Dataset, t tag.Tag) (int, error) {
	elem, err := ds.FindElementByTag(t)
	if err != nil {
		return 0, fmt.Errorf("missing tag %v", t)
	}
	switch vals := elem.Value.GetValue().(type) {
	case []int:
		if len(vals) > 0 {
			return vals[0], nil
		}
	case []string:
		if len(vals) > 0 {
			n, err := strconv.Atoi(strings.TrimSpace(vals[0]))
			if err != nil {
				return 0, fmt.Errorf("tag %v value %q is not an integer", t, vals[0])
			}
			return n, nil
		}
	}
	return 0, fmt.Errorf("tag %v holds no integer value", t)
}

// findFloats returns all decimal values of the given tag.
func findFloats(ds *dicom.Dataset, t tag.Tag) ([]float64, error) {
	elem, err := ds.FindElementByTag(t)
	if err != nil {
		return nil, fmt.Errorf("missing tag %v", t)
	}
	switch vals := elem.Value.GetValue().(type) {
	case []string:
		out := make([]float64, 0, len(vals))
		for _, s := range vals {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("tag %v value %q is not a decimal", t, s)
			}
			out = append(out, f)
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("tag %v holds no decimal value", t)
		}
		return out, nil
	case []float64:
		if len(vals) > 0 {
			return vals, nil
		}
	}
	return nil, fmt.Errorf("tag %v holds no decimal value", t)
}
