package dicomio

import (
	"errors"
	"testing"

	"github.com/suyashkumar/dicom/pkg/frame"
)

// testView builds an image view over one 2x2 8-bit frame with the given
// samples, bypassing file parsing.
func testView(t *testing.T, samples []uint8) *imageView {
	t.Helper()

	nf := frame.NewNativeFrame[uint8](8, 2, 2, 4, 1)
	copy(nf.RawData, samples)

	return &imageView{
		path:   "testdata",
		frames: []*frame.Frame{{Encapsulated: false, NativeData: nf}},
		width:  2,
		height: 2,
		depth:  8,
		mono:   true,
		ratio:  1.0,
	}
}

// TestRenderFrameAlignment verifies that rendered samples carry the original
// value in the top bits of the buffer word on a little-endian host, and
// value-aligned otherwise.
func TestRenderFrameAlignment(t *testing.T) {
	samples := []uint8{10, 20, 30, 255}
	view := testView(t, samples)

	out, err := view.RenderFrame(0, 32)
	if err != nil {
		t.Fatalf("Failed to render frame: %v", err)
	}
	if len(out) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(out))
	}

	var shift uint
	if hostLittleEndian() {
		shift = 32 - 8
	}
	for i, s := range samples {
		want := uint32(s) << shift
		if out[i] != want {
			t.Errorf("Sample %d: expected %#x, got %#x", i, want, out[i])
		}

		// The decoder's shift recovers the original value exactly.
		if got := out[i] >> shift; got != uint32(s) {
			t.Errorf("Sample %d: recovered %d, want %d", i, got, s)
		}
	}
}

// TestRenderFrameWindow verifies min-max window scaling onto the native bit
// depth.
func TestRenderFrameWindow(t *testing.T) {
	view := testView(t, []uint8{10, 20, 30, 40})

	if err := view.SetMinMaxWindow(); err != nil {
		t.Fatalf("Failed to set window: %v", err)
	}
	if view.winMin != 10 || view.winMax != 40 {
		t.Fatalf("Expected window [10, 40], got [%d, %d]", view.winMin, view.winMax)
	}

	out, err := view.RenderFrame(0, 32)
	if err != nil {
		t.Fatalf("Failed to render frame: %v", err)
	}

	var shift uint
	if hostLittleEndian() {
		shift = 32 - 8
	}

	// [10, 40] maps onto [0, 255]: 10->0, 20->85, 30->170, 40->255.
	want := []uint32{0, 85, 170, 255}
	for i, w := range want {
		if got := out[i] >> shift; got != w {
			t.Errorf("Sample %d: expected windowed value %d, got %d", i, w, got)
		}
	}
}

// TestRenderFrameTooDeep verifies that data wider than the buffer is
// rejected as unsupported.
func TestRenderFrameTooDeep(t *testing.T) {
	view := testView(t, []uint8{1, 2, 3, 4})
	view.depth = 16

	if _, err := view.RenderFrame(0, 8); !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("Expected ErrUnsupportedImage for 16-bit data in 8-bit buffer, got %v", err)
	}
}

// TestRenderFrameOutOfRange verifies the frame index bounds check.
func TestRenderFrameOutOfRange(t *testing.T) {
	view := testView(t, []uint8{1, 2, 3, 4})

	if _, err := view.RenderFrame(1, 32); err == nil {
		t.Error("Expected an error for a frame index past the end")
	}
	if _, err := view.RenderFrame(-1, 32); err == nil {
		t.Error("Expected an error for a negative frame index")
	}
}
