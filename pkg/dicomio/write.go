package dicomio

import (
	"fmt"
	"os"
	"strconv"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"

	"dcmvol/internal/models"
)

const (
	// dcmBitWidth is the sample width of written pixel data.
	dcmBitWidth = 8

	// writeTransferSyntax is Explicit VR Little Endian, the one fixed
	// output encoding. Lossless JPEG output stays disabled by policy so
	// that written files remain readable without compression codecs.
	writeTransferSyntax = "1.2.840.10008.1.2.1"

	// imageStorageClassUID is the Secondary Capture image storage class,
	// the generic storage object for derived images.
	imageStorageClassUID = "1.2.840.10008.5.1.4.1.1.7"
)

// WriteFile quantizes the volume to 8-bit samples and writes it as a single
// multi-frame DICOM file. A nil meta selects fully resolved defaults. A
// negative maxVal asks for the scale reference to be computed from the
// volume itself.
func WriteFile(path string, vol *models.Volume, meta *Metadata, maxVal float64) (err error) {
	defer catchPanic("WriteFile", &err)
	return writeFile(path, vol, meta, maxVal)
}

// writeFile implements the single-file write path.
func writeFile(path string, vol *models.Volume, meta *Metadata, maxVal float64) error {
	if vol.Nc != 1 {
		return fmt.Errorf("%w: image has %d channels, currently only single-channel images are supported",
			ErrUnsupportedImage, vol.Nc)
	}

	m := ResolveMetadata(meta)

	var photoInterp string
	switch vol.Nc {
	case 1:
		photoInterp = "MONOCHROME2"
	case 3:
		photoInterp = "RGB"
	default:
		return fmt.Errorf("%w: no photometric interpretation for %d channels",
			ErrUnsupportedImage, vol.Nc)
	}

	// Quantize before anything touches the file system, so a bad sample
	// never leaves a partial file behind.
	frames, err := quantizeFrames(vol, maxVal)
	if err != nil {
		return err
	}

	b := &datasetBuilder{}
	b.add(tag.TransferSyntaxUID, []string{writeTransferSyntax})
	b.add(tag.ImageType, []string{"DERIVED"})
	b.add(tag.SOPClassUID, []string{imageStorageClassUID})
	b.add(tag.PhotometricInterpretation, []string{photoInterp})
	b.add(tag.PixelRepresentation, []int{0})
	b.add(tag.SamplesPerPixel, []int{vol.Nc})
	b.add(tag.PlanarConfiguration, []int{0})
	b.add(tag.BitsAllocated, []int{dcmBitWidth})
	b.add(tag.BitsStored, []int{dcmBitWidth})
	b.add(tag.HighBit, []int{dcmBitWidth - 1})
	b.add(tag.PatientName, []string{m.PatientName})
	b.add(tag.PatientID, []string{m.PatientID})
	b.add(tag.StudyInstanceUID, []string{m.StudyUID})
	b.add(tag.SeriesInstanceUID, []string{m.SeriesUID})
	b.add(tag.SeriesDescription, []string{m.SeriesDescription})
	b.add(tag.SOPInstanceUID, []string{m.InstanceUID})
	b.add(tag.Rows, []int{vol.Ny})
	b.add(tag.Columns, []int{vol.Nx})
	b.add(tag.NumberOfFrames, []string{strconv.Itoa(vol.Nz)})
	b.add(tag.InstanceNumber, []string{strconv.Itoa(m.InstanceNumber)})

	sliceLocation := vol.Uz * float64(m.InstanceNumber-1)
	b.add(tag.SliceLocation, []string{fmt.Sprintf("%f", sliceLocation)})
	b.add(tag.PixelSpacing, []string{fmt.Sprintf("%f", vol.Ux), fmt.Sprintf("%f", vol.Uy)})
	b.add(tag.PixelAspectRatio, []string{fmt.Sprintf("%f", vol.Ux), fmt.Sprintf("%f", vol.Uy)})
	b.add(tag.SliceThickness, []string{fmt.Sprintf("%f", vol.Uz)})
	b.add(tag.PixelData, dicom.PixelDataInfo{Frames: frames})

	if b.err != nil {
		return fmt.Errorf("%w: file %s: %v", ErrWriteFailure, path, b.err)
	}

	ds := dicom.Dataset{Elements: b.elems}

	// Drop any stale media storage identifiers; the writer derives fresh
	// ones from the SOP class and instance UIDs on save.
	removeStorageIdentifiers(&ds)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: failed to create file %s (%v)", ErrWriteFailure, path, err)
	}
	defer f.Close()

	if err := dicom.Write(f, ds); err != nil {
		return fmt.Errorf("%w: failed to write file %s (%v)", ErrWriteFailure, path, err)
	}

	return nil
}

// quantizeFrames renders the volume as per-frame 8-bit sample buffers with a
// shared scale factor. A negative maxVal selects the volume's own maximum
// absolute value as the scale reference; negative samples are rejected.
func quantizeFrames(vol *models.Volume, maxVal float64) ([]*frame.Frame, error) {
	const dcmMaxVal = float64(1<<dcmBitWidth - 1)

	imMax := maxVal
	if imMax < 0 {
		imMax = vol.MaxAbs()
	}
	scale := 1.0
	if imMax != 0 {
		scale = dcmMaxVal / imMax
	}

	frames := make([]*frame.Frame, vol.Nz)
	for z := 0; z < vol.Nz; z++ {
		nf := frame.NewNativeFrame[uint8](dcmBitWidth, vol.Ny, vol.Nx, vol.Nx*vol.Ny, vol.Nc)

		for y := 0; y < vol.Ny; y++ {
			for x := 0; x < vol.Nx; x++ {
				for c := 0; c < vol.Nc; c++ {
					vox := vol.At(x, y, z, c)
					if vox < 0 {
						return nil, fmt.Errorf("%w: image cannot be negative", ErrNegativeSample)
					}
					nf.RawData[c+vol.Nc*(x+y*vol.Nx)] = uint8(vox * scale)
				}
			}
		}

		frames[z] = &frame.Frame{Encapsulated: false, NativeData: nf}
	}

	return frames, nil
}

// datasetBuilder collects elements and records the first construction
// failure, so the encoder can report one field-set diagnostic.
type datasetBuilder struct {
	elems []*dicom.Element
	err   error
}

func (b *datasetBuilder) add(t tag.Tag, value interface{}) {
	if b.err != nil {
		return
	}
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		b.err = fmt.Errorf("failed to set tag %v (%v)", t, err)
		return
	}
	b.elems = append(b.elems, elem)
}

// removeStorageIdentifiers strips media storage identifier elements from the
// dataset.
func removeStorageIdentifiers(ds *dicom.Dataset) {
	kept := ds.Elements[:0]
	for _, elem := range ds.Elements {
		if elem.Tag == tag.MediaStorageSOPClassUID || elem.Tag == tag.MediaStorageSOPInstanceUID {
			continue
		}
		kept = append(kept, elem)
	}
	ds.Elements = kept
}
