package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"dcmvol/internal/models"
	"dcmvol/pkg/config"
	"dcmvol/pkg/dicomio"
	"dcmvol/pkg/visualization"
)

func main() {
	// Parse command line arguments
	input := flag.String("input", "", "Input DICOM file or directory of slices")
	output := flag.String("output", "", "Output DICOM file (.dcm) or directory for per-slice files")
	configPath := flag.String("config", "", "Optional YAML config with metadata defaults")
	maxVal := flag.Float64("max", -1, "Explicit maximum value for intensity scaling (negative: compute from the volume)")
	previewDir := flag.String("preview-dir", "", "Optional directory to save z-axis slice previews")
	flag.Parse()

	// Validate inputs
	if *input == "" || *output == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Read the volume from a single file or a directory of slices.
	var vol models.Volume
	st, err := os.Stat(*input)
	if err != nil {
		log.Fatalf("Cannot open input %s: %v", *input, err)
	}
	if st.IsDir() {
		err = dicomio.ReadDirectory(*input, &vol)
	} else {
		err = dicomio.ReadFile(*input, &vol)
	}
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *input, err)
	}

	fmt.Printf("Read volume: %dx%dx%d voxels, %d channel(s), spacing (%.3f, %.3f, %.3f) mm\n",
		vol.Nx, vol.Ny, vol.Nz, vol.Nc, vol.Ux, vol.Uy, vol.Uz)

	// An optional config overrides the default metadata strings; UIDs are
	// still generated fresh per run.
	var meta *dicomio.Metadata
	if *configPath != "" {
		cfg, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		m := dicomio.ResolveMetadata(nil)
		m.PatientName = cfg.Metadata.PatientName
		m.PatientID = cfg.Metadata.PatientID
		m.SeriesDescription = cfg.Metadata.SeriesDescription
		meta = &m
	}

	// Write the volume back out, either as one multi-frame file or as a
	// directory of per-slice files.
	if strings.EqualFold(filepath.Ext(*output), ".dcm") {
		if err := dicomio.WriteFile(*output, &vol, meta, *maxVal); err != nil {
			log.Fatalf("Failed to write %s: %v", *output, err)
		}
		fmt.Printf("Wrote multi-frame file: %s\n", *output)
	} else {
		if err := os.MkdirAll(*output, 0755); err != nil {
			log.Fatalf("Failed to create output directory %s: %v", *output, err)
		}
		if err := dicomio.WriteDirectory(*output, &vol, meta); err != nil {
			log.Fatalf("Failed to write %s: %v", *output, err)
		}
		fmt.Printf("Wrote %d slice file(s) to: %s\n", vol.Nz, *output)
	}

	// Save slice previews if requested.
	if *previewDir != "" {
		fmt.Printf("Saving z-axis previews to: %s\n", *previewDir)
		viewer := visualization.NewViewer(&vol)
		if err := viewer.SaveSliceSequence("z", *previewDir); err != nil {
			log.Printf("Warning: Failed to save previews: %v", err)
		}
	}
}
