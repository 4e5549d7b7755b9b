package dicomio

import (
	"strings"
	"testing"

	"dcmvol/pkg/config"
)

// TestResolveMetadataDefaults verifies that resolving without an override
// produces the fixed default strings plus three fresh, distinct identifiers.
func TestResolveMetadataDefaults(t *testing.T) {
	m := ResolveMetadata(nil)

	want := config.Default()
	if m.PatientName != want.Metadata.PatientName {
		t.Errorf("Expected patient name %q, got %q", want.Metadata.PatientName, m.PatientName)
	}
	if m.PatientID != want.Metadata.PatientID {
		t.Errorf("Expected patient ID %q, got %q", want.Metadata.PatientID, m.PatientID)
	}
	if m.SeriesDescription != want.Metadata.SeriesDescription {
		t.Errorf("Expected series description %q, got %q",
			want.Metadata.SeriesDescription, m.SeriesDescription)
	}
	if m.InstanceNumber != 1 {
		t.Errorf("Expected default instance number 1, got %d", m.InstanceNumber)
	}

	uids := []struct {
		name string
		uid  string
		root string
	}{
		{"study", m.StudyUID, want.UIDRoots.Study},
		{"series", m.SeriesUID, want.UIDRoots.Series},
		{"instance", m.InstanceUID, want.UIDRoots.Instance},
	}

	for i, u := range uids {
		if u.uid == "" {
			t.Fatalf("Expected a non-empty %s UID", u.name)
		}
		if !strings.HasPrefix(u.uid, u.root+".") {
			t.Errorf("Expected %s UID under root %q, got %q", u.name, u.root, u.uid)
		}
		for j := i + 1; j < len(uids); j++ {
			if u.uid == uids[j].uid {
				t.Errorf("Expected pairwise-distinct UIDs, %s and %s are both %q",
					u.name, uids[j].name, u.uid)
			}
		}
	}
}

// TestResolveMetadataOverride verifies that a caller-supplied record is
// copied verbatim.
func TestResolveMetadataOverride(t *testing.T) {
	override := Metadata{
		PatientName:       "Override Patient",
		PatientID:         "OP-1",
		SeriesDescription: "Override series",
		StudyUID:          "1.2.3",
		SeriesUID:         "4.5.6",
		InstanceUID:       "7.8.9",
		InstanceNumber:    42,
	}

	got := ResolveMetadata(&override)
	if got != override {
		t.Errorf("Expected verbatim copy of override, got %+v", got)
	}

	// Resolving must not mutate the caller's record.
	if override.InstanceNumber != 42 {
		t.Errorf("Override was mutated: %+v", override)
	}
}

// TestGenerateUID verifies the shape and uniqueness of generated
// identifiers.
func TestGenerateUID(t *testing.T) {
	const root = "1.2.276.0.7230010.3.1.4"

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		uid := GenerateUID(root)

		if !strings.HasPrefix(uid, root+".") {
			t.Fatalf("Expected UID under root %q, got %q", root, uid)
		}
		if len(uid) > maxUIDLen {
			t.Fatalf("UID %q exceeds %d characters", uid, maxUIDLen)
		}
		for _, r := range uid {
			if r != '.' && (r < '0' || r > '9') {
				t.Fatalf("UID %q contains invalid character %q", uid, r)
			}
		}
		if strings.HasSuffix(uid, ".") || strings.Contains(uid, "..") {
			t.Fatalf("UID %q is not well-formed dotted decimal", uid)
		}

		if seen[uid] {
			t.Fatalf("Generated duplicate UID %q", uid)
		}
		seen[uid] = true
	}
}

// TestGenerateUIDLongRoot verifies that an oversized root still yields a UID
// within the DICOM length limit.
func TestGenerateUIDLongRoot(t *testing.T) {
	root := strings.Repeat("1.", 28) + "1"

	uid := GenerateUID(root)
	if len(uid) > maxUIDLen {
		t.Errorf("UID %q exceeds %d characters", uid, maxUIDLen)
	}
}
