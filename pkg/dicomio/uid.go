package dicomio

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// maxUIDLen is the DICOM limit on UID length.
const maxUIDLen = 64

// GenerateUID returns a fresh unique identifier under the given namespace
// root, as dotted decimal. The result never exceeds 64 characters; overly
// long roots leave less room for the random suffix.
func GenerateUID(root string) string {
	u := uuid.New()
	hi := binary.BigEndian.Uint64(u[0:8])
	lo := binary.BigEndian.Uint64(u[8:16])

	uid := fmt.Sprintf("%s.%d.%d", root, hi, lo)
	if len(uid) > maxUIDLen {
		uid = strings.TrimRight(uid[:maxUIDLen], ".")
	}
	return uid
}
