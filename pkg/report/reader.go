package report

import (
	"encoding/base64"
	"fmt"
	"os"
)

// MediaReader resolves a message's media reference to base64-encoded bytes.
// The HTTP host uses the filesystem reader; tests substitute their own.
type MediaReader interface {
	ReadBase64(ref string) (string, error)
}

// FSReader reads media payloads from the local filesystem. MaxBytes, when
// positive, rejects files larger than the cap so a huge video frame grab
// cannot balloon the report; the assembler treats that like any other
// unreadable file.
type FSReader struct {
	MaxBytes int64
}

func (r FSReader) ReadBase64(ref string) (string, error) {
	if r.MaxBytes > 0 {
		fi, err := os.Stat(ref)
		if err != nil {
			return "", err
		}
		if fi.Size() > r.MaxBytes {
			return "", fmt.Errorf("media file %s exceeds %d bytes", ref, r.MaxBytes)
		}
	}
	b, err := os.ReadFile(ref)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
