package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"inespector/ines"
)

/* general testing helpers */

func tcheck(tb testing.TB, err error) {
	if err == nil {
		return
	}

	tb.Helper()
	tb.Fatalf("fatal error:\n\n%s\n", err)
}

func tcheckf(tb testing.TB, err error, format string, args ...any) {
	if err == nil {
		return
	}

	tb.Helper()
	tb.Fatalf("fatal error:\n\n%s: %s\n", fmt.Sprintf(format, args...), err)
}

// romImage builds a complete rom image in memory: a patched header followed
// by extra trailing bytes. The payload is a byte ramp so tests can check
// that split regions land at the right offsets.
func romImage(tb testing.TB, mod func(h *[16]byte), extra int) []byte {
	tb.Helper()

	var h [16]byte
	copy(h[:4], ines.Magic)
	h[4] = 1
	h[5] = 1
	if mod != nil {
		mod(&h)
	}
	hdr, err := ines.DecodeHeader(h[:])
	tcheck(tb, err)

	size := ines.HeaderSize + int(hdr.PRGSize) + int(hdr.CHRSize)
	if hdr.HasTrainer {
		size += ines.TrainerSize
	}

	img := make([]byte, size+extra)
	for i := range img {
		img[i] = byte(i)
	}
	copy(img, h[:])
	return img
}

func writeFile(tb testing.TB, path string, data []byte) {
	tb.Helper()
	tcheckf(tb, os.MkdirAll(filepath.Dir(path), 0755), "mkdir for %s", path)
	tcheckf(tb, os.WriteFile(path, data, 0644), "write %s", path)
}
