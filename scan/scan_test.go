package scan

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"inespector/ines"
)

// romImage builds a complete valid image from a patched header.
func romImage(mod func(h *[16]byte)) []byte {
	var h [16]byte
	copy(h[:4], ines.Magic)
	h[4] = 1
	h[5] = 1
	if mod != nil {
		mod(&h)
	}

	hdr, err := ines.DecodeHeader(h[:])
	if err != nil {
		panic(err)
	}
	size := int64(ines.HeaderSize) + hdr.PRGSize + hdr.CHRSize
	if hdr.HasTrainer {
		size += ines.TrainerSize
	}

	img := make([]byte, size)
	copy(img, h[:])
	return img
}

type zipEntry struct {
	name string
	data []byte
}

func writeZip(t *testing.T, path string, entries []zipEntry) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(e.data); err != nil {
			t.Fatal(err)
		}
	}
}

func write(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

// scanTree builds a directory with a bit of everything: plain ROMs, a
// subdirectory, archives, broken files and files to ignore.
func scanTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write(t, filepath.Join(dir, "a.nes"), romImage(func(h *[16]byte) { h[6] = 0x10 }))
	write(t, filepath.Join(dir, "sub", "b.nes"), romImage(func(h *[16]byte) { h[6] = 0x04 }))

	broken := romImage(nil)
	copy(broken, "ROM\x1A")
	write(t, filepath.Join(dir, "broken.nes"), broken)
	write(t, filepath.Join(dir, "short.nes"), []byte("NES"))

	writeZip(t, filepath.Join(dir, "pack.zip"), []zipEntry{
		{"readme.txt", []byte("hello")},
		{"c.nes", romImage(nil)},
	})
	writeZip(t, filepath.Join(dir, "empty.zip"), []zipEntry{
		{"readme.txt", []byte("no roms here")},
	})

	write(t, filepath.Join(dir, "skip.7z"), []byte("7z\xBC\xAF\x27\x1C"))
	write(t, filepath.Join(dir, "note.txt"), []byte("not a rom"))

	return dir
}

func resultPaths(results []Result) []string {
	paths := make([]string, len(results))
	for i, r := range results {
		paths[i] = filepath.ToSlash(r.Path)
	}
	return paths
}

func TestScanDir(t *testing.T) {
	dir := scanTree(t)

	var s Scanner
	results, err := s.ScanDir(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"a.nes",
		"broken.nes",
		"empty.zip",
		"pack.zip:c.nes",
		"short.nes",
		"sub/b.nes",
	}
	if diff := cmp.Diff(want, resultPaths(results)); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	byPath := make(map[string]Result, len(results))
	for _, r := range results {
		byPath[filepath.ToSlash(r.Path)] = r
	}

	if r := byPath["a.nes"]; r.Err != nil || r.Header.Mapper != 1 {
		t.Errorf("a.nes = %+v", r)
	}
	if r := byPath["sub/b.nes"]; r.Err != nil || !r.Header.HasTrainer {
		t.Errorf("sub/b.nes = %+v", r)
	}
	if r := byPath["pack.zip:c.nes"]; r.Err != nil || r.Header == nil {
		t.Errorf("pack.zip:c.nes = %+v", r)
	} else if r.FileSize != 16+16384+8192 {
		t.Errorf("zip entry FileSize = %d", r.FileSize)
	}

	if r := byPath["broken.nes"]; r.Err == nil {
		t.Error("broken.nes has no error")
	}
	if r := byPath["short.nes"]; r.Err == nil || !strings.Contains(r.Err.Error(), "too short") {
		t.Errorf("short.nes err = %v", byPath["short.nes"].Err)
	}
	if r := byPath["empty.zip"]; r.Err == nil || !strings.Contains(r.Err.Error(), "no .nes files") {
		t.Errorf("empty.zip err = %v", byPath["empty.zip"].Err)
	}
}

func TestScanDirOrderIsStable(t *testing.T) {
	dir := scanTree(t)

	s := Scanner{Jobs: 8}
	first, err := s.ScanDir(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		results, err := s.ScanDir(context.Background(), dir)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(resultPaths(first), resultPaths(results)); diff != "" {
			t.Fatalf("order changed between runs (-want +got):\n%s", diff)
		}
	}
}

func TestScanDirFilter(t *testing.T) {
	dir := scanTree(t)

	mapper := 1
	s := Scanner{Filter: Filter{Mapper: &mapper}}
	results, err := s.ScanDir(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	// non-matching roms are dropped, error results stay
	want := []string{"a.nes", "broken.nes", "empty.zip", "short.nes"}
	if diff := cmp.Diff(want, resultPaths(results)); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestScanDirCanceled(t *testing.T) {
	dir := scanTree(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var s Scanner
	if _, err := s.ScanDir(ctx, dir); err == nil {
		t.Fatal("no error from canceled scan")
	}
}

func TestScanDirMissingRoot(t *testing.T) {
	var s Scanner
	if _, err := s.ScanDir(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("no error for missing root")
	}
}

func TestFilterMatch(t *testing.T) {
	hdr := func(t *testing.T, mod func(h *[16]byte)) *ines.Header {
		t.Helper()
		var h [16]byte
		copy(h[:4], ines.Magic)
		h[4] = 8 // 128k PRG
		h[5] = 4 // 32k CHR
		if mod != nil {
			mod(&h)
		}
		dec, err := ines.DecodeHeader(h[:])
		if err != nil {
			t.Fatal(err)
		}
		return dec
	}
	intp := func(n int) *int { return &n }

	tests := []struct {
		name   string
		filter Filter
		mod    func(h *[16]byte)
		want   bool
	}{
		{"zero filter matches", Filter{}, nil, true},
		{"trainer required", Filter{HasTrainer: true}, nil, false},
		{"trainer present", Filter{HasTrainer: true}, func(h *[16]byte) { h[6] = 0x04 }, true},
		{"mapper mismatch", Filter{Mapper: intp(4)}, nil, false},
		{"mapper match", Filter{Mapper: intp(4)}, func(h *[16]byte) { h[6] = 0x40 }, true},
		{"mirroring H", Filter{Mirroring: "H"}, nil, true},
		{"mirroring V", Filter{Mirroring: "V"}, nil, false},
		{"mirroring F", Filter{Mirroring: "F"}, func(h *[16]byte) { h[6] = 0x08 }, true},
		{"min prg passes", Filter{MinPRG: intp(128)}, nil, true},
		{"min prg rejects", Filter{MinPRG: intp(256)}, nil, false},
		{"max prg rejects", Filter{MaxPRG: intp(64)}, nil, false},
		{"chr bounds", Filter{MinCHR: intp(32), MaxCHR: intp(32)}, nil, true},
		{"max chr rejects", Filter{MaxCHR: intp(16)}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(hdr(t, tt.mod)); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterMatchArchaic(t *testing.T) {
	var h [16]byte
	copy(h[:4], ines.Magic)
	h[4] = 1
	h[6] = 0x10 // mapper low nibble 1
	copy(h[7:], "DiskDude!")

	dec, err := ines.DecodeHeader(h[:])
	if err != nil {
		t.Fatal(err)
	}

	mapper := 1
	f := Filter{Mapper: &mapper}
	if !f.Match(dec) {
		t.Error("trusted mapper 1 did not match mapper filter 1")
	}

	var bad ines.Header
	if f.Match(&bad) {
		t.Error("header without magic matched")
	}
}
