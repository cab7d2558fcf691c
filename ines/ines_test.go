package ines

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// buildROM assembles a complete image: the given header, then filler payload
// for every region the header announces, then extra trailing bytes.
func buildROM(raw []byte, extra int) []byte {
	h, err := DecodeHeader(raw)
	if err != nil {
		panic(err)
	}
	size := int64(HeaderSize) + h.PRGSize + h.CHRSize
	if h.HasTrainer {
		size += TrainerSize
	}

	img := make([]byte, size+int64(extra))
	copy(img, raw)
	for i := HeaderSize; i < len(img); i++ {
		img[i] = byte(i)
	}
	return img
}

func TestRomReadFrom(t *testing.T) {
	img := buildROM(rawHeader(func(h *[16]byte) {
		h[4] = 2
		h[6] = 0x04
	}), 0)

	rom := new(Rom)
	n, err := rom.ReadFrom(bytes.NewReader(img))
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(img)) {
		t.Errorf("n = %d, want %d", n, len(img))
	}
	if len(rom.Trainer) != TrainerSize {
		t.Errorf("len(Trainer) = %d, want %d", len(rom.Trainer), TrainerSize)
	}
	if len(rom.PRG) != 2*16384 {
		t.Errorf("len(PRG) = %d, want %d", len(rom.PRG), 2*16384)
	}
	if len(rom.CHR) != 8192 {
		t.Errorf("len(CHR) = %d, want %d", len(rom.CHR), 8192)
	}
	if rom.Misc != nil {
		t.Errorf("Misc = %d bytes, want nil", len(rom.Misc))
	}

	// region data must come from the right file offsets; the ramp pattern
	// wraps every 256 bytes
	trainerOff, prgOff := 16, 16+512
	if rom.Trainer[0] != byte(trainerOff) {
		t.Errorf("Trainer[0] = %#x, want %#x", rom.Trainer[0], byte(trainerOff))
	}
	if rom.PRG[0] != byte(prgOff) {
		t.Errorf("PRG[0] = %#x, want %#x", rom.PRG[0], byte(prgOff))
	}
}

func TestRomReadFromTrailing(t *testing.T) {
	img := buildROM(rawHeader(nil), 128)

	rom := new(Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(img)); err != nil {
		t.Fatal(err)
	}
	if len(rom.Misc) != 128 {
		t.Fatalf("len(Misc) = %d, want 128", len(rom.Misc))
	}
	if !rom.Layout.UnexpectedTrailing {
		t.Error("Layout.UnexpectedTrailing = false, want true")
	}
	if !rom.Layout.TrailingTitleLikely() {
		t.Error("Layout.TrailingTitleLikely() = false, want true")
	}
}

func TestRomReadFromErrors(t *testing.T) {
	t.Run("bad signature", func(t *testing.T) {
		img := buildROM(rawHeader(nil), 0)
		copy(img, "ROM\x1A")

		var rom Rom
		_, err := rom.ReadFrom(bytes.NewReader(img))
		if !errors.Is(err, ErrBadSignature) {
			t.Fatalf("err = %v, want ErrBadSignature", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		img := buildROM(rawHeader(nil), 0)

		var rom Rom
		_, err := rom.ReadFrom(bytes.NewReader(img[:len(img)-100]))
		if !errors.Is(err, ErrTruncated) {
			t.Fatalf("err = %v, want ErrTruncated", err)
		}
	})

	t.Run("shorter than header", func(t *testing.T) {
		var rom Rom
		if _, err := rom.ReadFrom(bytes.NewReader([]byte("NES"))); err == nil {
			t.Fatal("no error")
		}
	})

	t.Run("huge declared sizes", func(t *testing.T) {
		// exponent sizes beyond the file must error, not panic on slicing
		img := make([]byte, 1016)
		copy(img, rawHeader(func(h *[16]byte) {
			h[4] = 0xFC
			h[5] = 0xF8
			h[7] = 0x08
			h[9] = 0xFF
		}))

		var rom Rom
		_, err := rom.ReadFrom(bytes.NewReader(img))
		if !errors.Is(err, ErrTruncated) {
			t.Fatalf("err = %v, want ErrTruncated", err)
		}
	})
}

func TestRomOpen(t *testing.T) {
	img := buildROM(rawHeader(nil), 0)
	path := filepath.Join(t.TempDir(), "test.nes")
	if err := os.WriteFile(path, img, 0644); err != nil {
		t.Fatal(err)
	}

	rom, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if rom.Header.Format != FormatINES {
		t.Errorf("Format = %v, want %v", rom.Header.Format, FormatINES)
	}
	if len(rom.PRG) != 16384 || len(rom.CHR) != 8192 {
		t.Errorf("PRG/CHR = %d/%d bytes, want 16384/8192", len(rom.PRG), len(rom.CHR))
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.nes")); err == nil {
		t.Error("Open(missing) did not fail")
	}
}
