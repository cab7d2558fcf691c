package main

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"inespector/ines"
	"inespector/log"
)

func splitMain(args Split) {
	name, data, err := loadImage(args.RomPath)
	checkf(err, "failed to read rom")

	var rom ines.Rom
	_, err = rom.ReadFrom(bytes.NewReader(data))
	checkf(err, "failed to read rom")

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	parts := []struct {
		label string
		ext   string
		data  []byte
	}{
		{"trainer", "trainer", rom.Trainer},
		{"PRG ROM", "prg", rom.PRG},
		{"CHR ROM", "chr", rom.CHR},
		{"misc ROM", "misc", rom.Misc},
	}
	for _, p := range parts {
		if len(p.data) == 0 {
			continue
		}
		fname := filepath.Join(args.OutDir, stem+"."+p.ext+".bin")
		checkf(os.WriteFile(fname, p.data, 0644), "failed to write %s", fname)
		fmt.Printf("Extracted %s: %s (%d bytes)\n", p.label, fname, len(p.data))
	}

	if rom.Layout.UnexpectedTrailing {
		misc, _ := rom.Layout.Find(ines.RegionMisc)
		msg := "unexpected trailing bytes"
		if rom.Layout.TrailingTitleLikely() {
			msg = "trailing bytes look like an embedded title"
		}
		log.ModSplit.WarnZ(msg).Int64("length", misc.Length).End()
	}
}

// loadImage reads a whole ROM image from a plain .nes file or from the
// first .nes entry of a zip archive. It returns the name of the rom file,
// which for archives is the entry name, not the archive name.
func loadImage(path string) (name string, data []byte, err error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".nes":
		data, err = os.ReadFile(path)
		return filepath.Base(path), data, err
	case ".zip":
		return firstZipEntry(path)
	case ".7z", ".rar":
		return "", nil, fmt.Errorf("unsupported archive format %s", ext)
	default:
		return "", nil, fmt.Errorf("unsupported file extension %s", ext)
	}
}

// firstZipEntry extracts the first .nes entry of a zip archive, warning on
// stderr when the archive holds more than one.
func firstZipEntry(path string) (string, []byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", nil, err
	}
	defer zr.Close()

	var entries []*zip.File
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(zf.Name), ".nes") {
			continue
		}
		entries = append(entries, zf)
	}
	if len(entries) == 0 {
		return "", nil, errors.New("no .nes files found in archive")
	}
	if len(entries) > 1 {
		fmt.Fprintf(os.Stderr, "Warning: found %d .nes files in archive:\n", len(entries))
		for _, zf := range entries {
			fmt.Fprintf(os.Stderr, "  - %s\n", zf.Name)
		}
		fmt.Fprintf(os.Stderr, "Processing only the first file: %s\n\n", entries[0].Name)
	}

	rc, err := entries[0].Open()
	if err != nil {
		return "", nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	return filepath.Base(entries[0].Name), data, err
}
