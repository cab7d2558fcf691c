// Package ines decodes the 16-byte header of NES ROM images in the iNES and
// NES 2.0 container formats, used for the distribution of NES binary
// programs, and computes the byte layout of the file regions a header
// announces.
package ines

import (
	"fmt"
	"io"
	"os"
)

// Magic is the fixed signature every header starts with.
const Magic = "NES\x1a"

const (
	// HeaderSize is the fixed size of the header region.
	HeaderSize = 16
	// TrainerSize is the fixed size of the trainer region, when present.
	TrainerSize = 512

	prgUnit = 16384 // PRG-ROM linear size unit
	chrUnit = 8192  // CHR-ROM linear size unit
)

// Rom is a fully loaded ROM image, split into the regions its header
// announces. The data slices alias the single buffer the image was read
// into.
type Rom struct {
	Header Header
	Layout Layout

	Trainer []byte // 512 bytes when the header flags one, nil otherwise
	PRG     []byte // PRG-ROM data
	CHR     []byte // CHR-ROM data, nil when the board uses CHR-RAM
	Misc    []byte // trailing data, misc ROM areas or an appended title
}

// Open loads a ROM image from a file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, err
	}
	return rom, nil
}

// ReadFrom implements the io.ReaderFrom interface. It reads the image to the
// end, decodes the header and slices the buffer along the computed layout.
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	hdr, err := DecodeHeader(buf)
	if err != nil {
		return 0, fmt.Errorf("failed to decode header: %w", err)
	}
	lay, err := hdr.Layout(int64(len(buf)))
	if err != nil {
		return 0, err
	}

	rom.Header = *hdr
	rom.Layout = *lay
	for _, reg := range lay.Regions {
		data := buf[reg.Offset:reg.End()]
		switch reg.Kind {
		case RegionTrainer:
			rom.Trainer = data
		case RegionPRG:
			rom.PRG = data
		case RegionCHR:
			rom.CHR = data
		case RegionMisc:
			rom.Misc = data
		}
	}
	return int64(len(buf)), nil
}
