package ines

import (
	"errors"
	"fmt"
)

// ErrTruncated is returned by Header.Layout when the file is smaller than
// the regions the header declares.
var ErrTruncated = errors.New("truncated rom")

// RegionKind names one of the contiguous areas of a ROM file.
type RegionKind uint8

const (
	RegionHeader RegionKind = iota
	RegionTrainer
	RegionPRG
	RegionCHR
	RegionMisc
)

func (k RegionKind) String() string {
	switch k {
	case RegionHeader:
		return "header"
	case RegionTrainer:
		return "trainer"
	case RegionPRG:
		return "prg"
	case RegionCHR:
		return "chr"
	case RegionMisc:
		return "misc"
	}
	return fmt.Sprintf("RegionKind(%d)", uint8(k))
}

// Region is one contiguous area of the file.
type Region struct {
	Kind   RegionKind
	Offset int64
	Length int64
}

// End returns the offset of the first byte past the region.
func (r Region) End() int64 { return r.Offset + r.Length }

// Layout maps a header onto a concrete file size: which regions exist, where
// each starts and how long it is. Regions are in file order and contiguous
// from offset 0.
type Layout struct {
	Regions  []Region
	FileSize int64

	// UnexpectedTrailing is set when bytes remain past the declared
	// regions without the header announcing miscellaneous ROM areas.
	// Usually an appended title field; advisory only.
	UnexpectedTrailing bool
}

// Layout computes the region layout of a file of the given size carrying
// this header. The header always occupies [0,16); a trainer, when flagged,
// the next 512 bytes; then PRG-ROM and, if sized, CHR-ROM. Whatever remains
// becomes a single misc region. ErrTruncated is returned when the file ends
// before the declared regions do.
func (h *Header) Layout(fileSize int64) (*Layout, error) {
	l := &Layout{FileSize: fileSize}

	l.Regions = append(l.Regions, Region{RegionHeader, 0, HeaderSize})
	off := int64(HeaderSize)

	// Each region is checked against the remaining bytes before the offset
	// advances: declared sizes reach math.MaxInt64 under the exponent
	// notation, so summing them first could wrap.
	add := func(k RegionKind, length int64) error {
		if length < 0 || length > fileSize-off {
			return fmt.Errorf("%w: %v region of %d bytes does not fit in %d-byte file", ErrTruncated, k, length, fileSize)
		}
		l.Regions = append(l.Regions, Region{k, off, length})
		off += length
		return nil
	}

	if h.HasTrainer {
		if err := add(RegionTrainer, TrainerSize); err != nil {
			return nil, err
		}
	}
	if err := add(RegionPRG, h.PRGSize); err != nil {
		return nil, err
	}
	if h.CHRSize > 0 {
		if err := add(RegionCHR, h.CHRSize); err != nil {
			return nil, err
		}
	}

	if rest := fileSize - off; rest > 0 {
		l.Regions = append(l.Regions, Region{RegionMisc, off, rest})
		l.UnexpectedTrailing = h.MiscROMs == 0
	}

	return l, nil
}

// Find returns the region of the given kind. Layouts hold at most one region
// of each kind.
func (l *Layout) Find(k RegionKind) (Region, bool) {
	for _, r := range l.Regions {
		if r.Kind == k {
			return r, true
		}
	}
	return Region{}, false
}

// TrailingTitleLikely reports whether the unexpected trailing bytes have the
// size of the optional title field some dumpers append after CHR-ROM, 127 or
// 128 bytes.
func (l *Layout) TrailingTitleLikely() bool {
	if !l.UnexpectedTrailing {
		return false
	}
	r, ok := l.Find(RegionMisc)
	return ok && (r.Length == 127 || r.Length == 128)
}
