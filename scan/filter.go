package scan

import "inespector/ines"

// Filter selects which decoded headers a scan reports. The zero value
// matches every header; nil size and mapper pointers mean "no constraint".
type Filter struct {
	HasTrainer bool
	Mapper     *int

	// Mirroring is the display letter: H, V or F.
	Mirroring string

	// ROM size bounds, in KiB.
	MinPRG *int
	MaxPRG *int
	MinCHR *int
	MaxCHR *int
}

// Match reports whether a header passes every configured condition. The
// mapper condition uses the trusted mapper number, so archaic headers with
// graffiti in byte 7 still match on their low nibble.
func (f *Filter) Match(h *ines.Header) bool {
	if h == nil || !h.MagicValid {
		return false
	}

	if f.HasTrainer && !h.HasTrainer {
		return false
	}
	if f.Mapper != nil && h.TrustedMapper() != *f.Mapper {
		return false
	}
	if f.Mirroring != "" && MirrorLetter(h) != f.Mirroring {
		return false
	}

	prgKB := int(h.PRGSize / 1024)
	if f.MinPRG != nil && prgKB < *f.MinPRG {
		return false
	}
	if f.MaxPRG != nil && prgKB > *f.MaxPRG {
		return false
	}

	chrKB := int(h.CHRSize / 1024)
	if f.MinCHR != nil && chrKB < *f.MinCHR {
		return false
	}
	if f.MaxCHR != nil && chrKB > *f.MaxCHR {
		return false
	}

	return true
}
