package ines

import (
	"errors"
	"fmt"
	"math"
)

// ErrBadSignature is returned by DecodeHeader when the fixed 4-byte magic is
// missing. It is the only condition that stops decoding: every other bit
// pattern, however unusual, decodes to a defined Header value.
var ErrBadSignature = errors.New("bad signature")

// Format identifies the generation of the container format. It is decided
// once at decode time, from bytes 0 and 7 (and the zero-padding tail for
// plain iNES), and never re-derived.
type Format uint8

const (
	FormatArchaic Format = iota // pre-0.7 headers, bytes 7-15 unreliable
	FormatINES
	FormatNES20
)

func (f Format) String() string {
	switch f {
	case FormatArchaic:
		return "Archaic iNES"
	case FormatINES:
		return "iNES"
	case FormatNES20:
		return "NES 2.0"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Mirroring is the conventional nametable mirroring label taken from flags 6
// bit 0. The format's own documentation describes the clear bit as "vertical
// arrangement", which is the same thing as horizontal mirroring; that naming
// clash is a classic source of bugs, so the enum spells out the mirroring
// convention and the literal bit stays readable in Raw[6]&0x01.
type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota // bit clear: vertically arranged nametables
	MirrorVertical                    // bit set: horizontally arranged nametables
)

func (m Mirroring) String() string {
	switch m {
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	}
	return fmt.Sprintf("Mirroring(%d)", uint8(m))
}

// ConsoleType is the NES 2.0 console class from flags 7 bits 0-1. Earlier
// generations always report ConsoleNES; their byte 7 bits are surfaced as the
// VsUnisystem and Playchoice10 flags instead.
type ConsoleType uint8

const (
	ConsoleNES ConsoleType = iota
	ConsoleVsSystem
	ConsolePlaychoice10
	ConsoleExtended
)

func (c ConsoleType) String() string {
	switch c {
	case ConsoleNES:
		return "NES/Famicom"
	case ConsoleVsSystem:
		return "VS System"
	case ConsolePlaychoice10:
		return "PlayChoice-10"
	case ConsoleExtended:
		return "Extended"
	}
	return fmt.Sprintf("ConsoleType(%d)", uint8(c))
}

// TvSystem is the television standard the ROM declares. Where it comes from
// depends on the generation: byte 9 bit 0 plus the unofficial byte 10
// extension for iNES, the byte 12 timing field for NES 2.0.
type TvSystem uint8

const (
	TVNTSC TvSystem = iota
	TVPAL
	TVMulti
	TVDendy
)

func (tv TvSystem) String() string {
	switch tv {
	case TVNTSC:
		return "NTSC"
	case TVPAL:
		return "PAL"
	case TVMulti:
		return "Multi"
	case TVDendy:
		return "Dendy"
	}
	return fmt.Sprintf("TvSystem(%d)", uint8(tv))
}

// Header is the decoded form of the 16-byte ROM header. It is built once by
// DecodeHeader and immutable afterwards. Fields that do not apply to the
// decoded Format keep their zero value (or ConsoleNES/TVNTSC), so consumers
// can read any field without branching on the generation first.
type Header struct {
	Raw [16]byte

	MagicValid bool
	Format     Format

	// Ambiguous marks an archaic classification that was reached through
	// the fallback branch of format detection: bytes 7-15 carry data that
	// matches no documented legacy pattern. Advisory only.
	Ambiguous bool

	PRGUnits int   // 16 KiB PRG-ROM units; 0 when the exponent notation is in use
	CHRUnits int   // 8 KiB CHR-ROM units; 0 when the exponent notation is in use
	PRGSize  int64 // PRG-ROM size in bytes
	CHRSize  int64 // CHR-ROM size in bytes; 0 means the board uses CHR-RAM

	// Mapper is the full reassembled mapper number: flags 6 bits 4-7 are
	// D0-D3, flags 7 bits 4-7 are D4-D7 and, under NES 2.0 only, byte 8
	// bits 0-3 are D8-D11. MapperTrusted is false for archaic headers,
	// whose byte 7 frequently holds ripper graffiti rather than data.
	Mapper        int
	MapperTrusted bool
	Submapper     uint8 // NES 2.0 only

	Mirroring    Mirroring
	AltNametable bool // flags 6 bit 3, meaning is mapper-dependent
	HasBattery   bool
	HasTrainer   bool

	Console      ConsoleType // NES 2.0 only, ConsoleNES otherwise
	VsUnisystem  bool        // iNES flags 7 bit 0
	Playchoice10 bool        // iNES flags 7 bit 1

	TVSystem        TvSystem
	HasBusConflicts bool // iNES byte 10 bit 5
	HasPRGRAM       bool // iNES byte 10 bit 4 (stored inverted in the file)
	PRGRAMUnits     int  // iNES byte 8, in 8 KiB units

	// NES 2.0 RAM size shift counts (64 << n bytes, 0 means absent).
	PRGRAMShift   uint8
	PRGNVRAMShift uint8
	CHRRAMShift   uint8
	CHRNVRAMShift uint8

	VsPPUType  uint8 // NES 2.0 byte 13, when Console == ConsoleVsSystem
	VsHardware uint8 // NES 2.0 byte 13, when Console == ConsoleVsSystem
	ExtConsole uint8 // NES 2.0 byte 13, when Console == ConsoleExtended

	MiscROMs        int   // NES 2.0 byte 14, number of miscellaneous ROM areas (0-3)
	ExpansionDevice uint8 // NES 2.0 byte 15, default expansion device (0-63)
}

// DecodeHeader decodes a 16-byte ROM header. On ErrBadSignature the returned
// Header is still non-nil, with MagicValid false and only Raw meaningful, so
// callers can report what they saw. Any other bit pattern decodes without
// error; advisory oddities are carried as flags on the value.
func DecodeHeader(p []byte) (*Header, error) {
	if len(p) < HeaderSize {
		return nil, fmt.Errorf("header too short: %d bytes, need %d", len(p), HeaderSize)
	}

	h := new(Header)
	copy(h.Raw[:], p[:HeaderSize])

	if string(h.Raw[:4]) != Magic {
		if string(h.Raw[:4]) == "UNIF" {
			return h, fmt.Errorf("%w: UNIF container", ErrBadSignature)
		}
		return h, fmt.Errorf("%w: % 02X", ErrBadSignature, h.Raw[:4])
	}
	h.MagicValid = true

	// Generation detection. The NES 2.0 signature bits must be tested
	// before the archaic and iNES patterns, which they partially overlap.
	flags7 := h.Raw[7]
	switch {
	case flags7&0x0C == 0x08:
		h.Format = FormatNES20
	case flags7&0x0C == 0x04:
		h.Format = FormatArchaic
	case flags7&0x0C == 0x00 && h.Raw[12]|h.Raw[13]|h.Raw[14]|h.Raw[15] == 0:
		h.Format = FormatINES
	default:
		// Legacy rippers wrote signature strings across bytes 7-15.
		// Classified archaic rather than rejected, and flagged so the
		// caller can decide whether to warn.
		h.Format = FormatArchaic
		h.Ambiguous = true
	}

	flags6 := h.Raw[6]
	h.Mirroring = Mirroring(flags6 & 0x01)
	h.HasBattery = flags6&0x02 != 0
	h.HasTrainer = flags6&0x04 != 0
	h.AltNametable = flags6&0x08 != 0

	h.Mapper = int(flags6>>4) | int(flags7&0xF0)
	h.MapperTrusted = h.Format != FormatArchaic

	switch h.Format {
	case FormatNES20:
		h.decodeNES20()
	case FormatINES:
		h.decodeINES()
	case FormatArchaic:
		// Only the linear size fields can be believed on an archaic
		// header; bytes 8-15 keep their defaults whatever they hold.
		h.PRGUnits = int(h.Raw[4])
		h.CHRUnits = int(h.Raw[5])
		h.PRGSize = int64(h.PRGUnits) * prgUnit
		h.CHRSize = int64(h.CHRUnits) * chrUnit
	}

	return h, nil
}

func (h *Header) decodeINES() {
	h.PRGUnits = int(h.Raw[4])
	h.CHRUnits = int(h.Raw[5])
	h.PRGSize = int64(h.PRGUnits) * prgUnit
	h.CHRSize = int64(h.CHRUnits) * chrUnit

	h.VsUnisystem = h.Raw[7]&0x01 != 0
	h.Playchoice10 = h.Raw[7]&0x02 != 0

	h.PRGRAMUnits = int(h.Raw[8])

	if h.Raw[9]&0x01 != 0 {
		h.TVSystem = TVPAL
	}
	// Unofficial byte 10 extension; historical tools let it widen the
	// byte 9 answer but never narrow it back to NTSC.
	switch h.Raw[10] & 0x03 {
	case 2:
		h.TVSystem = TVPAL
	case 1, 3:
		h.TVSystem = TVMulti
	}
	h.HasPRGRAM = h.Raw[10]&0x10 == 0
	h.HasBusConflicts = h.Raw[10]&0x20 != 0
}

func (h *Header) decodeNES20() {
	h.Mapper |= int(h.Raw[8]&0x0F) << 8
	h.Submapper = h.Raw[8] >> 4

	h.PRGUnits, h.PRGSize = nes2Size(h.Raw[4], h.Raw[9]&0x0F, prgUnit)
	h.CHRUnits, h.CHRSize = nes2Size(h.Raw[5], h.Raw[9]>>4, chrUnit)

	h.Console = ConsoleType(h.Raw[7] & 0x03)

	h.PRGRAMShift = h.Raw[10] & 0x0F
	h.PRGNVRAMShift = h.Raw[10] >> 4
	h.CHRRAMShift = h.Raw[11] & 0x0F
	h.CHRNVRAMShift = h.Raw[11] >> 4

	switch h.Raw[12] & 0x03 {
	case 0:
		h.TVSystem = TVNTSC
	case 1:
		h.TVSystem = TVPAL
	case 2:
		h.TVSystem = TVMulti
	case 3:
		h.TVSystem = TVDendy
	}

	switch h.Console {
	case ConsoleVsSystem:
		h.VsPPUType = h.Raw[13] & 0x0F
		h.VsHardware = h.Raw[13] >> 4
	case ConsoleExtended:
		h.ExtConsole = h.Raw[13] & 0x0F
	}

	h.MiscROMs = int(h.Raw[14] & 0x03)
	h.ExpansionDevice = h.Raw[15] & 0x3F
}

// nes2Size decodes one NES 2.0 ROM size field from its LSB byte and MSB
// nibble. Nibbles 0x0-0xE combine into a 12-bit unit count; 0xF switches the
// LSB to the exponent-multiplier notation EEEEEEMM, size = 2^E * (2M+1)
// bytes, which is only valid in that branch. The notation reaches past what
// an int64 holds (E goes up to 63); such sizes saturate to math.MaxInt64 so
// they fail the layout's file-size check instead of wrapping negative.
func nes2Size(lsb, msb byte, unit int64) (units int, size int64) {
	if msb <= 0x0E {
		n := int(msb)<<8 | int(lsb)
		return n, int64(n) * unit
	}
	e := (lsb >> 2) & 0x3F
	m := int64(lsb&0x03)*2 + 1
	if e > 62 || m > math.MaxInt64>>e {
		return 0, math.MaxInt64
	}
	return 0, (int64(1) << e) * m
}

// TrustedMapper returns the mapper number with untrusted nibbles masked off.
// Archaic-era tools wrote garbage into byte 7 (the infamous "DiskDude!"
// string adds 64), so for those headers only the low nibble is believable.
// The policy of whether to mask is the caller's; Mapper always carries the
// full reassembly.
func (h *Header) TrustedMapper() int {
	if h.MapperTrusted {
		return h.Mapper
	}
	return h.Mapper & 0x0F
}

// shiftSize decodes the logarithmic NES 2.0 RAM size encoding: 64 << count
// bytes, with a zero count meaning the memory is absent.
func shiftSize(count uint8) int64 {
	if count == 0 {
		return 0
	}
	return 64 << count
}

// PRGRAMSize returns the PRG-RAM size in bytes. Under NES 2.0 this decodes
// the byte 10 shift count; under iNES the byte 8 unit count, where zero
// historically means a single 8 KiB bank.
func (h *Header) PRGRAMSize() int64 {
	switch h.Format {
	case FormatNES20:
		return shiftSize(h.PRGRAMShift)
	case FormatINES:
		if h.PRGRAMUnits == 0 {
			return 8192
		}
		return int64(h.PRGRAMUnits) * 8192
	}
	return 0
}

// PRGNVRAMSize returns the PRG-NVRAM/EEPROM size in bytes (NES 2.0 only).
func (h *Header) PRGNVRAMSize() int64 {
	if h.Format != FormatNES20 {
		return 0
	}
	return shiftSize(h.PRGNVRAMShift)
}

// CHRRAMSize returns the CHR-RAM size in bytes (NES 2.0 only).
func (h *Header) CHRRAMSize() int64 {
	if h.Format != FormatNES20 {
		return 0
	}
	return shiftSize(h.CHRRAMShift)
}

// CHRNVRAMSize returns the CHR-NVRAM size in bytes (NES 2.0 only).
func (h *Header) CHRNVRAMSize() int64 {
	if h.Format != FormatNES20 {
		return 0
	}
	return shiftSize(h.CHRNVRAMShift)
}
