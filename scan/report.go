package scan

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/jx"

	"inespector/ines"
)

// MirrorLetter returns the one-letter mirroring label used in listings and
// filters: H, V, or F for four-screen boards.
func MirrorLetter(h *ines.Header) string {
	if h.AltNametable {
		return "F"
	}
	if h.Mirroring == ines.MirrorVertical {
		return "V"
	}
	return "H"
}

// Summary returns the one-line description of a header: mapper, PRG size
// and CHR size when present. Archaic headers get the format name up front
// and their trusted mapper number.
func Summary(h *ines.Header) string {
	if !h.MagicValid {
		return "Not an iNES file"
	}

	var sb strings.Builder
	if h.Format == ines.FormatArchaic {
		sb.WriteString(h.Format.String())
		sb.WriteString(", ")
	}

	mapper := h.TrustedMapper()
	fmt.Fprintf(&sb, "mapper: %d (%s), PRG: %dk", mapper, ines.MapperName(mapper), h.PRGSize/1024)
	if h.CHRSize > 0 {
		fmt.Fprintf(&sb, ", CHR: %dk", h.CHRSize/1024)
	}
	return sb.String()
}

// Detailed returns the full comma-separated field list for a header.
// Archaic headers fall back to the summary: their bytes past 7 carry no
// decodable fields.
func Detailed(h *ines.Header) string {
	if !h.MagicValid || h.Format == ines.FormatArchaic {
		return Summary(h)
	}

	mi, _ := ines.LookupMapper(h.Mapper)
	parts := []string{
		fmt.Sprintf("mapper: %d (%s)", h.Mapper, ines.MapperName(h.Mapper)),
		"mirroring: " + MirrorLetter(h),
		fmt.Sprintf("PRG ROM: %dk", h.PRGSize/1024),
		fmt.Sprintf("CHR ROM: %dk", h.CHRSize/1024),
	}
	if len(mi.Alternates) > 0 {
		parts = append(parts, "Alt names: "+strings.Join(mi.Alternates, ", "))
	}
	if mi.Notes != "" {
		parts = append(parts, "Notes: "+mi.Notes)
	}

	if h.Format == ines.FormatNES20 {
		parts = append(parts, fmt.Sprintf("Submapper: %d", h.Submapper))
		if n := h.PRGRAMSize(); n > 0 {
			parts = append(parts, fmt.Sprintf("PRG RAM: %dk", n/1024))
		}
		if n := h.PRGNVRAMSize(); n > 0 {
			parts = append(parts, fmt.Sprintf("PRG NVRAM: %dk", n/1024))
		}
		if n := h.CHRRAMSize(); n > 0 {
			parts = append(parts, fmt.Sprintf("CHR RAM: %dk", n/1024))
		}
		if n := h.CHRNVRAMSize(); n > 0 {
			parts = append(parts, fmt.Sprintf("CHR NVRAM: %dk", n/1024))
		}
		parts = append(parts, "CPU Timing: "+timingName(h.TVSystem))
		if h.Console == ines.ConsoleVsSystem {
			parts = append(parts,
				fmt.Sprintf("VS PPU Type: %d", h.VsPPUType),
				fmt.Sprintf("VS HW Type: %d", h.VsHardware))
		}
		if h.Console == ines.ConsoleExtended {
			parts = append(parts, fmt.Sprintf("Extended Console: %d", h.ExtConsole))
		}
		if h.MiscROMs > 0 {
			parts = append(parts, fmt.Sprintf("Misc ROMs: %d", h.MiscROMs))
		}
	}

	if h.HasTrainer {
		parts = append(parts, "Trainer: Yes")
	}
	if h.HasBattery {
		parts = append(parts, "Battery: Yes")
	}
	if h.VsUnisystem {
		parts = append(parts, "VS Unisystem")
	}
	if h.Playchoice10 {
		parts = append(parts, "PlayChoice-10")
	}
	parts = append(parts, "TV System: "+h.TVSystem.String())
	if h.Format == ines.FormatINES {
		parts = append(parts, fmt.Sprintf("Bus Conflicts: %t", h.HasBusConflicts))
	}

	return strings.Join(parts, ", ")
}

// timingName is the NES 2.0 timing field name for a TV system.
func timingName(tv ines.TvSystem) string {
	switch tv {
	case ines.TVNTSC:
		return "RP2C02 (NTSC NES)"
	case ines.TVPAL:
		return "RP2C07 (Licensed PAL NES)"
	case ines.TVMulti:
		return "Multiple-region"
	case ines.TVDendy:
		return "UA6538 (Dendy)"
	}
	return tv.String()
}

// Compact writes one "path: summary" line per result.
func Compact(w io.Writer, results []Result) error {
	for _, r := range results {
		if _, err := fmt.Fprintln(w, line(r, Summary)); err != nil {
			return err
		}
	}
	return nil
}

// Verbose writes one line per result with every decoded field, plus a note
// when the file carries unannounced trailing data.
func Verbose(w io.Writer, results []Result) error {
	for _, r := range results {
		s := line(r, Detailed)
		if r.Layout != nil && r.Layout.UnexpectedTrailing {
			misc, _ := r.Layout.Find(ines.RegionMisc)
			s += fmt.Sprintf(", Trailing: %d bytes", misc.Length)
			if r.Layout.TrailingTitleLikely() {
				s += " (title?)"
			}
		}
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}

// line renders one result. A failure that still produced a decoded header,
// a truncated file, keeps its header fields with the error as a warning;
// unreadable or missigned files report the error alone.
func line(r Result, render func(*ines.Header) string) string {
	if r.Err != nil {
		if r.Header != nil && r.Header.MagicValid {
			return fmt.Sprintf("%s: %s (warning: %s)", r.Path, render(r.Header), r.Err)
		}
		return fmt.Sprintf("%s: %s", r.Path, r.Err)
	}
	return fmt.Sprintf("%s: %s", r.Path, render(r.Header))
}

// JSON writes the results as a JSON array, one object per result.
func JSON(w io.Writer, results []Result) error {
	var e jx.Encoder
	e.Arr(func(e *jx.Encoder) {
		for _, r := range results {
			encodeResult(e, r)
		}
	})

	if _, err := w.Write(e.Bytes()); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func encodeResult(e *jx.Encoder, r Result) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("path", func(e *jx.Encoder) { e.Str(r.Path) })
		if r.Err != nil {
			e.Field("error", func(e *jx.Encoder) { e.Str(r.Err.Error()) })
			// truncated files keep their decoded header fields
			if r.Header == nil || !r.Header.MagicValid {
				return
			}
		}

		e.Field("file_size", func(e *jx.Encoder) { e.Int64(r.FileSize) })
		EncodeHeader(e, r.Header)
		if r.Layout != nil {
			e.Field("layout", func(e *jx.Encoder) { EncodeLayout(e, r.Layout) })
		}
	})
}

// EncodeHeader writes the header fields into the object currently open on
// the encoder. Archaic headers only report their format: nothing past byte
// 7 can be trusted, so nothing more is claimed.
func EncodeHeader(e *jx.Encoder, h *ines.Header) {
	e.Field("format", func(e *jx.Encoder) { e.Str(h.Format.String()) })

	valid := h.Format != ines.FormatArchaic
	e.Field("valid", func(e *jx.Encoder) { e.Bool(valid) })
	if !valid {
		return
	}

	e.Field("prg_rom_size", func(e *jx.Encoder) { e.Int64(h.PRGSize) })
	e.Field("chr_rom_size", func(e *jx.Encoder) { e.Int64(h.CHRSize) })
	e.Field("prg_rom_size_kb", func(e *jx.Encoder) { e.Int64(h.PRGSize / 1024) })
	e.Field("chr_rom_size_kb", func(e *jx.Encoder) { e.Int64(h.CHRSize / 1024) })

	e.Field("mapper", func(e *jx.Encoder) { e.Int(h.Mapper) })
	e.Field("mapper_name", func(e *jx.Encoder) { e.Str(ines.MapperName(h.Mapper)) })
	mi, _ := ines.LookupMapper(h.Mapper)
	e.Field("mapper_alternates", func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, alt := range mi.Alternates {
				e.Str(alt)
			}
		})
	})
	e.Field("mapper_notes", func(e *jx.Encoder) { e.Str(mi.Notes) })

	e.Field("mirroring", func(e *jx.Encoder) { e.Str(MirrorLetter(h)) })
	e.Field("has_battery", func(e *jx.Encoder) { e.Bool(h.HasBattery) })
	e.Field("has_trainer", func(e *jx.Encoder) { e.Bool(h.HasTrainer) })
	e.Field("four_screen", func(e *jx.Encoder) { e.Bool(h.AltNametable) })
	e.Field("is_vs_unisystem", func(e *jx.Encoder) { e.Bool(h.VsUnisystem) })
	e.Field("is_playchoice_10", func(e *jx.Encoder) { e.Bool(h.Playchoice10) })
	e.Field("console_type", func(e *jx.Encoder) {
		e.Str(ines.ConsoleType(h.Raw[7] & 0x03).String())
	})

	e.Field("prg_ram_size", func(e *jx.Encoder) { e.Int64(h.PRGRAMSize()) })
	e.Field("tv_system", func(e *jx.Encoder) { e.Str(h.TVSystem.String()) })

	if h.Format == ines.FormatNES20 {
		e.Field("submapper", func(e *jx.Encoder) { e.Int(int(h.Submapper)) })
		e.Field("prg_nvram_size", func(e *jx.Encoder) { e.Int64(h.PRGNVRAMSize()) })
		e.Field("chr_ram_size", func(e *jx.Encoder) { e.Int64(h.CHRRAMSize()) })
		e.Field("chr_nvram_size", func(e *jx.Encoder) { e.Int64(h.CHRNVRAMSize()) })
		e.Field("cpu_timing", func(e *jx.Encoder) { e.Str(timingName(h.TVSystem)) })
		if h.Console == ines.ConsoleVsSystem {
			e.Field("vs_ppu_type", func(e *jx.Encoder) { e.Int(int(h.VsPPUType)) })
			e.Field("vs_hw_type", func(e *jx.Encoder) { e.Int(int(h.VsHardware)) })
		}
		if h.Console == ines.ConsoleExtended {
			e.Field("extended_console_type", func(e *jx.Encoder) { e.Int(int(h.ExtConsole)) })
		}
		e.Field("misc_rom_count", func(e *jx.Encoder) { e.Int(h.MiscROMs) })
		e.Field("expansion_device", func(e *jx.Encoder) { e.Int(int(h.ExpansionDevice)) })
	}

	if h.Format == ines.FormatINES {
		e.Field("has_bus_conflicts", func(e *jx.Encoder) { e.Bool(h.HasBusConflicts) })
	}
}

// EncodeLayout writes the layout as an object: file size, regions and the
// trailing data verdicts.
func EncodeLayout(e *jx.Encoder, l *ines.Layout) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("file_size", func(e *jx.Encoder) { e.Int64(l.FileSize) })
		e.Field("regions", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, reg := range l.Regions {
					e.Obj(func(e *jx.Encoder) {
						e.Field("kind", func(e *jx.Encoder) { e.Str(reg.Kind.String()) })
						e.Field("offset", func(e *jx.Encoder) { e.Int64(reg.Offset) })
						e.Field("length", func(e *jx.Encoder) { e.Int64(reg.Length) })
					})
				}
			})
		})
		e.Field("unexpected_trailing", func(e *jx.Encoder) { e.Bool(l.UnexpectedTrailing) })
		e.Field("trailing_title_likely", func(e *jx.Encoder) { e.Bool(l.TrailingTitleLikely()) })
	})
}
