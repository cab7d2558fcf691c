package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-faster/jx"

	"inespector/ines"
	"inespector/scan"
)

func infoMain(args Info) {
	name, data, err := loadImage(args.RomPath)
	checkf(err, "failed to read rom")

	var rom ines.Rom
	_, err = rom.ReadFrom(bytes.NewReader(data))
	checkf(err, "failed to read rom")

	if args.JSON {
		var e jx.Encoder
		e.Obj(func(e *jx.Encoder) {
			e.Field("path", func(e *jx.Encoder) { e.Str(args.RomPath) })
			e.Field("file_size", func(e *jx.Encoder) { e.Int64(rom.Layout.FileSize) })
			scan.EncodeHeader(e, &rom.Header)
			e.Field("layout", func(e *jx.Encoder) { scan.EncodeLayout(e, &rom.Layout) })
		})
		os.Stdout.Write(e.Bytes())
		fmt.Println()
		return
	}

	fmt.Printf("%s: %s\n", name, rom.Header.Format)
	fmt.Println(scan.Detailed(&rom.Header))
	fmt.Println()
	fmt.Println("Offsets:")
	for _, reg := range rom.Layout.Regions {
		fmt.Printf("\t%-8s $%06X  %d bytes\n", reg.Kind, reg.Offset, reg.Length)
	}
	if rom.Layout.UnexpectedTrailing {
		misc, _ := rom.Layout.Find(ines.RegionMisc)
		note := ""
		if rom.Layout.TrailingTitleLikely() {
			note = " (looks like an embedded title)"
		}
		fmt.Printf("\nUnexpected trailing data: %d bytes%s\n", misc.Length, note)
	}
}
