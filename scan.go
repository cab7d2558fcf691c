package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"inespector/scan"
)

// allExts lists every extension the scanner recognizes, for the verbose
// preamble.
var allExts = []string{".7z", ".nes", ".rar", ".zip"}

func scanMain(args Scan) {
	cfg := LoadConfigOrDefault()

	dir := args.Dir
	if dir == "" {
		dir = cfg.Scan.RomDir
	}
	showAll := args.ShowAll || cfg.Scan.ShowAll
	jobs := args.Jobs
	if jobs == 0 {
		jobs = cfg.Scan.Jobs
	}

	switch args.Mirroring {
	case "", "H", "V", "F":
	default:
		fatalf("invalid mirroring %q, valid values are H, V and F", args.Mirroring)
	}

	filter := scan.Filter{
		HasTrainer: args.HasTrainer,
		Mapper:     args.Mapper,
		Mirroring:  args.Mirroring,
		MinPRG:     args.MinPRG,
		MaxPRG:     args.MaxPRG,
		MinCHR:     args.MinCHR,
		MaxCHR:     args.MaxCHR,
	}

	if args.Verbose {
		fmt.Fprintf(os.Stderr, "Scanning directory: %s\n", dir)
		fmt.Fprintf(os.Stderr, "Looking for: %s\n", strings.Join(allExts, ", "))
		if desc := filterDesc(filter); desc != "" {
			fmt.Fprintf(os.Stderr, "Filters: %s\n", desc)
		}
		fmt.Fprintln(os.Stderr)
	}

	s := scan.Scanner{Jobs: jobs, Filter: filter}
	results, err := s.ScanDir(context.Background(), dir)
	checkf(err, "scan failed")

	var out io.Writer = os.Stdout
	if args.Out != nil {
		out = args.Out
		defer args.Out.Close()
	}

	switch {
	case args.JSON:
		err = scan.JSON(out, results)
	case showAll:
		err = scan.Verbose(out, results)
	default:
		err = scan.Compact(out, results)
	}
	checkf(err, "failed to write results")

	if len(results) == 0 {
		if filterDesc(filter) == "" {
			fmt.Fprintf(os.Stderr, "No files found with extensions %s in %s\n",
				strings.Join(allExts, ", "), dir)
		} else {
			fmt.Fprintf(os.Stderr, "No ROMs matched the filters in %s\n", dir)
		}
	}

	if args.Verbose {
		n := 0
		for _, r := range results {
			if r.Err == nil {
				n++
			}
		}
		fmt.Fprintf(os.Stderr, "\nProcessed %d ROM files\n", n)
	}
}

// filterDesc describes the active filters for the verbose preamble. Empty
// when no filter is set.
func filterDesc(f scan.Filter) string {
	var parts []string
	if f.HasTrainer {
		parts = append(parts, "has trainer")
	}
	if f.Mapper != nil {
		parts = append(parts, fmt.Sprintf("mapper=%d", *f.Mapper))
	}
	if f.Mirroring != "" {
		parts = append(parts, "mirroring="+f.Mirroring)
	}
	if f.MinPRG != nil {
		parts = append(parts, fmt.Sprintf("PRG>=%dk", *f.MinPRG))
	}
	if f.MaxPRG != nil {
		parts = append(parts, fmt.Sprintf("PRG<=%dk", *f.MaxPRG))
	}
	if f.MinCHR != nil {
		parts = append(parts, fmt.Sprintf("CHR>=%dk", *f.MinCHR))
	}
	if f.MaxCHR != nil {
		parts = append(parts, fmt.Sprintf("CHR<=%dk", *f.MaxCHR))
	}
	return strings.Join(parts, ", ")
}
