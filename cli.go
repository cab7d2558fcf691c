package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"inespector/log"
)

type mode byte

const (
	scanMode    mode = iota // Scan a directory tree for ROMs
	splitMode               // Split a ROM into its parts
	infoMode                // Show ROM infos
	versionMode             // Show inespector version
)

type (
	CLI struct {
		Scan    Scan    `cmd:"" help:"Scan a directory tree for ROM files. (default command)" default:"true"`
		Split   Split   `cmd:"" help:"Split a ROM into its binary parts."`
		Info    Info    `cmd:"" help:"Show ROM infos."`
		Version Version `cmd:"" help:"Show inespector version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Scan struct {
		Dir string `arg:"" name:"directory" help:"${scandir_help}" optional:"" type:"existingdir"`

		Verbose bool     `short:"v" help:"Report scan progress and totals on stderr."`
		ShowAll bool     `name:"show-all" help:"Show all header fields, not just the summary."`
		JSON    bool     `name:"json" help:"Write results as a JSON array."`
		Out     *outfile `name:"out" help:"Write results to a file." placeholder:"FILE|stdout|stderr"`
		Jobs    int      `name:"jobs" help:"Number of files decoded in parallel. (0 = one per CPU)"`

		HasTrainer bool   `name:"has-trainer" help:"Only ROMs with a 512-byte trainer."`
		Mapper     *int   `name:"mapper" placeholder:"N" help:"Only ROMs with this mapper number."`
		Mirroring  string `name:"mirroring" placeholder:"H|V|F" help:"${mirroring_help}"`
		MinPRG     *int   `name:"min-prg" placeholder:"KB" help:"Minimum PRG ROM size in KB."`
		MaxPRG     *int   `name:"max-prg" placeholder:"KB" help:"Maximum PRG ROM size in KB."`
		MinCHR     *int   `name:"min-chr" placeholder:"KB" help:"Minimum CHR ROM size in KB."`
		MaxCHR     *int   `name:"max-chr" placeholder:"KB" help:"Maximum CHR ROM size in KB."`
	}

	Split struct {
		RomPath string `arg:"" name:"/path/to/rom" help:"${rompath_help}" required:"true" type:"existingfile"`
		OutDir  string `name:"outdir" help:"Write extracted parts into this directory." type:"existingdir" default:"."`
	}

	Info struct {
		RomPath string `arg:"" name:"/path/to/rom" help:"${rompath_help}" type:"existingfile"`
		JSON    bool   `name:"json" help:"Write infos as a JSON object."`
	}

	Version struct{}
)

var vars = kong.Vars{
	"scandir_help":   "Directory to scan. (defaults to the configured ROM directory)",
	"rompath_help":   "ROM file, plain .nes or zip archive.",
	"mirroring_help": "Only ROMs with this mirroring: H (horizontal), V (vertical), F (four-screen).",
	"log_help":       "Enable debug logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("inespector"),
		kong.Description("iNES / NES 2.0 ROM inspector."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch ctx.Command() {
	case "split </path/to/rom>":
		cfg.mode = splitMode
	case "info </path/to/rom>":
		cfg.mode = infoMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = scanMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "scan") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }
