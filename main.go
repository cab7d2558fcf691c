package main

import (
	"fmt"
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "devel"

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case scanMode:
		scanMain(cli.Scan)
	case splitMode:
		splitMain(cli.Split)
	case infoMode:
		infoMain(cli.Info)
	case versionMode:
		fmt.Println("inespector", version)
	}
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s: %s\n", fmt.Sprintf(format, args...), err)
	os.Exit(1)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
