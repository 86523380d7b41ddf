// Command eldensave is a unified CLI for Elden Ring save file
// operations.
//
// Usage:
//
//	eldensave <command> [options]
//
// Commands:
//
//	list    Show character slots in a save file
//	check   Report which corruption rules would trigger
//	fix     Apply corruption fixes to a save file
//	backup  Create, list, and restore save file backups
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/eldensave/eldensave/log"
)

var version = "dev"

type globalOptions struct {
	Version func() `short:"V" long:"version" description:"Print version and exit"`
	Verbose bool   `short:"v" long:"verbose" description:"Enable verbose (debug-level) logging"`
}

func main() {
	var globals globalOptions
	globals.Version = func() {
		fmt.Printf("eldensave %s\n", version)
		os.Exit(0)
	}

	parser := flags.NewParser(&globals, flags.Default)
	parser.Name = "eldensave"
	parser.LongDescription = "A toolkit for inspecting and repairing Elden Ring .sl2/.co2 save files"

	addListCommand(parser)
	addCheckCommand(parser)
	addFixCommand(parser)
	addBackupCommand(parser)

	level := zerolog.InfoLevel
	if containsFlag(os.Args, "-v", "--verbose") {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	log.SetLogger(log.NewZerologAdapter(zlog))

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			if flagsErr.Type == flags.ErrCommandRequired {
				parser.WriteHelp(os.Stderr)
				os.Exit(1)
			}
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCodeFor(err))
	}
}

func containsFlag(args []string, names ...string) bool {
	for _, a := range args {
		for _, n := range names {
			if a == n {
				return true
			}
		}
	}
	return false
}

// exitCodeFor maps a CLI error to the process exit code: 1 for a
// general failure, 2 for a usage error, matching the teacher's
// convention of a non-zero status without swallowing go-flags'
// richer classification for help/command-required cases (handled
// above before this is ever reached).
func exitCodeFor(err error) int {
	if _, ok := err.(*flags.Error); ok {
		return 2
	}
	return 1
}
