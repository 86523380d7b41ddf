package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/eldensave/eldensave/backup"
	"github.com/eldensave/eldensave/save"
)

type fixCommand struct {
	Slot     []int  `long:"slot" description:"Slot index to fix (repeatable); defaults to every occupied slot"`
	Teleport string `long:"teleport" description:"Also teleport the fixed slot(s) to a named destination (limgrave, roundtable, liurnia, altus)"`
	NoBackup bool   `short:"n" long:"no-backup" description:"Don't create a backup before writing"`
	Args     struct {
		File string `positional-arg-name:"file" description:"Save file to fix" required:"true"`
	} `positional-args:"yes"`
}

func (c *fixCommand) Execute(args []string) error {
	data, err := os.ReadFile(c.Args.File)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	sv, err := save.Load(data)
	if err != nil {
		return fmt.Errorf("error parsing save: %w", err)
	}

	if !c.NoBackup {
		mgr := backup.New(c.Args.File)
		entry, err := mgr.CreatePreWriteBackup("fix")
		if err != nil {
			return fmt.Errorf("error creating backup: %w", err)
		}
		fmt.Printf("Backup created: %s\n", entry.Filename)
	}

	targets := c.Slot
	if len(targets) == 0 {
		targets = sv.ActiveSlots()
	}

	anyApplied := false
	for _, idx := range targets {
		applied, descriptions := sv.FixCharacter(idx)
		if applied {
			anyApplied = true
			fmt.Printf("[%d] applied fixes:\n", idx)
			for _, d := range descriptions {
				fmt.Printf("    %s\n", d)
			}
		} else {
			fmt.Printf("[%d] no fixes needed\n", idx)
		}

		if c.Teleport != "" {
			descs, err := sv.DLCEscape(idx, save.TeleportDestination(c.Teleport))
			if err != nil {
				return fmt.Errorf("error teleporting slot %d: %w", idx, err)
			}
			anyApplied = true
			for _, d := range descs {
				fmt.Printf("    %s\n", d)
			}
		}
	}

	if !anyApplied {
		fmt.Println("No changes made.")
		return nil
	}

	if err := sv.RecalculateChecksums(); err != nil {
		return fmt.Errorf("error recalculating checksums: %w", err)
	}
	if err := sv.ToFile(c.Args.File); err != nil {
		return fmt.Errorf("error writing repaired file: %w", err)
	}
	fmt.Println("File repaired successfully")
	return nil
}

func addFixCommand(parser *flags.Parser) {
	_, err := parser.AddCommand("fix",
		"Apply corruption fixes to a save file",
		"Runs every corruption rule against the chosen slot(s) (or all occupied slots) and "+
			"writes back any change. A backup is created first unless --no-backup is given.",
		&fixCommand{})
	if err != nil {
		panic(err)
	}
}
