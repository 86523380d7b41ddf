package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/eldensave/eldensave/save"
)

type checkCommand struct {
	Args struct {
		File string `positional-arg-name:"file" description:"Save file to inspect" required:"true"`
	} `positional-args:"yes"`
}

func (c *checkCommand) Execute(args []string) error {
	data, err := os.ReadFile(c.Args.File)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	sv, err := save.Load(data)
	if err != nil {
		return fmt.Errorf("error parsing save: %w", err)
	}

	anyIssues := false
	for _, i := range sv.ActiveSlots() {
		var triggered []string
		for _, fixer := range save.AllFixers {
			if fixer.Detect(sv, i) {
				triggered = append(triggered, fixer.Name())
			}
		}
		if len(triggered) == 0 {
			fmt.Printf("[%d] no issues detected\n", i)
			continue
		}
		anyIssues = true
		fmt.Printf("[%d] issues: %v\n", i, triggered)
	}

	if anyIssues {
		os.Exit(1)
	}
	return nil
}

func addCheckCommand(parser *flags.Parser) {
	_, err := parser.AddCommand("check",
		"Report which corruption rules would trigger",
		"Runs every corruption detector against each occupied slot without modifying the file. Exits 1 if any issue is found.",
		&checkCommand{})
	if err != nil {
		panic(err)
	}
}
