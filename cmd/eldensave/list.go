package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/eldensave/eldensave/save"
)

type listCommand struct {
	All     bool `short:"a" long:"all" description:"Show empty slots too"`
	Verbose bool `short:"v" long:"verbose" description:"Show extended per-slot detail"`
	Args    struct {
		File string `positional-arg-name:"file" description:"Save file to inspect" required:"true"`
	} `positional-args:"yes"`
}

func (c *listCommand) Execute(args []string) error {
	data, err := os.ReadFile(c.Args.File)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	sv, err := save.Load(data)
	if err != nil {
		return fmt.Errorf("error parsing save: %w", err)
	}

	for i := range sv.Slots {
		slot, _ := sv.Slot(i)
		if slot.IsEmpty() && !c.All {
			continue
		}
		if slot.IsEmpty() {
			fmt.Printf("[%d] (empty)\n", i)
			continue
		}
		fmt.Printf("[%d] %s — Level %d, Runes %d\n", i, slot.Player.Name, slot.Player.Level, slot.Player.Runes)
		if c.Verbose {
			fmt.Printf("    map_id=%v steam_id=%d last_rested_grace=%d total_deaths=%d\n",
				slot.MapID, slot.SteamID, slot.LastRestedGrace, slot.TotalDeathsCount)
		}
	}
	return nil
}

func addListCommand(parser *flags.Parser) {
	_, err := parser.AddCommand("list",
		"Show character slots in a save file",
		"Lists every occupied character slot, its name, and level. Pass -a to include empty slots and -v for extended detail.",
		&listCommand{})
	if err != nil {
		panic(err)
	}
}
