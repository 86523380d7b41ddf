package main

import (
	"fmt"

	"github.com/jessevdk/go-flags"

	"github.com/eldensave/eldensave/backup"
)

type backupCreateCommand struct {
	Save string `long:"save" required:"true" description:"Path to save file"`
	Name string `long:"name" description:"Backup description"`
}

func (c *backupCreateCommand) Execute(args []string) error {
	mgr := backup.New(c.Save)
	entry, err := mgr.CreateBackup(c.Name)
	if err != nil {
		return err
	}
	fmt.Printf("Backup created: %s\n", entry.Filename)
	return nil
}

type backupListCommand struct {
	Save string `long:"save" required:"true" description:"Path to save file"`
}

func (c *backupListCommand) Execute(args []string) error {
	mgr := backup.New(c.Save)
	entries, err := mgr.ListBackups()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No backups found.")
		return nil
	}
	for _, e := range entries {
		sizeMB := float64(e.FileSize) / (1024 * 1024)
		fmt.Printf("  %s\n", e.Filename)
		fmt.Printf("    Created: %s\n", e.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Printf("    Size: %.2f MB\n", sizeMB)
		if e.Description != "" {
			fmt.Printf("    Description: %s\n", e.Description)
		}
	}
	return nil
}

type backupRestoreCommand struct {
	Save   string `long:"save" required:"true" description:"Path to save file"`
	Backup string `long:"backup" required:"true" description:"Backup filename"`
}

func (c *backupRestoreCommand) Execute(args []string) error {
	mgr := backup.New(c.Save)
	if err := mgr.RestoreBackup(c.Backup); err != nil {
		return err
	}
	fmt.Printf("Restored: %s\n", c.Backup)
	return nil
}

func addBackupCommand(parser *flags.Parser) {
	cmd, err := parser.AddCommand("backup", "Backup management", "Create, list, and restore save file backups.", &struct{}{})
	if err != nil {
		panic(err)
	}
	if _, err := cmd.AddCommand("create", "Create a backup", "", &backupCreateCommand{}); err != nil {
		panic(err)
	}
	if _, err := cmd.AddCommand("list", "List backups", "", &backupListCommand{}); err != nil {
		panic(err)
	}
	if _, err := cmd.AddCommand("restore", "Restore a backup", "", &backupRestoreCommand{}); err != nil {
		panic(err)
	}
}
