package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Classes string `cli:"name=classes desc='classes manifest file (yaml)'"`
	Color   bool   `cli:"name=color desc='force colored output'"`

	Main *cli.Command
}

// useColor reports whether diff output should be colored: forced via
// -color, otherwise only on a terminal.
func (cfg *MainConfig) useColor() bool {
	if cfg.Color {
		return true
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

type ApplyConfig struct {
	*MainConfig
	DryRun bool `cli:"name=dry-run desc='validate and compile without applying'"`

	Apply *cli.Command
}

type ShowConfig struct {
	*MainConfig
	Show *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Diff *cli.Command
}

type PatchDConfig struct {
	*MainConfig
	PatchD *cli.Command
}

type PatchDServeConfig struct {
	*PatchDConfig
	Serve *cli.Command
	Addr  string `cli:"name=addr desc='TCP listen address' default=localhost:9193"`
}
