package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "cm").
		WithSynopsis("cm [opts] command [opts]").
		WithDescription("cm patches methods on dynamic classes at runtime.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return cmMain(cfg, cc, args)
		}).
		WithSubs(
			ApplyCommand(cfg),
			ShowCommand(cfg),
			DiffCommand(cfg),
			PatchDCommand(cfg))
}

func cmMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func ApplyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ApplyConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("apply").
		WithAliases("a", "ap").
		WithSynopsis("apply [-dry-run] [plan files]").
		WithDescription("apply patch plans to the classes manifest's universe").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return apply(cfg, cc, args)
		})
	cfg.Apply = cmd
	return cmd
}

func ShowCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ShowConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("show").
		WithAliases("s", "sh").
		WithSynopsis("show [plan files]").
		WithDescription("show classes, methods, and the patch state plans produce").
		WithRun(func(cc *cli.Context, args []string) error {
			return show(cfg, cc, args)
		})
	cfg.Show = cmd
	return cmd
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("diff").
		WithAliases("d", "di").
		WithSynopsis("diff [plan files]").
		WithDescription("diff manifest method bodies against plan patch bodies").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}

func PatchDCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchDConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.PatchD, "patchd").
		WithSynopsis("patchd <subcommand>").
		WithDescription("patchd live-patching server commands").
		WithSubs(
			PatchDServeCommand(cfg))
}

func PatchDServeCommand(patchdCfg *PatchDConfig) *cli.Command {
	cfg := &PatchDServeConfig{PatchDConfig: patchdCfg, Addr: "localhost:9193"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Serve, "serve").
		WithSynopsis("serve [-addr <addr>]").
		WithDescription("run the patchd live-patching server").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patchdServe(cfg, cc, args)
		})
}
