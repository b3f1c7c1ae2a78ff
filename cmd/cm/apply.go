package main

import (
	"context"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/classmod/class"
	"github.com/signadot/classmod/modify"
	"github.com/signadot/classmod/plan"
)

func loadUniverse(cfg *MainConfig) (*plan.ClassesManifest, *class.Universe, error) {
	if cfg.Classes == "" {
		return nil, nil, fmt.Errorf("%w: -classes manifest required", cli.ErrUsage)
	}
	m, err := plan.LoadClasses(cfg.Classes)
	if err != nil {
		return nil, nil, err
	}
	return m, m.Universe(), nil
}

func apply(cfg *ApplyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Apply.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: apply requires at least one plan file", cli.ErrUsage)
	}
	_, u, err := loadUniverse(cfg.MainConfig)
	if err != nil {
		return err
	}
	for _, file := range args {
		pl, err := plan.Load(file)
		if err != nil {
			return err
		}
		if cfg.DryRun {
			if err := compileAll(pl); err != nil {
				return fmt.Errorf("plan %s: %w", file, err)
			}
			fmt.Fprintf(cc.Out, "%s: ok (dry run)\n", file)
			continue
		}
		_, results, err := plan.Apply(context.Background(), u, pl)
		for _, res := range results {
			status := "applied"
			if res.Warning != "" {
				status = "warning: " + res.Warning
			}
			fmt.Fprintf(cc.Out, "%s: step %d %s %s %v: %s\n",
				file, res.Step, res.Verb, res.Class, res.Methods, status)
		}
		if err != nil {
			return fmt.Errorf("plan %s: %w", file, err)
		}
	}
	return nil
}

func compileAll(pl *plan.Plan) error {
	for i := range pl.Patches {
		s := &pl.Patches[i]
		if s.Verb == modify.VerbUnpatch {
			continue
		}
		var err error
		if s.Verb == modify.VerbAround {
			_, err = plan.CompileAround(s.Body)
		} else {
			_, err = plan.CompileFn(s.Body)
		}
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}
