package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/signadot/classmod/plan"
)

// show loads the manifest universe, applies any given plans, and
// prints classes, methods, patched slots, and the journal.
func show(cfg *ShowConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Show.Parse(cc, args)
	if err != nil {
		return err
	}
	m, u, err := loadUniverse(cfg.MainConfig)
	if err != nil {
		return err
	}
	ctx := context.Background()
	for _, name := range m.Names() {
		if _, err := u.Ensure(ctx, name); err != nil {
			return err
		}
	}

	for _, file := range args {
		pl, err := plan.Load(file)
		if err != nil {
			return err
		}
		p, _, err := plan.Apply(ctx, u, pl)
		if err != nil {
			return fmt.Errorf("plan %s: %w", file, err)
		}
		fmt.Fprintf(cc.Out, "%s:\n", file)
		fmt.Fprintf(cc.Out, "\tauthorized: %s\n", strings.Join(p.Gate().Authorized(), ", "))
		for _, id := range p.Registry().Keys() {
			fmt.Fprintf(cc.Out, "\tpatched: %s\n", id)
		}
		for _, rec := range p.Journal().Records() {
			fmt.Fprintf(cc.Out, "\t%s %s\n", rec.Verb, rec.Method)
		}
	}

	for _, name := range u.Names() {
		c, ok := u.Get(name)
		if !ok {
			continue
		}
		var bases []string
		for _, b := range c.Bases() {
			bases = append(bases, b.Name())
		}
		fmt.Fprintf(cc.Out, "%s:\n", name)
		if len(bases) > 0 {
			fmt.Fprintf(cc.Out, "\tbases: %s\n", strings.Join(bases, ", "))
		}
		for _, method := range c.Methods() {
			fmt.Fprintf(cc.Out, "\t- %s\n", method)
		}
	}
	return nil
}
