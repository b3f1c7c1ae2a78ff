package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/classmod/modify"
	"github.com/signadot/classmod/plan"
)

// diff prints, for each plan step, how the step's body differs from
// the manifest's source for the method it patches. Steps whose methods
// have no manifest source (method verb, unpatch) show the body as an
// insertion or removal.
func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: diff requires at least one plan file", cli.ErrUsage)
	}
	m, _, err := loadUniverse(cfg.MainConfig)
	if err != nil {
		return err
	}
	useColor := cfg.useColor()
	for _, file := range args {
		pl, err := plan.Load(file)
		if err != nil {
			return err
		}
		for i := range pl.Patches {
			s := &pl.Patches[i]
			for _, method := range s.MethodNames() {
				before, _ := m.MethodBody(s.Class, method)
				fmt.Fprintf(cc.Out, "%s %s.%s:\n", s.Verb, s.Class, method)
				if s.Verb == modify.VerbUnpatch {
					// Restores the manifest source; nothing to diff.
					fmt.Fprintf(cc.Out, "\t%s\n", before)
					continue
				}
				fmt.Fprintf(cc.Out, "\t%s\n", renderDiff(before, s.Body, useColor))
			}
		}
	}
	return nil
}

// renderDiff renders a word-level diff of two expr bodies, colored
// when enabled.
func renderDiff(before, after string, useColor bool) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var (
		b   strings.Builder
		del = color.New(color.FgRed)
		ins = color.New(color.FgGreen)
	)
	if !useColor {
		del.DisableColor()
		ins.DisableColor()
	}
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString(del.Sprintf("[-%s-]", d.Text))
		case diffmatchpatch.DiffInsert:
			b.WriteString(ins.Sprintf("{+%s+}", d.Text))
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
