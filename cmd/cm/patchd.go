package main

import (
	"context"
	"fmt"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"

	"github.com/signadot/classmod/system/patchd/server"
)

func patchdServe(cfg *PatchDServeConfig, cc *cli.Context, args []string) error {
	_, err := cfg.Serve.Parse(cc, args)
	if err != nil {
		return err
	}

	// Start gops agent for debugging
	if err := agent.Listen(agent.Options{}); err != nil {
		fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
	}

	spec := &server.Spec{}
	if cfg.Classes != "" {
		m, u, err := loadUniverse(cfg.MainConfig)
		if err != nil {
			return err
		}
		// Materialize manifest classes so state reports them.
		for _, name := range m.Names() {
			if _, err := u.Ensure(context.Background(), name); err != nil {
				return err
			}
		}
		spec.Universe = u
	}

	srv := server.New(spec)
	if err := srv.StartTCP(cfg.Addr); err != nil {
		return fmt.Errorf("failed to start TCP listener: %w", err)
	}
	fmt.Fprintf(cc.Out, "patchd listening on %s\n", srv.TCPAddr())
	defer srv.StopTCP()

	select {}
}
