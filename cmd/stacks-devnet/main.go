// Package main is the entry point for start-devnet, the CLI surface
// spec §6 describes: it parses flags, builds a supervisor.Supervisor,
// and maps its outcome to the documented exit codes.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hirosystems/stacks-devnet/internal/supervisor"
)

func main() {
	app := &cli.App{
		Name:      "start-devnet",
		Usage:     "bring up a local Stacks devnet",
		UsageText: "start-devnet [options] <manifest_path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-dashboard",
				Usage: "stream events to stdout instead of attaching a terminal UI",
			},
			&cli.StringFlag{
				Name:  "deployment-plan-path",
				Usage: "override the Clarity deployment-plan lookup",
			},
			&cli.StringFlag{
				Name:  "override",
				Usage: "config-override manifest merged on top of manifest_path",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn, or error",
				Value: "info",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			if msg := exitErr.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("start-devnet: exactly one manifest_path argument is required", 1)
	}
	manifestPath := c.Args().Get(0)

	level, err := parseLogLevel(c.String("log-level"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("start-devnet: %v", err), 1)
	}

	opts := supervisor.Options{
		NoDashboard:        c.Bool("no-dashboard"),
		DeploymentPlanPath: c.String("deployment-plan-path"),
		LogLevel:           level,
	}

	sup := supervisor.New()
	err = sup.Run(context.Background(), manifestPath, c.String("override"), opts)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, supervisor.ErrInterrupted):
		return cli.Exit("", 130)
	default:
		fmt.Fprintf(os.Stderr, "⚠️  fatal error — %s\n", err)
		fmt.Fprintf(os.Stderr, "devnet artifacts: see working_dir in %s\n", manifestPath)
		return cli.Exit("", 1)
	}
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q: %w", s, err)
	}
	return level, nil
}
