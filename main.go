package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

// Version is the language version manifests are checked against.
const Version = "0.1.0"

var plog = capnslog.NewPackageLogger("github.com/pontaoski/arrow", "main")

type driver struct {
	stdout io.Writer
	stderr io.Writer
	trace  bool
}

func (d *driver) app() *cli.App {
	return &cli.App{
		Name:      "arrow",
		Usage:     "arrow language interpreter",
		Version:   Version,
		Writer:    d.stdout,
		ErrWriter: d.stderr,
		// exit codes are decided by run, after the app returns
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "one of CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG, TRACE",
				Value:   "WARNING",
				EnvVars: []string{"ARROW_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print the Go stack of errors",
			},
		},
		Before: func(c *cli.Context) error {
			lvl, err := capnslog.ParseLevel(strings.ToUpper(c.String("log-level")))
			if err != nil {
				return err
			}
			capnslog.SetFormatter(capnslog.NewPrettyFormatter(d.stderr, lvl >= capnslog.DEBUG))
			capnslog.SetGlobalLogLevel(lvl)

			d.trace = c.Bool("trace")
			return nil
		},
		Commands: []*cli.Command{
			d.runCommand(),
			d.tokensCommand(),
			d.astCommand(),
			d.fmtCommand(),
			d.checkCommand(),
			d.emitCommand(),
			d.initCommand(),
		},
	}
}

// run executes the command line and returns the process exit status. A
// program run exits with the result of its main.
func (d *driver) run(ctx context.Context, args []string) int {
	err := d.app().RunContext(ctx, args)
	if err == nil {
		return 0
	}

	if exit, ok := err.(cli.ExitCoder); ok {
		if msg := exit.Error(); msg != "" {
			fmt.Fprintf(d.stderr, "ERROR: %s\n", msg)
		}
		return exit.ExitCode()
	}

	fmt.Fprintf(d.stderr, "ERROR: %s\n", err)
	if d.trace {
		fmt.Fprintln(d.stderr, tracerr.SprintSourceColor(err))
	}
	return 1
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	d := &driver{stdout: os.Stdout, stderr: os.Stderr}
	code := d.run(ctx, os.Args)
	stop()

	os.Exit(code)
}
