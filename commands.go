package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"

	"github.com/alecthomas/repr"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
	"golang.org/x/sync/errgroup"

	"github.com/pontaoski/arrow/ast"
	"github.com/pontaoski/arrow/codegen"
	"github.com/pontaoski/arrow/interpreter"
	"github.com/pontaoski/arrow/lexer"
	"github.com/pontaoski/arrow/parser"
)

func parseFile(path string) (*ast.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tracerr.Errorf("error reading %s: %s", path, err)
	}

	return parser.ParseSource(string(data), path)
}

func fileArg(c *cli.Context) (string, error) {
	path := c.Args().First()
	if path == "" {
		return "", tracerr.Errorf("%s: no file provided", c.Command.Name)
	}
	return path, nil
}

func (d *driver) runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "run a program; the exit status is the result of its main",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "max-depth",
				Usage: "maximum call depth, 0 for unbounded",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "run again whenever the file changes",
			},
			&cli.StringFlag{
				Name:  "manifest",
				Usage: "project manifest used when FILE is omitted",
				Value: manifestName,
			},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			depth := c.Int("max-depth")

			if path == "" {
				m, err := readManifest(c.String("manifest"))
				if err != nil {
					return err
				}
				if err := m.CheckLanguage(Version); err != nil {
					return err
				}
				path = m.EntryPath()
				if !c.IsSet("max-depth") {
					depth = m.MaxDepth
				}
			}
			if depth < 0 {
				return tracerr.Errorf("max-depth must not be negative")
			}

			if c.Bool("watch") {
				return d.watch(c.Context, path, func() {
					result, err := d.runFile(path, depth)
					if err != nil {
						fmt.Fprintf(d.stderr, "ERROR: %s\n", err)
						return
					}
					fmt.Fprintf(d.stderr, "%s: exit status %d\n", path, result)
				})
			}

			result, err := d.runFile(path, depth)
			if err != nil {
				return err
			}
			return cli.Exit("", int(result))
		},
	}
}

func (d *driver) runFile(path string, depth int) (int64, error) {
	m, err := parseFile(path)
	if err != nil {
		return 0, err
	}

	return interpreter.New(m, interpreter.Options{Stdout: d.stdout, MaxDepth: depth}).Run()
}

func (d *driver) tokensCommand() *cli.Command {
	return &cli.Command{
		Name:      "tokens",
		Usage:     "dump the tokens of a file",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path, err := fileArg(c)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return tracerr.Errorf("error reading %s: %s", path, err)
			}

			tokens, err := lexer.NewLexer(string(data), path).LexAll()
			if err != nil {
				return err
			}
			repr.New(d.stdout).Println(tokens)
			return nil
		},
	}
}

func (d *driver) astCommand() *cli.Command {
	return &cli.Command{
		Name:      "ast",
		Usage:     "dump the syntax tree of a file",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path, err := fileArg(c)
			if err != nil {
				return err
			}
			m, err := parseFile(path)
			if err != nil {
				return err
			}

			repr.New(d.stdout).Println(m.Decls)
			return nil
		},
	}
}

func (d *driver) fmtCommand() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "print a file in canonical form",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path, err := fileArg(c)
			if err != nil {
				return err
			}
			m, err := parseFile(path)
			if err != nil {
				return err
			}

			_, err = io.WriteString(d.stdout, m.String())
			return tracerr.Wrap(err)
		},
	}
}

func (d *driver) checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "parse files and report every syntax error",
		ArgsUsage: "FILE...",
		Action: func(c *cli.Context) error {
			paths := c.Args().Slice()
			if len(paths) == 0 {
				return tracerr.Errorf("check: no files provided")
			}

			failures := make([]error, len(paths))

			var g errgroup.Group
			g.SetLimit(runtime.NumCPU())
			for idx, path := range paths {
				idx, path := idx, path
				g.Go(func() error {
					_, failures[idx] = parseFile(path)
					return nil
				})
			}
			_ = g.Wait()

			var failed []string
			for idx, err := range failures {
				if err != nil {
					failed = append(failed, fmt.Sprintf("%s: %s", paths[idx], err))
				}
			}
			sort.Strings(failed)
			for _, msg := range failed {
				fmt.Fprintf(d.stderr, "ERROR: %s\n", msg)
			}

			plog.Infof("checked %d files, %d failed", len(paths), len(failed))
			if len(failed) > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d files failed", len(failed), len(paths)), 1)
			}
			return nil
		},
	}
}

func (d *driver) emitCommand() *cli.Command {
	return &cli.Command{
		Name:      "emit",
		Usage:     "lower a file to LLVM IR",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the IR to this file instead of stdout",
			},
		},
		Action: func(c *cli.Context) error {
			path, err := fileArg(c)
			if err != nil {
				return err
			}
			m, err := parseFile(path)
			if err != nil {
				return err
			}

			mod, err := codegen.Lower(m)
			if err != nil {
				return err
			}

			out := c.String("output")
			if out == "" {
				_, err = io.WriteString(d.stdout, mod.String())
				return tracerr.Wrap(err)
			}
			if err := os.WriteFile(out, []byte(mod.String()), 0o644); err != nil {
				return tracerr.Errorf("error writing %s: %s", out, err)
			}
			return nil
		},
	}
}

func (d *driver) initCommand() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "create a project manifest",
		ArgsUsage: "NAME",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "project directory",
				Value: ".",
			},
		},
		Action: func(c *cli.Context) error {
			name := c.Args().First()
			if name == "" {
				return tracerr.Errorf("init: no module name provided")
			}

			return writeManifest(c.String("dir"), Manifest{
				Package:  name,
				Entry:    defaultEntry,
				Language: "^" + Version,
			})
		},
	}
}
