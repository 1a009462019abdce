// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"gopkg.microglot.org/combinator.go/internal/driver"
	"gopkg.microglot.org/combinator.go/internal/exc"
	"gopkg.microglot.org/combinator.go/internal/fs"
	"gopkg.microglot.org/combinator.go/internal/idl"
	"gopkg.microglot.org/combinator.go/internal/render"
	"gopkg.microglot.org/combinator.go/internal/target"
)

type opts struct {
	Roots     []string
	Output    string
	Format    string
	Verbosity int
	Trace     bool
	NoColor   bool
}

var (
	errorFmt  = color.New(color.FgRed).SprintFunc()
	statusFmt = color.New(color.FgGreen).SprintfFunc()
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.LookupEnv))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer, lookup func(string) (string, bool)) int {
	op := &opts{}
	flags := pflag.NewFlagSet("combinator", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringSliceVar(&op.Roots, "root", []string{"."}, "Root search paths for inputs.")
	flags.StringVar(&op.Output, "output", "-", "Output directory or - for STDOUT.")
	flags.StringVar(&op.Format, "format", string(render.FormatJSON), "Output format: json or yaml.")
	flags.CountVarP(&op.Verbosity, "verbose", "v", "Log more detail. Repeat for more.")
	flags.BoolVar(&op.Trace, "trace", false, "Log every grammar rule as it is tried.")
	flags.BoolVar(&op.NoColor, "no-color", false, "Disable coloured output.")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	targets := flags.Args()
	if len(targets) < 1 {
		fmt.Fprintln(stderr, errorFmt("no inputs given; pass files, directories, or - for STDIN"))
		return 2
	}

	if op.NoColor {
		color.NoColor = true
	}
	verbosity := op.Verbosity
	if op.Trace && verbosity < 2 {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	format, err := render.ParseFormat(op.Format)
	if err != nil {
		fmt.Fprintln(stderr, errorFmt(err.Error()))
		return 2
	}

	inputs, err := inputFS(lookup, op.Roots, targets, stdin)
	if err != nil {
		fmt.Fprintln(stderr, errorFmt(err.Error()))
		return 1
	}
	d, err := driver.New(
		driver.OptionWithLookupEnv(lookup),
		driver.OptionWithFS(inputs),
	)
	if err != nil {
		fmt.Fprintln(stderr, errorFmt(err.Error()))
		return 1
	}

	status := 0
	resp, err := d.Parse(ctx, &idl.ParseRequest{
		Files: targets,
		Trace: op.Trace,
	})
	if err != nil {
		status = 1
		var me driver.MultiException
		if !errors.As(err, &me) {
			fmt.Fprintln(stderr, errorFmt(err.Error()))
			return status
		}
		for _, e := range me {
			fmt.Fprintln(stderr, errorFmt(e.Error()))
		}
	}

	if err := write(ctx, op, format, resp.Documents, stdout, stderr); err != nil {
		fmt.Fprintln(stderr, errorFmt(err.Error()))
		return 1
	}
	return status
}

// inputFS layers standard input, when requested, over the search roots.
func inputFS(lookup func(string) (string, bool), roots []string, targets []string, stdin io.Reader) (idl.FileSystem, error) {
	search, err := driver.NewDefaultFS(lookup, roots...)
	if err != nil {
		return nil, err
	}
	for _, t := range targets {
		if t != target.Stdin {
			continue
		}
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, exc.WrapUnknown(exc.Location{URI: target.StdinURI}, err)
		}
		mem := fs.NewFileSystemMemory(map[string]string{target.StdinURI: string(b)})
		return fs.FileSystemMulti{mem, search}, nil
	}
	return search, nil
}

func write(ctx context.Context, op *opts, format render.Format, docs []*idl.Document, stdout io.Writer, stderr io.Writer) error {
	if op.Output == "-" {
		for offset, doc := range docs {
			out, err := render.Render(doc.Root, render.Options{Format: format, Color: !color.NoColor})
			if err != nil {
				return exc.WrapUnknown(exc.Location{URI: doc.URI}, err)
			}
			if format == render.FormatYAML && offset > 0 {
				fmt.Fprintln(stdout, "---")
			}
			if _, err := stdout.Write(out); err != nil {
				return err
			}
		}
		return nil
	}
	dest, err := fs.NewFileSystemLocal(op.Output)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		out, err := render.Render(doc.Root, render.Options{Format: format})
		if err != nil {
			return exc.WrapUnknown(exc.Location{URI: doc.URI}, err)
		}
		uri := target.Output(doc.URI, format.Extension())
		if err := dest.Write(ctx, uri, string(out)); err != nil {
			return err
		}
		fmt.Fprintln(stderr, statusFmt("wrote %s", uri))
	}
	return nil
}
