// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wdamron/akane/config"
	"github.com/wdamron/akane/errs"
	"github.com/wdamron/akane/pipeline"
	"github.com/wdamron/akane/report"
)

// Flags holds the options shared by every command.
type Flags struct {
	Debug  bool
	Config string
}

func main() {
	var flags Flags

	rootCmd := &cobra.Command{
		Use:   "akanec",
		Short: "Compiler for the akane language",
		Long: `akanec type-checks akane programs, monomorphizes their generic functions
and generates LLVM IR for them.`,
		Example: `  # Generate LLVM IR next to the source file
  akanec build prog.ak

  # Report the instantiations of every generic function
  akanec check prog.ak --format pretty

  # Evaluate a function with arguments
  akanec run prog.ak --entry add3 1 2 3`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&flags.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.Config, "config", "", "Path to akane.toml (searched for from the source directory if not specified)")

	rootCmd.AddCommand(buildCmd(&flags), checkCmd(&flags), runCmd(&flags))

	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, errs.Format(err))
		}),
	); err != nil {
		os.Exit(1)
	}
}

func buildCmd(flags *Flags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "build FILE",
		Short: "Generate LLVM IR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, opts, err := load(flags, args[0])
			if err != nil {
				return err
			}
			res, err := pipeline.Build(cmd.Context(), src, opts)
			if err != nil {
				return err
			}
			if output == "" {
				output = opts.Config.OutputPath(args[0])
			}
			if output == "-" {
				return pipeline.WriteIR(cmd.OutOrStdout(), res.Module)
			}
			f, err := os.Create(output)
			if err != nil {
				return errors.Wrap(err, "creating output")
			}
			if err := pipeline.WriteIR(f, res.Module); err != nil {
				_ = f.Close()
				return err
			}
			opts.Logger.Info("wrote module", "output", output, "functions", len(res.Module.Funcs))
			return errors.Wrap(f.Close(), "closing output")
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path, or - for stdout")
	return cmd
}

func checkCmd(flags *Flags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Type-check a program and report its instantiations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, opts, err := load(flags, args[0])
			if err != nil {
				return err
			}
			res, err := pipeline.Check(cmd.Context(), src, opts)
			if err != nil {
				return err
			}
			r := report.Build(res.Session)
			switch format {
			case "yaml":
				return r.YAML(cmd.OutOrStdout())
			case "pretty":
				return r.Dump(cmd.OutOrStdout())
			default:
				return errors.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Report format: yaml or pretty")
	return cmd
}

func runCmd(flags *Flags) *cobra.Command {
	var entry string
	cmd := &cobra.Command{
		Use:   "run FILE [ARG...]",
		Short: "Evaluate a function of a program",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, opts, err := load(flags, args[0])
			if err != nil {
				return err
			}
			if entry != "" {
				opts.Config.Entry = entry
			}
			v, _, err := pipeline.Run(cmd.Context(), src, opts, args[1:]...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		},
	}
	cmd.Flags().StringVar(&entry, "entry", "", "Function to evaluate (default from akane.toml, or main)")
	return cmd
}

// load reads the source file and its configuration, and installs the configured logger.
func load(flags *Flags, path string) ([]byte, pipeline.Options, error) {
	var cfg *config.Config
	var err error
	if flags.Config != "" {
		cfg, err = config.Load(flags.Config)
	} else {
		_, cfg, err = config.Find(filepath.Dir(path))
	}
	if err != nil {
		return nil, pipeline.Options{}, err
	}

	logger, err := newLogger(cfg.Log, flags.Debug)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	slog.SetDefault(logger)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, pipeline.Options{}, errors.Wrap(err, "reading source")
	}
	return src, pipeline.Options{File: path, Config: cfg, Logger: logger}, nil
}

func newLogger(cfg config.Log, debug bool) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	switch {
	case cfg.Format == "json":
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	case isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()):
		handler = tint.NewHandler(os.Stderr, &tint.Options{Level: level})
	default:
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler), nil
}
