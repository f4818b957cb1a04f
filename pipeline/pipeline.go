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

// Package pipeline compiles one source file: it parses, analyzes and generates code, logging
// each stage.
package pipeline

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/llir/llvm/ir"
	"github.com/pkg/errors"

	"github.com/wdamron/akane"
	"github.com/wdamron/akane/codegen"
	"github.com/wdamron/akane/config"
	"github.com/wdamron/akane/engine"
	"github.com/wdamron/akane/parser"
)

// Options configure a compilation.
type Options struct {
	// File names the source in diagnostics and in the generated module.
	File string
	// Config defaults to config.Default().
	Config *config.Config
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Result holds the products of a compilation.
type Result struct {
	Session *akane.Session
	// Module is nil for a compilation which stopped after analysis.
	Module *ir.Module
}

// Check parses and analyzes src. Diagnostics are returned as an errs.List.
func Check(ctx context.Context, src []byte, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	log := opts.Logger.With("file", opts.File)

	start := time.Now()
	defs, err := parser.Parse(opts.File, src)
	if err != nil {
		return nil, err
	}
	log.Debug("stage finished", "stage", "parse", "definitions", len(defs), "elapsed", time.Since(start))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	s := akane.NewSession(akane.Options{
		Module:            opts.Config.Module,
		MaxInstantiations: opts.Config.MaxInstantiations,
		Logger:            log,
	})
	if err := s.Analyze(defs); err != nil {
		return nil, err
	}
	log.Debug("stage finished", "stage", "analyze", "functions", s.Abses.Len(), "types", s.Types.Len(), "elapsed", time.Since(start))
	return &Result{Session: s}, nil
}

// Build checks src and generates its LLVM IR module.
func Build(ctx context.Context, src []byte, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	res, err := Check(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	res.Module, err = codegen.Generate(res.Session, codegen.Options{
		SourceFilename: opts.File,
		TargetTriple:   opts.Config.TargetTriple,
	})
	if err != nil {
		return nil, errors.Wrap(err, "generating code")
	}
	res.Session.Log.Debug("stage finished", "stage", "codegen", "functions", len(res.Module.Funcs), "elapsed", time.Since(start))
	return res, nil
}

// Run builds src and evaluates its entry function with args, parsed per parameter type.
func Run(ctx context.Context, src []byte, opts Options, args ...string) (engine.Value, *Result, error) {
	opts = opts.withDefaults()
	res, err := Build(ctx, src, opts)
	if err != nil {
		return engine.Value{}, nil, err
	}
	m := engine.New(res.Module, engine.Options{MaxCallDepth: opts.Config.MaxCallDepth, Logger: res.Session.Log})
	vals, err := m.ParseArgs(opts.Config.Entry, args)
	if err != nil {
		return engine.Value{}, res, err
	}
	v, err := m.Call(ctx, opts.Config.Entry, vals...)
	if err != nil {
		return engine.Value{}, res, errors.Wrapf(err, "running `%s`", opts.Config.Entry)
	}
	return v, res, nil
}

// WriteIR writes the textual LLVM IR of m.
func WriteIR(w io.Writer, m *ir.Module) error {
	_, err := io.WriteString(w, m.String())
	return errors.Wrap(err, "writing IR")
}
