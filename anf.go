// Package anf provides a graph-based A-Normal Form IR for compiler front ends,
// together with a fixture-driven checker for it.
//
// The IR itself lives in the ir package. This package wires the fixture
// loader to the IR's edge checker:
//
//	report, err := anf.Check(ctx, source, anf.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err) // the fixture could not be loaded
//	}
//	if !report.OK() {
//	    for _, e := range report.EdgeErrors {
//	        fmt.Println(e)
//	    }
//	}
//
// A fixture describes graphs in YAML and an optional script of edits (set,
// insert, delete, append, clear, replace); see the fixture package.
package anf

import (
	"context"
	"fmt"

	"github.com/gogpu/anf/fixture"
	"github.com/gogpu/anf/internal/ctxlog"
	"github.com/gogpu/anf/ir"
)

// Options configures a check.
type Options struct {
	// Verify checks edges after building and after the edit script.
	Verify bool

	// VerifyEachEdit also checks edges after every single edit.
	VerifyEachEdit bool

	// StopOnError stops the edit script at the first failing edit or edge
	// inconsistency.
	StopOnError bool
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Verify:         true,
		VerifyEachEdit: false,
		StopOnError:    true,
	}
}

// Stats counts what a program contains.
type Stats struct {
	Graphs           int
	Nodes            int
	Edges            int
	Constants        int
	UnusedParameters int
	EditsApplied     int
	EditsFailed      int
}

// Report is the outcome of a check.
type Report struct {
	Program    *fixture.Program
	Stats      Stats
	EditErrors []error
	EdgeErrors []ir.EdgeError
}

// OK reports whether every edit applied and every edge check passed.
func (r *Report) OK() bool {
	return len(r.EditErrors) == 0 && len(r.EdgeErrors) == 0
}

// Check loads a fixture, runs its edit script and checks the IR's edges.
//
// The pipeline is:
//  1. Parse the YAML source
//  2. Build the graphs
//  3. Verify edges (if enabled)
//  4. Apply the edits, verifying after each one if enabled
//  5. Verify edges again (if enabled)
//
// Load failures are returned as errors. Failing edits and edge
// inconsistencies are recorded in the report.
func Check(ctx context.Context, source []byte, opts Options) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	f, err := Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	p, err := Build(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("build error: %w", err)
	}

	report := &Report{Program: p}
	if opts.Verify {
		if report.EdgeErrors = Verify(p); len(report.EdgeErrors) > 0 {
			logger.Error("edges inconsistent after build", "errors", len(report.EdgeErrors))
			if opts.StopOnError {
				report.Stats = Collect(p)
				return report, nil
			}
		}
	}

	applied, failed := 0, 0
	for _, e := range f.Edits {
		if err := p.Apply(ctx, e); err != nil {
			failed++
			report.EditErrors = append(report.EditErrors, err)
			logger.Warn("edit failed", "edit", e.String(), "error", err)
			if opts.StopOnError {
				break
			}
			continue
		}
		applied++
		if opts.VerifyEachEdit {
			if errs := Verify(p); len(errs) > 0 {
				report.EdgeErrors = append(report.EdgeErrors, errs...)
				logger.Error("edges inconsistent after edit", "edit", e.String(), "errors", len(errs))
				if opts.StopOnError {
					break
				}
			}
		}
	}

	if opts.Verify && !opts.VerifyEachEdit && len(f.Edits) > 0 {
		report.EdgeErrors = append(report.EdgeErrors, Verify(p)...)
	}

	report.Stats = Collect(p)
	report.Stats.EditsApplied = applied
	report.Stats.EditsFailed = failed
	logger.Debug("check finished",
		"graphs", report.Stats.Graphs,
		"nodes", report.Stats.Nodes,
		"edits", applied,
		"ok", report.OK())
	return report, nil
}

// Parse parses fixture source.
func Parse(source []byte) (*fixture.File, error) {
	return fixture.Parse(source)
}

// Build builds the IR described by a parsed fixture.
func Build(ctx context.Context, f *fixture.File) (*fixture.Program, error) {
	return fixture.Build(ctx, f)
}

// Verify checks the edges of every node connected to the program's graphs.
func Verify(p *fixture.Program) []ir.EdgeError {
	return ir.VerifyEdges(p.Roots()...)
}

// Collect counts the graphs, reachable nodes and edges of a program.
// Nodes are those reachable from each graph's parameters and return node,
// including the bodies of graphs held by constants.
func Collect(p *fixture.Program) Stats {
	s := Stats{
		Graphs:    len(p.Graphs()),
		Constants: p.Pool().Count(),
	}
	seen := make(map[*ir.Node]struct{})
	for _, root := range p.Roots() {
		for n := range ir.Walk(root, ir.SuccDeep) {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			s.Nodes++
			s.Edges += n.Inputs().Len()
		}
	}
	for _, g := range p.Graphs() {
		s.UnusedParameters += len(g.UnusedParameters())
	}
	return s
}
