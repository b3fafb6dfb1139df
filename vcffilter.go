// Package vcffilter re-exports internal/filter's public API at the module
// root, as a thin root package over its internal implementation.
package vcffilter

import (
	"io"

	"vcffilter/internal/filter"
	"vcffilter/internal/record"
	"vcffilter/internal/schema"
)

// Program is a compiled filter expression.
type Program = filter.Program

// Compile parses and binds expr against sch into a reusable Program.
func Compile(sch schema.Schema, expr string) (*Program, error) {
	return filter.Compile(sch, expr)
}

// Evaluate runs p against rec, returning the site verdict and a per-sample
// pass bitmap.
func Evaluate(p *Program, rec record.Record) (sitePass bool, samplePass []bool, err error) {
	return filter.Evaluate(p, rec)
}

// Destroy releases p's scratch buffers.
func Destroy(p *Program) { filter.Destroy(p) }

// Help writes the grammar summary to w.
func Help(w io.Writer, extra ...string) { filter.Help(w, extra...) }
