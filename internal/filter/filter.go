// Package filter is the public entry point: compile an expression against
// a schema, evaluate it per record, and print the grammar summary.
package filter

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"vcffilter/internal/eval"
	"vcffilter/internal/parser"
	"vcffilter/internal/record"
	"vcffilter/internal/schema"
)

// Program is a compiled filter expression, ready to evaluate against any
// record sharing the schema it was compiled with. ID identifies it across
// a batch run or a server session.
type Program struct {
	ID   uuid.UUID
	eval *eval.Program
	text string
}

// Compile parses and binds text against sch, producing a reusable Program.
func Compile(sch schema.Schema, text string) (*Program, error) {
	nodes, unpack, err := parser.Parse(sch, text)
	if err != nil {
		return nil, err
	}
	return &Program{
		ID:   uuid.New(),
		eval: eval.NewProgram(nodes, unpack, sch.NSamples()),
		text: text,
	}, nil
}

// Evaluate runs the compiled program against rec, returning the site
// verdict and a per-sample pass bitmap of length NSamples().
func Evaluate(p *Program, rec record.Record) (sitePass bool, samplePass []bool, err error) {
	return p.eval.Evaluate(rec)
}

// Destroy releases a program's scratch buffers. The program must not be
// evaluated again afterward.
func Destroy(p *Program) {
	p.eval.Destroy()
}

// String returns the original expression text the program was compiled
// from.
func (p *Program) String() string { return p.text }

// Help writes the grammar summary to w, followed by any extra worked
// examples the caller wants appended (e.g. from a config file).
func Help(w io.Writer, extra ...string) {
	fmt.Fprint(w, helpText)
	for _, e := range extra {
		fmt.Fprintf(w, "\n%s\n", e)
	}
}

const helpText = `Filter expression grammar:

Literals:
  numbers   123, 3.14, 5e6, -1.5
  strings   "snp", 'PASS'

Tags:
  INFO/DP, FORMAT/GQ, FMT/GQ    explicit namespace
  DP                            bare name: INFO outside a reduction, FORMAT inside one
  AD[0], GL[2]                  subscript into a multi-valued tag
  %QUAL                         site quality
  %TYPE                         variant class: compare against "snp", "indel", "mnp", "other", "ref"
  %FILTER                       applied filters: compare against a filter name or "." (none applied)

Flags:
  INFO/DB=1   present
  INFO/DB=0   absent

Arithmetic:   +  -  *  /
Comparison:   <  <=  >  >=  ==  =  !=
Parentheses:  ( expr )

Logical combination:
  &   and &&   and
  |   and ||   or
  Both spellings of each operator give the same result: operands are combined
  per sample (a site-level operand applies to every sample) and the site
  verdict is true if any combined sample passes; two site-level operands
  combine their site verdicts directly.

Reductions (apply to a FORMAT vector, producing one scalar per record):
  %MAX(tag)  %MIN(tag)  %AVG(tag)
`
