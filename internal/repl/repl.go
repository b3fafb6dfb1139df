// Package repl is an interactive one-expression-at-a-time filter tester,
// adapted from the teacher's bufio.Scanner-driven read-eval loop.
package repl

import (
	"bufio"
	"fmt"
	"io"

	"vcffilter/internal/filter"
	"vcffilter/internal/fmtexpr"
	"vcffilter/internal/parser"
	"vcffilter/internal/record"
	"vcffilter/internal/schema"
)

// Start reads filter expressions from in, one per line, compiles each
// against sch, prints the normalized RPN shape, and — if rec is non-nil —
// evaluates it against rec and prints the verdict. Type 'exit' to quit.
func Start(in io.Reader, out io.Writer, sch schema.Schema, rec record.Record) {
	fmt.Fprintln(out, "vcffilter REPL | type 'exit' to quit")
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, ">>> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "exit" {
			break
		}
		if line == "" {
			continue
		}

		nodes, _, err := parser.Parse(sch, line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintln(out, fmtexpr.Format(nodes))

		if rec == nil {
			continue
		}

		prog, err := filter.Compile(sch, line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		site, samples, err := filter.Evaluate(prog, rec)
		filter.Destroy(prog)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintf(out, "site_pass=%v sample_pass=%v\n", site, samples)
	}
}
