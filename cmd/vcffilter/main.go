// cmd/vcffilter/main.go
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/dustin/go-humanize"

	"vcffilter/internal/batch"
	"vcffilter/internal/filter"
	"vcffilter/internal/fmtexpr"
	"vcffilter/internal/parser"
	"vcffilter/internal/record"
	"vcffilter/internal/repl"
	"vcffilter/internal/schema"
	"vcffilter/internal/server"
)

const version = "1.0.0"

// commandAliases mirrors the teacher's single-letter shorthand convention.
var commandAliases = map[string]string{
	"c": "check",
	"e": "eval",
	"r": "repl",
	"h": "help",
	"s": "serve",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		if cmd == "help" {
			filter.Help(os.Stdout)
			return
		}
		showUsage()
	case "--version", "-v", "version":
		fmt.Println("vcffilter", version)
	case "check":
		if err := checkCommand(args[1:]); err != nil {
			log.Fatalf("check: %v", err)
		}
	case "eval":
		if err := evalCommand(args[1:]); err != nil {
			log.Fatalf("eval: %v", err)
		}
	case "repl":
		replCommand(args[1:])
	case "serve":
		if err := serveCommand(args[1:]); err != nil {
			log.Fatalf("serve: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "vcffilter: unknown command %q\n\n", args[0])
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Print(`vcffilter — a standalone filter-expression evaluator for variant-call records

Usage:
  vcffilter check <schema.json> "<expr>"          compile an expression and report errors
  vcffilter eval <schema.json> <records.ndjson> "<expr>" [workers]
                                                    compile, evaluate a batch, print a summary
  vcffilter repl <schema.json> [record.json]       interactive expression tester
  vcffilter serve <schema.json> <addr>             run the HTTP/WebSocket evaluation service
  vcffilter help                                   print the expression grammar
  vcffilter version                                print the build version

<schema.json> is an array of {"name","namespace","type","arity"} tag
declarations; see internal/schema for the enumerations. <records.ndjson>
is one JSON record object per line (see internal/record.JSONRecord).
`)
}

// schemaTag mirrors one entry of the CLI's schema.json input.
type schemaTag struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Type      string `json:"type"`
	Arity     string `json:"arity"`
}

func loadSchema(path string, nsamples int) (*schema.Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tags []schemaTag
	if err := json.NewDecoder(f).Decode(&tags); err != nil {
		return nil, err
	}

	mem := schema.NewMemory(nsamples)
	for _, t := range tags {
		mem.Define(parseNamespace(t.Namespace), t.Name, parseType(t.Type), parseArity(t.Arity))
	}
	return mem, nil
}

func parseNamespace(s string) schema.Namespace {
	switch s {
	case "FORMAT":
		return schema.FORMAT
	case "FILTER":
		return schema.FILTER
	default:
		return schema.INFO
	}
}

func parseType(s string) schema.Type {
	switch s {
	case "float":
		return schema.Float
	case "string":
		return schema.String
	case "flag":
		return schema.Flag
	default:
		return schema.Int
	}
}

func parseArity(s string) schema.Arity {
	switch s {
	case "A":
		return schema.ArityPerAlt
	case "R":
		return schema.ArityRefAlt
	case "G":
		return schema.ArityGenotype
	case ".":
		return schema.ArityVariable
	default:
		return schema.ArityScalar
	}
}

func checkCommand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: vcffilter check <schema.json> \"<expr>\"")
	}
	sch, err := loadSchema(args[0], 0)
	if err != nil {
		return err
	}
	nodes, _, err := parser.Parse(sch, args[1])
	if err != nil {
		return err
	}
	fmt.Println(fmtexpr.Format(nodes))
	return nil
}

// peekNSamples reads the "nsamples" field of the first record line, since
// the schema's sample count (needed to size the evaluator's scratch
// arena) is fixed per dataset but not itself part of schema.json.
func peekNSamples(lines [][]byte) (int, error) {
	if len(lines) == 0 {
		return 0, nil
	}
	var probe struct {
		NSamples int `json:"nsamples"`
	}
	if err := json.Unmarshal(lines[0], &probe); err != nil {
		return 0, err
	}
	return probe.NSamples, nil
}

func evalCommand(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: vcffilter eval <schema.json> <records.ndjson> \"<expr>\" [workers]")
	}
	schemaPath, recordsPath, expr := args[0], args[1], args[2]
	workers := 4
	if len(args) > 3 {
		fmt.Sscanf(args[3], "%d", &workers)
	}

	f, err := os.Open(recordsPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		lines = append(lines, append([]byte(nil), line...))
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	nsamples, err := peekNSamples(lines)
	if err != nil {
		return err
	}
	sch, err := loadSchema(schemaPath, nsamples)
	if err != nil {
		return err
	}
	names := sch.Names()

	recs := make([]record.Record, 0, len(lines))
	for _, line := range lines {
		rec, err := record.NewJSONRecord(line, names, sch.IDOf, record.TypeCodeFromString)
		if err != nil {
			return err
		}
		recs = append(recs, rec)
	}

	results, summary, err := batch.Run(context.Background(), sch, expr, recs, workers)
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%d: error: %v\n", r.Index, r.Err)
			continue
		}
		fmt.Printf("%d: site_pass=%v sample_pass=%v\n", r.Index, r.SitePass, r.SamplePass)
	}
	fmt.Printf("\n%s records: %s passed, %s failed, %s errors\n",
		humanize.Comma(int64(summary.Total)),
		humanize.Comma(int64(summary.Passed)),
		humanize.Comma(int64(summary.Failed)),
		humanize.Comma(int64(summary.Errors)))
	return nil
}

func replCommand(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: vcffilter repl <schema.json> [record.json]")
		os.Exit(1)
	}
	sch, err := loadSchema(args[0], 1)
	if err != nil {
		log.Fatalf("repl: %v", err)
	}

	var rec record.Record
	if len(args) > 1 {
		raw, err := os.ReadFile(args[1])
		if err != nil {
			log.Fatalf("repl: %v", err)
		}
		jr, err := record.NewJSONRecord(raw, sch.Names(), sch.IDOf, record.TypeCodeFromString)
		if err != nil {
			log.Fatalf("repl: %v", err)
		}
		rec = jr
	}

	repl.Start(os.Stdin, os.Stdout, sch, rec)
}

func serveCommand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: vcffilter serve <schema.json> <addr>")
	}
	sch, err := loadSchema(args[0], 1)
	if err != nil {
		return err
	}
	srv := server.New(sch)
	log.Printf("vcffilter: listening on %s", args[1])
	return http.ListenAndServe(args[1], srv.Handler())
}
