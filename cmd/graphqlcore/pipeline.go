package main

import (
	"fmt"
	"os"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/parser"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/report"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/serialize"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/validate"
)

// sources is the one SourceMap shared by every file this process reads,
// so field errors and diagnostics can resolve a line/column on demand.
var sources = sourcemap.New()

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func printDiagnostics(rep *report.Report) {
	for _, d := range rep.Diagnostics() {
		fmt.Fprintln(os.Stderr, d.String())
	}
}

// assembleSchema reads, parses, assembles, and validates the schema at
// path, printing each stage's diagnostics as they occur; the first stage
// that reports an error stops the pipeline, so later stages' diagnostics
// are not reported.
func assembleSchema(path string) (*schema.Schema, error) {
	text, err := readFile(path)
	if err != nil {
		return nil, err
	}
	id := sources.AddFile(path, text)
	parsed := parser.Parse(id, text)
	printDiagnostics(parsed.Report)
	if parsed.Report.HasErrors() {
		return nil, fmt.Errorf("%s: failed to parse", path)
	}

	s, rep := schema.Assemble([]*ast.Document{parsed.Document})
	printDiagnostics(rep)
	if rep.HasErrors() {
		return nil, fmt.Errorf("%s: failed to assemble", path)
	}

	validationRep := validate.Schema(s)
	printDiagnostics(validationRep)
	if validationRep.HasErrors() {
		return nil, fmt.Errorf("%s: schema failed validation", path)
	}
	return s, nil
}

func runValidate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("validate: expected exactly one schema file argument")
	}
	_, err := assembleSchema(args[0])
	if err != nil {
		return err
	}
	fmt.Println("schema is valid")
	return nil
}

func runPrint(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("print: expected exactly one schema file argument")
	}
	s, err := assembleSchema(args[0])
	if err != nil {
		return err
	}
	fmt.Println(serialize.PrintSchema(s))
	return nil
}
