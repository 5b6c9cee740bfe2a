package main

import (
	"flag"
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/executable"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/execution"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/parser"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/request"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/validate"
)

func runExec(args []string) error {
	fs := flag.NewFlagSet("exec", flag.ExitOnError)
	operation := fs.String("operation", "", "named operation to run")
	variablesPath := fs.String("variables", "", "path to a JSON file of variable values")
	dataPath := fs.String("data", "", "path to a YAML file of mock resolver data")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 2 {
		return fmt.Errorf("exec: expected <schema.graphql> <query.graphql>")
	}
	schemaPath, queryPath := rest[0], rest[1]

	s, err := assembleSchema(schemaPath)
	if err != nil {
		return err
	}

	queryText, err := readFile(queryPath)
	if err != nil {
		return err
	}
	queryID := sources.AddFile(queryPath, queryText)
	parsed := parser.Parse(queryID, queryText)
	printDiagnostics(parsed.Report)
	if parsed.Report.HasErrors() {
		return fmt.Errorf("%s: failed to parse", queryPath)
	}

	doc, rep := executable.From(s, parsed.Document)
	printDiagnostics(rep)
	if rep.HasErrors() {
		return fmt.Errorf("%s: failed to build executable document", queryPath)
	}

	validationRep := validate.Executable(s, doc)
	printDiagnostics(validationRep)
	if validationRep.HasErrors() {
		return fmt.Errorf("%s: document failed validation", queryPath)
	}

	op, reqErr := request.SelectOperation(doc, *operation)
	if reqErr != nil {
		return reqErr
	}

	variablesJSON := "{}"
	if *variablesPath != "" {
		variablesJSON, err = readFile(*variablesPath)
		if err != nil {
			return err
		}
	}
	variableValues, reqErr := request.CoerceVariableValues(s, op, variablesJSON)
	if reqErr != nil {
		return reqErr
	}

	root, err := loadMockRoot(s, *dataPath)
	if err != nil {
		return err
	}

	ctx := execution.NewContext(s, doc, variableValues, sources)
	resp := execution.Execute(ctx, op, root)

	body, err := resp.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	fmt.Println(string(body))
	return nil
}

// loadMockRoot reads a YAML file describing the query (or mutation) root's
// field values and wraps it as an execution.ObjectValue, so this example
// CLI can exercise the execution engine without a real backend. An empty
// dataPath yields an empty root object; every field resolution then fails
// with a reported resolver error rather than panicking.
func loadMockRoot(s *schema.Schema, dataPath string) (execution.ObjectValue, error) {
	data := map[string]interface{}{}
	if dataPath != "" {
		text, err := readFile(dataPath)
		if err != nil {
			return nil, err
		}
		var raw interface{}
		if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", dataPath, err)
		}
		normalized, ok := normalizeYAML(raw).(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: top-level mock data must be a YAML mapping", dataPath)
		}
		data = normalized
	}
	return mockObject{typeName: s.QueryType, data: data}, nil
}

// mockObject is a generic execution.ObjectValue backed by a plain Go value
// tree decoded from YAML, standing in for an application's own resolvers.
type mockObject struct {
	typeName ast.Name
	data     map[string]interface{}
}

func (o mockObject) TypeName() ast.Name {
	if tn, ok := o.data["__typename"].(string); ok {
		return ast.Name(tn)
	}
	return o.typeName
}

func (o mockObject) ResolveField(name ast.Name, _ map[ast.Name]interface{}) (execution.ResolvedValue, *execution.ResolveError) {
	v, ok := o.data[string(name)]
	if !ok {
		return execution.ResolvedValue{}, &execution.ResolveError{Message: "no mock data for field '" + string(name) + "'"}
	}
	return toResolvedValue(v), nil
}

func toResolvedValue(v interface{}) execution.ResolvedValue {
	switch val := v.(type) {
	case nil:
		return execution.Leaf(nil)
	case []interface{}:
		items := make([]execution.ResolvedValueOrError, len(val))
		for i, item := range val {
			items[i] = execution.ResolvedValueOrError{Value: toResolvedValue(item)}
		}
		return execution.List(items)
	case map[string]interface{}:
		return execution.Object(mockObject{data: val})
	default:
		return execution.Leaf(val)
	}
}

// normalizeYAML converts gopkg.in/yaml.v2's map[interface{}]interface{}
// decoding into plain map[string]interface{} recursively, so the rest of
// this package only has to deal with one map shape.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, vv := range val {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(vv)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, vv := range val {
			out[k] = normalizeYAML(vv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, vv := range val {
			out[i] = normalizeYAML(vv)
		}
		return out
	default:
		return val
	}
}
