// Package request implements the per-request preparation steps that sit
// between an assembled schema/executable document and the execution
// engine: variable coercion, named-operation selection, and document
// filtering. Grounded directly on
// original_source/crates/apollo-compiler/src/execution/input_coercion.rs
// (CoerceVariableValues/coerce_variable_value) and
// original_source/.../executable/filtering.rs (FilteredDocumentBuilder).
package request

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/executable"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
)

// RequestError is a failure that must prevent execution from starting at
// all (distinct from a field error, which is recorded in the response's
// "errors" array but still allows partial data), per spec.md §7.
type RequestError struct {
	Message string
	// ValidationBug marks an error that should only be possible if the
	// document or variables passed validation incorrectly, mirroring the
	// original's validation_bug!() macro and surfaced to callers via the
	// APOLLO_SUSPECTED_VALIDATION_BUG response extension (see pkg/execution).
	ValidationBug bool
}

func (e *RequestError) Error() string { return e.Message }

func requestError(format string, args ...interface{}) *RequestError {
	return &RequestError{Message: fmt.Sprintf(format, args...)}
}

func validationBug(format string, args ...interface{}) *RequestError {
	return &RequestError{Message: fmt.Sprintf(format, args...), ValidationBug: true}
}

// CoerceVariableValues implements spec.md §4.7's CoerceVariableValues:
// each declared variable is read from the raw JSON payload via
// tidwall/gjson, defaulted, null/non-null checked, and scalar/enum/input-
// object coerced recursively. The result is a plain Go value tree (nil,
// bool, int32/float64, string, []interface{}, map[string]interface{})
// ready for the execution engine's argument substitution.
func CoerceVariableValues(s *schema.Schema, op *executable.Operation, variablesJSON string) (map[ast.Name]interface{}, *RequestError) {
	parsed := gjson.Parse(variablesJSON)
	out := map[ast.Name]interface{}{}
	for _, def := range op.Variables {
		name := string(def.Name)
		result := parsed.Get(name)
		switch {
		case result.Exists():
			v, err := coerceJSON(s, "variable", "", "", name, def.Type, result)
			if err != nil {
				return nil, err
			}
			out[def.Name] = v
		case def.DefaultValue != nil:
			v, err := coerceASTValue(s, "variable", "", "", name, def.Type, *def.DefaultValue)
			if err != nil {
				return nil, err
			}
			out[def.Name] = v
		case ast.IsNonNull(def.Type):
			return nil, requestError("missing value for non-null variable '%s'", name)
		}
	}
	return out, nil
}

func coerceJSON(s *schema.Schema, kind, parent, sep, name string, ty ast.Type, value gjson.Result) (interface{}, *RequestError) {
	if value.Type == gjson.Null {
		if ast.IsNonNull(ty) {
			return nil, requestError("null value for non-null %s %s%s%s", kind, parent, sep, name)
		}
		return nil, nil
	}
	if inner, ok := ast.ListElementType(ty); ok {
		if value.IsArray() {
			items := value.Array()
			out := make([]interface{}, len(items))
			for i, item := range items {
				v, err := coerceJSON(s, kind, parent, sep, name, inner, item)
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return out, nil
		}
		// A single value is treated as a list of size one, per spec.md §4.7.
		v, err := coerceJSON(s, kind, parent, sep, name, inner, value)
		if err != nil {
			return nil, err
		}
		return []interface{}{v}, nil
	}

	tyName := ast.InnerNamedType(ty)
	def, ok := s.Types[tyName]
	if !ok {
		return nil, validationBug("undefined type '%s' for %s %s%s%s", tyName, kind, parent, sep, name)
	}
	switch def.Kind {
	case schema.KindObject, schema.KindInterface, schema.KindUnion:
		return nil, validationBug("non-input type '%s' for %s %s%s%s", tyName, kind, parent, sep, name)
	case schema.KindScalar:
		return coerceScalarJSON(string(tyName), kind, parent, sep, name, value)
	case schema.KindEnum:
		if value.Type != gjson.String {
			return nil, requestError("enum %s must be a string, got %s", tyName, value.Type)
		}
		for _, v := range def.Values {
			if string(v.Value) == value.Str {
				return value.Str, nil
			}
		}
		return nil, requestError("value '%s' is not a member of enum '%s'", value.Str, tyName)
	case schema.KindInputObject:
		if !value.IsObject() {
			return nil, requestError("input object %s must be an object", tyName)
		}
		out := map[string]interface{}{}
		seen := map[string]bool{}
		var firstErr *RequestError
		value.ForEach(func(key, v gjson.Result) bool {
			fieldDef, ok := inputField(def, key.Str)
			if !ok {
				firstErr = requestError("unknown field '%s' for input object '%s'", key.Str, tyName)
				return false
			}
			seen[key.Str] = true
			coerced, err := coerceJSON(s, "input field", string(tyName), ".", key.Str, fieldDef.Type, v)
			if err != nil {
				firstErr = err
				return false
			}
			out[key.Str] = coerced
			return true
		})
		if firstErr != nil {
			return nil, firstErr
		}
		for _, f := range def.InputFields {
			if seen[string(f.Name)] {
				continue
			}
			if f.DefaultValue != nil {
				v, err := coerceASTValue(s, "input field", string(tyName), ".", string(f.Name), f.Type, *f.DefaultValue)
				if err != nil {
					return nil, err
				}
				out[string(f.Name)] = v
			} else if ast.IsNonNull(f.Type) {
				return nil, requestError("missing value for required input field '%s.%s'", tyName, f.Name)
			}
		}
		return out, nil
	}
	return nil, validationBug("unreachable type kind for '%s'", tyName)
}

func inputField(def *schema.ExtendedType, name string) (ast.InputValueDefinition, bool) {
	for _, f := range def.InputFields {
		if string(f.Name) == name {
			return f, true
		}
	}
	return ast.InputValueDefinition{}, false
}

func coerceScalarJSON(tyName, kind, parent, sep, name string, value gjson.Result) (interface{}, *RequestError) {
	switch tyName {
	case "Int":
		if value.Type == gjson.Number && value.Num == float64(int32(value.Num)) {
			return int32(value.Num), nil
		}
		return nil, requestError("Int cannot represent value for %s %s%s%s", kind, parent, sep, name)
	case "Float":
		if value.Type == gjson.Number {
			return value.Num, nil
		}
		return nil, requestError("Float cannot represent value for %s %s%s%s", kind, parent, sep, name)
	case "String":
		if value.Type == gjson.String {
			return value.Str, nil
		}
		return nil, requestError("String cannot represent value for %s %s%s%s", kind, parent, sep, name)
	case "Boolean":
		if value.Type == gjson.True || value.Type == gjson.False {
			return value.Bool(), nil
		}
		return nil, requestError("Boolean cannot represent value for %s %s%s%s", kind, parent, sep, name)
	case "ID":
		if value.Type == gjson.String {
			return value.Str, nil
		}
		if value.Type == gjson.Number {
			return value.Raw, nil
		}
		return nil, requestError("ID cannot represent value for %s %s%s%s", kind, parent, sep, name)
	default:
		// Custom scalar: accepted as-is, per spec.md §4.7.
		return value.Value(), nil
	}
}

// coerceASTValue coerces a default-value literal (from the executable
// document's IR, not request JSON) the same way coerceJSON does for
// request-supplied values.
func coerceASTValue(s *schema.Schema, kind, parent, sep, name string, ty ast.Type, v ast.Value) (interface{}, *RequestError) {
	return coerceJSON(s, kind, parent, sep, name, ty, gjson.Parse(astValueToJSON(v)))
}

func astValueToJSON(v ast.Value) string {
	if ast.ValueKindOf(v) == ast.ValueKindNull {
		return "null"
	}
	if s, ok := ast.AsString(v); ok {
		return fmt.Sprintf("%q", s)
	}
	if b, ok := ast.AsBool(v); ok {
		if b {
			return "true"
		}
		return "false"
	}
	if items, ok := ast.AsList(v); ok {
		out := "["
		for i, item := range items {
			if i > 0 {
				out += ","
			}
			out += astValueToJSON(item)
		}
		return out + "]"
	}
	if fields, ok := ast.AsObject(v); ok {
		out := "{"
		for i, f := range fields {
			if i > 0 {
				out += ","
			}
			out += fmt.Sprintf("%q:%s", f.Name, astValueToJSON(f.Value))
		}
		return out + "}"
	}
	if n, ok := ast.AsInt(v); ok {
		return fmt.Sprintf("%d", n)
	}
	if f, ok := ast.AsFloat(v); ok {
		return fmt.Sprintf("%v", f)
	}
	if e, ok := ast.AsEnum(v); ok {
		return fmt.Sprintf("%q", e)
	}
	if e, ok := ast.AsVariable(v); ok {
		// Variables are not legal in default values past validation; render
		// as a string so coercion reports a clear type error instead of
		// panicking.
		return fmt.Sprintf("%q", e)
	}
	return "null"
}
