package execution

import (
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/executable"
)

// coerceArgumentValues resolves a field selection's literal arguments
// against fieldDef's argument definitions, substituting $variable
// references from variableValues and applying argument defaults for
// arguments the selection omitted. Grounded on input_coercion.rs's
// coerce_argument_values, simplified: variables have already passed
// CoerceVariableValues, so only literal-to-Go-value resolution and
// variable substitution remain here.
func coerceArgumentValues(argDefs []ast.InputValueDefinition, field *executable.Field, variableValues map[ast.Name]interface{}) map[ast.Name]interface{} {
	out := map[ast.Name]interface{}{}
	for _, def := range argDefs {
		if arg, ok := argByName(field.Arguments, def.Name); ok {
			out[def.Name] = resolveValue(arg.Value, variableValues)
			continue
		}
		if def.DefaultValue != nil {
			out[def.Name] = resolveValue(*def.DefaultValue, variableValues)
		}
	}
	return out
}

func argByName(args []ast.Argument, name ast.Name) (ast.Argument, bool) {
	for _, a := range args {
		if a.Name == name {
			return a, true
		}
	}
	return ast.Argument{}, false
}

// resolveValue turns a literal/variable ast.Value into a plain Go value,
// substituting already-coerced variable values.
func resolveValue(v ast.Value, variableValues map[ast.Name]interface{}) interface{} {
	if name, ok := ast.AsVariable(v); ok {
		return variableValues[name]
	}
	if ast.ValueKindOf(v) == ast.ValueKindNull {
		return nil
	}
	if s, ok := ast.AsString(v); ok {
		return s
	}
	if b, ok := ast.AsBool(v); ok {
		return b
	}
	if items, ok := ast.AsList(v); ok {
		out := make([]interface{}, len(items))
		for i, item := range items {
			out[i] = resolveValue(item, variableValues)
		}
		return out
	}
	if fields, ok := ast.AsObject(v); ok {
		out := map[string]interface{}{}
		for _, f := range fields {
			out[string(f.Name)] = resolveValue(f.Value, variableValues)
		}
		return out
	}
	if n, ok := ast.AsInt(v); ok {
		return n
	}
	if f, ok := ast.AsFloat(v); ok {
		return f
	}
	if name, ok := ast.AsEnum(v); ok {
		return string(name)
	}
	return nil
}

// evalIfArg evaluates the boolean "if" argument of a @skip/@include
// directive application on sel, returning ok=false if the directive isn't
// present or its argument can't be resolved to a boolean.
func evalIfArg(directives ast.DirectiveList, name string, variableValues map[ast.Name]interface{}) (bool, bool) {
	d, ok := directives.Get(name)
	if !ok {
		return false, false
	}
	arg, ok := d.ArgumentByName("if")
	if !ok {
		return false, false
	}
	v := resolveValue(arg.Value, variableValues)
	b, ok := v.(bool)
	return b, ok
}
