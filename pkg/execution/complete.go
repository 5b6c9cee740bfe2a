package execution

import (
	"fmt"
	"strconv"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/executable"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
)

// completeValue implements
// https://spec.graphql.org/October2021/#CompleteValue(). It returns
// propagateNull (via the error return) to signal a field error that must
// be absorbed at the nearest nullable ancestor.
func completeValue(ctx *Context, path *pathElement, mode Mode, ty ast.Type, resolved ResolvedValue, fields []*executable.Field) (interface{}, error) {
	field := fields[0]

	fieldErr := func(format string, args ...interface{}) (interface{}, error) {
		ctx.pushError(fmt.Sprintf(format, args...), field.Span, path, false)
		return nil, propagateNull
	}
	validationBug := func(format string, args ...interface{}) (interface{}, error) {
		ctx.pushError(fmt.Sprintf(format, args...), field.Span, path, true)
		return nil, propagateNull
	}

	if resolved.Kind == ResolvedLeaf && resolved.Leaf == nil {
		if ast.IsNonNull(ty) {
			return fieldErr("non-null type %s resolved to null", ast.TypeString(ty))
		}
		return nil, nil
	}

	if resolved.Kind == ResolvedList {
		inner, ok := ast.ListElementType(ty)
		if !ok {
			return fieldErr("non-list type %s resolved to a list", ast.TypeString(ty))
		}
		completed := make([]interface{}, 0, len(resolved.List))
		for index, item := range resolved.List {
			indexCopy := index
			itemPath := &pathElement{segment: PathSegment{Index: &indexCopy}, next: path}
			if item.Err != nil {
				ctx.pushError("resolver error: "+item.Err.Message, field.Span, itemPath, false)
				v, err := tryNullify(inner, nil, propagateNull)
				if err != nil {
					return tryNullify(ty, nil, propagateNull)
				}
				completed = append(completed, v)
				continue
			}
			value, err := completeValue(ctx, itemPath, mode, inner, item.Value, fields)
			value, err = tryNullify(inner, value, err)
			if err != nil {
				return tryNullify(ty, nil, propagateNull)
			}
			completed = append(completed, value)
		}
		return completed, nil
	}

	if ast.TypeKindOf(ty) == ast.TypeKindList || ast.TypeKindOf(ty) == ast.TypeKindNonNullList {
		return fieldErr("list type %s resolved to an object", ast.TypeString(ty))
	}

	tyName := ast.InnerNamedType(ty)
	def, ok := ctx.Schema.Types[tyName]
	if !ok {
		return validationBug("undefined type '%s'", tyName)
	}
	if def.Kind == schema.KindInputObject {
		return validationBug("field with input object type '%s'", tyName)
	}

	if resolved.Kind == ResolvedLeaf {
		switch def.Kind {
		case schema.KindObject, schema.KindInterface, schema.KindUnion:
			return fieldErr("resolver returned a leaf value but expected an object for type '%s'", tyName)
		case schema.KindEnum:
			str, _ := resolved.Leaf.(string)
			found := false
			for _, v := range def.Values {
				if string(v.Value) == str {
					found = true
					break
				}
			}
			if !found {
				return fieldErr("resolver returned %v, expected enum '%s'", resolved.Leaf, tyName)
			}
			return resolved.Leaf, nil
		case schema.KindScalar:
			return completeScalarLeaf(string(tyName), resolved.Leaf, fieldErr)
		}
		return resolved.Leaf, nil
	}

	// resolved.Kind == ResolvedObject.
	objectType, err := resolveConcreteObjectType(ctx.Schema, def, resolved.Object, tyName, fieldErr)
	if err != nil {
		return nil, err
	}

	var nestedSelections []executable.Selection
	for _, f := range fields {
		if f.SelectionSet != nil {
			nestedSelections = append(nestedSelections, f.SelectionSet.Selections...)
		}
	}
	// Nested selection sets always run in ModeNormal: only a mutation's
	// own top-level fields execute sequentially.
	return executeSelectionSet(ctx, path, ModeNormal, objectType, resolved.Object, nestedSelections)
}

func resolveConcreteObjectType(s *schema.Schema, def *schema.ExtendedType, obj ObjectValue, tyName ast.Name, fieldErr func(string, ...interface{}) (interface{}, error)) (ast.Name, error) {
	switch def.Kind {
	case schema.KindEnum, schema.KindScalar:
		_, err := fieldErr("resolver returned an object of type '%s', expected %s", obj.TypeName(), tyName)
		return "", err
	case schema.KindInterface, schema.KindUnion:
		concreteName := obj.TypeName()
		if concreteDef, ok := s.Types[concreteName]; ok && concreteDef.Kind == schema.KindObject {
			return concreteName, nil
		}
		_, err := fieldErr("resolver returned an object of type '%s' not defined in the schema", concreteName)
		return "", err
	default: // schema.KindObject
		return tyName, nil
	}
}

func completeScalarLeaf(tyName string, v interface{}, fieldErr func(string, ...interface{}) (interface{}, error)) (interface{}, error) {
	switch tyName {
	case "Int":
		switch n := v.(type) {
		case int32:
			return n, nil
		case int:
			if n < -(1<<31) || n > (1<<31-1) {
				return fieldErr("resolver returned %d which overflows Int", n)
			}
			return int32(n), nil
		case int64:
			if n < -(1<<31) || n > (1<<31-1) {
				return fieldErr("resolver returned %d which overflows Int", n)
			}
			return int32(n), nil
		default:
			return fieldErr("resolver returned %v, expected Int", v)
		}
	case "Float":
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int, int32, int64:
			return fieldErr("resolver returned %v, expected Float", v)
		default:
			return fieldErr("resolver returned %v, expected Float", v)
		}
	case "String":
		s, ok := v.(string)
		if !ok {
			return fieldErr("resolver returned %v, expected String", v)
		}
		return s, nil
	case "Boolean":
		b, ok := v.(bool)
		if !ok {
			return fieldErr("resolver returned %v, expected Boolean", v)
		}
		return b, nil
	case "ID":
		switch n := v.(type) {
		case string:
			return n, nil
		case int, int32, int64:
			return strconv.FormatInt(toInt64(n), 10), nil
		default:
			return fieldErr("resolver returned %v, expected ID", v)
		}
	default:
		// Custom scalar: accept any value as-is.
		return v, nil
	}
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	}
	return 0
}
