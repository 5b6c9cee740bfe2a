package execution

import (
	"strconv"
	"strings"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
)

// Introspection resolvers answer the schema's implicit __schema/__type
// meta-fields (and the __Schema/__Type/__Field/... object trees they
// expose) internally, bypassing the application's own ObjectValue
// resolvers entirely, per
// original_source/crates/apollo-introspection/src/execution.rs's
// SchemaWithImplementersMap idiom — the live schema.Schema.Implementers
// cache plays the role the original's lazily-built implementers_map does.

func resolveSchemaField(ctx *Context, name ast.Name, args map[ast.Name]interface{}) (ResolvedValue, *ResolveError) {
	if name != "__schema" {
		return ResolvedValue{}, &ResolveError{Message: "unknown introspection field"}
	}
	return Object(schemaResolver{s: ctx.Schema}), nil
}

func resolveTypeField(ctx *Context, args map[ast.Name]interface{}) ResolvedValue {
	typeName, _ := args["name"].(string)
	def, ok := ctx.Schema.Types[ast.Name(typeName)]
	if !ok {
		return Leaf(nil)
	}
	return Object(typeResolver{s: ctx.Schema, def: def})
}

type schemaResolver struct{ s *schema.Schema }

func (r schemaResolver) TypeName() ast.Name { return "__Schema" }

func (r schemaResolver) ResolveField(name ast.Name, _ map[ast.Name]interface{}) (ResolvedValue, *ResolveError) {
	switch name {
	case "description":
		return Leaf(nil), nil
	case "types":
		var items []ResolvedValueOrError
		for _, t := range r.s.Types {
			items = append(items, ResolvedValueOrError{Value: Object(typeResolver{s: r.s, def: t})})
		}
		return List(items), nil
	case "queryType":
		return Object(typeResolver{s: r.s, def: r.s.Types[r.s.QueryType]}), nil
	case "mutationType":
		if r.s.MutationType == nil {
			return Leaf(nil), nil
		}
		return Object(typeResolver{s: r.s, def: r.s.Types[*r.s.MutationType]}), nil
	case "subscriptionType":
		if r.s.SubscriptionType == nil {
			return Leaf(nil), nil
		}
		return Object(typeResolver{s: r.s, def: r.s.Types[*r.s.SubscriptionType]}), nil
	case "directives":
		var items []ResolvedValueOrError
		for _, d := range r.s.Directives {
			items = append(items, ResolvedValueOrError{Value: Object(directiveResolver{s: r.s, d: d})})
		}
		return List(items), nil
	}
	return ResolvedValue{}, &ResolveError{Message: "unknown field __Schema." + string(name)}
}

type typeResolver struct {
	s   *schema.Schema
	def *schema.ExtendedType
}

func (r typeResolver) TypeName() ast.Name { return "__Type" }

func introspectionKindName(k schema.ExtendedTypeKind) string {
	switch k {
	case schema.KindScalar:
		return "SCALAR"
	case schema.KindObject:
		return "OBJECT"
	case schema.KindInterface:
		return "INTERFACE"
	case schema.KindUnion:
		return "UNION"
	case schema.KindEnum:
		return "ENUM"
	case schema.KindInputObject:
		return "INPUT_OBJECT"
	default:
		return "SCALAR"
	}
}

func (r typeResolver) ResolveField(name ast.Name, args map[ast.Name]interface{}) (ResolvedValue, *ResolveError) {
	switch name {
	case "kind":
		return Leaf(introspectionKindName(r.def.Kind)), nil
	case "name":
		return Leaf(string(r.def.Name)), nil
	case "description":
		if r.def.Description == "" {
			return Leaf(nil), nil
		}
		return Leaf(r.def.Description), nil
	case "fields":
		if r.def.Kind != schema.KindObject && r.def.Kind != schema.KindInterface {
			return Leaf(nil), nil
		}
		includeDeprecated, _ := args["includeDeprecated"].(bool)
		var items []ResolvedValueOrError
		for _, f := range r.def.Fields {
			if !includeDeprecated && isDeprecated(f.Directives) {
				continue
			}
			items = append(items, ResolvedValueOrError{Value: Object(fieldResolver{s: r.s, def: f})})
		}
		return List(items), nil
	case "interfaces":
		if r.def.Kind != schema.KindObject && r.def.Kind != schema.KindInterface {
			return Leaf(nil), nil
		}
		var items []ResolvedValueOrError
		for _, name := range r.def.Implements {
			if t, ok := r.s.Types[name]; ok {
				items = append(items, ResolvedValueOrError{Value: Object(typeResolver{s: r.s, def: t})})
			}
		}
		return List(items), nil
	case "possibleTypes":
		switch r.def.Kind {
		case schema.KindInterface:
			var items []ResolvedValueOrError
			for _, name := range r.s.Implementers(r.def.Name) {
				if t, ok := r.s.Types[name]; ok {
					items = append(items, ResolvedValueOrError{Value: Object(typeResolver{s: r.s, def: t})})
				}
			}
			return List(items), nil
		case schema.KindUnion:
			var items []ResolvedValueOrError
			for _, name := range r.def.Members {
				if t, ok := r.s.Types[name]; ok {
					items = append(items, ResolvedValueOrError{Value: Object(typeResolver{s: r.s, def: t})})
				}
			}
			return List(items), nil
		default:
			return Leaf(nil), nil
		}
	case "enumValues":
		if r.def.Kind != schema.KindEnum {
			return Leaf(nil), nil
		}
		includeDeprecated, _ := args["includeDeprecated"].(bool)
		var items []ResolvedValueOrError
		for _, v := range r.def.Values {
			if !includeDeprecated && isDeprecated(v.Directives) {
				continue
			}
			items = append(items, ResolvedValueOrError{Value: Object(enumValueResolver{v: v})})
		}
		return List(items), nil
	case "inputFields":
		if r.def.Kind != schema.KindInputObject {
			return Leaf(nil), nil
		}
		var items []ResolvedValueOrError
		for _, f := range r.def.InputFields {
			items = append(items, ResolvedValueOrError{Value: Object(inputValueResolver{s: r.s, f: f})})
		}
		return List(items), nil
	case "ofType":
		return Leaf(nil), nil
	case "specifiedByURL":
		if d, ok := r.def.Directives.Get("specifiedBy"); ok {
			if a, ok := d.ArgumentByName("url"); ok {
				if s, ok := ast.AsString(a.Value); ok {
					return Leaf(s), nil
				}
			}
		}
		return Leaf(nil), nil
	}
	return ResolvedValue{}, &ResolveError{Message: "unknown field __Type." + string(name)}
}

func isDeprecated(directives ast.DirectiveList) bool {
	_, ok := directives.Get("deprecated")
	return ok
}

func deprecationReason(directives ast.DirectiveList) interface{} {
	d, ok := directives.Get("deprecated")
	if !ok {
		return nil
	}
	if a, ok := d.ArgumentByName("reason"); ok {
		if s, ok := ast.AsString(a.Value); ok {
			return s
		}
	}
	return "No longer supported"
}

type fieldResolver struct {
	s   *schema.Schema
	def ast.FieldDefinition
}

func (r fieldResolver) TypeName() ast.Name { return "__Field" }

func (r fieldResolver) ResolveField(name ast.Name, _ map[ast.Name]interface{}) (ResolvedValue, *ResolveError) {
	switch name {
	case "name":
		return Leaf(string(r.def.Name)), nil
	case "description":
		if r.def.Description == "" {
			return Leaf(nil), nil
		}
		return Leaf(r.def.Description), nil
	case "args":
		var items []ResolvedValueOrError
		for _, a := range r.def.Arguments {
			items = append(items, ResolvedValueOrError{Value: Object(inputValueResolver{s: r.s, f: a})})
		}
		return List(items), nil
	case "type":
		return Object(typeRefResolver{s: r.s, ty: r.def.Type}), nil
	case "isDeprecated":
		return Leaf(isDeprecated(r.def.Directives)), nil
	case "deprecationReason":
		return Leaf(deprecationReason(r.def.Directives)), nil
	}
	return ResolvedValue{}, &ResolveError{Message: "unknown field __Field." + string(name)}
}

// typeRefResolver wraps an ast.Type (rather than a named ExtendedType) so
// List/NonNull wrapper layers can be walked one "ofType" hop at a time, per
// spec.md's __Type introspection shape.
type typeRefResolver struct {
	s  *schema.Schema
	ty ast.Type
}

func (r typeRefResolver) TypeName() ast.Name { return "__Type" }

func (r typeRefResolver) ResolveField(name ast.Name, args map[ast.Name]interface{}) (ResolvedValue, *ResolveError) {
	switch name {
	case "kind":
		switch {
		case ast.TypeKindOf(r.ty) == ast.TypeKindNonNullNamed || ast.TypeKindOf(r.ty) == ast.TypeKindNonNullList:
			return Leaf("NON_NULL"), nil
		case ast.TypeKindOf(r.ty) == ast.TypeKindList:
			return Leaf("LIST"), nil
		default:
			if def, ok := r.s.Types[ast.InnerNamedType(r.ty)]; ok {
				return Leaf(introspectionKindName(def.Kind)), nil
			}
			return Leaf("SCALAR"), nil
		}
	case "name":
		if ast.IsNonNull(r.ty) || ast.TypeKindOf(r.ty) == ast.TypeKindList {
			return Leaf(nil), nil
		}
		return Leaf(string(ast.InnerNamedType(r.ty))), nil
	case "ofType":
		switch ast.TypeKindOf(r.ty) {
		case ast.TypeKindNonNullNamed:
			return Object(typeRefResolver{s: r.s, ty: ast.NamedType(ast.InnerNamedType(r.ty))}), nil
		case ast.TypeKindNonNullList:
			inner, _ := ast.ListElementType(r.ty)
			return Object(typeRefResolver{s: r.s, ty: ast.ListType(inner)}), nil
		case ast.TypeKindList:
			inner, _ := ast.ListElementType(r.ty)
			return Object(typeRefResolver{s: r.s, ty: inner}), nil
		default:
			return Leaf(nil), nil
		}
	default:
		if def, ok := r.s.Types[ast.InnerNamedType(r.ty)]; ok {
			return typeResolver{s: r.s, def: def}.ResolveField(name, args)
		}
		return Leaf(nil), nil
	}
}

type inputValueResolver struct {
	s *schema.Schema
	f ast.InputValueDefinition
}

func (r inputValueResolver) TypeName() ast.Name { return "__InputValue" }

func (r inputValueResolver) ResolveField(name ast.Name, _ map[ast.Name]interface{}) (ResolvedValue, *ResolveError) {
	switch name {
	case "name":
		return Leaf(string(r.f.Name)), nil
	case "description":
		if r.f.Description == "" {
			return Leaf(nil), nil
		}
		return Leaf(r.f.Description), nil
	case "type":
		return Object(typeRefResolver{s: r.s, ty: r.f.Type}), nil
	case "defaultValue":
		if r.f.DefaultValue == nil {
			return Leaf(nil), nil
		}
		return Leaf(printValue(*r.f.DefaultValue)), nil
	}
	return ResolvedValue{}, &ResolveError{Message: "unknown field __InputValue." + string(name)}
}

type enumValueResolver struct{ v ast.EnumValueDefinition }

func (r enumValueResolver) TypeName() ast.Name { return "__EnumValue" }

func (r enumValueResolver) ResolveField(name ast.Name, _ map[ast.Name]interface{}) (ResolvedValue, *ResolveError) {
	switch name {
	case "name":
		return Leaf(string(r.v.Value)), nil
	case "description":
		if r.v.Description == "" {
			return Leaf(nil), nil
		}
		return Leaf(r.v.Description), nil
	case "isDeprecated":
		return Leaf(isDeprecated(r.v.Directives)), nil
	case "deprecationReason":
		return Leaf(deprecationReason(r.v.Directives)), nil
	}
	return ResolvedValue{}, &ResolveError{Message: "unknown field __EnumValue." + string(name)}
}

type directiveResolver struct {
	s *schema.Schema
	d *ast.DirectiveDefinition
}

func (r directiveResolver) TypeName() ast.Name { return "__Directive" }

func (r directiveResolver) ResolveField(name ast.Name, _ map[ast.Name]interface{}) (ResolvedValue, *ResolveError) {
	switch name {
	case "name":
		return Leaf(string(r.d.Name)), nil
	case "description":
		if r.d.Description == "" {
			return Leaf(nil), nil
		}
		return Leaf(r.d.Description), nil
	case "locations":
		out := make([]interface{}, len(r.d.Locations))
		for i, l := range r.d.Locations {
			out[i] = string(l)
		}
		return Leaf(out), nil
	case "args":
		var items []ResolvedValueOrError
		for _, a := range r.d.Arguments {
			items = append(items, ResolvedValueOrError{Value: Object(inputValueResolver{s: r.s, f: a})})
		}
		return List(items), nil
	case "isRepeatable":
		return Leaf(r.d.Repeatable), nil
	}
	return ResolvedValue{}, &ResolveError{Message: "unknown field __Directive." + string(name)}
}

// printValue renders a default-value literal back to GraphQL syntax for
// __InputValue.defaultValue, per spec.md's introspection requirements.
func printValue(v ast.Value) string {
	if ast.ValueKindOf(v) == ast.ValueKindNull {
		return "null"
	}
	if s, ok := ast.AsString(v); ok {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	if b, ok := ast.AsBool(v); ok {
		if b {
			return "true"
		}
		return "false"
	}
	if e, ok := ast.AsEnum(v); ok {
		return string(e)
	}
	if items, ok := ast.AsList(v); ok {
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = printValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	if fields, ok := ast.AsObject(v); ok {
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = string(f.Name) + ": " + printValue(f.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	if n, ok := ast.AsInt(v); ok {
		return itoa(int(n))
	}
	if f, ok := ast.AsFloat(v); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return "null"
}
