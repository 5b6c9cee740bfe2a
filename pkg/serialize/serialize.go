// Package serialize is a minimal GraphQL SDL text printer for an
// assembled schema.Schema: two-space indentation, block strings for
// multi-line descriptions, and the "implicit schema definition" omission
// rule. Each type is printed once, with whatever its extensions added
// already merged in by schema.Assemble; extensions are not printed as
// separate `extend` definitions.
// Grounded on
// original_source/crates/apollo-compiler/src/hir2/to_mir.rs's Schema
// ::to_mir "implicit" check. This is a best-effort collaborator, not a
// general pretty-printer: no line-wrapping, no comment preservation.
package serialize

import (
	"sort"
	"strconv"
	"strings"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

// Printer renders an assembled schema back to SDL text.
type Printer struct {
	b strings.Builder
}

// PrintSchema renders s, skipping every builtin-origin type and directive
// (the five spec scalars, the four built-in directives, and the eight
// introspection types injected by schema.Assemble) and the __schema/__type
// meta-fields that schema.Assemble adds to the query root.
func PrintSchema(s *schema.Schema) string {
	p := &Printer{}
	p.printSchemaDefinition(s)

	for _, name := range sortedTypeNames(s) {
		def := s.Types[name]
		if isBuiltin(def.Origins) {
			continue
		}
		p.printType(def)
	}

	for _, name := range sortedDirectiveNames(s) {
		d := s.Directives[name]
		if d.Span.FileId == sourcemap.BuiltIn {
			continue
		}
		p.printDirectiveDefinition(d)
	}

	return strings.TrimSuffix(p.b.String(), "\n")
}

func isBuiltin(origins []sourcemap.SourceSpan) bool {
	return len(origins) > 0 && origins[0].FileId == sourcemap.BuiltIn
}

func sortedTypeNames(s *schema.Schema) []ast.Name {
	names := make([]ast.Name, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func sortedDirectiveNames(s *schema.Schema) []ast.Name {
	names := make([]ast.Name, 0, len(s.Directives))
	for name := range s.Directives {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// printSchemaDefinition emits a `schema { ... }` block only when the root
// operation type names deviate from the implicit defaults, per to_mir.rs's
// `implicit` computation (simplified: this Schema carries no schema-level
// description or directives of its own to check).
func (p *Printer) printSchemaDefinition(s *schema.Schema) {
	implicit := s.QueryType == "Query" &&
		(s.MutationType == nil || *s.MutationType == "Mutation") &&
		(s.SubscriptionType == nil || *s.SubscriptionType == "Subscription")
	if implicit {
		return
	}
	p.b.WriteString("schema {\n")
	p.b.WriteString("  query: " + string(s.QueryType) + "\n")
	if s.MutationType != nil {
		p.b.WriteString("  mutation: " + string(*s.MutationType) + "\n")
	}
	if s.SubscriptionType != nil {
		p.b.WriteString("  subscription: " + string(*s.SubscriptionType) + "\n")
	}
	p.b.WriteString("}\n\n")
}

func (p *Printer) printType(def *schema.ExtendedType) {
	p.printDescription(def.Description, "")
	switch def.Kind {
	case schema.KindScalar:
		p.b.WriteString("scalar " + string(def.Name))
		p.printDirectives(def.Directives)
		p.b.WriteString("\n\n")
	case schema.KindObject:
		p.b.WriteString("type " + string(def.Name))
		p.printImplements(def.Implements)
		p.printDirectives(def.Directives)
		p.printFieldBlock(def.Fields)
	case schema.KindInterface:
		p.b.WriteString("interface " + string(def.Name))
		p.printImplements(def.Implements)
		p.printDirectives(def.Directives)
		p.printFieldBlock(def.Fields)
	case schema.KindUnion:
		p.b.WriteString("union " + string(def.Name))
		p.printDirectives(def.Directives)
		if len(def.Members) > 0 {
			members := make([]string, len(def.Members))
			for i, m := range def.Members {
				members[i] = string(m)
			}
			p.b.WriteString(" = " + strings.Join(members, " | "))
		}
		p.b.WriteString("\n\n")
	case schema.KindEnum:
		p.b.WriteString("enum " + string(def.Name))
		p.printDirectives(def.Directives)
		p.b.WriteString(" {\n")
		for _, v := range def.Values {
			p.printDescription(v.Description, "  ")
			p.b.WriteString("  " + string(v.Value))
			p.printDirectives(v.Directives)
			p.b.WriteString("\n")
		}
		p.b.WriteString("}\n\n")
	case schema.KindInputObject:
		p.b.WriteString("input " + string(def.Name))
		p.printDirectives(def.Directives)
		p.b.WriteString(" {\n")
		for _, f := range def.InputFields {
			p.printInputValue(f, "  ")
			p.b.WriteString("\n")
		}
		p.b.WriteString("}\n\n")
	}
}

func (p *Printer) printImplements(interfaces []ast.Name) {
	if len(interfaces) == 0 {
		return
	}
	names := make([]string, len(interfaces))
	for i, n := range interfaces {
		names[i] = string(n)
	}
	p.b.WriteString(" implements " + strings.Join(names, " & "))
}

func (p *Printer) printFieldBlock(fields []ast.FieldDefinition) {
	p.b.WriteString(" {\n")
	for _, f := range fields {
		if strings.HasPrefix(string(f.Name), "__") {
			continue
		}
		p.printDescription(f.Description, "  ")
		p.b.WriteString("  " + string(f.Name))
		if len(f.Arguments) > 0 {
			args := make([]string, len(f.Arguments))
			for i, a := range f.Arguments {
				args[i] = printInputValueInline(a)
			}
			p.b.WriteString("(" + strings.Join(args, ", ") + ")")
		}
		p.b.WriteString(": " + ast.TypeString(f.Type))
		p.printDirectives(f.Directives)
		p.b.WriteString("\n")
	}
	p.b.WriteString("}\n\n")
}

func (p *Printer) printInputValue(f ast.InputValueDefinition, indent string) {
	p.printDescription(f.Description, indent)
	p.b.WriteString(indent + printInputValueInline(f))
	p.printDirectives(f.Directives)
}

func printInputValueInline(f ast.InputValueDefinition) string {
	out := string(f.Name) + ": " + ast.TypeString(f.Type)
	if f.DefaultValue != nil {
		out += " = " + printValue(*f.DefaultValue)
	}
	return out
}

func (p *Printer) printDirectiveDefinition(d *ast.DirectiveDefinition) {
	p.printDescription(d.Description, "")
	p.b.WriteString("directive @" + string(d.Name))
	if len(d.Arguments) > 0 {
		args := make([]string, len(d.Arguments))
		for i, a := range d.Arguments {
			args[i] = printInputValueInline(a)
		}
		p.b.WriteString("(" + strings.Join(args, ", ") + ")")
	}
	if d.Repeatable {
		p.b.WriteString(" repeatable")
	}
	p.b.WriteString(" on ")
	locs := make([]string, len(d.Locations))
	for i, l := range d.Locations {
		locs[i] = string(l)
	}
	p.b.WriteString(strings.Join(locs, " | "))
	p.b.WriteString("\n\n")
}

func (p *Printer) printDirectives(directives ast.DirectiveList) {
	for _, d := range directives {
		p.b.WriteString(" @" + string(d.Name))
		if len(d.Arguments) > 0 {
			args := make([]string, len(d.Arguments))
			for i, a := range d.Arguments {
				args[i] = string(a.Name) + ": " + printValue(a.Value)
			}
			p.b.WriteString("(" + strings.Join(args, ", ") + ")")
		}
	}
}

// printDescription emits a block string (""" ... """) for a multi-line
// description and a single-quoted string otherwise, matching the SDL
// appendix's description grammar.
func (p *Printer) printDescription(desc, indent string) {
	if desc == "" {
		return
	}
	if strings.Contains(desc, "\n") {
		p.b.WriteString(indent + `"""` + "\n")
		for _, line := range strings.Split(desc, "\n") {
			p.b.WriteString(indent + line + "\n")
		}
		p.b.WriteString(indent + `"""` + "\n")
		return
	}
	p.b.WriteString(indent + strconv.Quote(desc) + "\n")
}

// printValue renders a literal ast.Value back to GraphQL syntax.
func printValue(v ast.Value) string {
	if ast.ValueKindOf(v) == ast.ValueKindNull {
		return "null"
	}
	if s, ok := ast.AsString(v); ok {
		return strconv.Quote(s)
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
		return strconv.FormatInt(int64(n), 10)
	}
	if f, ok := ast.AsFloat(v); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if name, ok := ast.AsVariable(v); ok {
		return "$" + string(name)
	}
	return "null"
}
