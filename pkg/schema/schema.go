// Package schema assembles a validated Schema from one or more parsed
// documents: base scalars/introspection types plus user type-system
// definitions are merged, extensions are folded into their base
// definitions, and root operation types are resolved. Grounded on
// v2/pkg/asttransform/baseschema.go's MergeDefinitionWithBaseSchema
// algorithm (append built-in SDL, reparse, then
// addSchemaDefinition/addMissingRootOperationTypeDefinitions/
// addIntrospectionQueryFields), re-expressed over this module's own
// pkg/ast IR instead of the teacher's legacy arena AST.
package schema

import (
	"github.com/jensneuse/abstractlogger"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/parser"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/report"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

// ExtendedTypeKind discriminates the six kinds a named type in a schema can
// be, mirroring ast.DefinitionKind's type-system subset.
type ExtendedTypeKind uint8

const (
	KindScalar ExtendedTypeKind = iota
	KindObject
	KindInterface
	KindUnion
	KindEnum
	KindInputObject
)

// ExtendedType is a type-system definition with every matching extension's
// contributions folded in, plus provenance of where each piece came from
// (builtin vs user-defined, base vs a specific extension span), used by
// diagnostics that need to point at the offending extension rather than
// the base definition.
type ExtendedType struct {
	Kind ExtendedTypeKind
	Name ast.Name

	Description string
	Directives  ast.DirectiveList

	Implements []ast.Name              // Object, Interface
	Fields     []ast.FieldDefinition    // Object, Interface
	Members    []ast.Name              // Union
	Values     []ast.EnumValueDefinition // Enum
	InputFields []ast.InputValueDefinition // InputObject

	Origins []sourcemap.SourceSpan // base span first, then one per extension applied
}

// Schema is the fully assembled, extension-merged, root-resolved result of
// Assemble.
type Schema struct {
	Types      map[ast.Name]*ExtendedType
	Directives map[ast.Name]*ast.DirectiveDefinition

	QueryType        ast.Name
	MutationType     *ast.Name
	SubscriptionType *ast.Name

	implementers *implementersCache
}

// Debug holds knobs useful for inspecting or short-circuiting assembly
// during development, mirroring the teacher's planner Debug sub-struct
// idiom (v2/pkg/engine/plan/planner.go's Configuration.Debug).
type Debug struct {
	// SkipBuiltIns omits the injected scalars/introspection types and
	// @skip/@include/@deprecated/@specifiedBy directives. Only useful for
	// unit tests that want to inspect exactly what the user supplied.
	SkipBuiltIns bool

	// IgnoreBuiltinRedefinitions lets a user definition silently replace an
	// injected built-in of the same name instead of raising
	// KindUniqueDefinition, per spec.md §4.4 step 2's "both are built-ins and
	// the second is an extend, or ignore_builtin_redefinitions is
	// configured" clause.
	IgnoreBuiltinRedefinitions bool

	// AdoptOrphanExtensions synthesizes an empty base of the extension's own
	// kind for an extension with no matching base definition, instead of
	// recording KindOrphanExtension, per spec.md §4.4 step 3 and §3's
	// "orphan-extension mode (off by default)".
	AdoptOrphanExtensions bool
}

// AssembleOption configures Assemble.
type AssembleOption func(*assembleConfig)

type assembleConfig struct {
	debug  Debug
	logger abstractlogger.Logger
}

// WithDebug installs Debug knobs.
func WithDebug(d Debug) AssembleOption {
	return func(c *assembleConfig) { c.debug = d }
}

// WithLogger installs a logger that receives Debug-level notices for
// assembly decisions worth tracing (a built-in redefinition ignored, an
// orphan extension adopted), mirroring the teacher's
// Configuration.Logger/NewPlanner nil-check idiom
// (v2/pkg/engine/plan/planner.go). Defaults to abstractlogger.Noop{}.
func WithLogger(l abstractlogger.Logger) AssembleOption {
	return func(c *assembleConfig) { c.logger = l }
}

// Assemble merges docs (and, unless Debug.SkipBuiltIns is set, the built-in
// scalars/introspection schema) into a Schema, folding extensions into
// their base definitions and resolving root operation types. Errors are
// reported rather than returned directly, per spec.md §7's diagnostic
// model; callers should check the returned Report's HasErrors().
func Assemble(docs []*ast.Document, opts ...AssembleOption) (*Schema, *report.Report) {
	cfg := assembleConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = abstractlogger.Noop{}
	}
	rep := &report.Report{}

	all := make([]*ast.Document, 0, len(docs)+1)
	if !cfg.debug.SkipBuiltIns {
		builtinRes := parser.Parse(sourcemap.BuiltIn, builtinSDL)
		if builtinRes.Report.HasErrors() {
			rep.AddInternalError(errBuiltInFailedToParse(builtinRes.Report))
		}
		all = append(all, builtinRes.Document)
	}
	all = append(all, docs...)

	s := &Schema{
		Types:        map[ast.Name]*ExtendedType{},
		Directives:   map[ast.Name]*ast.DirectiveDefinition{},
		implementers: &implementersCache{},
	}

	var schemaDefs []*ast.SchemaDefinition
	var schemaExts []*ast.SchemaExtension

	for _, doc := range all {
		for _, def := range doc.Definitions {
			s.mergeDefinition(def, rep, &schemaDefs, &schemaExts, cfg.debug, cfg.logger)
		}
	}

	s.resolveRoots(schemaDefs, schemaExts, rep)
	if !cfg.debug.SkipBuiltIns {
		s.addIntrospectionQueryFields()
	}
	return s, rep
}

// addIntrospectionQueryFields ensures the query root type carries __schema
// and __type meta-fields, per spec.md §4.8's meta-field rule. Grounded on
// v2/pkg/asttransform/baseschema.go's addIntrospectionQueryFields, which
// injects these fields onto the resolved query root rather than sourcing
// them from SDL, since they belong to whatever object type the user (or
// the default-name fallback) designates as Query.
func (s *Schema) addIntrospectionQueryFields() {
	q, ok := s.Types[s.QueryType]
	if !ok {
		q = &ExtendedType{Kind: KindObject, Name: s.QueryType, Origins: []sourcemap.SourceSpan{{FileId: sourcemap.BuiltIn}}}
		s.Types[s.QueryType] = q
	}
	hasField := func(name ast.Name) bool {
		for _, f := range q.Fields {
			if f.Name == name {
				return true
			}
		}
		return false
	}
	if !hasField("__schema") {
		q.Fields = append(q.Fields, ast.FieldDefinition{
			Name: "__schema",
			Type: ast.NonNullNamedType("__Schema"),
		})
	}
	if !hasField("__type") {
		q.Fields = append(q.Fields, ast.FieldDefinition{
			Name: "__type",
			Type: ast.NamedType("__Type"),
			Arguments: []ast.InputValueDefinition{
				{Name: "name", Type: ast.NonNullNamedType("String")},
			},
		})
	}
}

func (s *Schema) mergeDefinition(def ast.Definition, rep *report.Report, schemaDefs *[]*ast.SchemaDefinition, schemaExts *[]*ast.SchemaExtension, debug Debug, logger abstractlogger.Logger) {
	switch def.Kind {
	case ast.DefSchema:
		*schemaDefs = append(*schemaDefs, def.Schema)
	case ast.DefSchemaExtension:
		*schemaExts = append(*schemaExts, def.SchemaExtension)
	case ast.DefDirective:
		if _, exists := s.Directives[def.Directive.Name]; exists {
			rep.AddExternalError(report.Diagnostic{
				Severity: report.SeverityError,
				Kind:     report.KindUniqueDefinition,
				Message:  "directive @" + string(def.Directive.Name) + " is defined more than once",
				Span:     def.Directive.Span,
			})
			return
		}
		s.Directives[def.Directive.Name] = def.Directive
	case ast.DefScalarType:
		s.put(&ExtendedType{Kind: KindScalar, Name: def.ScalarType.Name, Description: def.ScalarType.Description,
			Directives: def.ScalarType.Directives, Origins: []sourcemap.SourceSpan{def.ScalarType.Span}}, rep, def.ScalarType.Span, debug, logger)
	case ast.DefObjectType:
		s.put(&ExtendedType{Kind: KindObject, Name: def.ObjectType.Name, Description: def.ObjectType.Description,
			Directives: def.ObjectType.Directives, Implements: def.ObjectType.ImplementsInterfaces,
			Fields: def.ObjectType.Fields, Origins: []sourcemap.SourceSpan{def.ObjectType.Span}}, rep, def.ObjectType.Span, debug, logger)
	case ast.DefInterfaceType:
		s.put(&ExtendedType{Kind: KindInterface, Name: def.InterfaceType.Name, Description: def.InterfaceType.Description,
			Directives: def.InterfaceType.Directives, Implements: def.InterfaceType.ImplementsInterfaces,
			Fields: def.InterfaceType.Fields, Origins: []sourcemap.SourceSpan{def.InterfaceType.Span}}, rep, def.InterfaceType.Span, debug, logger)
	case ast.DefUnionType:
		s.put(&ExtendedType{Kind: KindUnion, Name: def.UnionType.Name, Description: def.UnionType.Description,
			Directives: def.UnionType.Directives, Members: def.UnionType.Members,
			Origins: []sourcemap.SourceSpan{def.UnionType.Span}}, rep, def.UnionType.Span, debug, logger)
	case ast.DefEnumType:
		s.put(&ExtendedType{Kind: KindEnum, Name: def.EnumType.Name, Description: def.EnumType.Description,
			Directives: def.EnumType.Directives, Values: def.EnumType.Values,
			Origins: []sourcemap.SourceSpan{def.EnumType.Span}}, rep, def.EnumType.Span, debug, logger)
	case ast.DefInputObjectType:
		s.put(&ExtendedType{Kind: KindInputObject, Name: def.InputObjectType.Name, Description: def.InputObjectType.Description,
			Directives: def.InputObjectType.Directives, InputFields: def.InputObjectType.Fields,
			Origins: []sourcemap.SourceSpan{def.InputObjectType.Span}}, rep, def.InputObjectType.Span, debug, logger)
	case ast.DefScalarTypeExtension:
		s.extend(def.ScalarTypeExtension.Name, rep, def.ScalarTypeExtension.Span, debug, logger, KindScalar, func(t *ExtendedType) {
			t.Directives = append(t.Directives, def.ScalarTypeExtension.Directives...)
		})
	case ast.DefObjectTypeExtension:
		s.extend(def.ObjectTypeExtension.Name, rep, def.ObjectTypeExtension.Span, debug, logger, KindObject, func(t *ExtendedType) {
			t.Directives = append(t.Directives, def.ObjectTypeExtension.Directives...)
			t.Implements = append(t.Implements, def.ObjectTypeExtension.ImplementsInterfaces...)
			t.Fields = append(t.Fields, def.ObjectTypeExtension.Fields...)
		})
	case ast.DefInterfaceTypeExtension:
		s.extend(def.InterfaceTypeExtension.Name, rep, def.InterfaceTypeExtension.Span, debug, logger, KindInterface, func(t *ExtendedType) {
			t.Directives = append(t.Directives, def.InterfaceTypeExtension.Directives...)
			t.Implements = append(t.Implements, def.InterfaceTypeExtension.ImplementsInterfaces...)
			t.Fields = append(t.Fields, def.InterfaceTypeExtension.Fields...)
		})
	case ast.DefUnionTypeExtension:
		s.extend(def.UnionTypeExtension.Name, rep, def.UnionTypeExtension.Span, debug, logger, KindUnion, func(t *ExtendedType) {
			t.Directives = append(t.Directives, def.UnionTypeExtension.Directives...)
			t.Members = append(t.Members, def.UnionTypeExtension.Members...)
		})
	case ast.DefEnumTypeExtension:
		s.extend(def.EnumTypeExtension.Name, rep, def.EnumTypeExtension.Span, debug, logger, KindEnum, func(t *ExtendedType) {
			t.Directives = append(t.Directives, def.EnumTypeExtension.Directives...)
			t.Values = append(t.Values, def.EnumTypeExtension.Values...)
		})
	case ast.DefInputObjectTypeExtension:
		s.extend(def.InputObjectTypeExtension.Name, rep, def.InputObjectTypeExtension.Span, debug, logger, KindInputObject, func(t *ExtendedType) {
			t.Directives = append(t.Directives, def.InputObjectTypeExtension.Directives...)
			t.InputFields = append(t.InputFields, def.InputObjectTypeExtension.Fields...)
		})
	}
}

// put registers t as the base definition for its name, unless a type of
// that name already exists. A collision with a built-in (Origins[0].FileId
// == sourcemap.BuiltIn) is silently replaced by the user definition when
// debug.IgnoreBuiltinRedefinitions is set, per spec.md §4.4 step 2;
// otherwise, and for any non-built-in collision, it's KindUniqueDefinition.
func (s *Schema) put(t *ExtendedType, rep *report.Report, span sourcemap.SourceSpan, debug Debug, logger abstractlogger.Logger) {
	if existing, ok := s.Types[t.Name]; ok {
		if debug.IgnoreBuiltinRedefinitions && existing.Origins[0].FileId == sourcemap.BuiltIn {
			logger.Debug("schema: ignoring built-in redefinition", abstractlogger.String("type", string(t.Name)))
			s.Types[t.Name] = t
			return
		}
		rep.AddExternalError(report.Diagnostic{
			Severity: report.SeverityError,
			Kind:     report.KindUniqueDefinition,
			Message:  "type '" + string(t.Name) + "' is defined more than once",
			Span:     span,
			Labels:   []report.Label{{Span: existing.Origins[0], Message: "previous definition here"}},
		})
		return
	}
	s.Types[t.Name] = t
}

// extend applies fn to the named type's already-merged base. If no base
// definition (in any merged document) exists for it, this records an
// orphan-extension diagnostic, unless debug.AdoptOrphanExtensions is set, in
// which case it synthesizes an empty base of orphanKind (the extension's own
// kind) and applies fn to that instead, preserving the extension's span as
// the base's origin, per spec.md §4.4 step 3 and §3's orphan-extension mode.
func (s *Schema) extend(name ast.Name, rep *report.Report, span sourcemap.SourceSpan, debug Debug, logger abstractlogger.Logger, orphanKind ExtendedTypeKind, fn func(*ExtendedType)) {
	t, ok := s.Types[name]
	if !ok {
		if debug.AdoptOrphanExtensions {
			logger.Debug("schema: adopting orphan extension", abstractlogger.String("type", string(name)))
			t = &ExtendedType{Kind: orphanKind, Name: name, Origins: []sourcemap.SourceSpan{span}}
			s.Types[name] = t
			fn(t)
			return
		}
		rep.AddExternalError(report.Diagnostic{
			Severity: report.SeverityError,
			Kind:     report.KindOrphanExtension,
			Message:  "cannot extend undefined type '" + string(name) + "'",
			Span:     span,
		})
		return
	}
	fn(t)
	t.Origins = append(t.Origins, span)
}

func (s *Schema) resolveRoots(defs []*ast.SchemaDefinition, exts []*ast.SchemaExtension, rep *report.Report) {
	s.QueryType = "Query"
	for _, d := range defs {
		for _, root := range d.RootOperations {
			s.assignRoot(root, rep)
		}
	}
	for _, e := range exts {
		for _, root := range e.RootOperations {
			s.assignRoot(root, rep)
		}
	}
	if _, ok := s.Types[s.QueryType]; !ok {
		if _, ok := s.Types["Query"]; ok {
			s.QueryType = "Query"
		}
	}
	if s.MutationType == nil {
		if _, ok := s.Types["Mutation"]; ok {
			name := ast.Name("Mutation")
			s.MutationType = &name
		}
	}
	if s.SubscriptionType == nil {
		if _, ok := s.Types["Subscription"]; ok {
			name := ast.Name("Subscription")
			s.SubscriptionType = &name
		}
	}
}

func (s *Schema) assignRoot(root ast.RootOperationTypeDefinition, rep *report.Report) {
	switch root.OperationType {
	case ast.Query:
		s.QueryType = root.NamedType
	case ast.Mutation:
		name := root.NamedType
		s.MutationType = &name
	case ast.Subscription:
		name := root.NamedType
		s.SubscriptionType = &name
	}
}

type parseErr struct{ rep *report.Report }

func (e parseErr) Error() string {
	ds := e.rep.Diagnostics()
	if len(ds) == 0 {
		return "built-in schema failed to parse"
	}
	return ds[0].String()
}

func errBuiltInFailedToParse(rep *report.Report) error { return parseErr{rep: rep} }
