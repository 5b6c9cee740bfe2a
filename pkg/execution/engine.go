package execution

import (
	"errors"
	"sync"

	"github.com/jensneuse/abstractlogger"
	"golang.org/x/sync/errgroup"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/executable"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/schema"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

// Mode controls field execution order, per
// https://spec.graphql.org/October2021/#sec-Normal-and-Serial-Execution.
type Mode uint8

const (
	// ModeNormal allows sibling fields to resolve in any order, including
	// concurrently; used for queries, subscriptions, and every nested
	// selection set regardless of the top-level operation type.
	ModeNormal Mode = iota
	// ModeSequential is used only for a mutation operation's top-level
	// selection set: sibling fields must resolve one at a time, in
	// document order, so side effects are observable in the order the
	// client wrote them.
	ModeSequential
)

// propagateNull is returned up the call stack when a field error occurs at
// a place with no nullable ancestor to absorb it, per
// https://spec.graphql.org/October2021/#sec-Handling-Field-Errors. It never
// escapes this package.
var propagateNull = errors.New("propagate null")

// pathElement is a linked-list path segment, letting nested calls extend
// the current path without copying a slice at every level, per
// original_source's LinkedPath<'a> = Option<&'a LinkedPathElement<'a>>.
type pathElement struct {
	segment PathSegment
	next    *pathElement
}

func toPath(p *pathElement) []PathSegment {
	var out []PathSegment
	for e := p; e != nil; e = e.next {
		out = append([]PathSegment{e.segment}, out...)
	}
	return out
}

// Context carries everything needed to execute one operation: the schema,
// the resolved executable document, already-coerced variable values, and
// the accumulated field errors.
type Context struct {
	Schema         *schema.Schema
	Document       *executable.Document
	VariableValues map[ast.Name]interface{}
	Sources        *sourcemap.Map
	Logger         abstractlogger.Logger

	errorsMu sync.Mutex
	errors   []FieldError
}

func NewContext(s *schema.Schema, doc *executable.Document, variableValues map[ast.Name]interface{}, sources *sourcemap.Map) *Context {
	return &Context{Schema: s, Document: doc, VariableValues: variableValues, Sources: sources, Logger: abstractlogger.Noop{}}
}

func (c *Context) pushError(message string, span sourcemap.SourceSpan, p *pathElement, validationBug bool) {
	fe := FieldError{Message: message, Path: toPath(p), ValidationBug: validationBug}
	if c.Sources != nil && span.FileId != 0 {
		loc := c.Sources.LocationOf(span)
		fe.Location = &loc
	}
	c.errorsMu.Lock()
	c.errors = append(c.errors, fe)
	c.errorsMu.Unlock()
	logger := c.Logger
	if logger == nil {
		logger = abstractlogger.Noop{}
	}
	logger.Debug("execution: field error", abstractlogger.String("message", message), abstractlogger.Bool("validationBug", validationBug))
}

// Execute runs op to completion against rootValue and returns the response
// envelope, per spec.md §4.8's ExecuteRequest algorithm (request-level
// coercion/selection happens in pkg/request; this is the per-operation
// ExecuteQuery/ExecuteMutation/ExecuteSubscription body).
func Execute(ctx *Context, op *executable.Operation, rootValue ObjectValue) Response {
	mode := ModeNormal
	if op.OperationType == ast.Mutation {
		mode = ModeSequential
	}
	data, err := executeSelectionSet(ctx, nil, mode, op.RootType, rootValue, op.SelectionSet.Selections)
	resp := Response{Errors: ctx.errors}
	if err == nil {
		resp.Data = data
		resp.DataState = DataPresent
	} else {
		// A field error propagated past the root: spec.md §7 requires an
		// explicit JSON null here, distinct from the "absent" data key a
		// request error (which never reaches Execute) leaves behind.
		resp.DataState = DataNull
		logger := ctx.Logger
		if logger == nil {
			logger = abstractlogger.Noop{}
		}
		logger.Error("execution: field error propagated to root, data is null", abstractlogger.String("operation", op.OperationType.String()))
	}
	return resp
}

// executeSelectionSet implements
// https://spec.graphql.org/October2021/#ExecuteSelectionSet().
func executeSelectionSet(ctx *Context, path *pathElement, mode Mode, objectType ast.Name, objectValue ObjectValue, selections []executable.Selection) (map[string]interface{}, error) {
	grouped, order := collectFields(ctx, objectType, selections, map[ast.Name]bool{})

	responseMap := make(map[string]interface{}, len(order))
	var mu sync.Mutex
	assign := func(key ast.Name, value interface{}, present bool) {
		if !present {
			return
		}
		mu.Lock()
		responseMap[string(key)] = value
		mu.Unlock()
	}

	runOne := func(key ast.Name) error {
		fields := grouped[key]
		fieldDef, fieldType, ok := lookupFieldDefinition(ctx.Schema, objectType, fields[0].Name)
		if !ok {
			// Undefined field on a validated document would itself be a
			// validation bug; silently drop rather than fabricate a result.
			return nil
		}
		fieldPath := &pathElement{segment: PathSegment{Field: fieldKeyPtr(key)}, next: path}
		value, present, err := executeField(ctx, fieldPath, mode, objectType, objectValue, fieldDef, fieldType, fields)
		if err != nil {
			return err
		}
		assign(key, value, present)
		return nil
	}

	switch mode {
	case ModeSequential:
		for _, key := range order {
			if err := runOne(key); err != nil {
				return nil, err
			}
		}
	default:
		g := new(errgroup.Group)
		for _, key := range order {
			key := key
			g.Go(func() error { return runOne(key) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	return responseMap, nil
}

func fieldKeyPtr(k ast.Name) *ast.Name {
	v := k
	return &v
}

// collectFields implements
// https://spec.graphql.org/October2021/#CollectFields(), returning both the
// grouped field list and a deterministic response-key order.
func collectFields(ctx *Context, objectType ast.Name, selections []executable.Selection, visited map[ast.Name]bool) (map[ast.Name][]*executable.Field, []ast.Name) {
	grouped := map[ast.Name][]*executable.Field{}
	var order []ast.Name
	collectFieldsInto(ctx, objectType, selections, visited, grouped, &order)
	return grouped, order
}

func collectFieldsInto(ctx *Context, objectType ast.Name, selections []executable.Selection, visited map[ast.Name]bool, grouped map[ast.Name][]*executable.Field, order *[]ast.Name) {
	for _, sel := range selections {
		if skip, ok := evalIfArg(selectionDirectives(sel), "skip", ctx.VariableValues); ok && skip {
			continue
		}
		if include, ok := evalIfArg(selectionDirectives(sel), "include", ctx.VariableValues); ok && !include {
			continue
		}
		switch {
		case sel.Field != nil:
			key := sel.Field.ResponseKey()
			if _, seen := grouped[key]; !seen {
				*order = append(*order, key)
			}
			grouped[key] = append(grouped[key], sel.Field)
		case sel.FragmentSpread != nil:
			name := sel.FragmentSpread.FragmentName
			if visited[name] {
				continue
			}
			visited[name] = true
			frag, ok := ctx.Document.Fragments[name]
			if !ok {
				continue
			}
			if !doesFragmentTypeApply(ctx.Schema, objectType, frag.TypeCondition) {
				continue
			}
			collectFieldsInto(ctx, objectType, frag.SelectionSet.Selections, visited, grouped, order)
		case sel.InlineFragment != nil:
			if sel.InlineFragment.TypeCondition != nil && !doesFragmentTypeApply(ctx.Schema, objectType, *sel.InlineFragment.TypeCondition) {
				continue
			}
			collectFieldsInto(ctx, objectType, sel.InlineFragment.SelectionSet.Selections, visited, grouped, order)
		}
	}
}

func selectionDirectives(sel executable.Selection) ast.DirectiveList {
	switch {
	case sel.Field != nil:
		return sel.Field.Directives
	case sel.FragmentSpread != nil:
		return sel.FragmentSpread.Directives
	case sel.InlineFragment != nil:
		return sel.InlineFragment.Directives
	}
	return nil
}

// doesFragmentTypeApply implements
// https://spec.graphql.org/October2021/#DoesFragmentTypeApply().
func doesFragmentTypeApply(s *schema.Schema, objectType, fragmentType ast.Name) bool {
	def, ok := s.Types[fragmentType]
	if !ok {
		return false
	}
	switch def.Kind {
	case schema.KindObject:
		return fragmentType == objectType
	case schema.KindInterface:
		for _, name := range s.Implementers(fragmentType) {
			if name == objectType {
				return true
			}
		}
		return false
	case schema.KindUnion:
		for _, m := range def.Members {
			if m == objectType {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// lookupFieldDefinition resolves a field by name on objectType, returning
// both the schema field definition (for its arguments) and the resolved
// type the already-parsed Field.Type carries.
func lookupFieldDefinition(s *schema.Schema, objectType, name ast.Name) (*ast.FieldDefinition, ast.Type, bool) {
	if name == executable.TypeNameField {
		return &ast.FieldDefinition{Name: name, Type: ast.NonNullNamedType("String")}, ast.NonNullNamedType("String"), true
	}
	if objectType == s.QueryType {
		switch name {
		case "__schema":
			fd := ast.FieldDefinition{Name: name, Type: ast.NonNullNamedType("__Schema")}
			return &fd, fd.Type, true
		case "__type":
			fd := ast.FieldDefinition{
				Name: name,
				Type: ast.NamedType("__Type"),
				Arguments: []ast.InputValueDefinition{
					{Name: "name", Type: ast.NonNullNamedType("String")},
				},
			}
			return &fd, fd.Type, true
		}
	}
	def, ok := s.Types[objectType]
	if !ok {
		return nil, ast.Type{}, false
	}
	for i := range def.Fields {
		if def.Fields[i].Name == name {
			return &def.Fields[i], def.Fields[i].Type, true
		}
	}
	return nil, ast.Type{}, false
}

// executeField implements
// https://spec.graphql.org/October2021/#ExecuteField(). Its second return
// value reports whether the field produced a value at all (as opposed to
// being silently skipped, e.g. an ordinary field whose parent object value
// is nil).
func executeField(ctx *Context, path *pathElement, mode Mode, objectType ast.Name, objectValue ObjectValue, fieldDef *ast.FieldDefinition, fieldType ast.Type, fields []*executable.Field) (interface{}, bool, error) {
	field := fields[0]
	argumentValues := coerceArgumentValues(fieldDef.Arguments, field, ctx.VariableValues)

	isRootQueryField := objectType == ctx.Schema.QueryType

	var resolved ResolvedValue
	var resolveErr *ResolveError
	switch {
	case field.Name == executable.TypeNameField:
		resolved = Leaf(string(objectType))
	case field.Name == "__schema" && isRootQueryField:
		resolved, resolveErr = resolveSchemaField(ctx, field.Name, argumentValues)
	case field.Name == "__type" && isRootQueryField:
		resolved = resolveTypeField(ctx, argumentValues)
	case objectValue == nil:
		return nil, false, nil
	default:
		resolved, resolveErr = objectValue.ResolveField(field.Name, argumentValues)
	}

	if resolveErr != nil {
		ctx.pushError("resolver error: "+resolveErr.Message, field.Span, path, false)
		if ast.IsNonNull(fieldType) {
			return nil, true, propagateNull
		}
		return nil, true, nil
	}

	value, err := completeValue(ctx, path, mode, fieldType, resolved, fields)
	value, err = tryNullify(fieldType, value, err)
	return value, true, err
}

// tryNullify absorbs a propagated null at the first nullable type along the
// way back up, per
// https://spec.graphql.org/October2021/#sec-Handling-Field-Errors.
func tryNullify(ty ast.Type, value interface{}, err error) (interface{}, error) {
	if err == nil {
		return value, nil
	}
	if errors.Is(err, propagateNull) {
		if ast.IsNonNull(ty) {
			return nil, propagateNull
		}
		return nil, nil
	}
	return nil, err
}
