package request

import (
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/executable"
)

// SelectionPredicate reports whether a selection should be dropped from a
// filtered document, e.g. to strip fields gated behind a disabled feature
// flag before execution.
type SelectionPredicate func(executable.Selection) bool

// filterBuilder mirrors FilteredDocumentBuilder: it walks one operation,
// drops selections the predicate rejects, prunes any selection set that
// becomes empty as a result (removing its parent in turn), carries over
// only the fragments still referenced, and trims operation variables that
// are no longer used by the remaining selections so the filtered document
// still satisfies the "all variables used" rule.
type filterBuilder struct {
	doc              *executable.Document
	remove           SelectionPredicate
	newFragments     map[ast.Name]*executable.Fragment
	fragmentOrder    []ast.Name
	emptiedFragments map[ast.Name]bool
	processing       map[ast.Name]bool
	variablesUsed    map[ast.Name]bool
}

// FilterOperation returns a new Document containing exactly one operation:
// op with every selection rejected by remove (and anything that becomes
// empty as a result) removed, along with the fragments it still needs.
// Returns nil if nothing of the operation survives filtering.
func FilterOperation(doc *executable.Document, op *executable.Operation, remove SelectionPredicate) (*executable.Document, *RequestError) {
	b := &filterBuilder{
		doc:              doc,
		remove:           remove,
		newFragments:     map[ast.Name]*executable.Fragment{},
		emptiedFragments: map[ast.Name]bool{},
		processing:       map[ast.Name]bool{},
		variablesUsed:    map[ast.Name]bool{},
	}
	newOp, err := b.filterOperation(op)
	if err != nil {
		return nil, err
	}
	if newOp == nil {
		return nil, nil
	}
	out := &executable.Document{
		FileId:        doc.FileId,
		Fragments:     b.newFragments,
		FragmentOrder: b.fragmentOrder,
	}
	if newOp.Name != nil {
		out.NamedOperations = map[ast.Name]*executable.Operation{*newOp.Name: newOp}
		out.OperationOrder = []ast.Name{*newOp.Name}
	} else {
		out.AnonymousOperation = newOp
	}
	return out, nil
}

func (b *filterBuilder) filterOperation(op *executable.Operation) (*executable.Operation, *RequestError) {
	b.variablesUsed = map[ast.Name]bool{}
	for _, v := range op.Variables {
		if v.DefaultValue != nil {
			b.markVariables(*v.DefaultValue)
		}
	}
	for _, d := range op.Directives {
		for _, a := range d.Arguments {
			b.markVariables(a.Value)
		}
	}
	selSet, err := b.filterSelectionSet(op.SelectionSet)
	if err != nil {
		return nil, err
	}
	if selSet == nil {
		return nil, nil
	}
	var vars []ast.VariableDefinition
	for _, v := range op.Variables {
		if b.variablesUsed[v.Name] {
			vars = append(vars, v)
		}
	}
	return &executable.Operation{
		OperationType: op.OperationType,
		Name:          op.Name,
		RootType:      op.RootType,
		Variables:     vars,
		Directives:    op.Directives,
		SelectionSet:  selSet,
	}, nil
}

func (b *filterBuilder) filterSelectionSet(set *executable.SelectionSet) (*executable.SelectionSet, *RequestError) {
	if set == nil {
		return nil, nil
	}
	var kept []executable.Selection
	for _, sel := range set.Selections {
		newSel, err := b.filterSelection(sel)
		if err != nil {
			return nil, err
		}
		if newSel != nil {
			kept = append(kept, *newSel)
		}
	}
	if len(kept) == 0 {
		return nil, nil
	}
	return &executable.SelectionSet{ParentType: set.ParentType, Selections: kept}, nil
}

func (b *filterBuilder) filterSelection(sel executable.Selection) (*executable.Selection, *RequestError) {
	if b.remove(sel) {
		return nil, nil
	}
	switch {
	case sel.Field != nil:
		f := sel.Field
		var childSet *executable.SelectionSet
		if f.SelectionSet != nil && len(f.SelectionSet.Selections) > 0 {
			var err *RequestError
			childSet, err = b.filterSelectionSet(f.SelectionSet)
			if err != nil {
				return nil, err
			}
			if childSet == nil {
				return nil, nil // non-leaf field whose sub-selections became empty
			}
		} else {
			childSet = f.SelectionSet // keep a leaf field's (nil or empty) set as-is
		}
		for _, a := range f.Arguments {
			b.markVariables(a.Value)
		}
		newField := *f
		newField.SelectionSet = childSet
		out := executable.Selection{Field: &newField}
		b.markDirectiveVariables(newField.Directives)
		return &out, nil

	case sel.InlineFragment != nil:
		frag := sel.InlineFragment
		childSet, err := b.filterSelectionSet(frag.SelectionSet)
		if err != nil {
			return nil, err
		}
		if childSet == nil {
			return nil, nil
		}
		newFrag := *frag
		newFrag.SelectionSet = childSet
		out := executable.Selection{InlineFragment: &newFrag}
		b.markDirectiveVariables(newFrag.Directives)
		return &out, nil

	case sel.FragmentSpread != nil:
		spread := sel.FragmentSpread
		name := spread.FragmentName
		if b.emptiedFragments[name] {
			return nil, nil
		}
		if b.processing[name] {
			return nil, requestError("fragment spread cycle on '%s'", name)
		}
		if _, ok := b.newFragments[name]; !ok {
			def, ok := b.doc.Fragments[name]
			if !ok {
				return nil, requestError("undefined fragment '%s'", name)
			}
			b.processing[name] = true
			childSet, err := b.filterSelectionSet(def.SelectionSet)
			delete(b.processing, name)
			if err != nil {
				return nil, err
			}
			if childSet == nil {
				b.emptiedFragments[name] = true
				return nil, nil
			}
			b.markDirectiveVariables(def.Directives)
			b.newFragments[name] = &executable.Fragment{
				Name:          def.Name,
				TypeCondition: def.TypeCondition,
				Directives:    def.Directives,
				SelectionSet:  childSet,
			}
			b.fragmentOrder = append(b.fragmentOrder, name)
		}
		out := executable.Selection{FragmentSpread: &executable.FragmentSpread{
			FragmentName: name,
			Directives:   spread.Directives,
			Span:         spread.Span,
		}}
		b.markDirectiveVariables(out.FragmentSpread.Directives)
		return &out, nil
	}
	return nil, nil
}

func (b *filterBuilder) markDirectiveVariables(directives ast.DirectiveList) {
	for _, d := range directives {
		for _, a := range d.Arguments {
			b.markVariables(a.Value)
		}
	}
}

func (b *filterBuilder) markVariables(v ast.Value) {
	if name, ok := ast.AsVariable(v); ok {
		b.variablesUsed[name] = true
		return
	}
	if items, ok := ast.AsList(v); ok {
		for _, item := range items {
			b.markVariables(item)
		}
		return
	}
	if fields, ok := ast.AsObject(v); ok {
		for _, f := range fields {
			b.markVariables(f.Value)
		}
	}
}
