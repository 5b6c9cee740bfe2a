package request

import (
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/executable"
)

// SelectOperation picks the operation a request targets, matching
// GetOperation's rule from spec.md §4.7: an empty name selects the
// document's only operation, anonymous or named, if it has exactly one
// operation total; otherwise a name must be given and must match a named
// operation.
func SelectOperation(doc *executable.Document, operationName string) (*executable.Operation, *RequestError) {
	total := len(doc.NamedOperations)
	if doc.AnonymousOperation != nil {
		total++
	}
	if total == 0 {
		return nil, requestError("document does not define any operations")
	}

	if operationName == "" {
		if doc.AnonymousOperation != nil && len(doc.NamedOperations) == 0 {
			return doc.AnonymousOperation, nil
		}
		if total == 1 {
			return doc.NamedOperations[doc.OperationOrder[0]], nil
		}
		return nil, requestError("must provide operation name if document contains multiple operations")
	}

	if op, ok := doc.NamedOperations[ast.Name(operationName)]; ok {
		return op, nil
	}
	return nil, requestError("unknown operation named '%s'", operationName)
}
