// Package cst implements the lossless concrete syntax tree: a tagged tree
// of SyntaxKind nodes and tokens whose token text concatenates back to the
// original input byte-for-byte, per spec.md §4.2. It is built with a
// green-tree-style builder (deferred node finishing, so speculative nodes
// can be re-tagged on parse error) modeled on the rowan::GreenNodeBuilder
// usage in original_source's apollo-parser prototype parser.
package cst

import "github.com/wundergraph/graphql-go-tools/v2/pkg/lexer"

// SyntaxKind tags both syntax tree nodes and the tokens they contain.
type SyntaxKind uint16

const (
	KindError SyntaxKind = iota
	KindDocument
	KindOperationDefinition
	KindFragmentDefinition
	KindVariableDefinitions
	KindVariableDefinition
	KindSelectionSet
	KindField
	KindArguments
	KindArgument
	KindAlias
	KindFragmentSpread
	KindInlineFragment
	KindDirectives
	KindDirective
	KindTypeCondition
	KindNamedType
	KindListType
	KindNonNullType
	KindDefaultValue
	KindValue
	KindListValue
	KindObjectValue
	KindObjectField
	KindSchemaDefinition
	KindScalarTypeDefinition
	KindObjectTypeDefinition
	KindInterfaceTypeDefinition
	KindUnionTypeDefinition
	KindEnumTypeDefinition
	KindEnumValueDefinition
	KindInputObjectTypeDefinition
	KindDirectiveDefinition
	KindFieldsDefinition
	KindFieldDefinition
	KindArgumentsDefinition
	KindInputValueDefinition
	KindImplementsInterfaces
	KindUnionMemberTypes
	KindDirectiveLocations
	KindRootOperationTypeDefinition
	KindSchemaExtension
	KindScalarTypeExtension
	KindObjectTypeExtension
	KindInterfaceTypeExtension
	KindUnionTypeExtension
	KindEnumTypeExtension
	KindInputObjectTypeExtension
	KindDescription
	KindToken // wraps a single lexer.Token as a leaf element
)

// Element is either a Node or a leaf Token; exactly one of the two
// accessors is meaningful, discriminated by Kind() == KindToken.
type Element struct {
	kind     SyntaxKind
	token    lexer.Token // valid iff isToken
	children []Element   // valid iff !isToken
	isToken  bool
}

// Kind returns the element's syntax kind.
func (e Element) Kind() SyntaxKind { return e.kind }

// IsToken reports whether this element is a leaf token rather than a node.
func (e Element) IsToken() bool { return e.isToken }

// Token returns the wrapped lexer token. Only meaningful when IsToken().
func (e Element) Token() lexer.Token { return e.token }

// Children returns the element's children. Only meaningful when !IsToken().
func (e Element) Children() []Element { return e.children }

// Text returns the full source text covered by this element, by
// concatenating every descendant token's literal — this is what makes the
// tree lossless: Text(root) == the original input.
func (e Element) Text() string {
	if e.isToken {
		return e.token.Literal
	}
	var sb []byte
	for _, c := range e.children {
		sb = append(sb, c.Text()...)
	}
	return string(sb)
}

// Builder constructs a tree bottom-up with deferred node finishing: a node
// started with StartNode can have its Kind corrected at FinishNode time
// (the re-tagging is done by passing a different kind to FinishNode than
// was used to start, which the parser uses when a speculative parse turns
// out to need reclassification).
type Builder struct {
	stack [][]Element
	kinds []SyntaxKind
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// StartNode opens a new node of the given kind.
func (b *Builder) StartNode(kind SyntaxKind) {
	b.stack = append(b.stack, nil)
	b.kinds = append(b.kinds, kind)
}

// Token appends a leaf token to the node currently being built.
func (b *Builder) Token(tok lexer.Token) {
	el := Element{kind: KindToken, token: tok, isToken: true}
	top := len(b.stack) - 1
	b.stack[top] = append(b.stack[top], el)
}

// FinishNode closes the most recently opened node, optionally re-tagging
// its kind (pass the kind it was opened with to leave it unchanged).
func (b *Builder) FinishNode(kind SyntaxKind) Element {
	top := len(b.stack) - 1
	children := b.stack[top]
	b.stack = b.stack[:top]
	b.kinds = b.kinds[:top]
	node := Element{kind: kind, children: children}
	if len(b.stack) == 0 {
		return node
	}
	parent := len(b.stack) - 1
	b.stack[parent] = append(b.stack[parent], node)
	return node
}

// Depth reports the current node nesting depth, used by the parser to
// enforce spec.md §4.2's recursion-depth limit.
func (b *Builder) Depth() int { return len(b.stack) }

// Finish returns the finished root element. Call only once, after the
// matching StartNode/FinishNode calls balance out to a single root.
func (b *Builder) Finish(kind SyntaxKind) Element {
	return b.FinishNode(kind)
}
