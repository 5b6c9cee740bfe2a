package lexer

import "github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"

// Kind enumerates the token kinds produced by the Lexer, per spec.md §4.1.
type Kind uint8

const (
	Invalid Kind = iota
	Name
	Int
	Float
	String
	BlockString
	Comment
	Whitespace
	Bang       // !
	Dollar     // $
	LParen     // (
	RParen     // )
	Spread     // ...
	Colon      // :
	Equals     // =
	At         // @
	LBracket   // [
	RBracket   // ]
	LBrace     // {
	Pipe       // |
	RBrace     // }
	Amp        // &
	Comma      // ,
	Eof
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case Name:
		return "Name"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case BlockString:
		return "BlockString"
	case Comment:
		return "Comment"
	case Whitespace:
		return "Whitespace"
	case Bang:
		return "!"
	case Dollar:
		return "$"
	case LParen:
		return "("
	case RParen:
		return ")"
	case Spread:
		return "..."
	case Colon:
		return ":"
	case Equals:
		return "="
	case At:
		return "@"
	case LBracket:
		return "["
	case RBracket:
		return "]"
	case LBrace:
		return "{"
	case Pipe:
		return "|"
	case RBrace:
		return "}"
	case Amp:
		return "&"
	case Comma:
		return ","
	case Eof:
		return "EOF"
	default:
		return "?"
	}
}

// Token is one lexeme plus its location. Literal is the exact source text
// for the token (so that concatenating every token's Literal reproduces the
// input byte-for-byte, per spec.md §8's round-trip property).
type Token struct {
	Kind    Kind
	Literal string
	Span    sourcemap.SourceSpan
}
