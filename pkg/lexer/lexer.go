package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/sourcemap"
)

// Lexer scans a UTF-8 source string into a token stream, per spec.md §4.1.
// It never aborts: an invalid byte becomes a single Invalid token covering
// exactly that code point, and scanning continues from the next one.
type Lexer struct {
	file   sourcemap.FileId
	src    string
	offset int // current byte offset into src
}

// New returns a Lexer over source, whose spans will be tagged with file.
func New(file sourcemap.FileId, source string) *Lexer {
	return &Lexer{file: file, src: source}
}

func (l *Lexer) eof() bool { return l.offset >= len(l.src) }

func (l *Lexer) peekByte() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.offset]
}

func (l *Lexer) peekByteAt(ahead int) byte {
	if l.offset+ahead >= len(l.src) {
		return 0
	}
	return l.src[l.offset+ahead]
}

func (l *Lexer) makeToken(kind Kind, start int) Token {
	return Token{
		Kind:    kind,
		Literal: l.src[start:l.offset],
		Span:    sourcemap.SourceSpan{FileId: l.file, ByteOffset: start, ByteLen: l.offset - start},
	}
}

// Next returns the next token. After the final Eof token it keeps returning
// Eof tokens of zero length at the end of input.
func (l *Lexer) Next() Token {
	if l.eof() {
		return Token{Kind: Eof, Span: sourcemap.SourceSpan{FileId: l.file, ByteOffset: len(l.src)}}
	}
	start := l.offset
	c := l.peekByte()

	switch {
	case isWhitespaceOrComma(c):
		l.scanWhitespace()
		return l.makeToken(Whitespace, start)
	case c == '#':
		l.scanLineComment()
		return l.makeToken(Comment, start)
	case c == '"':
		if l.peekByteAt(1) == '"' && l.peekByteAt(2) == '"' {
			l.scanBlockString()
			return l.makeToken(BlockString, start)
		}
		l.scanString()
		return l.makeToken(String, start)
	case c == '.':
		if l.peekByteAt(1) == '.' && l.peekByteAt(2) == '.' {
			l.offset += 3
			return l.makeToken(Spread, start)
		}
		l.offset++
		return l.makeToken(Invalid, start)
	case isNameStart(c):
		l.scanName()
		return l.makeToken(Name, start)
	case c == '-' || isDigit(c):
		kind := l.scanNumber()
		return l.makeToken(kind, start)
	default:
		if punct, ok := punctKind(c); ok {
			l.offset++
			return l.makeToken(punct, start)
		}
		// Invalid character: consume exactly one code point and recover.
		_, size := utf8.DecodeRuneInString(l.src[l.offset:])
		if size == 0 {
			size = 1
		}
		l.offset += size
		return l.makeToken(Invalid, start)
	}
}

// All scans the full token stream, including the trailing Eof token.
func (l *Lexer) All() []Token {
	var tokens []Token
	for {
		t := l.Next()
		tokens = append(tokens, t)
		if t.Kind == Eof {
			return tokens
		}
	}
}

func punctKind(c byte) (Kind, bool) {
	switch c {
	case '!':
		return Bang, true
	case '$':
		return Dollar, true
	case '(':
		return LParen, true
	case ')':
		return RParen, true
	case ':':
		return Colon, true
	case '=':
		return Equals, true
	case '@':
		return At, true
	case '[':
		return LBracket, true
	case ']':
		return RBracket, true
	case '{':
		return LBrace, true
	case '|':
		return Pipe, true
	case '}':
		return RBrace, true
	case '&':
		return Amp, true
	default:
		return Invalid, false
	}
}

func isWhitespaceOrComma(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', ',':
		return true
	}
	return false
}

func (l *Lexer) scanWhitespace() {
	for !l.eof() && isWhitespaceOrComma(l.peekByte()) {
		l.offset++
	}
}

func (l *Lexer) scanLineComment() {
	for !l.eof() && !isLineTerminator(l.peekByte()) {
		l.offset++
	}
}

func isLineTerminator(c byte) bool { return c == '\n' || c == '\r' }

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameContinue(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (l *Lexer) scanName() {
	l.offset++ // first char already validated by caller
	for !l.eof() && isNameContinue(l.peekByte()) {
		l.offset++
	}
}

// scanNumber consumes an Int or upgrades to Float per spec.md §4.1's rules
// (optional leading '-', '0' or nonzero-leading digit run, optional
// fractional part requiring a preceding digit, optional exponent). A
// missing integer part or a leading zero yields an Invalid token.
func (l *Lexer) scanNumber() Kind {
	if l.peekByte() == '-' {
		l.offset++
	}
	digitStart := l.offset
	for !l.eof() && isDigit(l.peekByte()) {
		l.offset++
	}
	digits := l.offset - digitStart
	if digits == 0 || (digits > 1 && l.src[digitStart] == '0') {
		return Invalid
	}
	kind := Int
	if !l.eof() && l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
		kind = Float
		l.offset++ // '.'
		for !l.eof() && isDigit(l.peekByte()) {
			l.offset++
		}
	}
	if !l.eof() && (l.peekByte() == 'e' || l.peekByte() == 'E') {
		save := l.offset
		l.offset++
		if !l.eof() && (l.peekByte() == '+' || l.peekByte() == '-') {
			l.offset++
		}
		if !l.eof() && isDigit(l.peekByte()) {
			kind = Float
			for !l.eof() && isDigit(l.peekByte()) {
				l.offset++
			}
		} else {
			// No digits after 'e'/'E': not an exponent, back out.
			l.offset = save
		}
	}
	return kind
}

// scanString consumes a normal "…" string, honoring the escape set
// \" \\ \/ \b \f \n \r \t and \uXXXX, and stopping (without consuming the
// terminator) on an unescaped line terminator, matching the spec's
// disallowance of raw newlines inside normal strings.
func (l *Lexer) scanString() {
	l.offset++ // opening quote
	for !l.eof() {
		c := l.peekByte()
		if c == '"' {
			l.offset++
			return
		}
		if isLineTerminator(c) {
			return // unterminated; recover at the newline
		}
		if c == '\\' {
			l.offset++
			if l.eof() {
				return
			}
			if l.peekByte() == 'u' {
				l.offset++
				for i := 0; i < 4 && !l.eof() && isHexDigit(l.peekByte()); i++ {
					l.offset++
				}
				continue
			}
			l.offset++
			continue
		}
		l.offset++
	}
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// scanBlockString consumes a """…""" block string, per the spec's
// BlockStringCharacter rule: any source character except an unescaped
// closing """, with \""" recognized as an escaped delimiter.
func (l *Lexer) scanBlockString() {
	l.offset += 3 // opening """
	for !l.eof() {
		if l.peekByte() == '"' && l.peekByteAt(1) == '"' && l.peekByteAt(2) == '"' {
			l.offset += 3
			return
		}
		if l.peekByte() == '\\' && l.peekByteAt(1) == '"' && l.peekByteAt(2) == '"' && l.peekByteAt(3) == '"' {
			l.offset += 4
			continue
		}
		l.offset++
	}
}

// BlockStringValue implements the spec's BlockStringValue() algorithm:
// strip the surrounding triple quotes, compute the common leading
// indentation of all lines but the first, remove it, then trim leading and
// trailing blank lines.
func BlockStringValue(raw string) string {
	inner := raw
	inner = strings.TrimPrefix(inner, `"""`)
	inner = strings.TrimSuffix(inner, `"""`)
	inner = strings.ReplaceAll(inner, `\"""`, `"""`)
	lines := strings.Split(inner, "\n")

	commonIndent := -1
	for i, line := range lines {
		if i == 0 {
			continue
		}
		trimmed := strings.TrimLeft(line, " \t")
		indent := len(line) - len(trimmed)
		if trimmed == "" {
			continue
		}
		if commonIndent == -1 || indent < commonIndent {
			commonIndent = indent
		}
	}
	if commonIndent > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= commonIndent {
				lines[i] = lines[i][commonIndent:]
			} else {
				lines[i] = strings.TrimLeft(lines[i], " \t")
			}
		}
	}
	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
