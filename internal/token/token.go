// Package token defines the lexical model shared by every delegen
// transformation: a flat-or-nested stream of identifiers, punctuation,
// literals and delimited groups, plus the lexer and printer that move
// between source text and streams.
package token

import "fmt"

// Kind discriminates the token variants.
type Kind int

const (
	// Ident is a bare identifier or keyword.
	Ident Kind = iota
	// Punct is a punctuation token; multi-character operators such as
	// "->", "=>" and "::" lex as a single Punct.
	Punct
	// Literal is a number, string or character literal, quotes included.
	Literal
	// Group is a delimited sub-stream: (...), [...] or {...}.
	Group
)

func (k Kind) String() string {
	switch k {
	case Ident:
		return "ident"
	case Punct:
		return "punct"
	case Literal:
		return "literal"
	case Group:
		return "group"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Span locates a token in its source file. Line and Col are 1-based;
// Off is the byte offset of the token start.
type Span struct {
	File string
	Line int
	Col  int
	Off  int
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Col)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}

// Token is one element of a Stream. For Group tokens, Delim holds the
// opening delimiter byte and Body the nested stream; Text is unused.
type Token struct {
	Kind  Kind
	Text  string
	Delim byte
	Body  Stream
	Span  Span
	// End is the byte offset just past the token; for groups it covers
	// the closing delimiter. Zero for synthesized tokens.
	End int
}

// Stream is an ordered token sequence.
type Stream []Token

// NewIdent returns an identifier token.
func NewIdent(name string) Token {
	return Token{Kind: Ident, Text: name}
}

// NewPunct returns a punctuation token.
func NewPunct(text string) Token {
	return Token{Kind: Punct, Text: text}
}

// NewLiteral returns a literal token; string literals keep their quotes.
func NewLiteral(text string) Token {
	return Token{Kind: Literal, Text: text}
}

// NewGroup returns a delimited group. delim must be '(', '[' or '{'.
func NewGroup(delim byte, body Stream) Token {
	return Token{Kind: Group, Delim: delim, Body: body}
}

// IsIdent reports whether t is the identifier name.
func (t Token) IsIdent(name string) bool {
	return t.Kind == Ident && t.Text == name
}

// IsPunct reports whether t is the punctuation text.
func (t Token) IsPunct(text string) bool {
	return t.Kind == Punct && t.Text == text
}

// IsGroup reports whether t is a group opened by delim.
func (t Token) IsGroup(delim byte) bool {
	return t.Kind == Group && t.Delim == delim
}

func (t Token) String() string {
	return Stream{t}.String()
}

// closeDelim maps an opening delimiter to its closing counterpart.
func closeDelim(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	}
	return 0
}
