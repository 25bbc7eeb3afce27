package token

import (
	"fmt"
	"sort"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceToken = iota
	lineCommentToken
	blockCommentToken
	stringToken
	charToken
	wideOperatorToken
	numberToken
	identifierToken
	operatorToken
)

var whitespaceMatcher = parsly.NewToken(whitespaceToken, "Whitespace", matcher.NewWhiteSpace())
var lineCommentMatcher = parsly.NewToken(lineCommentToken, "LineComment", &lineCommentMatch{})
var blockCommentMatcher = parsly.NewToken(blockCommentToken, "BlockComment", matcher.NewSeqBlock("/*", "*/"))
var stringMatcher = parsly.NewToken(stringToken, "String", matcher.NewBlock('"', '"', '\\'))
var charMatcher = parsly.NewToken(charToken, "Char", matcher.NewBlock('\'', '\'', '\\'))
var wideOperatorMatcher = parsly.NewToken(wideOperatorToken, "WideOperator", matcher.NewFragments(
	[]byte("->"), []byte("=>"), []byte("::"),
))
var numberMatcher = parsly.NewToken(numberToken, "Number", matcher.NewNumber())
var identifierMatcher = parsly.NewToken(identifierToken, "Identifier", &identifierMatch{})
var operatorMatcher = parsly.NewToken(operatorToken, "Operator", &operatorMatch{})

type identifierMatch struct{}

func (i *identifierMatch) Match(cursor *parsly.Cursor) int {
	if cursor.Pos >= cursor.InputSize {
		return 0
	}
	b := cursor.Input[cursor.Pos]
	if !isIdentifierStart(b) {
		return 0
	}
	pos := cursor.Pos + 1
	for pos < cursor.InputSize && isIdentifierPart(cursor.Input[pos]) {
		pos++
	}
	return pos - cursor.Pos
}

func isIdentifierStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentifierPart(b byte) bool {
	return isIdentifierStart(b) || (b >= '0' && b <= '9')
}

type lineCommentMatch struct{}

func (l *lineCommentMatch) Match(cursor *parsly.Cursor) int {
	if cursor.Pos+1 >= cursor.InputSize {
		return 0
	}
	if cursor.Input[cursor.Pos] != '/' || cursor.Input[cursor.Pos+1] != '/' {
		return 0
	}
	pos := cursor.Pos + 2
	for pos < cursor.InputSize && cursor.Input[pos] != '\n' {
		pos++
	}
	return pos - cursor.Pos
}

const operatorBytes = "!#$%&*+,-./:;<=>?@^|~()[]{}"

type operatorMatch struct{}

func (o *operatorMatch) Match(cursor *parsly.Cursor) int {
	b := cursor.Input[cursor.Pos]
	for i := 0; i < len(operatorBytes); i++ {
		if operatorBytes[i] == b {
			return 1
		}
	}
	return 0
}

// Lex tokenizes src into a nested Stream. file is used for spans only.
func Lex(file string, src []byte) (Stream, error) {
	flat, err := scan(file, src)
	if err != nil {
		return nil, err
	}
	g := &grouper{file: file, flat: flat}
	out, err := g.parse(0)
	if err != nil {
		return nil, err
	}
	if g.pos < len(g.flat) {
		t := g.flat[g.pos]
		return nil, fmt.Errorf("%s: unexpected %q", t.Span, t.Text)
	}
	return out, nil
}

// scan produces the flat token list; delimiters stay plain Punct tokens.
func scan(file string, src []byte) ([]Token, error) {
	lines := lineOffsets(src)
	cursor := parsly.NewCursor(file, src, 0)
	var out []Token
	for cursor.Pos < cursor.InputSize {
		matched := cursor.MatchAfterOptional(whitespaceMatcher,
			lineCommentMatcher,
			blockCommentMatcher,
			stringMatcher,
			charMatcher,
			wideOperatorMatcher,
			numberMatcher,
			identifierMatcher,
			operatorMatcher,
		)
		if matched.Code == parsly.EOF {
			break
		}
		if matched.Code == parsly.Invalid {
			if cursor.Pos >= cursor.InputSize {
				break
			}
			span := spanAt(file, lines, cursor.Pos)
			return nil, fmt.Errorf("%s: unexpected character %q", span, src[cursor.Pos])
		}
		text := matched.Text(cursor)
		span := spanAt(file, lines, cursor.Pos-len(text))
		end := span.Off + len(text)
		switch matched.Code {
		case lineCommentToken, blockCommentToken:
			continue
		case stringToken, charToken, numberToken:
			out = append(out, Token{Kind: Literal, Text: text, Span: span, End: end})
		case identifierToken:
			out = append(out, Token{Kind: Ident, Text: text, Span: span, End: end})
		case wideOperatorToken, operatorToken:
			out = append(out, Token{Kind: Punct, Text: text, Span: span, End: end})
		}
	}
	return out, nil
}

type grouper struct {
	file string
	flat []Token
	pos  int
	// closeEnd carries the end offset of the most recently consumed
	// closing delimiter up to the enclosing group.
	closeEnd int
}

// parse consumes tokens until the close delimiter stop (0 for top level),
// folding nested delimiters into Group tokens.
func (g *grouper) parse(stop byte) (Stream, error) {
	var out Stream
	for g.pos < len(g.flat) {
		t := g.flat[g.pos]
		if t.Kind == Punct && len(t.Text) == 1 {
			switch t.Text[0] {
			case '(', '[', '{':
				open := t.Text[0]
				g.pos++
				body, err := g.parse(closeDelim(open))
				if err != nil {
					return nil, err
				}
				out = append(out, Token{Kind: Group, Delim: open, Body: body, Span: t.Span, End: g.closeEnd})
				continue
			case ')', ']', '}':
				if t.Text[0] == stop {
					g.pos++
					g.closeEnd = t.End
					return out, nil
				}
				if stop == 0 {
					return out, nil
				}
				return nil, fmt.Errorf("%s: expected %q, found %q", t.Span, string(stop), t.Text)
			}
		}
		out = append(out, t)
		g.pos++
	}
	if stop != 0 {
		return nil, fmt.Errorf("%s: missing closing %q", spanEnd(g.file, g.flat), string(stop))
	}
	return out, nil
}

func lineOffsets(src []byte) []int {
	offsets := []int{0}
	for i, b := range src {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

func spanAt(file string, lines []int, offset int) Span {
	line := sort.Search(len(lines), func(i int) bool { return lines[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return Span{File: file, Line: line + 1, Col: offset - lines[line] + 1, Off: offset}
}

func spanEnd(file string, flat []Token) Span {
	if len(flat) == 0 {
		return Span{File: file, Line: 1, Col: 1}
	}
	return flat[len(flat)-1].Span
}
