// Package parse turns token streams into the structural model: trait
// declarations, impl blocks, macro captures and the `@[field: Type]`
// invocation syntax of generated macros.
package parse

import (
	"fmt"

	"github.com/delegen/delegen/internal/token"
)

// Error is a positioned parse failure.
type Error struct {
	Span token.Span
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Msg)
}

// cursor walks a single nesting level of a token stream.
type cursor struct {
	file string
	toks token.Stream
	pos  int
	// last carries the span used for errors at end of input.
	last token.Span
}

func newCursor(file string, toks token.Stream) *cursor {
	c := &cursor{file: file, toks: toks}
	if len(toks) > 0 {
		c.last = toks[len(toks)-1].Span
	} else {
		c.last = token.Span{File: file, Line: 1, Col: 1}
	}
	return c
}

func (c *cursor) done() bool {
	return c.pos >= len(c.toks)
}

func (c *cursor) peek() *token.Token {
	if c.done() {
		return nil
	}
	return &c.toks[c.pos]
}

func (c *cursor) peekAt(n int) *token.Token {
	if c.pos+n >= len(c.toks) {
		return nil
	}
	return &c.toks[c.pos+n]
}

func (c *cursor) next() *token.Token {
	t := c.peek()
	if t != nil {
		c.pos++
	}
	return t
}

func (c *cursor) span() token.Span {
	if t := c.peek(); t != nil {
		return t.Span
	}
	return c.last
}

func (c *cursor) errf(format string, args ...any) error {
	return &Error{Span: c.span(), Msg: fmt.Sprintf(format, args...)}
}

func errAt(span token.Span, format string, args ...any) error {
	return &Error{Span: span, Msg: fmt.Sprintf(format, args...)}
}

// acceptIdent consumes the named identifier if it is next.
func (c *cursor) acceptIdent(name string) bool {
	if t := c.peek(); t != nil && t.IsIdent(name) {
		c.pos++
		return true
	}
	return false
}

// acceptPunct consumes the punctuation if it is next.
func (c *cursor) acceptPunct(text string) bool {
	if t := c.peek(); t != nil && t.IsPunct(text) {
		c.pos++
		return true
	}
	return false
}

func (c *cursor) expectIdentAny() (*token.Token, error) {
	t := c.peek()
	if t == nil || t.Kind != token.Ident {
		return nil, c.errf("expected identifier")
	}
	c.pos++
	return t, nil
}

func (c *cursor) expectPunct(text string) error {
	if !c.acceptPunct(text) {
		return c.errf("expected %q", text)
	}
	return nil
}

func (c *cursor) expectGroup(delim byte) (*token.Token, error) {
	t := c.peek()
	if t == nil || !t.IsGroup(delim) {
		return nil, c.errf("expected %q block", string(delim))
	}
	c.pos++
	return t, nil
}

// angles consumes a generic parameter list `<...>` if one is next,
// returning it with the brackets included.
func (c *cursor) angles() token.Stream {
	if t := c.peek(); t == nil || !t.IsPunct("<") {
		return nil
	}
	start := c.pos
	depth := 0
	for !c.done() {
		t := c.next()
		if t.IsPunct("<") {
			depth++
		} else if t.IsPunct(">") {
			depth--
			if depth == 0 {
				return c.toks[start:c.pos]
			}
		}
	}
	// unterminated; leave recovery to the caller's next expectation
	c.pos = start
	return nil
}

// until collects tokens, angle-depth aware, until stop returns true for a
// token at depth zero. The stop token is not consumed. Depth never drops
// below zero, so a stray `>` cannot carry the scan past the stop token.
func (c *cursor) until(stop func(*token.Token) bool) token.Stream {
	start := c.pos
	depth := 0
	for !c.done() {
		t := c.peek()
		if depth == 0 && stop(t) {
			break
		}
		if t.IsPunct("<") {
			depth++
		} else if t.IsPunct(">") && depth > 0 {
			depth--
		}
		c.pos++
	}
	return c.toks[start:c.pos]
}

// value collects the tokens of a default or assigned value up to the
// terminating `;`. Values are expressions and may contain comparison or
// shift operators, so no angle tracking: once groups are folded a `;`
// cannot occur inside an expression at this nesting level.
func (c *cursor) value() token.Stream {
	start := c.pos
	for !c.done() && !c.peek().IsPunct(";") {
		c.pos++
	}
	return c.toks[start:c.pos]
}

func isPunct(text string) func(*token.Token) bool {
	return func(t *token.Token) bool { return t.IsPunct(text) }
}

func isIdent(name string) func(*token.Token) bool {
	return func(t *token.Token) bool { return t.IsIdent(name) }
}

func isGroup(delim byte) func(*token.Token) bool {
	return func(t *token.Token) bool { return t.IsGroup(delim) }
}

func anyOf(fns ...func(*token.Token) bool) func(*token.Token) bool {
	return func(t *token.Token) bool {
		for _, fn := range fns {
			if fn(t) {
				return true
			}
		}
		return false
	}
}
