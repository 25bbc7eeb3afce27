package parse

import (
	"github.com/delegen/delegen/internal/model"
	"github.com/delegen/delegen/internal/token"
)

// Invocations finds every `name! { ... }` site at the top level of src.
// Tokens outside invocations pass through untouched so expansion can
// splice results into otherwise ordinary source files.
func Invocations(file string, src []byte) ([]model.Invocation, error) {
	stream, err := token.Lex(file, src)
	if err != nil {
		return nil, err
	}
	c := newCursor(file, stream)
	var out []model.Invocation
	for !c.done() {
		name := c.peek()
		bang := c.peekAt(1)
		body := c.peekAt(2)
		if name.Kind != token.Ident || bang == nil || !bang.IsPunct("!") ||
			body == nil || !body.IsGroup('{') {
			c.pos++
			continue
		}
		c.pos += 3
		inv, err := invocationBody(c.file, body.Body)
		if err != nil {
			return nil, err
		}
		inv.Macro = name.Text
		inv.Span = name.Span
		inv.StartOff = name.Span.Off
		inv.EndOff = body.End
		out = append(out, inv)
	}
	return out, nil
}

// invocationBody parses the delegation header and impl block inside the
// braces of a generated macro invocation. No other shapes are accepted.
func invocationBody(file string, body token.Stream) (model.Invocation, error) {
	var inv model.Invocation
	c := newCursor(file, body)
	if !c.acceptPunct("@") {
		return inv, c.errf("expected @[field: Type] delegation header")
	}
	header, err := c.expectGroup('[')
	if err != nil {
		return inv, err
	}
	inv.Spec, err = delegationSpec(file, header)
	if err != nil {
		return inv, err
	}
	inv.Impl, err = implBlock(c)
	if err != nil {
		return inv, err
	}
	if !c.done() {
		return inv, c.errf("unexpected tokens after impl block")
	}
	return inv, nil
}

func delegationSpec(file string, header *token.Token) (model.DelegationSpec, error) {
	spec := model.DelegationSpec{Span: header.Span}
	c := newCursor(file, header.Body)
	field, err := c.expectIdentAny()
	if err != nil {
		return spec, errAt(header.Span, "delegation header requires a field name")
	}
	spec.Field = field.Text
	if err := c.expectPunct(":"); err != nil {
		return spec, err
	}
	spec.Inner = c.toks[c.pos:]
	if len(spec.Inner) == 0 {
		return spec, c.errf("delegation header requires a field type")
	}
	return spec, nil
}
