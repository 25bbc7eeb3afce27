package parse

import (
	"github.com/delegen/delegen/internal/model"
	"github.com/delegen/delegen/internal/token"
)

// MacroDef parses a capture document generated by the trait annotator
// back into its structural form. The document is the macro definition
// emitted alongside a trait; its body forwards the embedded trait and
// the invocation input to the delegation synthesizer.
func MacroDef(file string, src []byte) (*model.MacroDef, error) {
	stream, err := token.Lex(file, src)
	if err != nil {
		return nil, err
	}
	c := newCursor(file, stream)
	def := &model.MacroDef{}

	attrs, err := parseAttrs(c)
	if err != nil {
		return nil, err
	}
	for _, a := range attrs {
		switch a.name {
		case "macro_export":
			def.Exported = true
		case "allow", "doc":
			// tolerated metadata on the generated macro
		default:
			return nil, errAt(a.span, "unexpected attribute #[%s] on macro definition", a.name)
		}
	}

	if !c.acceptIdent("macro_rules") {
		return nil, c.errf("expected macro_rules definition")
	}
	if err := c.expectPunct("!"); err != nil {
		return nil, err
	}
	name, err := c.expectIdentAny()
	if err != nil {
		return nil, err
	}
	def.Name = name.Text
	body, err := c.expectGroup('{')
	if err != nil {
		return nil, err
	}

	forward := findForward(body.Body)
	if forward == nil {
		return nil, errAt(body.Span, "macro %s does not forward to impl_trait!", def.Name)
	}
	if err := parseForward(file, forward.Body, def); err != nil {
		return nil, err
	}
	return def, nil
}

// findForward locates the `impl_trait! { ... }` call nested anywhere in
// the macro body.
func findForward(stream token.Stream) *token.Token {
	for i := range stream {
		t := &stream[i]
		if t.Kind == token.Group {
			if found := findForward(t.Body); found != nil {
				return found
			}
			continue
		}
		if !t.IsIdent("impl_trait") {
			continue
		}
		if i+2 < len(stream) && stream[i+1].IsPunct("!") && stream[i+2].IsGroup('{') {
			return &stream[i+2]
		}
	}
	return nil
}

// parseForward reads the forwarded payload: the crate path, the captured
// imports, the embedded trait, and the pass-through input matcher.
func parseForward(file string, body token.Stream, def *model.MacroDef) error {
	c := newCursor(file, body)

	for c.acceptPunct("@") {
		key, err := c.expectIdentAny()
		if err != nil {
			return err
		}
		g, err := c.expectGroup('{')
		if err != nil {
			return err
		}
		switch key.Text {
		case "crate":
			def.CratePath = g.Body
		case "imports":
			imports, err := parseUses(file, g.Body)
			if err != nil {
				return err
			}
			def.Imports = imports
		default:
			return errAt(key.Span, "unknown capture section @%s", key.Text)
		}
	}

	traitGroup, err := c.expectGroup('{')
	if err != nil {
		return err
	}
	tc := newCursor(file, traitGroup.Body)
	pt, err := traitDecl(tc, nil)
	if err != nil {
		return err
	}
	if !tc.done() {
		return tc.errf("unexpected tokens after embedded trait")
	}
	def.Trait = *pt.Decl
	def.Trait.Imports = def.Imports
	return nil
}

func parseUses(file string, body token.Stream) ([]model.ImportSpec, error) {
	c := newCursor(file, body)
	var out []model.ImportSpec
	for !c.done() {
		if !c.acceptIdent("use") {
			return nil, c.errf("expected use declaration")
		}
		path := c.until(isPunct(";"))
		if len(path) == 0 {
			return nil, c.errf("use declaration is missing a path")
		}
		if err := c.expectPunct(";"); err != nil {
			return nil, err
		}
		out = append(out, model.ImportSpec{Path: path})
	}
	return out, nil
}
