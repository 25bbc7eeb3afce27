package parse

import (
	"github.com/delegen/delegen/internal/model"
	"github.com/delegen/delegen/internal/token"
)

// ParsedTrait is a trait declaration plus the delegen annotation state
// found on it.
type ParsedTrait struct {
	Decl *model.TraitDecl
	// Deref is set when the trait carries the #[trait_deref] attribute
	// and should have a delegation macro generated for it.
	Deref bool
}

// Traits parses every trait declaration in src.
func Traits(file string, src []byte) ([]ParsedTrait, error) {
	stream, err := token.Lex(file, src)
	if err != nil {
		return nil, err
	}
	c := newCursor(file, stream)
	var out []ParsedTrait
	for !c.done() {
		attrs, err := parseAttrs(c)
		if err != nil {
			return nil, err
		}
		pt, err := traitDecl(c, attrs)
		if err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, nil
}

// attr is one `#[...]` annotation.
type attr struct {
	name string
	args *token.Token // the `(...)` group, nil when absent
	span token.Span
}

func parseAttrs(c *cursor) ([]attr, error) {
	var out []attr
	for {
		t := c.peek()
		if t == nil || !t.IsPunct("#") {
			return out, nil
		}
		span := t.Span
		c.pos++
		g, err := c.expectGroup('[')
		if err != nil {
			return nil, err
		}
		inner := newCursor(c.file, g.Body)
		name, err := inner.expectIdentAny()
		if err != nil {
			return nil, err
		}
		a := attr{name: name.Text, span: span}
		if arg := inner.peek(); arg != nil {
			if !arg.IsGroup('(') {
				return nil, inner.errf("malformed attribute #[%s]", a.name)
			}
			a.args = arg
			inner.pos++
		}
		if !inner.done() {
			return nil, inner.errf("trailing tokens in attribute #[%s]", a.name)
		}
		out = append(out, a)
	}
}

func traitDecl(c *cursor, attrs []attr) (ParsedTrait, error) {
	decl := &model.TraitDecl{Span: c.span()}
	pt := ParsedTrait{Decl: decl}

	for _, a := range attrs {
		switch a.name {
		case "trait_deref":
			pt.Deref = true
			// a non-identifier argument falls back to the derived name
			if a.args != nil && len(a.args.Body) == 1 && a.args.Body[0].Kind == token.Ident {
				decl.MacroOverride = a.args.Body[0].Text
			}
		case "import":
			if a.args == nil || len(a.args.Body) == 0 {
				return pt, errAt(a.span, "#[import] requires a path argument")
			}
			decl.Imports = append(decl.Imports, model.ImportSpec{Path: a.args.Body})
		default:
			return pt, errAt(a.span, "unsupported trait attribute #[%s]", a.name)
		}
	}

	decl.Public = c.acceptIdent("pub")
	if !c.acceptIdent("trait") {
		return pt, c.errf("expected trait declaration")
	}
	name, err := c.expectIdentAny()
	if err != nil {
		return pt, err
	}
	decl.Name = name.Text
	decl.Generics = c.angles()

	body, err := c.expectGroup('{')
	if err != nil {
		return pt, err
	}
	decl.Items, err = traitItems(newCursor(c.file, body.Body))
	if err != nil {
		return pt, err
	}
	for i, it := range decl.Items {
		for _, prev := range decl.Items[:i] {
			if prev.Kind == it.Kind && prev.Name == it.Name {
				return pt, errAt(it.Span, "duplicate %s item %q in trait %s", it.Kind, it.Name, decl.Name)
			}
		}
	}
	return pt, nil
}

func traitItems(c *cursor) ([]model.TraitItem, error) {
	var items []model.TraitItem
	for !c.done() {
		attrs, err := parseAttrs(c)
		if err != nil {
			return nil, err
		}
		it, err := traitItem(c)
		if err != nil {
			return nil, err
		}
		for _, a := range attrs {
			if a.name != "rc" || it.Kind != model.KindFn {
				return nil, errAt(a.span, "attribute #[%s] is not valid on a %s item", a.name, it.Kind)
			}
			if a.args != nil {
				return nil, errAt(a.span, "attribute #[rc] takes no arguments")
			}
			it.Rc = true
		}
		items = append(items, it)
	}
	return items, nil
}

func traitItem(c *cursor) (model.TraitItem, error) {
	it := model.TraitItem{Span: c.span()}
	switch {
	case c.acceptIdent("const"):
		it.Kind = model.KindConst
		name, err := c.expectIdentAny()
		if err != nil {
			return it, err
		}
		it.Name = name.Text
		if err := c.expectPunct(":"); err != nil {
			return it, err
		}
		it.Type = c.until(anyOf(isPunct("="), isPunct(";")))
		if len(it.Type) == 0 {
			return it, c.errf("const %s is missing a type", it.Name)
		}
		if c.acceptPunct("=") {
			it.Default = c.value()
			it.HasDefault = true
		}
		return it, c.expectPunct(";")

	case c.acceptIdent("type"):
		it.Kind = model.KindType
		name, err := c.expectIdentAny()
		if err != nil {
			return it, err
		}
		it.Name = name.Text
		if c.acceptPunct(":") {
			it.Bounds = c.until(anyOf(isPunct("="), isPunct(";")))
		}
		if c.acceptPunct("=") {
			it.Default = c.value()
			it.HasDefault = true
		}
		return it, c.expectPunct(";")

	case c.acceptIdent("fn"):
		it.Kind = model.KindFn
		sig, err := signature(c)
		if err != nil {
			return it, err
		}
		it.Name = sig.Name
		it.Sig = sig
		if t := c.peek(); t != nil && t.IsGroup('{') {
			it.Default = t.Body
			it.HasDefault = true
			c.pos++
			return it, nil
		}
		return it, c.expectPunct(";")
	}
	return it, c.errf("expected const, fn or type item")
}

// signature parses `name<G>(args) -> ret`, the `fn` keyword already consumed.
func signature(c *cursor) (*model.Signature, error) {
	sig := &model.Signature{Span: c.span()}
	name, err := c.expectIdentAny()
	if err != nil {
		return nil, err
	}
	sig.Name = name.Text
	sig.Generics = c.angles()
	args, err := c.expectGroup('(')
	if err != nil {
		return nil, err
	}
	if err := parseArgs(c.file, args.Body, sig); err != nil {
		return nil, err
	}
	if c.acceptPunct("->") {
		sig.Ret = c.until(anyOf(isPunct(";"), isGroup('{')))
		if len(sig.Ret) == 0 {
			return nil, c.errf("fn %s is missing a return type", sig.Name)
		}
	}
	return sig, nil
}

func parseArgs(file string, body token.Stream, sig *model.Signature) error {
	segments := splitTopLevel(body)
	for i, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if i == 0 {
			if kind, ok := classifyReceiver(seg); ok {
				sig.Receiver = kind
				sig.RecvTokens = seg
				continue
			}
			sig.Receiver = model.RecvNone
		}
		sc := newCursor(file, seg)
		name, err := sc.expectIdentAny()
		if err != nil {
			return errAt(seg[0].Span, "expected parameter name in fn %s", sig.Name)
		}
		if err := sc.expectPunct(":"); err != nil {
			return err
		}
		typ := sc.toks[sc.pos:]
		if len(typ) == 0 {
			return sc.errf("parameter %s is missing a type", name.Text)
		}
		sig.Params = append(sig.Params, model.Param{Name: name.Text, Type: typ})
	}
	return nil
}

// classifyReceiver recognizes the supported receiver spellings.
func classifyReceiver(seg token.Stream) (model.ReceiverKind, bool) {
	switch {
	case len(seg) == 1 && seg[0].IsIdent("self"):
		return model.RecvByValue, true
	case len(seg) == 2 && seg[0].IsPunct("&") && seg[1].IsIdent("self"):
		return model.RecvByRef, true
	case len(seg) == 3 && seg[0].IsPunct("&") && seg[1].IsIdent("mut") && seg[2].IsIdent("self"):
		return model.RecvByMutRef, true
	case len(seg) >= 2 && seg[0].IsIdent("self") && seg[1].IsPunct(":"):
		return model.RecvOther, true
	}
	return model.RecvNone, false
}

// splitTopLevel splits on commas outside nested groups and angle brackets.
func splitTopLevel(body token.Stream) []token.Stream {
	var out []token.Stream
	depth := 0
	start := 0
	for i, t := range body {
		switch {
		case t.IsPunct("<"):
			depth++
		case t.IsPunct(">"):
			if depth > 0 {
				depth--
			}
		case t.IsPunct(",") && depth == 0:
			out = append(out, body[start:i])
			start = i + 1
		}
	}
	if start < len(body) {
		out = append(out, body[start:])
	}
	return out
}
