package parse

import (
	"github.com/delegen/delegen/internal/model"
	"github.com/delegen/delegen/internal/token"
)

// implBlock parses `impl<G> Trait for Target { ... }` from the cursor.
func implBlock(c *cursor) (model.ImplBlock, error) {
	blk := model.ImplBlock{Span: c.span()}
	if !c.acceptIdent("impl") {
		return blk, c.errf("expected impl block")
	}
	blk.Generics = c.angles()
	blk.Trait = c.until(isIdent("for"))
	if len(blk.Trait) == 0 {
		return blk, c.errf("expected trait path before 'for'")
	}
	blk.TraitName = pathName(blk.Trait)
	if !c.acceptIdent("for") {
		return blk, c.errf("expected 'for' in impl block")
	}
	blk.Target = c.until(anyOf(isIdent("where"), isGroup('{')))
	if len(blk.Target) == 0 {
		return blk, c.errf("expected target type in impl block")
	}
	if c.acceptIdent("where") {
		blk.Where = c.until(isGroup('{'))
	}
	body, err := c.expectGroup('{')
	if err != nil {
		return blk, err
	}
	blk.Items, err = implItems(newCursor(c.file, body.Body))
	if err != nil {
		return blk, err
	}
	for i, it := range blk.Items {
		for _, prev := range blk.Items[:i] {
			if prev.Kind == it.Kind && prev.Name == it.Name {
				return blk, errAt(it.Span, "duplicate %s item %q in impl block", it.Kind, it.Name)
			}
		}
	}
	return blk, nil
}

func implItems(c *cursor) ([]model.ImplItem, error) {
	var items []model.ImplItem
	for !c.done() {
		it, err := implItem(c)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func implItem(c *cursor) (model.ImplItem, error) {
	it := model.ImplItem{Span: c.span()}
	start := c.pos
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
		c.until(isPunct("="))
		if err := c.expectPunct("="); err != nil {
			return it, c.errf("const %s in an impl block requires a value", it.Name)
		}
		if v := c.value(); len(v) == 0 {
			return it, c.errf("const %s is missing a value", it.Name)
		}
		if err := c.expectPunct(";"); err != nil {
			return it, err
		}

	case c.acceptIdent("type"):
		it.Kind = model.KindType
		name, err := c.expectIdentAny()
		if err != nil {
			return it, err
		}
		it.Name = name.Text
		if err := c.expectPunct("="); err != nil {
			return it, c.errf("type %s in an impl block requires an assignment", it.Name)
		}
		if v := c.value(); len(v) == 0 {
			return it, c.errf("type %s is missing a type", it.Name)
		}
		if err := c.expectPunct(";"); err != nil {
			return it, err
		}

	case c.acceptIdent("fn"):
		it.Kind = model.KindFn
		sig, err := signature(c)
		if err != nil {
			return it, err
		}
		it.Name = sig.Name
		if _, err := c.expectGroup('{'); err != nil {
			return it, c.errf("fn %s in an impl block requires a body", it.Name)
		}

	default:
		return it, c.errf("expected const, fn or type item")
	}
	it.Tokens = c.toks[start:c.pos]
	return it, nil
}

// pathName returns the final identifier of a possibly qualified path,
// ignoring any trailing generic arguments.
func pathName(path token.Stream) string {
	name := ""
	depth := 0
	for _, t := range path {
		switch {
		case t.IsPunct("<"):
			depth++
		case t.IsPunct(">"):
			if depth > 0 {
				depth--
			}
		case t.Kind == token.Ident && depth == 0:
			name = t.Text
		}
	}
	return name
}
