// Package rewrite implements the path hygiene transforms. Code embedded
// in a generated macro expands in the caller's scope, so a bare `crate`
// segment inside it would resolve against the caller's own root. The
// annotator therefore rewrites `crate` to the deferred `$crate` marker
// before embedding, and the expander substitutes the marker with the
// defining unit's recorded path.
package rewrite

import (
	"github.com/delegen/delegen/internal/model"
	"github.com/delegen/delegen/internal/token"
)

// Decratify replaces every bare `crate` identifier with the `$crate`
// marker, recursing through nested groups. Identifiers already preceded
// by `$` are macro variables and pass through untouched.
func Decratify(s token.Stream) token.Stream {
	out := make(token.Stream, 0, len(s))
	for i, t := range s {
		switch {
		case t.Kind == token.Group:
			out = append(out, token.Token{
				Kind:  token.Group,
				Delim: t.Delim,
				Body:  Decratify(t.Body),
				Span:  t.Span,
				End:   t.End,
			})
		case t.IsIdent("crate") && !(i > 0 && s[i-1].IsPunct("$")):
			out = append(out, token.NewPunct("$"), token.NewIdent("crate"))
		default:
			out = append(out, t)
		}
	}
	return out
}

// Resolve substitutes every `$crate` marker with cratePath, recursing
// through nested groups.
func Resolve(s token.Stream, cratePath token.Stream) token.Stream {
	var out token.Stream
	for i := 0; i < len(s); i++ {
		t := s[i]
		if t.Kind == token.Group {
			out = append(out, token.Token{
				Kind:  token.Group,
				Delim: t.Delim,
				Body:  Resolve(t.Body, cratePath),
				Span:  t.Span,
				End:   t.End,
			})
			continue
		}
		if t.IsPunct("$") && i+1 < len(s) && s[i+1].IsIdent("crate") {
			out = append(out, cratePath...)
			i++
			continue
		}
		out = append(out, t)
	}
	return out
}

// DecratifyTrait applies Decratify to every stream a trait declaration
// carries, returning a rewritten copy.
func DecratifyTrait(decl model.TraitDecl) model.TraitDecl {
	return mapTrait(decl, Decratify)
}

// ResolveTrait substitutes $crate markers throughout a captured trait.
func ResolveTrait(decl model.TraitDecl, cratePath token.Stream) model.TraitDecl {
	return mapTrait(decl, func(s token.Stream) token.Stream {
		return Resolve(s, cratePath)
	})
}

func mapTrait(decl model.TraitDecl, fn func(token.Stream) token.Stream) model.TraitDecl {
	out := decl
	out.Generics = fn(decl.Generics)
	out.Items = make([]model.TraitItem, len(decl.Items))
	for i, it := range decl.Items {
		c := it
		c.Type = fn(it.Type)
		c.Bounds = fn(it.Bounds)
		c.Default = fn(it.Default)
		if it.Sig != nil {
			sig := *it.Sig
			sig.Generics = fn(sig.Generics)
			sig.RecvTokens = fn(sig.RecvTokens)
			sig.Ret = fn(sig.Ret)
			sig.Params = make([]model.Param, len(it.Sig.Params))
			for j, p := range it.Sig.Params {
				sig.Params[j] = model.Param{Name: p.Name, Type: fn(p.Type)}
			}
			c.Sig = &sig
		}
		out.Items[i] = c
	}
	out.Imports = make([]model.ImportSpec, len(decl.Imports))
	for i, imp := range decl.Imports {
		out.Imports[i] = model.ImportSpec{Path: fn(imp.Path)}
	}
	return out
}
