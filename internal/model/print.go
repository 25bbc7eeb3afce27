package model

import (
	"strings"

	"github.com/delegen/delegen/internal/token"
)

// receiverTokens renders a receiver kind back to source tokens. RecvOther
// and RecvNone fall back to the preserved original tokens.
func (s *Signature) receiverTokens() token.Stream {
	switch s.Receiver {
	case RecvByValue:
		return token.Stream{token.NewIdent("self")}
	case RecvByRef:
		return token.Stream{token.NewPunct("&"), token.NewIdent("self")}
	case RecvByMutRef:
		return token.Stream{token.NewPunct("&"), token.NewIdent("mut"), token.NewIdent("self")}
	default:
		return s.RecvTokens
	}
}

// Tokens renders the signature header: fn name<G>(recv, params) -> ret.
func (s *Signature) Tokens() token.Stream {
	out := token.Stream{token.NewIdent("fn"), token.NewIdent(s.Name)}
	out = append(out, s.Generics...)
	var args token.Stream
	if recv := s.receiverTokens(); len(recv) > 0 {
		args = append(args, recv...)
	}
	for _, p := range s.Params {
		if len(args) > 0 {
			args = append(args, token.NewPunct(","))
		}
		args = append(args, token.NewIdent(p.Name), token.NewPunct(":"))
		args = append(args, p.Type...)
	}
	out = append(out, token.NewGroup('(', args))
	if len(s.Ret) > 0 {
		out = append(out, token.NewPunct("->"))
		out = append(out, s.Ret...)
	}
	return out
}

// Tokens renders one trait item. withDefault keeps default bodies/values;
// withMarkers keeps the internal #[rc] marker.
func (it *TraitItem) Tokens(withDefault, withMarkers bool) token.Stream {
	var out token.Stream
	switch it.Kind {
	case KindConst:
		out = append(out, token.NewIdent("const"), token.NewIdent(it.Name), token.NewPunct(":"))
		out = append(out, it.Type...)
		if withDefault && it.HasDefault {
			out = append(out, token.NewPunct("="))
			out = append(out, it.Default...)
		}
		out = append(out, token.NewPunct(";"))
	case KindType:
		out = append(out, token.NewIdent("type"), token.NewIdent(it.Name))
		if len(it.Bounds) > 0 {
			out = append(out, token.NewPunct(":"))
			out = append(out, it.Bounds...)
		}
		if withDefault && it.HasDefault {
			out = append(out, token.NewPunct("="))
			out = append(out, it.Default...)
		}
		out = append(out, token.NewPunct(";"))
	case KindFn:
		if withMarkers && it.Rc {
			out = append(out, token.NewPunct("#"),
				token.NewGroup('[', token.Stream{token.NewIdent("rc")}))
		}
		out = append(out, it.Sig.Tokens()...)
		if withDefault && it.HasDefault {
			out = append(out, token.NewGroup('{', it.Default))
		} else {
			out = append(out, token.NewPunct(";"))
		}
	}
	return out
}

// HeaderTokens renders `pub trait Name<G>` without the body.
func (t *TraitDecl) HeaderTokens() token.Stream {
	var out token.Stream
	if t.Public {
		out = append(out, token.NewIdent("pub"))
	}
	out = append(out, token.NewIdent("trait"), token.NewIdent(t.Name))
	out = append(out, t.Generics...)
	return out
}

// Tokens renders the whole trait as a single stream, body group included.
func (t *TraitDecl) Tokens(withDefaults, withMarkers bool) token.Stream {
	var body token.Stream
	for i := range t.Items {
		body = append(body, t.Items[i].Tokens(withDefaults, withMarkers)...)
	}
	out := t.HeaderTokens()
	out = append(out, token.NewGroup('{', body))
	return out
}

// Render writes the trait as multi-line source text, one item per line.
func (t *TraitDecl) Render(withDefaults, withMarkers bool) string {
	var sb strings.Builder
	sb.WriteString(t.HeaderTokens().String())
	sb.WriteString(" {\n")
	for i := range t.Items {
		sb.WriteString("    ")
		sb.WriteString(t.Items[i].Tokens(withDefaults, withMarkers).String())
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}

// HeaderTokens renders `impl<G> Trait for Target where ...` without the body.
func (b *ImplBlock) HeaderTokens() token.Stream {
	out := token.Stream{token.NewIdent("impl")}
	out = append(out, b.Generics...)
	out = append(out, b.Trait...)
	out = append(out, token.NewIdent("for"))
	out = append(out, b.Target...)
	if len(b.Where) > 0 {
		out = append(out, token.NewIdent("where"))
		out = append(out, b.Where...)
	}
	return out
}

// Render writes the impl block as multi-line source text.
func (b *ImplBlock) Render() string {
	var sb strings.Builder
	sb.WriteString(b.HeaderTokens().String())
	sb.WriteString(" {\n")
	for _, it := range b.Items {
		sb.WriteString("    ")
		sb.WriteString(it.Tokens.String())
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}
