// Package synth implements the delegation synthesizer: it diffs a
// captured trait's item list against a user-supplied impl block and
// appends a forwarding item for everything the user omitted.
package synth

import (
	"fmt"
	"log/slog"

	"github.com/delegen/delegen/internal/model"
	"github.com/delegen/delegen/internal/token"
)

// Fill appends forwarding items to blk for every trait item it does not
// already provide. Items the block defines are never altered. Functions
// without a usable receiver are skipped silently; the implementer has to
// provide those by hand.
func Fill(trait *model.TraitDecl, spec model.DelegationSpec, blk *model.ImplBlock) error {
	for i := range trait.Items {
		it := &trait.Items[i]
		if blk.Has(it.Kind, it.Name) {
			continue
		}
		switch it.Kind {
		case model.KindConst:
			blk.Items = append(blk.Items, forwardConst(it, spec))
		case model.KindType:
			blk.Items = append(blk.Items, forwardType(it, spec))
		case model.KindFn:
			fwd, ok, err := forwardFn(trait, it, spec)
			if err != nil {
				return err
			}
			if !ok {
				slog.Debug("skipping unforwardable fn",
					"trait", trait.Name, "fn", it.Name, "receiver", int(it.Sig.Receiver))
				continue
			}
			blk.Items = append(blk.Items, fwd)
		}
	}
	return nil
}

// forwardConst emits `const NAME: TYPE = Inner::NAME;`. Associated
// constants are type level, so delegation references the inner type's
// own constant rather than the field value.
func forwardConst(it *model.TraitItem, spec model.DelegationSpec) model.ImplItem {
	toks := token.Stream{token.NewIdent("const"), token.NewIdent(it.Name), token.NewPunct(":")}
	toks = append(toks, it.Type...)
	toks = append(toks, token.NewPunct("="))
	toks = append(toks, spec.Inner...)
	toks = append(toks, token.NewPunct("::"), token.NewIdent(it.Name), token.NewPunct(";"))
	return model.ImplItem{Kind: model.KindConst, Name: it.Name, Tokens: toks}
}

// forwardType emits `type NAME = Inner::NAME;`.
func forwardType(it *model.TraitItem, spec model.DelegationSpec) model.ImplItem {
	toks := token.Stream{token.NewIdent("type"), token.NewIdent(it.Name), token.NewPunct("=")}
	toks = append(toks, spec.Inner...)
	toks = append(toks, token.NewPunct("::"), token.NewIdent(it.Name), token.NewPunct(";"))
	return model.ImplItem{Kind: model.KindType, Name: it.Name, Tokens: toks}
}

// forwardFn emits the original signature with a body that forwards to
// the delegate. ok is false when the receiver shape cannot be forwarded.
func forwardFn(trait *model.TraitDecl, it *model.TraitItem, spec model.DelegationSpec) (model.ImplItem, bool, error) {
	if it.Rc {
		fwd, err := forwardRcFn(trait, it, spec)
		return fwd, err == nil, err
	}

	var recv token.Stream
	switch it.Sig.Receiver {
	case model.RecvByValue:
		// the field moves out as-is
	case model.RecvByRef:
		recv = token.Stream{token.NewPunct("&")}
	case model.RecvByMutRef:
		recv = token.Stream{token.NewPunct("&"), token.NewIdent("mut")}
	default:
		// no instance to route through, or an unsupported custom receiver
		return model.ImplItem{}, false, nil
	}

	args := append(token.Stream{}, recv...)
	args = append(args,
		token.NewIdent("self"), token.NewPunct("."), token.NewIdent(spec.Field))
	for _, p := range it.Sig.Params {
		args = append(args, token.NewPunct(","), token.NewIdent(p.Name))
	}
	return finishFn(trait, it, args), true, nil
}

// forwardRcFn handles the shared-ownership convention: the handle is
// forwarded positionally and the projection argument is narrowed one
// delegation level by composing it with the field access.
func forwardRcFn(trait *model.TraitDecl, it *model.TraitItem, spec model.DelegationSpec) (model.ImplItem, error) {
	if len(it.Sig.Params) < 2 {
		return model.ImplItem{}, fmt.Errorf(
			"%s: #[rc] fn %s must take a handle and a projection argument (found %d parameters)",
			it.Span, it.Name, len(it.Sig.Params))
	}
	this := it.Sig.Params[0].Name
	get := it.Sig.Params[1].Name

	// |x| &get(x).field
	projection := token.Stream{
		token.NewPunct("|"), token.NewIdent("x"), token.NewPunct("|"),
		token.NewPunct("&"), token.NewIdent(get),
		token.NewGroup('(', token.Stream{token.NewIdent("x")}),
		token.NewPunct("."), token.NewIdent(spec.Field),
	}

	args := token.Stream{token.NewIdent(this), token.NewPunct(",")}
	args = append(args, projection...)
	for _, p := range it.Sig.Params[2:] {
		args = append(args, token.NewPunct(","), token.NewIdent(p.Name))
	}
	return finishFn(trait, it, args), nil
}

// finishFn assembles `sig { Trait::name(args) }` as an impl item.
func finishFn(trait *model.TraitDecl, it *model.TraitItem, args token.Stream) model.ImplItem {
	body := token.Stream{
		token.NewIdent(trait.Name), token.NewPunct("::"), token.NewIdent(it.Name),
		token.NewGroup('(', args),
	}
	toks := append(token.Stream{}, it.Sig.Tokens()...)
	toks = append(toks, token.NewGroup('{', body))
	return model.ImplItem{Kind: model.KindFn, Name: it.Name, Tokens: toks}
}
