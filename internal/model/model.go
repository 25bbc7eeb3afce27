// Package model holds the structural representation of trait DSL source:
// trait declarations, impl blocks, delegation headers and the generated
// macro captures that carry a trait between the two generator stages.
package model

import "github.com/delegen/delegen/internal/token"

// ItemKind discriminates the three trait item categories.
type ItemKind int

const (
	KindConst ItemKind = iota
	KindFn
	KindType
)

func (k ItemKind) String() string {
	switch k {
	case KindConst:
		return "const"
	case KindFn:
		return "fn"
	case KindType:
		return "type"
	default:
		return "item"
	}
}

// ReceiverKind classifies how an instance is passed to a trait function.
type ReceiverKind int

const (
	// RecvNone marks an associated function without an instance.
	RecvNone ReceiverKind = iota
	RecvByValue
	RecvByRef
	RecvByMutRef
	// RecvOther marks typed receivers such as `self: Arc<Self>`;
	// these cannot be forwarded through a field.
	RecvOther
)

// Param is a named, non-receiver function parameter.
type Param struct {
	Name string
	Type token.Stream
}

// Signature describes a trait function header.
type Signature struct {
	Name     string
	Generics token.Stream // includes the angle brackets, empty when absent
	Receiver ReceiverKind
	// RecvTokens preserves the receiver exactly as written, so items
	// that are re-rendered rather than synthesized keep their shape.
	RecvTokens token.Stream
	Params     []Param
	Ret        token.Stream // empty for unit return
	Span       token.Span
}

// TraitItem is one const, fn or type item of a trait declaration.
type TraitItem struct {
	Kind       ItemKind
	Name       string
	Type       token.Stream // const item type
	Bounds     token.Stream // type item bounds, without the leading colon
	Default    token.Stream // const value, type assignment, or fn body
	HasDefault bool
	Sig        *Signature // fn items only
	Rc         bool       // fn items only, set by the #[rc] marker
	Span       token.Span
}

// ImportSpec is one #[import(...)] path captured at trait definition time.
type ImportSpec struct {
	Path token.Stream
}

// TraitDecl is a parsed trait declaration together with the annotations
// delegen recognizes on it.
type TraitDecl struct {
	Public   bool
	Name     string
	Generics token.Stream
	Items    []TraitItem
	Imports  []ImportSpec
	// MacroOverride is the optional identifier argument of the
	// #[trait_deref(...)] attribute; empty when absent or malformed.
	MacroOverride string
	Span          token.Span
}

// FindItem returns the item with the given kind and name, or nil.
func (t *TraitDecl) FindItem(kind ItemKind, name string) *TraitItem {
	for i := range t.Items {
		if t.Items[i].Kind == kind && t.Items[i].Name == name {
			return &t.Items[i]
		}
	}
	return nil
}

// ImplItem is one item of a user-supplied impl block, kept verbatim.
type ImplItem struct {
	Kind   ItemKind
	Name   string
	Tokens token.Stream
	Span   token.Span
}

// ImplBlock is a trait implementation for a target type.
type ImplBlock struct {
	Generics  token.Stream
	Trait     token.Stream // trait path, generic arguments included
	TraitName string
	Target    token.Stream
	Where     token.Stream
	Items     []ImplItem
	Span      token.Span
}

// Has reports whether the block already provides an item of kind and name.
func (b *ImplBlock) Has(kind ItemKind, name string) bool {
	for _, it := range b.Items {
		if it.Kind == kind && it.Name == name {
			return true
		}
	}
	return false
}

// DelegationSpec is the `@[field: Type]` header of a macro invocation.
type DelegationSpec struct {
	Field string
	Inner token.Stream
	Span  token.Span
}

// Invocation is one parsed `name! { @[field: Type] impl ... }` site.
// StartOff and EndOff delimit the byte range of the whole invocation in
// its source file, so expansion can splice the result in place.
type Invocation struct {
	Macro    string
	Spec     DelegationSpec
	Impl     ImplBlock
	Span     token.Span
	StartOff int
	EndOff   int
}

// MacroDef is the capture document generated at trait annotation time.
// Its trait copy is default-stripped and decratified before embedding.
type MacroDef struct {
	Name     string
	Exported bool
	// CratePath is the scope-stable path of the defining unit, used to
	// substitute $crate markers at expansion time.
	CratePath token.Stream
	Imports   []ImportSpec
	Trait     TraitDecl
}
