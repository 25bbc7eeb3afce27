package parse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/delegen/delegen/internal/model"
)

const traitSrc = `
#[trait_deref]
#[import(crate::util::pricing)]
pub trait Card {
    const IS_FIXED_COST: bool = false;

    type Cost;

    fn get_cost(&self) -> i32;

    fn set_cost(&mut self, cost: i32);

    fn into_cost(self) -> i32;

    #[rc]
    fn get_by_rc<RC>(this: RC, get: impl Fn(&RC) -> &Self) -> Self::Item;

    fn get_arc(self: Arc<Self>) -> i32 {
        Self::get_by_rc(self, Arc::as_ref)
    }

    fn default_cost() -> i32 {
        0
    }
}
`

func TestTraits(t *testing.T) {
	traits, err := Traits("card.trait", []byte(traitSrc))
	require.NoError(t, err)
	require.Len(t, traits, 1)

	pt := traits[0]
	require.True(t, pt.Deref)
	decl := pt.Decl
	require.True(t, decl.Public)
	require.Equal(t, "Card", decl.Name)
	require.Equal(t, "", decl.MacroOverride)
	require.Len(t, decl.Imports, 1)
	require.Equal(t, "crate::util::pricing", decl.Imports[0].Path.String())
	require.Len(t, decl.Items, 8)

	isFixed := decl.FindItem(model.KindConst, "IS_FIXED_COST")
	require.NotNil(t, isFixed)
	require.Equal(t, "bool", isFixed.Type.String())
	require.True(t, isFixed.HasDefault)
	require.Equal(t, "false", isFixed.Default.String())

	cost := decl.FindItem(model.KindType, "Cost")
	require.NotNil(t, cost)
	require.False(t, cost.HasDefault)

	recvs := map[string]model.ReceiverKind{
		"get_cost":     model.RecvByRef,
		"set_cost":     model.RecvByMutRef,
		"into_cost":    model.RecvByValue,
		"get_by_rc":    model.RecvNone,
		"get_arc":      model.RecvOther,
		"default_cost": model.RecvNone,
	}
	for name, want := range recvs {
		it := decl.FindItem(model.KindFn, name)
		require.NotNil(t, it, "missing fn %s", name)
		require.Equal(t, want, it.Sig.Receiver, "fn %s", name)
	}

	rc := decl.FindItem(model.KindFn, "get_by_rc")
	require.True(t, rc.Rc)
	require.Equal(t, "<RC>", rc.Sig.Generics.String())
	require.Len(t, rc.Sig.Params, 2)
	require.Equal(t, "this", rc.Sig.Params[0].Name)
	require.Equal(t, "get", rc.Sig.Params[1].Name)
	require.Equal(t, "impl Fn(&RC) -> &Self", rc.Sig.Params[1].Type.String())
	require.Equal(t, "Self::Item", rc.Sig.Ret.String())

	arc := decl.FindItem(model.KindFn, "get_arc")
	require.True(t, arc.HasDefault)
	require.Equal(t, "self: Arc<Self>", arc.Sig.RecvTokens.String())

	setCost := decl.FindItem(model.KindFn, "set_cost")
	require.Len(t, setCost.Sig.Params, 1)
	require.Equal(t, "cost", setCost.Sig.Params[0].Name)
	require.Empty(t, setCost.Sig.Ret)
}

func TestTraitsOperatorDefaults(t *testing.T) {
	src := `
trait Flags {
    const POSITIVE: bool = 1 > 0;
    const FLAG: u32 = 1 << 3;
    const MASKED: bool = (1 << 3) > 0;
    type Buf = Vec<u8>;
}
`
	traits, err := Traits("flags.trait", []byte(src))
	require.NoError(t, err)
	decl := traits[0].Decl
	require.Len(t, decl.Items, 4)
	require.Equal(t, "1 > 0", decl.FindItem(model.KindConst, "POSITIVE").Default.String())
	require.Equal(t, "1 << 3", decl.FindItem(model.KindConst, "FLAG").Default.String())
	require.Equal(t, "(1 << 3) > 0", decl.FindItem(model.KindConst, "MASKED").Default.String())
	require.Equal(t, "Vec<u8>", decl.FindItem(model.KindType, "Buf").Default.String())
}

func TestTraitsErrors(ttt *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "duplicate const",
			src:  "trait T { const A: i32; const A: i64; }",
			want: "duplicate",
		},
		{
			name: "duplicate fn",
			src:  "trait T { fn a(&self); fn a(self); }",
			want: "duplicate",
		},
		{
			name: "rc on const",
			src:  "trait T { #[rc] const A: i32; }",
			want: "not valid",
		},
		{
			name: "rc with arguments",
			src:  "trait T { #[rc(shared)] fn get(this: RC, get: G); }",
			want: "takes no arguments",
		},
		{
			name: "unknown trait attribute",
			src:  "#[derive(Debug)] trait T {}",
			want: "unsupported trait attribute",
		},
		{
			name: "import without argument",
			src:  "#[trait_deref] #[import] trait T {}",
			want: "requires a path argument",
		},
		{
			name: "const without type",
			src:  "trait T { const A: = 1; }",
			want: "missing a type",
		},
		{
			name: "missing return type",
			src:  "trait T { fn a(&self) ->; }",
			want: "missing a return type",
		},
		{
			name: "not a trait",
			src:  "struct T {}",
			want: "expected trait declaration",
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			_, err := Traits("bad.trait", []byte(tt.src))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTraitsOverrideName(t *testing.T) {
	traits, err := Traits("o.trait", []byte("#[trait_deref(inherit_card)] trait Card {}"))
	require.NoError(t, err)
	require.Equal(t, "inherit_card", traits[0].Decl.MacroOverride)

	// non-identifier arguments fall back to the derived name
	traits, err = Traits("o.trait", []byte("#[trait_deref(a::b)] trait Card {}"))
	require.NoError(t, err)
	require.Equal(t, "", traits[0].Decl.MacroOverride)
}

func TestTraitsMultiple(t *testing.T) {
	src := `
trait Plain { fn id(&self) -> i32; }

#[trait_deref]
trait Marked {}
`
	traits, err := Traits("multi.trait", []byte(src))
	require.NoError(t, err)
	require.Len(t, traits, 2)
	require.False(t, traits[0].Deref)
	require.True(t, traits[1].Deref)
}
