package parse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/delegen/delegen/internal/model"
)

const invokeSrc = `
struct Ext<T: MyTrait> {
    item: T,
    int: i32,
}

inherit_my_trait! {
    @[item: T]
    impl<T: MyTrait> MyTrait for Ext<T> {
        const B: i32 = 3;

        fn get_item(&self) -> Self::Item {
            self.int
        }
    }
}
`

func TestInvocations(t *testing.T) {
	invs, err := Invocations("ext.trait", []byte(invokeSrc))
	require.NoError(t, err)
	require.Len(t, invs, 1)

	inv := invs[0]
	require.Equal(t, "inherit_my_trait", inv.Macro)
	require.Equal(t, "item", inv.Spec.Field)
	require.Equal(t, "T", inv.Spec.Inner.String())

	// the recorded byte range covers the whole invocation
	require.Equal(t, "inherit_my_trait", invokeSrc[inv.StartOff:inv.StartOff+len("inherit_my_trait")])
	require.Equal(t, byte('}'), invokeSrc[inv.EndOff-1])

	blk := inv.Impl
	require.Equal(t, "MyTrait", blk.TraitName)
	require.Equal(t, "<T: MyTrait>", blk.Generics.String())
	require.Equal(t, "Ext<T>", blk.Target.String())
	require.Len(t, blk.Items, 2)
	require.True(t, blk.Has(model.KindConst, "B"))
	require.True(t, blk.Has(model.KindFn, "get_item"))
	require.False(t, blk.Has(model.KindType, "Item"))
	require.Equal(t, "const B: i32 = 3;", blk.Items[0].Tokens.String())
	require.Equal(t, "fn get_item(&self) -> Self::Item { self.int }", blk.Items[1].Tokens.String())
}

func TestInvocationsOperatorConstValues(t *testing.T) {
	src := "m! { @[item: T] impl MyTrait for X { const FLAG: u32 = 1 << 3; const POSITIVE: bool = 1 > 0; } }"
	invs, err := Invocations("ops.trait", []byte(src))
	require.NoError(t, err)
	require.Len(t, invs, 1)
	blk := invs[0].Impl
	require.Len(t, blk.Items, 2)
	require.Equal(t, "const FLAG: u32 = 1 << 3;", blk.Items[0].Tokens.String())
	require.Equal(t, "const POSITIVE: bool = 1 > 0;", blk.Items[1].Tokens.String())
}

func TestInvocationsSkipsOrdinaryCode(t *testing.T) {
	src := `
struct A;
fn helper() -> i32 { 0 }
vec![1, 2, 3];
`
	invs, err := Invocations("plain.trait", []byte(src))
	require.NoError(t, err)
	require.Empty(t, invs)
}

func TestInvocationsErrors(ttt *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "missing delegation header",
			src:  "m! { impl MyTrait for X {} }",
			want: "expected @[field: Type] delegation header",
		},
		{
			name: "header without type",
			src:  "m! { @[item] impl MyTrait for X {} }",
			want: `expected ":"`,
		},
		{
			name: "trailing tokens",
			src:  "m! { @[item: T] impl MyTrait for X {} stray }",
			want: "unexpected tokens after impl block",
		},
		{
			name: "impl without target",
			src:  "m! { @[item: T] impl MyTrait {} }",
			want: "for",
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			_, err := Invocations("bad.trait", []byte(tt.src))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}
