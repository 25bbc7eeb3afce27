package token

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLex(ttt *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    string
		wantErr bool
	}{
		{
			name: "signature",
			src:  "fn get_item(&self) -> Self::Item;",
			want: "fn get_item(&self) -> Self::Item;",
		},
		{
			name: "wide operators survive spacing",
			src:  "x => y :: z -> w",
			want: "x => y::z -> w",
		},
		{
			name: "comments are dropped",
			src:  "// heading\nconst A: i32 = 1; /* trailing */",
			want: "const A: i32 = 1;",
		},
		{
			name: "nested groups",
			src:  "impl_card! { @[base: T] }",
			want: "impl_card! { @[base: T] }",
		},
		{
			name: "string and char literals",
			src:  `fn name() -> &str { "Base" }`,
			want: `fn name() -> &str { "Base" }`,
		},
		{
			name: "generic bounds",
			src:  "impl<T: MyTrait<Item = i32>> MyTrait for Ext<T>",
			want: "impl<T: MyTrait<Item = i32>> MyTrait for Ext<T>",
		},
		{
			name: "comparison keeps spacing",
			src:  "const POSITIVE: bool = 1>0;",
			want: "const POSITIVE: bool = 1 > 0;",
		},
		{
			name: "shift keeps spacing",
			src:  "const FLAG: u32 = 1 << 3;",
			want: "const FLAG: u32 = 1 << 3;",
		},
		{
			name: "closure parameter pipes",
			src:  "this , | x | & get ( x ) . item",
			want: "this, |x| &get(x).item",
		},
		{
			name:    "unbalanced open",
			src:     "fn f( {",
			wantErr: true,
		},
		{
			name:    "stray closer",
			src:     "a )",
			wantErr: true,
		},
		{
			name:    "mismatched delimiters",
			src:     "( ]",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			stream, err := Lex("test.trait", []byte(tt.src))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			got := stream.String()
			require.EqualValuesf(t, tt.want, got, "diff = %s", cmp.Diff(tt.want, got))
		})
	}
}

func TestLexSpans(t *testing.T) {
	src := "fn a;\nfn b;"
	stream, err := Lex("spans.trait", []byte(src))
	require.NoError(t, err)
	require.Len(t, stream, 6)

	b := stream[4]
	require.Equal(t, Ident, b.Kind)
	require.Equal(t, "b", b.Text)
	require.Equal(t, "spans.trait", b.Span.File)
	require.Equal(t, 2, b.Span.Line)
	require.Equal(t, 4, b.Span.Col)
	require.Equal(t, 9, b.Span.Off)
}

func TestLexGroupOffsets(t *testing.T) {
	src := "a { b }"
	stream, err := Lex("g.trait", []byte(src))
	require.NoError(t, err)
	require.Len(t, stream, 2)

	g := stream[1]
	require.Equal(t, Group, g.Kind)
	require.Equal(t, byte('{'), g.Delim)
	require.Equal(t, 2, g.Span.Off)
	require.Equal(t, len(src), g.End)
	require.Len(t, g.Body, 1)
	require.Equal(t, "b", g.Body[0].Text)
}

func TestLexRoundTrip(t *testing.T) {
	// printed output must re-lex to the same stream
	srcs := []string{
		"#[rc]\nfn get_by_rc<RC>(this: RC, get: impl Fn(&RC) -> &Self) -> Self::Item;",
		"const B: i32 = 3;",
		"const FLAG: u32 = (1 << 3) > 0;",
		"use $crate::util::pricing;",
		"macro_rules! impl_card { ($($tt:tt)*) => { x } }",
	}
	for _, src := range srcs {
		first, err := Lex("rt.trait", []byte(src))
		require.NoError(t, err)
		second, err := Lex("rt.trait", []byte(first.String()))
		require.NoError(t, err)
		require.Equal(t, first.String(), second.String(), "source %q", src)
	}
}
