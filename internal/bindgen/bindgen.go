// Package bindgen renders Go binding stubs for annotated traits: one
// interface per trait mirroring its instance functions, plus a
// collection alias. The stubs let Go host code implement traits without
// hand-maintaining the method surface.
package bindgen

import (
	"github.com/dave/jennifer/jen"
	"github.com/jinzhu/inflection"

	"github.com/delegen/delegen/internal/model"
	"github.com/delegen/delegen/internal/token"
)

// File builds a generated Go file containing bindings for every trait.
func File(pkgName string, traits []*model.TraitDecl) *jen.File {
	f := jen.NewFile(pkgName)
	f.HeaderComment("Code generated by delegen. DO NOT EDIT.")
	for _, decl := range traits {
		writeTrait(f, decl)
	}
	return f
}

func writeTrait(f *jen.File, decl *model.TraitDecl) {
	var methods []jen.Code
	for i := range decl.Items {
		it := &decl.Items[i]
		if it.Kind != model.KindFn || it.Rc {
			continue
		}
		switch it.Sig.Receiver {
		case model.RecvByValue, model.RecvByRef, model.RecvByMutRef:
		default:
			continue
		}
		if len(it.Sig.Generics) > 0 {
			// generic functions have no direct Go interface shape
			continue
		}
		methods = append(methods, method(it.Sig))
	}
	if len(methods) == 0 {
		return
	}

	f.Commentf("%s mirrors the instance surface of trait %s.", decl.Name, decl.Name)
	f.Type().Id(decl.Name).Interface(methods...)
	f.Line()

	plural := inflection.Plural(decl.Name)
	if plural == decl.Name {
		plural = decl.Name + "Set"
	}
	f.Commentf("%s is a collection of %s implementations.", plural, decl.Name)
	f.Type().Id(plural).Index().Id(decl.Name)
	f.Line()
}

func method(sig *model.Signature) jen.Code {
	m := jen.Id(exportedName(sig.Name))
	params := make([]jen.Code, 0, len(sig.Params))
	for _, p := range sig.Params {
		params = append(params, jen.Id(p.Name).Add(goType(p.Type)))
	}
	m.Params(params...)
	if len(sig.Ret) > 0 {
		m.Add(goType(sig.Ret))
	}
	return m
}

// goType maps a DSL type to its closest Go spelling; anything without a
// direct counterpart maps to any.
func goType(t token.Stream) *jen.Statement {
	// strip leading references, Go bindings pass values
	for len(t) > 0 && (t[0].IsPunct("&") || t[0].IsIdent("mut")) {
		t = t[1:]
	}
	if len(t) != 1 || t[0].Kind != token.Ident {
		return jen.Any()
	}
	switch t[0].Text {
	case "i8":
		return jen.Int8()
	case "i16":
		return jen.Int16()
	case "i32":
		return jen.Int32()
	case "i64":
		return jen.Int64()
	case "isize":
		return jen.Int()
	case "u8":
		return jen.Uint8()
	case "u16":
		return jen.Uint16()
	case "u32":
		return jen.Uint32()
	case "u64":
		return jen.Uint64()
	case "usize":
		return jen.Uint()
	case "f32":
		return jen.Float32()
	case "f64":
		return jen.Float64()
	case "bool":
		return jen.Bool()
	case "str", "String":
		return jen.String()
	default:
		return jen.Any()
	}
}

// exportedName converts a snake_case fn name to an exported Go name.
func exportedName(s string) string {
	out := make([]byte, 0, len(s))
	upper := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c = c - 'a' + 'A'
		}
		upper = false
		out = append(out, c)
	}
	return string(out)
}
