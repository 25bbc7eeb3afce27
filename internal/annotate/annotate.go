// Package annotate implements the trait annotation stage: given a trait
// carrying the #[trait_deref] attribute it produces the cleaned public
// trait and the generated delegation macro that captures the trait's
// item list for the expansion stage.
package annotate

import (
	"fmt"
	"strings"

	"github.com/delegen/delegen/internal/model"
	"github.com/delegen/delegen/internal/parse"
	"github.com/delegen/delegen/internal/rewrite"
	"github.com/delegen/delegen/internal/token"
)

// Result pairs the two artifacts of one trait annotation.
type Result struct {
	// Trait is the cleaned declaration: internal markers and import
	// annotations stripped, default bodies kept.
	Trait *model.TraitDecl
	// Macro is the capture document: the trait with defaults erased and
	// self-crate paths rewritten, plus the captured import table.
	Macro *model.MacroDef
}

// Annotate builds the artifacts for one annotated trait. cratePath is
// the scope-stable path of the defining unit, substituted for $crate at
// expansion time.
func Annotate(pt parse.ParsedTrait, cratePath token.Stream) *Result {
	decl := pt.Decl

	captured := rewrite.DecratifyTrait(*decl)
	eraseDefaults(&captured)

	def := &model.MacroDef{
		Name:      MacroName(decl),
		Exported:  decl.Public,
		CratePath: cratePath,
		Imports:   captured.Imports,
		Trait:     captured,
	}
	return &Result{Trait: decl, Macro: def}
}

// MacroName returns the override name when the attribute supplied a
// valid identifier, and impl_<snake case of the trait name> otherwise.
func MacroName(decl *model.TraitDecl) string {
	if decl.MacroOverride != "" {
		return decl.MacroOverride
	}
	return "impl_" + snakeCase(decl.Name)
}

// eraseDefaults drops default values and bodies from every item, so the
// trait's own defaults can never satisfy the synthesizer's presence
// check in place of the delegate's implementation.
func eraseDefaults(decl *model.TraitDecl) {
	for i := range decl.Items {
		decl.Items[i].Default = nil
		decl.Items[i].HasDefault = false
	}
}

// RenderTrait writes the cleaned public trait as source text.
func RenderTrait(decl *model.TraitDecl) string {
	return decl.Render(true, false)
}

// RenderMacro writes the capture document. The macro body forwards its
// whole input, together with the embedded trait, to the delegation
// synthesizer, mirroring the expansion contract of the generated macro.
func RenderMacro(def *model.MacroDef) string {
	var sb strings.Builder
	if def.Exported {
		sb.WriteString("#[macro_export]\n")
	}
	fmt.Fprintf(&sb, "macro_rules! %s {\n", def.Name)
	sb.WriteString("    ($($tt:tt)*) => {\n")
	sb.WriteString("        ::delegen::impl_trait! {\n")
	fmt.Fprintf(&sb, "            @crate { %s }\n", def.CratePath.String())
	if len(def.Imports) > 0 {
		sb.WriteString("            @imports {\n")
		for _, imp := range def.Imports {
			fmt.Fprintf(&sb, "                use %s;\n", imp.Path.String())
		}
		sb.WriteString("            }\n")
	}
	sb.WriteString("            {\n")
	writeIndented(&sb, def.Trait.Render(false, true), "                ")
	sb.WriteString("            }\n")
	sb.WriteString("            { $($tt)* }\n")
	sb.WriteString("        }\n")
	sb.WriteString("    }\n")
	sb.WriteString("}\n")
	return sb.String()
}

func writeIndented(sb *strings.Builder, text, indent string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

// snakeCase lowers a CamelCase identifier, inserting underscores at word
// boundaries. Acronym runs stay one word: HTTPServer -> http_server.
func snakeCase(s string) string {
	var sb strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if isUpper(r) {
			prevLower := i > 0 && !isUpper(runes[i-1]) && runes[i-1] != '_'
			nextLower := i+1 < len(runes) && !isUpper(runes[i+1]) && runes[i+1] != '_'
			if i > 0 && (prevLower || (isUpper(runes[i-1]) && nextLower)) {
				sb.WriteByte('_')
			}
			sb.WriteRune(r - 'A' + 'a')
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
