package token

import "strings"

// Spacing is heuristic: the printed form is not meant to reproduce the
// author's layout, only to re-lex to the same stream. Angle brackets are
// rendered tight only in generic position; as comparison or shift
// operators they keep their spacing.
var noSpaceBefore = map[string]bool{
	",": true, ";": true, ":": true, "::": true,
	"!": true, "?": true, ".": true,
}

var noSpaceAfter = map[string]bool{
	"::": true, "$": true, "#": true, "&": true,
	".": true, "@": true,
}

// String renders the stream as source text.
func (s Stream) String() string {
	var sb strings.Builder
	s.write(&sb)
	return sb.String()
}

// genericOpen reports whether a `<` following t opens a generic argument
// list rather than acting as a comparison or shift operator.
func genericOpen(t Token) bool {
	return t.Kind == Ident || t.IsPunct("::")
}

func (s Stream) write(sb *strings.Builder) {
	pipeOpen := false
	angle := 0
	for i, t := range s {
		sep := i > 0
		if sep {
			prev := s[i-1]
			switch {
			case t.Kind == Punct && noSpaceBefore[t.Text]:
				sep = false
			case t.IsPunct("<") && (genericOpen(prev) || prev.IsPunct("<")):
				sep = false
			case t.IsPunct(">") && (angle > 0 || prev.IsPunct(">")):
				sep = false
			case prev.Kind == Punct && noSpaceAfter[prev.Text]:
				sep = false
			case prev.IsPunct("<") && angle > 0:
				sep = false
			case t.Kind == Punct && t.Text == "|" && pipeOpen:
				// closing delimiter of a closure parameter list
				sep = false
			case prev.Kind == Punct && prev.Text == "|" && pipeOpen:
				sep = false
			case t.Kind == Group && t.Delim != '{':
				// call or index group binds tightly to what precedes it
				if prev.Kind == Ident || prev.Kind == Group ||
					(prev.Kind == Punct && (prev.Text == ">" || prev.Text == "!" || prev.Text == "?")) {
					sep = false
				}
			}
		}
		switch {
		case t.IsPunct("<"):
			if i == 0 || genericOpen(s[i-1]) {
				angle++
			}
		case t.IsPunct(">"):
			if angle > 0 {
				angle--
			}
		case t.Kind == Punct && t.Text == "|":
			pipeOpen = !pipeOpen
		}
		if sep {
			sb.WriteByte(' ')
		}
		if t.Kind == Group {
			t.writeGroup(sb)
			continue
		}
		sb.WriteString(t.Text)
	}
}

func (t Token) writeGroup(sb *strings.Builder) {
	open := t.Delim
	closer := closeDelim(open)
	sb.WriteByte(open)
	if open == '{' && len(t.Body) > 0 {
		sb.WriteByte(' ')
		t.Body.write(sb)
		sb.WriteByte(' ')
	} else {
		t.Body.write(sb)
	}
	sb.WriteByte(closer)
}
