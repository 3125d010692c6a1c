package cdata

import (
	"fmt"
	"strings"
)

// maxLineSize is the rendered width above which an array level breaks onto
// one entry per line.
const maxLineSize = 80

const indentUnit = "    "

// Var is one exported C variable: a name, a base typedef, and a literal tree.
type Var struct {
	Name  string
	Type  string // base C typedef; a Struct node's typedef overrides it
	Hex   bool   // render Int elements as hexadecimal
	Value Value
}

// Decl renders the full definition: `<type> <name>[dims] = <literal>;`.
func (v *Var) Decl() string {
	return fmt.Sprintf("%s = %s;", v.declarator(), v.render(v.Value, 0))
}

// ExternDecl renders the matching header line: `extern <type> <name>[dims];`.
func (v *Var) ExternDecl() string {
	return "extern " + v.declarator() + ";"
}

// declarator builds `<type> <name>[d0][d1]...`. Array dimensions stop at a
// struct level; a struct's typedef replaces the base type.
func (v *Var) declarator() string {
	typedef := v.Type

	var dims strings.Builder
	node := v.Value
walk:
	for {
		switch n := node.(type) {
		case List:
			fmt.Fprintf(&dims, "[%d]", len(n))
			if len(n) == 0 {
				break walk
			}
			node = n[0]
		case Struct:
			if n.Typedef != "" {
				typedef = n.Typedef
			}
			break walk
		default:
			break walk
		}
	}

	return typedef + " " + v.Name + dims.String()
}

// render formats a node. Composite levels join on one line while they fit,
// otherwise one entry per line at the next indent depth.
func (v *Var) render(node Value, depth int) string {
	switch n := node.(type) {
	case Float:
		return formatFloat(float64(n))
	case Int:
		return formatInt(int64(n), v.Hex)
	case RotAngle:
		return formatInt(int64(n), true)
	case Literal:
		return string(n)
	case List:
		return v.renderComposite(n, depth)
	case Struct:
		return v.renderComposite(n.Fields, depth)
	default:
		return ""
	}
}

func (v *Var) renderComposite(items []Value, depth int) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = v.render(it, depth+1)
	}

	oneLine := "{ " + strings.Join(parts, ", ") + " }"
	if len(oneLine) <= maxLineSize && !strings.Contains(oneLine, "\n") {
		return oneLine
	}

	inner := strings.Repeat(indentUnit, depth+1)
	outer := strings.Repeat(indentUnit, depth)
	var b strings.Builder
	b.WriteString("{\n")
	for _, p := range parts {
		b.WriteString(inner)
		b.WriteString(p)
		b.WriteString(",\n")
	}
	b.WriteString(outer)
	b.WriteString("}")
	return b.String()
}
