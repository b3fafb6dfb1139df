// Package fmtexpr pretty-prints a compiled RPN program back into a
// normalized infix string, grounded on the teacher's own
// strings.Builder-based formatter (internal/formatter/formatter.go),
// adapted from statement-tree printing to expression-tree printing.
package fmtexpr

import (
	"fmt"
	"strconv"
	"strings"

	"vcffilter/internal/token"
)

var opText = map[token.Kind]string{
	token.Le: "<=", token.Lt: "<", token.Eq: "==", token.Gt: ">", token.Ge: ">=", token.Ne: "!=",
	token.Or: "|", token.And: "&", token.OrVec: "||", token.AndVec: "&&",
	token.Add: "+", token.Sub: "-", token.Mul: "*", token.Div: "/",
}

// Format renders a compiled RPN node array back to infix text. It is a
// pure presentation helper: the renderer does not attempt to recover the
// original parenthesisation, only a normalized, always-parenthesized one
// sufficient to confirm the program's shape round-trips.
func Format(nodes []token.Node) string {
	var stack []string
	for _, n := range nodes {
		switch n.Kind {
		case token.Value:
			stack = append(stack, formatValue(n))
		case token.Func:
			if len(stack) < 1 {
				stack = append(stack, "<error>")
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack = append(stack, fmt.Sprintf("%s(%s)", n.ReduceName, top))
		default:
			if len(stack) < 2 {
				stack = append(stack, "<error>")
				continue
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, fmt.Sprintf("(%s %s %s)", a, opText[n.Kind], b))
		}
	}
	if len(stack) == 0 {
		return ""
	}
	return stack[len(stack)-1]
}

func formatValue(n token.Node) string {
	switch n.VKind {
	case token.NumberLiteral:
		return strconv.FormatFloat(n.NumberLit, 'g', -1, 64)
	case token.StringLiteral:
		return strconv.Quote(n.StringLit)
	case token.SpecialTag:
		switch n.Special {
		case token.Qual:
			return "%QUAL"
		case token.Type:
			return "%TYPE"
		case token.Filter:
			return "%FILTER"
		}
		return "%?"
	default:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("TAG#%d", n.HeaderID))
		if n.Index > 0 {
			sb.WriteString(fmt.Sprintf("[%d]", n.Index))
		}
		return sb.String()
	}
}

