// Package parser translates the lexer's infix token stream into a
// postfix (RPN) program using the Shunting-Yard algorithm, then runs a
// post-pass that resolves %TYPE/%FILTER string operands into symbolic
// codes and lowers %MAX/%MIN/%AVG into a generic reduction token.
package parser

import (
	"vcffilter/internal/bind"
	"vcffilter/internal/errors"
	"vcffilter/internal/eval"
	"vcffilter/internal/lexer"
	"vcffilter/internal/record"
	"vcffilter/internal/schema"
	"vcffilter/internal/token"
)

type opEntry struct {
	kind   token.Kind
	offset int
}

type parser struct {
	lex           *lexer.Lexer
	sch           schema.Schema
	expr          string
	out           []token.Node
	ops           []opEntry
	unpack        record.UnpackMask
	functionDepth int
}

// Parse compiles expr against sch into an RPN program and the union of
// record sections it needs unpacked.
func Parse(sch schema.Schema, expr string) ([]token.Node, record.UnpackMask, error) {
	p := &parser{sch: sch, expr: expr, lex: lexer.New(expr)}
	if err := p.run(); err != nil {
		return nil, 0, err
	}
	if err := p.resolveSpecials(); err != nil {
		return nil, 0, err
	}
	p.lowerFuncs()
	return p.out, p.unpack, nil
}

func (p *parser) run() error {
	lastKind := token.EOF
	haveToken := false

	for {
		lt, err := p.lex.Next()
		if err != nil {
			return err
		}
		if lt.Kind == token.EOF {
			break
		}
		haveToken = true

		switch lt.Kind {
		case token.Value:
			node, err := bind.Resolve(p.sch, lt.Text, p.expr, lt.Offset, p.functionDepth > 0, lt.Quoted)
			if err != nil {
				return err
			}
			p.out = append(p.out, *node)
			p.unpack |= node.Unpack
			lastKind = token.Value

		case token.LeftParen:
			p.ops = append(p.ops, opEntry{kind: token.LeftParen, offset: lt.Offset})
			lastKind = token.LeftParen

		case token.RightParen:
			if err := p.closeParen(); err != nil {
				return err
			}
			lastKind = token.RightParen

		default:
			op := lt.Kind
			if op == token.Sub && lastKind != token.Value && lastKind != token.RightParen {
				p.out = append(p.out, token.Node{
					Kind: token.Value, VKind: token.NumberLiteral,
					NumberLit: -1, Offset: lt.Offset,
				})
				op = token.Mul
			}
			for len(p.ops) > 0 {
				top := p.ops[len(p.ops)-1]
				if top.kind == token.LeftParen || token.Precedence[top.kind] <= token.Precedence[op] {
					break
				}
				p.popOneOp()
			}
			p.pushOp(opEntry{kind: op, offset: lt.Offset})
			lastKind = op
		}
	}

	if !haveToken {
		return errors.NewSyntaxError("empty expression", p.expr, 0)
	}

	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1]
		if top.kind == token.LeftParen {
			return errors.NewSyntaxError("unbalanced parenthesis: missing ')'", p.expr, top.offset)
		}
		p.popOneOp()
	}
	return nil
}

func (p *parser) pushOp(e opEntry) {
	p.ops = append(p.ops, e)
	if token.IsReduction(e.kind) {
		p.functionDepth++
	}
}

func (p *parser) popOneOp() {
	e := p.ops[len(p.ops)-1]
	p.ops = p.ops[:len(p.ops)-1]
	if token.IsReduction(e.kind) {
		p.functionDepth--
	}
	p.out = append(p.out, token.Node{Kind: e.kind, Offset: e.offset})
}

func (p *parser) closeParen() error {
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1]
		if top.kind == token.LeftParen {
			p.ops = p.ops[:len(p.ops)-1]
			return nil
		}
		p.popOneOp()
	}
	return errors.NewSyntaxError("unbalanced parenthesis: no matching '('", p.expr, 0)
}

// resolveSpecials rewrites the string operand adjacent to every %TYPE or
// %FILTER node into its symbolic numeric code. In postfix order the
// operand is the node immediately before a %TYPE/%FILTER node's following
// comparison operator, or the node immediately after when %TYPE/%FILTER
// was itself the first operand of the comparison.
func (p *parser) resolveSpecials() error {
	for i := range p.out {
		n := p.out[i]
		if n.VKind != token.SpecialTag || (n.Special != token.Type && n.Special != token.Filter) {
			continue
		}

		operandIdx := i + 1
		if i+1 < len(p.out) && (p.out[i+1].Kind == token.Eq || p.out[i+1].Kind == token.Ne) {
			operandIdx = i - 1
		}
		if operandIdx < 0 || operandIdx >= len(p.out) {
			return errors.NewSyntaxError("%TYPE/%FILTER must be compared against a string literal", p.expr, n.Offset)
		}
		operand := &p.out[operandIdx]
		if operand.VKind != token.StringLiteral {
			return errors.NewSyntaxError("%TYPE/%FILTER must be compared against a string literal", p.expr, operand.Offset)
		}

		switch n.Special {
		case token.Type:
			code, ok := record.TypeCodeFromString(operand.StringLit)
			if !ok {
				return errors.NewSyntaxError("unknown %TYPE value: "+operand.StringLit, p.expr, operand.Offset)
			}
			operand.VKind = token.NumberLiteral
			operand.NumberLit = float64(code)
			operand.StringLit = ""

		case token.Filter:
			id := -1
			if operand.StringLit != "." {
				fid, ok := p.sch.IDOf(operand.StringLit)
				if !ok {
					return errors.NewNameError("unknown filter: "+operand.StringLit, p.expr, operand.Offset)
				}
				id = fid
			}
			operand.VKind = token.NumberLiteral
			operand.NumberLit = float64(id)
			operand.StringLit = ""
		}
	}
	return nil
}

func (p *parser) lowerFuncs() {
	for i := range p.out {
		n := &p.out[i]
		switch n.Kind {
		case token.Max:
			n.Kind = token.Func
			n.Reduce = eval.ReduceMax
			n.ReduceName = "%MAX"
		case token.Min:
			n.Kind = token.Func
			n.Reduce = eval.ReduceMin
			n.ReduceName = "%MIN"
		case token.Avg:
			n.Kind = token.Func
			n.Reduce = eval.ReduceAvg
			n.ReduceName = "%AVG"
		}
	}
}
