// Package eval is the stack machine that walks a compiled RPN program
// once per record: it extracts tag values through bound setters, applies
// arithmetic/comparison/logical operators with scalar-vector broadcasting,
// and leaves a single site verdict plus per-sample bitmap on the stack.
package eval

import (
	"vcffilter/internal/errors"
	"vcffilter/internal/record"
	"vcffilter/internal/token"
	"vcffilter/internal/value"
)

// Program is a compiled, read-only RPN array plus the per-node scratch
// arena an evaluation walks. It is not safe for concurrent evaluation:
// slots are mutated in place across calls to Evaluate.
type Program struct {
	nodes    []token.Node
	slots    []*value.Slot
	unpack   record.UnpackMask
	nsamples int
}

// NewProgram wraps a compiled node array for repeated evaluation against
// records carrying nsamples samples.
func NewProgram(nodes []token.Node, unpack record.UnpackMask, nsamples int) *Program {
	slots := make([]*value.Slot, len(nodes))
	for i := range slots {
		slots[i] = value.NewSlot(nsamples)
	}
	return &Program{nodes: nodes, slots: slots, unpack: unpack, nsamples: nsamples}
}

// Destroy releases the program's scratch buffers.
func (p *Program) Destroy() {
	p.slots = nil
	p.nodes = nil
}

type frame struct {
	slot *value.Slot
	node *token.Node
}

// Evaluate runs the program against rec once, returning the site verdict
// and a per-sample bitmap. When the final result never touched a
// per-sample vector, the bitmap is the site verdict fanned out to every
// sample, matching the source's stack-top fallback contract.
func (p *Program) Evaluate(rec record.Record) (bool, []bool, error) {
	rec.Unpack(p.unpack)

	stack := make([]frame, 0, len(p.nodes))

	for i := range p.nodes {
		n := &p.nodes[i]
		slot := p.slots[i]

		switch n.Kind {
		case token.Value:
			slot.Reset()
			switch n.VKind {
			case token.NumberLiteral:
				slot.SetScalar(n.NumberLit)
			case token.StringLiteral:
				b := []byte(n.StringLit)
				slot.SetString(b, len(b))
			case token.TagReference:
				if err := n.Setter(rec, slot); err != nil {
					return false, nil, err
				}
			case token.SpecialTag:
				if n.Setter != nil {
					if err := n.Setter(rec, slot); err != nil {
						return false, nil, err
					}
				}
			}
			stack = append(stack, frame{slot: slot, node: n})

		case token.Func:
			if len(stack) < 1 {
				return false, nil, errors.NewArityError("reduction applied to an empty stack")
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			slot.Reset()
			n.Reduce(top.slot, slot)
			stack = append(stack, frame{slot: slot, node: n})

		default:
			if len(stack) < 2 {
				return false, nil, errors.NewArityError("operator applied to fewer than two operands")
			}
			fb := stack[len(stack)-1]
			fa := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			if err := p.applyBinary(n.Kind, fa, fb, rec); err != nil {
				return false, nil, err
			}
			stack = append(stack, frame{slot: fa.slot, node: n})
		}
	}

	if len(stack) != 1 {
		return false, nil, errors.NewArityError("program did not leave exactly one value on the stack")
	}

	result := stack[0].slot
	sitePass := result.PassSite == value.Pass

	samples := make([]bool, p.nsamples)
	if result.SampleCount > 0 {
		copy(samples, result.PassSamples[:p.nsamples])
	} else {
		for i := range samples {
			samples[i] = sitePass
		}
	}
	return sitePass, samples, nil
}

func (p *Program) applyBinary(kind token.Kind, fa, fb frame, rec record.Record) error {
	a, b := fa.slot, fb.slot

	switch kind {
	case token.Add:
		return p.arith(a, b, opAdd)
	case token.Sub:
		return p.arith(a, b, opSub)
	case token.Mul:
		return p.arith(a, b, opMul)
	case token.Div:
		return p.arith(a, b, opDiv)

	case token.Eq, token.Ne:
		if filterFrame, otherFrame, ok := pickFilterFrame(fa, fb); ok {
			negate := kind == token.Ne
			id := int(otherFrame.slot.Values[0])
			result := filterComparator(rec.AppliedFilters(), id, negate)
			filterFrame.slot.Reset()
			setSite(a, result)
			a.SampleCount = 0
			return nil
		}
		return p.compare(a, b, kind)

	case token.Lt, token.Le, token.Gt, token.Ge:
		if fa.node.Special == token.Filter || fb.node.Special == token.Filter {
			return typeError("%FILTER only supports == and !=")
		}
		return p.compare(a, b, kind)

	case token.And:
		combineLogical(a, b, p.nsamples, false)
		return nil
	case token.Or:
		combineLogical(a, b, p.nsamples, true)
		return nil
	case token.AndVec:
		combineLogical(a, b, p.nsamples, false)
		return nil
	case token.OrVec:
		combineLogical(a, b, p.nsamples, true)
		return nil
	}
	return errors.NewArityError("unrecognised operator in compiled program")
}

func (p *Program) arith(a, b *value.Slot, op func(x, y float64) float64) error {
	if a.IsString || b.IsString {
		return typeError("arithmetic operator applied to a string operand")
	}
	broadcastArith(a, b, p.nsamples, op)
	return nil
}

func (p *Program) compare(a, b *value.Slot, kind token.Kind) error {
	if a.IsString || b.IsString {
		if kind != token.Eq && kind != token.Ne {
			return typeError("only == and != are valid between string operands")
		}
		return compareString(a, b, p.nsamples, kind == token.Ne)
	}
	switch kind {
	case token.Lt:
		compareNumeric(a, b, p.nsamples, cmpLt)
	case token.Le:
		compareNumeric(a, b, p.nsamples, cmpLe)
	case token.Gt:
		compareNumeric(a, b, p.nsamples, cmpGt)
	case token.Ge:
		compareNumeric(a, b, p.nsamples, cmpGe)
	case token.Eq:
		compareNumeric(a, b, p.nsamples, cmpEq)
	case token.Ne:
		compareNumeric(a, b, p.nsamples, cmpNe)
	}
	return nil
}

func pickFilterFrame(fa, fb frame) (filterFrame, otherFrame frame, ok bool) {
	if fa.node.Special == token.Filter {
		return fa, fb, true
	}
	if fb.node.Special == token.Filter {
		return fb, fa, true
	}
	return frame{}, frame{}, false
}

// filterComparator implements %FILTER's AND-complemented semantics: "=="
// tests whether id is among the applied filters (absent filters and id ==
// -1, the "." literal, counts as a match); "!=" tests the complement.
func filterComparator(applied []int, id int, negate bool) bool {
	anyEq := false
	for _, f := range applied {
		if f == id {
			anyEq = true
			break
		}
	}
	if len(applied) == 0 {
		if negate {
			return id != -1
		}
		return id == -1
	}
	if negate {
		return !anyEq
	}
	return anyEq
}

func typeError(msg string) error {
	return errors.NewTypeError(msg)
}
