package eval

import (
	"vcffilter/internal/record"
	"vcffilter/internal/token"
	"vcffilter/internal/value"

	"testing"
)

type fakeRecord struct {
	qual      float64
	hasQual   bool
	typeBits  int
	filters   []int
	info      map[int]record.TypedValue
	format    map[int]record.TypedValue
	nsamples  int
	unpacked  record.UnpackMask
}

func (r *fakeRecord) Qual() (float64, bool)         { return r.qual, r.hasQual }
func (r *fakeRecord) VariantTypeBits() int          { return r.typeBits }
func (r *fakeRecord) AppliedFilters() []int         { return r.filters }
func (r *fakeRecord) NSamples() int                 { return r.nsamples }
func (r *fakeRecord) Unpack(mask record.UnpackMask)  { r.unpacked |= mask }

func (r *fakeRecord) InfoValue(id int) (record.TypedValue, bool) {
	tv, ok := r.info[id]
	return tv, ok
}

func (r *fakeRecord) FormatValue(id int) (record.TypedValue, bool) {
	tv, ok := r.format[id]
	return tv, ok
}

func (r *fakeRecord) FormatIndexed(id, index int) (record.TypedValue, bool) {
	tv, ok := r.format[id]
	return tv, ok
}

func intInfoSetter(id int) token.Setter {
	return func(rec record.Record, slot *value.Slot) error {
		tv, ok := rec.InfoValue(id)
		if !ok || tv.Len() == 0 {
			slot.NValues = 0
			return nil
		}
		slot.SetScalar(float64(tv.Ints[0]))
		return nil
	}
}

func numberNode(v float64) token.Node {
	return token.Node{Kind: token.Value, VKind: token.NumberLiteral, NumberLit: v}
}

func TestProgramEvaluateComparison(t *testing.T) {
	nodes := []token.Node{
		{Kind: token.Value, VKind: token.TagReference, HeaderID: 0, Setter: intInfoSetter(0)},
		numberNode(10),
		{Kind: token.Gt},
	}
	prog := NewProgram(nodes, record.UnpackInfo, 0)
	defer prog.Destroy()

	rec := &fakeRecord{info: map[int]record.TypedValue{0: {Ints: []int64{15}, VectorEnd: -1}}}
	pass, _, err := prog.Evaluate(rec)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !pass {
		t.Error("DP=15 > 10 should pass")
	}

	rec2 := &fakeRecord{info: map[int]record.TypedValue{0: {Ints: []int64{5}, VectorEnd: -1}}}
	pass2, _, err := prog.Evaluate(rec2)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if pass2 {
		t.Error("DP=5 > 10 should fail")
	}
}

func TestProgramEvaluateSampleFallback(t *testing.T) {
	nodes := []token.Node{
		{Kind: token.Value, VKind: token.TagReference, HeaderID: 0, Setter: intInfoSetter(0)},
		numberNode(10),
		{Kind: token.Gt},
	}
	prog := NewProgram(nodes, record.UnpackInfo, 3)
	defer prog.Destroy()

	rec := &fakeRecord{info: map[int]record.TypedValue{0: {Ints: []int64{15}, VectorEnd: -1}}, nsamples: 3}
	pass, samples, err := prog.Evaluate(rec)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !pass {
		t.Fatal("expected site pass")
	}
	if len(samples) != 3 || !samples[0] || !samples[1] || !samples[2] {
		t.Errorf("samples = %v, want all true (site verdict fanned out)", samples)
	}
}

func TestProgramEvaluateFilterEquality(t *testing.T) {
	filterNode := token.Node{Kind: token.Value, VKind: token.SpecialTag, Special: token.Filter}
	idNode := numberNode(3)
	nodes := []token.Node{filterNode, idNode, {Kind: token.Eq}}
	prog := NewProgram(nodes, record.UnpackFilter, 0)
	defer prog.Destroy()

	rec := &fakeRecord{filters: []int{3}}
	pass, _, err := prog.Evaluate(rec)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !pass {
		t.Errorf("expected %%FILTER==id to pass when id is among applied filters")
	}

	rec2 := &fakeRecord{filters: []int{9}}
	pass2, _, err := prog.Evaluate(rec2)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if pass2 {
		t.Errorf("expected %%FILTER==id to fail when id is not applied")
	}
}

func TestProgramEvaluateFilterPassDot(t *testing.T) {
	filterNode := token.Node{Kind: token.Value, VKind: token.SpecialTag, Special: token.Filter}
	idNode := numberNode(-1) // "." sentinel
	nodes := []token.Node{filterNode, idNode, {Kind: token.Eq}}
	prog := NewProgram(nodes, record.UnpackFilter, 0)
	defer prog.Destroy()

	rec := &fakeRecord{filters: nil}
	pass, _, err := prog.Evaluate(rec)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !pass {
		t.Errorf(`expected %%FILTER=="." to pass on a record with no applied filters`)
	}
}

func TestProgramEvaluateFilterRejectsOrdering(t *testing.T) {
	filterNode := token.Node{Kind: token.Value, VKind: token.SpecialTag, Special: token.Filter}
	idNode := numberNode(3)
	nodes := []token.Node{filterNode, idNode, {Kind: token.Gt}}
	prog := NewProgram(nodes, record.UnpackFilter, 0)
	defer prog.Destroy()

	rec := &fakeRecord{filters: []int{3}}
	if _, _, err := prog.Evaluate(rec); err == nil {
		t.Fatalf("expected an error: %%FILTER only supports == and !=")
	}
}

func TestProgramEvaluateArityError(t *testing.T) {
	nodes := []token.Node{{Kind: token.Gt}} // operator with no operands
	prog := NewProgram(nodes, 0, 0)
	defer prog.Destroy()

	if _, _, err := prog.Evaluate(&fakeRecord{}); err == nil {
		t.Fatal("expected arity error for underflowed stack")
	}
}
