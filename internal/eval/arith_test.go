package eval

import (
	"math"
	"testing"

	"vcffilter/internal/value"
)

func scalarSlot(v float64) *value.Slot {
	s := value.NewSlot(4)
	s.SetScalar(v)
	return s
}

func vectorSlot(vs []float64) *value.Slot {
	s := value.NewSlot(len(vs))
	s.SetVector(vs)
	return s
}

func emptySlot() *value.Slot {
	return value.NewSlot(4)
}

func TestBroadcastArithScalarScalar(t *testing.T) {
	a := scalarSlot(3)
	b := scalarSlot(4)
	broadcastArith(a, b, 4, opAdd)
	if a.Empty() || a.Values[0] != 7 {
		t.Fatalf("3+4 = %v, want 7", a.Values)
	}
}

func TestBroadcastArithVectorVector(t *testing.T) {
	a := vectorSlot([]float64{1, 2, 3})
	b := vectorSlot([]float64{10, 20, 30})
	broadcastArith(a, b, 3, opAdd)
	want := []float64{11, 22, 33}
	for i, w := range want {
		if a.Values[i] != w {
			t.Errorf("Values[%d] = %v, want %v", i, a.Values[i], w)
		}
	}
}

func TestBroadcastArithScalarVector(t *testing.T) {
	a := scalarSlot(2)
	b := vectorSlot([]float64{1, 2, 3})
	broadcastArith(a, b, 3, opMul)
	want := []float64{2, 4, 6}
	for i, w := range want {
		if a.Values[i] != w {
			t.Errorf("Values[%d] = %v, want %v", i, a.Values[i], w)
		}
	}
}

func TestBroadcastArithEmptyPropagates(t *testing.T) {
	a := emptySlot()
	b := scalarSlot(4)
	broadcastArith(a, b, 4, opAdd)
	if !a.Empty() {
		t.Error("expected empty operand to propagate to an empty result")
	}
}

func TestBroadcastArithMissingElementPropagates(t *testing.T) {
	a := vectorSlot([]float64{1, math.NaN(), 3})
	b := vectorSlot([]float64{10, 20, 30})
	broadcastArith(a, b, 3, opAdd)
	if !a.ValueMissing(1) {
		t.Error("expected element 1 to remain missing")
	}
	if a.Values[0] != 11 || a.Values[2] != 33 {
		t.Errorf("Values = %v, want [11 NaN 33]", a.Values)
	}
}

func TestBroadcastArithAllMissingCollapsesEmpty(t *testing.T) {
	a := vectorSlot([]float64{math.NaN(), math.NaN()})
	b := vectorSlot([]float64{math.NaN(), math.NaN()})
	broadcastArith(a, b, 2, opAdd)
	if !a.Empty() {
		t.Error("expected all-missing vectors to collapse to empty")
	}
}

func TestOpFuncs(t *testing.T) {
	if opAdd(2, 3) != 5 {
		t.Error("opAdd")
	}
	if opSub(5, 3) != 2 {
		t.Error("opSub")
	}
	if opMul(2, 3) != 6 {
		t.Error("opMul")
	}
	if opDiv(6, 3) != 2 {
		t.Error("opDiv")
	}
}
