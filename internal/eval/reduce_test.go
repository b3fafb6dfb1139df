package eval

import (
	"math"
	"testing"
)

func TestReduceMax(t *testing.T) {
	in := vectorSlot([]float64{3, 1, math.NaN(), 7})
	out := emptySlot()
	ReduceMax(in, out)
	if out.Empty() || out.Values[0] != 7 {
		t.Errorf("ReduceMax = %v, want 7", out.Values)
	}
}

func TestReduceMin(t *testing.T) {
	in := vectorSlot([]float64{3, 1, math.NaN(), 7})
	out := emptySlot()
	ReduceMin(in, out)
	if out.Empty() || out.Values[0] != 1 {
		t.Errorf("ReduceMin = %v, want 1", out.Values)
	}
}

func TestReduceMaxAllMissingIsEmpty(t *testing.T) {
	in := vectorSlot([]float64{math.NaN(), math.NaN()})
	out := emptySlot()
	ReduceMax(in, out)
	if !out.Empty() {
		t.Error("expected all-missing ReduceMax to be empty")
	}
}

func TestReduceAvg(t *testing.T) {
	in := vectorSlot([]float64{2, 4, 6})
	out := emptySlot()
	ReduceAvg(in, out)
	if out.Empty() || out.Values[0] != 4 {
		t.Errorf("ReduceAvg = %v, want 4", out.Values)
	}
}

func TestReduceAvgSkipsMissing(t *testing.T) {
	in := vectorSlot([]float64{2, math.NaN(), 6})
	out := emptySlot()
	ReduceAvg(in, out)
	if out.Empty() || out.Values[0] != 4 {
		t.Errorf("ReduceAvg = %v, want 4 (missing excluded)", out.Values)
	}
}

func TestReduceAvgAllMissingDefaultsZero(t *testing.T) {
	in := vectorSlot([]float64{math.NaN(), math.NaN()})
	out := emptySlot()
	ReduceAvg(in, out)
	if out.Empty() {
		t.Fatal("expected ReduceAvg to return a scalar 0, not empty")
	}
	if out.Values[0] != 0 {
		t.Errorf("ReduceAvg = %v, want 0", out.Values[0])
	}
}
