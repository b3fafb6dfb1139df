package eval

import (
	"testing"

	"vcffilter/internal/value"
)

func boolSiteSlot(pass bool) *value.Slot {
	s := value.NewSlot(4)
	s.NValues = 1
	setSite(s, pass)
	s.SampleCount = 0
	return s
}

func boolVectorSlot(samples []bool) *value.Slot {
	s := value.NewSlot(len(samples))
	s.NValues = 1
	s.SampleCount = len(samples)
	s.EnsureSamples(len(samples))
	any := false
	for i, p := range samples {
		s.PassSamples[i] = p
		any = any || p
	}
	setSite(s, any)
	return s
}

func TestCombineLogicalAndOr(t *testing.T) {
	cases := []struct {
		a, b   bool
		isOr   bool
		want   value.PassState
	}{
		{true, true, false, value.Pass},
		{true, false, false, value.Fail},
		{true, false, true, value.Pass},
		{false, false, true, value.Fail},
	}
	for _, c := range cases {
		a := boolSiteSlot(c.a)
		b := boolSiteSlot(c.b)
		combineLogical(a, b, 4, c.isOr)
		if a.PassSite != c.want {
			t.Errorf("combine(%v,%v,isOr=%v) = %v, want %v", c.a, c.b, c.isOr, a.PassSite, c.want)
		}
	}
}

func TestCombineLogicalBothMissingIsEmpty(t *testing.T) {
	a := emptySlot()
	a.PassSite = value.Unknown
	b := emptySlot()
	b.PassSite = value.Unknown
	combineLogical(a, b, 4, true)
	if a.PassSite != value.Unknown {
		t.Errorf("PassSite = %v, want Unknown", a.PassSite)
	}
}

func TestCombineLogicalOrMissingPropagatesOtherSide(t *testing.T) {
	a := emptySlot()
	a.PassSite = value.Unknown
	b := boolSiteSlot(true)
	combineLogical(a, b, 4, true)
	if a.PassSite != value.Pass {
		t.Errorf("missing || true PassSite = %v, want Pass", a.PassSite)
	}
}

func TestCombineLogicalAndMissingFails(t *testing.T) {
	a := emptySlot()
	a.PassSite = value.Unknown
	b := boolSiteSlot(true)
	combineLogical(a, b, 4, false)
	if a.PassSite != value.Fail {
		t.Errorf("missing && true PassSite = %v, want Fail", a.PassSite)
	}
}

// Scenario: GQ>200 || DP>10 — a per-sample vector (GQ>200, all false) ORed
// with a site-only scalar (DP>10, true) should pass at the site level and
// fan the scalar across every sample.
func TestCombineLogicalScalarOrVector(t *testing.T) {
	vec := boolVectorSlot([]bool{false, false})
	scalar := boolSiteSlot(true)
	combineLogical(vec, scalar, 2, true)
	if vec.PassSite != value.Pass {
		t.Errorf("site PassSite = %v, want Pass", vec.PassSite)
	}
	if !vec.PassSamples[0] || !vec.PassSamples[1] {
		t.Errorf("PassSamples = %v, want [true true]", vec.PassSamples[:2])
	}
}

func TestCombineLogicalVectorVector(t *testing.T) {
	a := boolVectorSlot([]bool{true, false})
	b := boolVectorSlot([]bool{false, false})
	combineLogical(a, b, 2, false)
	if a.PassSamples[0] || a.PassSamples[1] {
		t.Errorf("PassSamples = %v, want [false false]", a.PassSamples[:2])
	}
	if a.PassSite != value.Fail {
		t.Errorf("PassSite = %v, want Fail", a.PassSite)
	}
}
