package eval

import (
	"testing"

	"vcffilter/internal/value"
)

func stringSlot(s string) *value.Slot {
	v := value.NewSlot(4)
	v.SetString([]byte(s), len(s))
	return v
}

func TestCompareNumericScalarScalar(t *testing.T) {
	a := scalarSlot(5)
	b := scalarSlot(10)
	compareNumeric(a, b, 4, cmpLt)
	if a.PassSite != value.Pass {
		t.Errorf("5<10 PassSite = %v, want Pass", a.PassSite)
	}
}

func TestCompareNumericVectorVector(t *testing.T) {
	a := vectorSlot([]float64{5, 15})
	b := vectorSlot([]float64{10, 10})
	compareNumeric(a, b, 2, cmpLt)
	if a.PassSite != value.Pass {
		t.Errorf("PassSite = %v, want Pass", a.PassSite)
	}
	if !a.PassSamples[0] || a.PassSamples[1] {
		t.Errorf("PassSamples = %v, want [true false]", a.PassSamples[:2])
	}
}

func TestCompareNumericScalarVsVector(t *testing.T) {
	a := scalarSlot(5)
	b := vectorSlot([]float64{10, 1})
	compareNumeric(a, b, 2, cmpLt)
	if !a.PassSamples[0] || a.PassSamples[1] {
		t.Errorf("PassSamples = %v, want [true false]", a.PassSamples[:2])
	}
}

func TestCompareNumericEmptyPropagates(t *testing.T) {
	a := emptySlot()
	b := scalarSlot(10)
	compareNumeric(a, b, 4, cmpLt)
	if a.PassSite != value.Unknown {
		t.Errorf("PassSite = %v, want Unknown", a.PassSite)
	}
}

func TestCompareStringEquality(t *testing.T) {
	a := stringSlot("snp")
	b := stringSlot("snp")
	if err := compareString(a, b, 4, false); err != nil {
		t.Fatalf("compareString: %v", err)
	}
	if a.PassSite != value.Pass {
		t.Errorf(`"snp"=="snp" PassSite = %v, want Pass`, a.PassSite)
	}
}

func TestCompareStringNegate(t *testing.T) {
	a := stringSlot("snp")
	b := stringSlot("indel")
	if err := compareString(a, b, 4, true); err != nil {
		t.Fatalf("compareString: %v", err)
	}
	if a.PassSite != value.Pass {
		t.Errorf(`"snp"!="indel" PassSite = %v, want Pass`, a.PassSite)
	}
}

func TestCompareStringLengthMismatchErrors(t *testing.T) {
	a := vectorSlot([]float64{0, 0})
	a.IsString = true
	a.Stride = 1
	a.StrValue = []byte{'a', 'b'}
	a.SampleCount = 2
	a.NValues = 2

	b := vectorSlot([]float64{0, 0, 0})
	b.IsString = true
	b.Stride = 1
	b.StrValue = []byte{'a', 'b', 'c'}
	b.SampleCount = 3
	b.NValues = 3

	if err := compareString(a, b, 4, false); err == nil {
		t.Fatal("expected error for mismatched string vector lengths")
	}
}
