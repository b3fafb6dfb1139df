package eval

import (
	"bytes"

	"vcffilter/internal/value"
)

// compareNumeric writes a comparison verdict into a: pass_site/pass_samples
// per the broadcast shape rules. A missing operand on either side produces
// the "empty" state (pass_site = Unknown), which logical combinators treat
// as missing propagation rather than a computed failure.
func compareNumeric(a, b *value.Slot, nsamples int, cmp func(x, y float64) bool) {
	if a.Empty() || b.Empty() {
		setEmpty(a)
		return
	}

	aVec := a.SampleCount > 0
	bVec := b.SampleCount > 0

	switch {
	case !aVec && !bVec:
		x, y := a.Values[0], b.Values[0]
		a.SampleCount = 0
		if x != x || y != y {
			setEmpty(a)
			return
		}
		setSite(a, cmp(x, y))

	case aVec && bVec:
		a.EnsureSamples(nsamples)
		a.SampleCount = nsamples
		any := false
		for i := 0; i < nsamples; i++ {
			x, y := a.Values[i], b.Values[i]
			p := x == x && y == y && cmp(x, y)
			a.PassSamples[i] = p
			any = any || p
		}
		setSite(a, any)

	case aVec && !bVec:
		scalar := b.Values[0]
		a.EnsureSamples(nsamples)
		a.SampleCount = nsamples
		any := false
		for i := 0; i < nsamples; i++ {
			x := a.Values[i]
			p := x == x && scalar == scalar && cmp(x, scalar)
			a.PassSamples[i] = p
			any = any || p
		}
		setSite(a, any)

	default: // !aVec && bVec
		scalar := a.Values[0]
		vec := b.Values[:nsamples]
		a.EnsureSamples(nsamples)
		a.SampleCount = nsamples
		any := false
		for i := 0; i < nsamples; i++ {
			y := vec[i]
			p := scalar == scalar && y == y && cmp(scalar, y)
			a.PassSamples[i] = p
			any = any || p
		}
		setSite(a, any)
	}
}

// compareString implements the == / != string path. Length-mismatched
// string vectors are only permitted when exactly one side is a scalar.
func compareString(a, b *value.Slot, nsamples int, negate bool) error {
	if a.Empty() || b.Empty() {
		setEmpty(a)
		return nil
	}
	if !a.IsString || !b.IsString {
		return typeError("cannot compare string to numeric value")
	}

	aVec := a.SampleCount > 0
	bVec := b.SampleCount > 0
	if aVec && bVec && a.NValues != b.NValues {
		return typeError("cannot compare vectors of different length")
	}

	eq := func(x, y []byte) bool { return bytes.Equal(x, y) }

	switch {
	case !aVec && !bVec:
		r := eq(a.StringAt(0), b.StringAt(0))
		a.SampleCount = 0
		setSite(a, xnor(r, negate))

	case aVec && bVec:
		a.EnsureSamples(nsamples)
		a.SampleCount = nsamples
		any := false
		for i := 0; i < a.NValues; i++ {
			p := xnor(eq(a.StringAt(i), b.StringAt(i)), negate)
			a.PassSamples[i] = p
			any = any || p
		}
		setSite(a, any)

	case aVec && !bVec:
		scalar := b.StringAt(0)
		a.EnsureSamples(nsamples)
		a.SampleCount = nsamples
		any := false
		for i := 0; i < a.NValues; i++ {
			p := xnor(eq(a.StringAt(i), scalar), negate)
			a.PassSamples[i] = p
			any = any || p
		}
		setSite(a, any)

	default: // !aVec && bVec
		scalar := a.StringAt(0)
		n := b.NValues
		a.EnsureSamples(nsamples)
		a.SampleCount = nsamples
		any := false
		for i := 0; i < n; i++ {
			p := xnor(eq(scalar, b.StringAt(i)), negate)
			a.PassSamples[i] = p
			any = any || p
		}
		setSite(a, any)
	}
	return nil
}

// xnor applies a != negation to a raw equality result: plain equality when
// negate is false, inequality when true.
func xnor(equal, negate bool) bool {
	if negate {
		return !equal
	}
	return equal
}

func setEmpty(s *value.Slot) {
	s.PassSite = value.Unknown
	s.SampleCount = 0
}

func setSite(s *value.Slot, pass bool) {
	if pass {
		s.PassSite = value.Pass
	} else {
		s.PassSite = value.Fail
	}
}

func cmpLt(x, y float64) bool { return x < y }
func cmpLe(x, y float64) bool { return x <= y }
func cmpGt(x, y float64) bool { return x > y }
func cmpGe(x, y float64) bool { return x >= y }
func cmpEq(x, y float64) bool { return x == y }
func cmpNe(x, y float64) bool { return x != y }
