package eval

import "vcffilter/internal/value"

// combineLogical implements the And/Or/AndVec/OrVec shape matrix: missing
// operands short-circuit (Or propagates the other side untouched, And
// fails), and a scalar combined with a per-sample vector is fanned out
// pointwise before combining. & and && (respectively | and ||) share this
// algorithm; the source's finer distinction between site-only and
// per-sample combination collapses to the same pointwise result here.
func combineLogical(a, b *value.Slot, nsamples int, isOr bool) {
	aEmpty := a.PassSite == value.Unknown
	bEmpty := b.PassSite == value.Unknown

	if aEmpty && bEmpty {
		setEmpty(a)
		return
	}
	if aEmpty {
		if isOr {
			copySlot(a, b, nsamples)
			return
		}
		setEmpty(a)
		a.PassSite = value.Fail
		return
	}
	if bEmpty {
		if isOr {
			return // a already holds its own state
		}
		a.PassSite = value.Fail
		a.SampleCount = 0
		return
	}

	boolOp := func(x, y bool) bool {
		if isOr {
			return x || y
		}
		return x && y
	}

	aVec := a.SampleCount > 0
	bVec := b.SampleCount > 0

	switch {
	case !aVec && !bVec:
		setSite(a, boolOp(a.PassSite == value.Pass, b.PassSite == value.Pass))
		a.SampleCount = 0

	case aVec && bVec:
		any := false
		for i := 0; i < nsamples; i++ {
			p := boolOp(a.PassSamples[i], b.PassSamples[i])
			a.PassSamples[i] = p
			any = any || p
		}
		a.SampleCount = nsamples
		setSite(a, any)

	case aVec && !bVec:
		bBool := b.PassSite == value.Pass
		any := false
		for i := 0; i < nsamples; i++ {
			p := boolOp(a.PassSamples[i], bBool)
			a.PassSamples[i] = p
			any = any || p
		}
		a.SampleCount = nsamples
		setSite(a, any)

	default: // !aVec && bVec
		aBool := a.PassSite == value.Pass
		a.EnsureSamples(nsamples)
		any := false
		for i := 0; i < nsamples; i++ {
			p := boolOp(aBool, b.PassSamples[i])
			a.PassSamples[i] = p
			any = any || p
		}
		a.SampleCount = nsamples
		setSite(a, any)
	}
}

func copySlot(dst, src *value.Slot, nsamples int) {
	dst.PassSite = src.PassSite
	dst.SampleCount = src.SampleCount
	if src.SampleCount > 0 {
		dst.EnsureSamples(nsamples)
		copy(dst.PassSamples, src.PassSamples[:nsamples])
	}
}
