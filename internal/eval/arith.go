package eval

import (
	"math"

	"vcffilter/internal/value"
)

// broadcastArith computes op elementwise into a, following the four
// broadcast modes: both empty, both scalar, both per-sample, or scalar
// against per-sample. Any element where either side is missing becomes
// missing in the result; an all-missing result collapses a to empty.
func broadcastArith(a, b *value.Slot, nsamples int, op func(x, y float64) float64) {
	if a.Empty() || b.Empty() {
		a.NValues = 0
		return
	}

	aVec := a.SampleCount > 0
	bVec := b.SampleCount > 0

	switch {
	case !aVec && !bVec:
		v := op(a.Values[0], b.Values[0])
		a.SetScalar(v)
		if a.ValueMissing(0) {
			a.NValues = 0
		}

	case aVec && bVec:
		out := make([]float64, nsamples)
		any := false
		for i := 0; i < nsamples; i++ {
			x, y := a.Values[i], b.Values[i]
			if x != x || y != y {
				out[i] = math.NaN()
				continue
			}
			out[i] = op(x, y)
			any = true
		}
		if !any {
			a.NValues = 0
			return
		}
		a.SetVector(out)

	case aVec && !bVec:
		scalar := b.Values[0]
		out := make([]float64, nsamples)
		any := false
		for i := 0; i < nsamples; i++ {
			x := a.Values[i]
			if x != x || scalar != scalar {
				out[i] = math.NaN()
				continue
			}
			out[i] = op(x, scalar)
			any = true
		}
		if !any {
			a.NValues = 0
			return
		}
		a.SetVector(out)

	default: // !aVec && bVec
		scalar := a.Values[0]
		out := make([]float64, nsamples)
		any := false
		for i := 0; i < nsamples; i++ {
			y := b.Values[i]
			if scalar != scalar || y != y {
				out[i] = math.NaN()
				continue
			}
			out[i] = op(scalar, y)
			any = true
		}
		if !any {
			a.NValues = 0
			return
		}
		a.SetVector(out)
	}
}

func opAdd(x, y float64) float64 { return x + y }
func opSub(x, y float64) float64 { return x - y }
func opMul(x, y float64) float64 { return x * y }
func opDiv(x, y float64) float64 { return x / y }
