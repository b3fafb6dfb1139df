// Package value implements the run-time value slot described in the
// filter language's data model: a scalar-or-vector holding either floats
// or fixed-stride strings, plus the site/sample pass state that
// comparisons and logical operators accumulate into.
package value

import "bytes"

// PassState is the three-valued site verdict carried by a slot.
type PassState int

const (
	Unknown PassState = -1
	Fail    PassState = 0
	Pass    PassState = 1
)

// Slot is the per-node scratch value used while evaluating one record.
// It is never embedded in a compiled program node (see internal/token) so
// that a program stays read-only and an evaluator's scratch arena can be
// indexed by RPN position instead.
type Slot struct {
	NValues int // 0 = missing, 1 = scalar, n = per-sample vector

	Values []float64 // numeric storage, valid indices [0, NValues)

	IsString bool
	StrValue []byte // raw bytes, len == NValues*Stride
	Stride   int    // byte width of one string element

	SampleCount int // 0 = site-level; otherwise == record's nsamples

	PassSite    PassState
	PassSamples []bool // len == record's nsamples when meaningful
}

// NewSlot returns a slot with scratch buffers pre-sized for nsamples.
func NewSlot(nsamples int) *Slot {
	return &Slot{
		Values:      make([]float64, 0, nsamples),
		PassSamples: make([]bool, nsamples),
		PassSite:    Unknown,
	}
}

// Empty reports whether the slot holds no values (the "missing" case).
func (s *Slot) Empty() bool { return s.NValues == 0 }

// Reset clears a slot for reuse against the next record, keeping its
// backing arrays so buffers grow monotonically rather than reallocating.
func (s *Slot) Reset() {
	s.NValues = 0
	s.Values = s.Values[:0]
	s.IsString = false
	s.StrValue = s.StrValue[:0]
	s.Stride = 0
	s.SampleCount = 0
	s.PassSite = Unknown
	for i := range s.PassSamples {
		s.PassSamples[i] = false
	}
}

// SetScalar writes a single numeric value.
func (s *Slot) SetScalar(v float64) {
	s.growValues(1)
	s.Values[0] = v
	s.NValues = 1
	s.SampleCount = 0
}

// SetVector writes a per-sample numeric vector; missing entries carry NaN.
func (s *Slot) SetVector(vs []float64) {
	s.growValues(len(vs))
	copy(s.Values, vs)
	s.NValues = len(vs)
	s.SampleCount = len(vs)
}

// SetString writes a single string element with the given byte width.
func (s *Slot) SetString(text []byte, stride int) {
	s.IsString = true
	s.Stride = stride
	s.growStrValue(stride)
	copy(s.StrValue, text)
	for i := len(text); i < stride; i++ {
		s.StrValue[i] = 0
	}
	s.NValues = 1
	s.SampleCount = 0
}

// StringAt returns the logical (NUL-trimmed) bytes of element i.
func (s *Slot) StringAt(i int) []byte {
	start := i * s.Stride
	end := start + s.Stride
	if start < 0 || end > len(s.StrValue) {
		return nil
	}
	b := s.StrValue[start:end]
	if j := bytes.IndexByte(b, 0); j >= 0 {
		return b[:j]
	}
	return b
}

// ValueMissing reports whether numeric element i is the float-missing
// sentinel (NaN, by convention in this package).
func (s *Slot) ValueMissing(i int) bool {
	v := s.Values[i]
	return v != v // NaN check without importing math in hot path
}

func (s *Slot) growValues(n int) {
	if cap(s.Values) < n {
		buf := make([]float64, n)
		s.Values = buf
		return
	}
	s.Values = s.Values[:n]
}

func (s *Slot) growStrValue(n int) {
	if cap(s.StrValue) < n {
		buf := make([]byte, n)
		s.StrValue = buf
		return
	}
	s.StrValue = s.StrValue[:n]
}

func (s *Slot) growPassSamples(n int) {
	if cap(s.PassSamples) < n {
		buf := make([]bool, n)
		s.PassSamples = buf
		return
	}
	s.PassSamples = s.PassSamples[:n]
	for i := range s.PassSamples {
		s.PassSamples[i] = false
	}
}

// EnsureSamples grows PassSamples to at least n entries, zeroing them.
func (s *Slot) EnsureSamples(n int) { s.growPassSamples(n) }
