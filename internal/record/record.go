// Package record declares the contract a per-record collaborator must
// satisfy for the filter evaluator to run against it. Parsing the
// underlying record format (and its header) is explicitly out of scope
// here; this package only describes the shape the evaluator needs.
package record

import "strings"

// UnpackMask tells a Record which lazily-decoded sections a compiled
// program actually touches, so the caller can skip decoding the rest.
type UnpackMask uint8

const (
	UnpackString UnpackMask = 1 << iota
	UnpackInfo
	UnpackFormat
	UnpackFilter
)

// TypedValue is a typed scalar or vector read from a record's INFO or
// FORMAT section. Missing marks individual elements as unknown; a value
// past VectorEnd (when >= 0) does not logically exist even though the
// backing slice may be longer than that.
type TypedValue struct {
	Ints      []int64
	Floats    []float64
	Strs      [][]byte
	FlagSet   bool
	Missing   []bool
	VectorEnd int // -1 when the full slice is logical
}

// Len reports the logical element count, honoring VectorEnd.
func (t TypedValue) Len() int {
	n := len(t.Ints)
	if len(t.Floats) > n {
		n = len(t.Floats)
	}
	if len(t.Strs) > n {
		n = len(t.Strs)
	}
	if t.VectorEnd >= 0 && t.VectorEnd < n {
		return t.VectorEnd
	}
	return n
}

// TypeBits is a bitmask of the Type* constants.
type TypeBits = int

// Variant-class bits returned by Record.VariantTypeBits and matched
// against %TYPE comparisons. A record can carry more than one bit (an
// ALT list mixing a SNP and an indel sets both).
const (
	TypeRef TypeBits = 1 << iota
	TypeSNP
	TypeMNP
	TypeIndel
	TypeOther
)

// TypeCodeFromString maps a %TYPE string literal ("snp", "indel", "mnp",
// "other", "ref", plural forms accepted) to its TypeBits constant.
func TypeCodeFromString(s string) (int, bool) {
	switch strings.ToLower(s) {
	case "ref":
		return TypeRef, true
	case "snp", "snps":
		return TypeSNP, true
	case "mnp", "mnps":
		return TypeMNP, true
	case "indel", "indels":
		return TypeIndel, true
	case "other":
		return TypeOther, true
	default:
		return 0, false
	}
}

// Record is the opaque per-site collaborator the evaluator pulls values
// from. Implementations decode whatever underlying wire format they
// represent; this package never assumes one.
type Record interface {
	// Qual returns the site quality score; ok is false when missing.
	Qual() (v float64, ok bool)

	// VariantTypeBits returns the record's variant-class bitmask, used to
	// resolve %TYPE comparisons.
	VariantTypeBits() int

	// AppliedFilters returns the header ids of filters set on this record.
	AppliedFilters() []int

	// InfoValue returns the site-scoped value bound to a header id.
	InfoValue(id int) (TypedValue, bool)

	// FormatValue returns the per-sample value bound to a header id; when
	// ok is true its logical length equals NSamples().
	FormatValue(id int) (TypedValue, bool)

	// FormatIndexed returns the per-sample value bound to a header id at a
	// given sub-index, for FORMAT tags whose declared arity is A/R/G/.
	// (e.g. AD[0], GL[2]) rather than scalar.
	FormatIndexed(id int, index int) (TypedValue, bool)

	// NSamples returns the number of samples carried by this record.
	NSamples() int

	// Unpack requests that the given sections be decoded before the
	// setters above are called.
	Unpack(mask UnpackMask)
}
