// Package token provides the uniform representation shared by the lexer's
// raw token stream, the parser's infix stream, and the compiled RPN
// program: literals, tag references, operators, and function nodes.
package token

import (
	"vcffilter/internal/record"
	"vcffilter/internal/value"
)

// Kind tags the variant a Node holds.
type Kind int

const (
	Value Kind = iota
	LeftParen
	RightParen
	Le
	Lt
	Eq
	Gt
	Ge
	Ne
	Or
	And
	Add
	Sub
	Mul
	Div
	Max
	Min
	Avg
	AndVec
	OrVec
	Func
	EOF
)

// Precedence gives the binding strength of each binary/function operator;
// higher binds tighter. Value, parens, and EOF never appear here.
var Precedence = map[Kind]int{
	Or:     2,
	OrVec:  2,
	And:    3,
	AndVec: 3,
	Le:     5,
	Lt:     5,
	Eq:     5,
	Gt:     5,
	Ge:     5,
	Ne:     5,
	Add:    6,
	Sub:    6,
	Mul:    7,
	Div:    7,
	Max:    8,
	Min:    8,
	Avg:    8,
}

// IsReduction reports whether k is one of the %MAX/%MIN/%AVG functions.
func IsReduction(k Kind) bool { return k == Max || k == Min || k == Avg }

// ValueKind distinguishes what a Value-kind Node actually holds.
type ValueKind int

const (
	NumberLiteral ValueKind = iota
	StringLiteral
	TagReference
	SpecialTag
)

// Special identifies one of the three non-tag special references.
type Special int

const (
	NoSpecial Special = iota
	Qual
	Type
	Filter
)

// ValueType is the tag's declared primitive domain, once resolved.
type ValueType int

const (
	TInt ValueType = iota
	TFloat
	TString
	TFlag
)

// Setter extracts this node's run-time value from rec into slot.
type Setter func(rec record.Record, slot *value.Slot) error

// Comparator is the signature of an alternate comparison path returning
// true/false directly. The parser never sets Node.Comparator; %FILTER
// comparisons are evaluated by internal/eval's own filter comparator.
type Comparator func(rec record.Record, operandFilterID int, negate bool) bool

// Reducer collapses an n-vector slot into a scalar slot (%MAX/%MIN/%AVG).
type Reducer func(in *value.Slot, out *value.Slot)

// Node is one element of the infix token stream or, after compilation, of
// the read-only RPN program. It carries no run-time value itself — slots
// live in the evaluator's scratch arena, indexed by RPN position — so a
// compiled Program can be safely reused (non-concurrently) across records.
type Node struct {
	Kind Kind

	// populated when Kind == Value
	VKind      ValueKind
	Special    Special
	HeaderID   int
	Index      int // i when the source spelled TAG[i]; 0 both for no subscript and for TAG[0]
	PerSample  bool
	ValueType  ValueType
	NumberLit  float64
	StringLit  string
	Setter     Setter
	Comparator Comparator
	Unpack     record.UnpackMask

	// populated when Kind == Func (post-lowering of Max/Min/Avg)
	Reduce     Reducer
	ReduceName string // "%MAX", "%MIN", or "%AVG", kept for pretty-printing

	// source offset, for error messages
	Offset int
}
