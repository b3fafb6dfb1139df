// Package bind resolves a lexed identifier against a record-type schema,
// selecting the appropriate value-extractor (setter) and recording the
// tag's arity and type. It is the only component that knows how INFO and
// FORMAT namespaces default based on reduction-function depth.
package bind

import (
	"math"
	"strconv"
	"strings"

	"vcffilter/internal/errors"
	"vcffilter/internal/record"
	"vcffilter/internal/schema"
	"vcffilter/internal/token"
	"vcffilter/internal/value"
)

type namespace int

const (
	nsNone namespace = iota
	nsInfo
	nsFormat
)

// Resolve binds text against sch. Quoted text (already stripped of its
// surrounding quotes by the lexer) becomes a string literal with no schema
// lookup; unquoted text resolves to a special, a tag, or a number literal.
// insideReduction is true when text was scanned inside a %MAX/%MIN/%AVG
// call, which changes the default namespace for a bare tag name from INFO
// to FORMAT per the grammar's reduction-function semantics.
func Resolve(sch schema.Schema, text string, expr string, offset int, insideReduction bool, quoted bool) (*token.Node, error) {
	if quoted {
		return &token.Node{Kind: token.Value, VKind: token.StringLiteral, StringLit: text, Offset: offset}, nil
	}

	switch text {
	case "%QUAL":
		return &token.Node{Kind: token.Value, VKind: token.SpecialTag, Special: token.Qual, Setter: qualSetter, Offset: offset}, nil
	case "%TYPE":
		return &token.Node{Kind: token.Value, VKind: token.SpecialTag, Special: token.Type, Setter: typeSetter, Offset: offset}, nil
	case "%FILTER":
		return &token.Node{Kind: token.Value, VKind: token.SpecialTag, Special: token.Filter, Unpack: record.UnpackFilter, Offset: offset}, nil
	}

	ns, rest := stripNamespace(text)
	name, index, hasIndex := stripSubscript(rest)

	effectiveNS := ns
	if ns == nsNone {
		if insideReduction {
			effectiveNS = nsFormat
		} else {
			effectiveNS = nsInfo
		}
	}

	id, ok := sch.IDOf(name)
	if !ok {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return &token.Node{Kind: token.Value, VKind: token.NumberLiteral, NumberLit: f, Offset: offset}, nil
		}
		return nil, errors.NewNameError("tag not defined in the header: "+name, expr, offset)
	}

	switch effectiveNS {
	case nsInfo:
		return bindInfo(sch, id, index, hasIndex, expr, offset)
	default:
		return bindFormat(sch, id, index, hasIndex, expr, offset)
	}
}

func bindInfo(sch schema.Schema, id, index int, hasIndex bool, expr string, offset int) (*token.Node, error) {
	if !sch.IsDefined(schema.INFO, id) {
		return nil, errors.NewNameError("tag not defined in the header", expr, offset)
	}
	arity := sch.DeclaredArity(schema.INFO, id)
	if arity != schema.ArityScalar && !hasIndex {
		return nil, errors.NewNameError("tag requires a subscript: multi-valued INFO field referenced without [i]", expr, offset)
	}
	typ := sch.DeclaredType(schema.INFO, id)
	node := &token.Node{
		Kind: token.Value, VKind: token.TagReference,
		HeaderID: id, Index: index, PerSample: false,
		ValueType: mapType(typ), Offset: offset,
		Unpack: record.UnpackInfo,
	}
	switch typ {
	case schema.Flag:
		node.Setter = infoFlagSetter(id)
	case schema.Int, schema.Float:
		if hasIndex {
			node.Setter = infoIndexedSetter(id, index, typ)
		} else {
			node.Setter = infoScalarSetter(id, typ)
		}
	case schema.String:
		node.Setter = infoStringSetter(id)
		node.Unpack |= record.UnpackString
	}
	return node, nil
}

func bindFormat(sch schema.Schema, id, index int, hasIndex bool, expr string, offset int) (*token.Node, error) {
	if !sch.IsDefined(schema.FORMAT, id) {
		return nil, errors.NewNameError("tag not defined in the header", expr, offset)
	}
	arity := sch.DeclaredArity(schema.FORMAT, id)
	if arity != schema.ArityScalar && !hasIndex {
		return nil, errors.NewNameError("tag requires a subscript: multi-valued FORMAT field referenced without [i]", expr, offset)
	}
	typ := sch.DeclaredType(schema.FORMAT, id)
	if typ == schema.Flag {
		return nil, errors.NewTypeError("FORMAT flag tags are not supported")
	}
	node := &token.Node{
		Kind: token.Value, VKind: token.TagReference,
		HeaderID: id, Index: index, PerSample: true,
		ValueType: mapType(typ), Offset: offset,
		Unpack: record.UnpackFormat,
	}
	switch typ {
	case schema.Int, schema.Float:
		node.Setter = formatSetter(id, typ, index, hasIndex)
	case schema.String:
		node.Setter = formatStringSetter(id)
		node.Unpack |= record.UnpackString
	}
	return node, nil
}

func mapType(t schema.Type) token.ValueType {
	switch t {
	case schema.Int:
		return token.TInt
	case schema.Float:
		return token.TFloat
	case schema.String:
		return token.TString
	default:
		return token.TFlag
	}
}

// stripNamespace removes a leading INFO/, FORMAT/, or FMT/ prefix and
// reports which explicit namespace (if any) it named.
func stripNamespace(text string) (namespace, string) {
	switch {
	case strings.HasPrefix(text, "INFO/"):
		return nsInfo, text[len("INFO/"):]
	case strings.HasPrefix(text, "FORMAT/"):
		return nsFormat, text[len("FORMAT/"):]
	case strings.HasPrefix(text, "FMT/"):
		return nsFormat, text[len("FMT/"):]
	default:
		return nsNone, text
	}
}

// stripSubscript parses a trailing "[i]" and reports the index.
func stripSubscript(text string) (name string, index int, hasIndex bool) {
	if !strings.HasSuffix(text, "]") {
		return text, 0, false
	}
	open := strings.LastIndexByte(text, '[')
	if open < 0 {
		return text, 0, false
	}
	n, err := strconv.Atoi(text[open+1 : len(text)-1])
	if err != nil {
		return text, 0, false
	}
	return text[:open], n, true
}

// --- setters (spec §4.4) ---

func qualSetter(rec record.Record, slot *value.Slot) error {
	q, ok := rec.Qual()
	if !ok {
		slot.NValues = 0
		return nil
	}
	slot.SetScalar(q)
	return nil
}

func typeSetter(rec record.Record, slot *value.Slot) error {
	slot.SetScalar(float64(rec.VariantTypeBits()))
	return nil
}

func infoFlagSetter(id int) token.Setter {
	return func(rec record.Record, slot *value.Slot) error {
		tv, ok := rec.InfoValue(id)
		if ok && tv.FlagSet {
			slot.SetScalar(1)
		} else {
			slot.SetScalar(0)
		}
		return nil
	}
}

func infoScalarSetter(id int, typ schema.Type) token.Setter {
	return func(rec record.Record, slot *value.Slot) error {
		tv, ok := rec.InfoValue(id)
		if !ok || tv.Len() == 0 || (len(tv.Missing) > 0 && tv.Missing[0]) {
			slot.NValues = 0
			return nil
		}
		if typ == schema.Int {
			slot.SetScalar(float64(tv.Ints[0]))
		} else {
			slot.SetScalar(tv.Floats[0])
		}
		return nil
	}
}

func infoIndexedSetter(id, index int, typ schema.Type) token.Setter {
	return func(rec record.Record, slot *value.Slot) error {
		tv, ok := rec.InfoValue(id)
		if !ok || index < 0 || index >= tv.Len() || (index < len(tv.Missing) && tv.Missing[index]) {
			slot.NValues = 0
			return nil
		}
		if typ == schema.Int {
			slot.SetScalar(float64(tv.Ints[index]))
		} else {
			slot.SetScalar(tv.Floats[index])
		}
		return nil
	}
}

func infoStringSetter(id int) token.Setter {
	return func(rec record.Record, slot *value.Slot) error {
		tv, ok := rec.InfoValue(id)
		if !ok || tv.Len() == 0 || len(tv.Strs) == 0 {
			slot.NValues = 0
			return nil
		}
		b := tv.Strs[0]
		slot.SetString(b, len(b))
		return nil
	}
}

func formatSetter(id int, typ schema.Type, index int, hasIndex bool) token.Setter {
	return func(rec record.Record, slot *value.Slot) error {
		var tv record.TypedValue
		var ok bool
		if hasIndex {
			tv, ok = rec.FormatIndexed(id, index)
		} else {
			tv, ok = rec.FormatValue(id)
		}
		n := rec.NSamples()
		if !ok {
			slot.NValues = 0
			return nil
		}
		slot.EnsureSamples(n)
		vals := make([]float64, n)
		allMissing := true
		logicalLen := tv.Len()
		for i := 0; i < n; i++ {
			missing := i >= logicalLen || (i < len(tv.Missing) && tv.Missing[i])
			if missing {
				vals[i] = math.NaN()
				continue
			}
			allMissing = false
			if typ == schema.Int {
				vals[i] = float64(tv.Ints[i])
			} else {
				vals[i] = tv.Floats[i]
			}
		}
		if allMissing {
			slot.NValues = 0
			return nil
		}
		slot.SetVector(vals)
		return nil
	}
}

func formatStringSetter(id int) token.Setter {
	return func(rec record.Record, slot *value.Slot) error {
		tv, ok := rec.FormatValue(id)
		if !ok || len(tv.Strs) == 0 {
			slot.NValues = 0
			return nil
		}
		stride := 0
		for _, s := range tv.Strs {
			if len(s) > stride {
				stride = len(s)
			}
		}
		if stride == 0 {
			slot.NValues = 0
			return nil
		}
		buf := make([]byte, stride*len(tv.Strs))
		for i, s := range tv.Strs {
			copy(buf[i*stride:], s)
		}
		slot.IsString = true
		slot.Stride = stride
		slot.StrValue = buf
		slot.NValues = len(tv.Strs)
		slot.SampleCount = len(tv.Strs)
		return nil
	}
}
