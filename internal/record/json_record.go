package record

import (
	"encoding/json"
	"strings"
)

// jsonSite is the wire shape JSONRecord decodes: a minimal, schema-unaware
// variant record used by the CLI and the server. It carries just enough
// to exercise every setter in internal/bind; it is not a representation
// of any production variant-call file format.
type jsonSite struct {
	Qual    *float64                `json:"qual"`
	Type    string                  `json:"type"`
	Filters []string                `json:"filters"`
	Info    map[string]jsonTagValue `json:"info"`
	Format  map[string]jsonTagValue `json:"format"`
	NSamp   int                     `json:"nsamples"`
}

// jsonTagValue holds either a scalar or a vector, a string or a number,
// with missing entries marked explicitly by a null in Nums/Strs.
type jsonTagValue struct {
	Nums  []*float64 `json:"nums,omitempty"`
	Strs  []*string  `json:"strs,omitempty"`
	Flag  bool        `json:"flag,omitempty"`
	IsSet bool        `json:"-"`
}

// JSONRecord implements Record by decoding a jsonSite. idToName translates
// a schema's header ids back to the JSON object keys the record was
// declared under (JSONRecord itself only knows tags by name).
type JSONRecord struct {
	site           jsonSite
	idToName       map[int]string
	filterNameToID func(name string) (int, bool)
	typeNameToBits func(name string) (int, bool)
}

// NewJSONRecord decodes raw JSON into a Record. idToName is typically
// built once from the schema (e.g. schema.Memory.Names); filterNameToID
// and typeNameToBits are usually schema.IDOf and TypeCodeFromString.
func NewJSONRecord(raw []byte, idToName map[int]string, filterNameToID func(string) (int, bool), typeNameToBits func(string) (int, bool)) (*JSONRecord, error) {
	var site jsonSite
	if err := json.Unmarshal(raw, &site); err != nil {
		return nil, err
	}
	return &JSONRecord{site: site, idToName: idToName, filterNameToID: filterNameToID, typeNameToBits: typeNameToBits}, nil
}

func (r *JSONRecord) Qual() (float64, bool) {
	if r.site.Qual == nil {
		return 0, false
	}
	return *r.site.Qual, true
}

func (r *JSONRecord) VariantTypeBits() int {
	bits := 0
	for _, part := range strings.Split(r.site.Type, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if b, ok := r.typeNameToBits(part); ok {
			bits |= b
		}
	}
	return bits
}

func (r *JSONRecord) AppliedFilters() []int {
	ids := make([]int, 0, len(r.site.Filters))
	for _, name := range r.site.Filters {
		if id, ok := r.filterNameToID(name); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r *JSONRecord) InfoValue(id int) (TypedValue, bool) {
	return r.lookup(r.site.Info, id)
}

func (r *JSONRecord) FormatValue(id int) (TypedValue, bool) {
	return r.lookup(r.site.Format, id)
}

// FormatIndexed reads the FORMAT entry as one flat list and returns its
// element at index as a single-element value, which the FORMAT setter
// assigns to the first sample. The JSON shape has no per-sample
// sub-vectors, so every other sample reads as missing.
func (r *JSONRecord) FormatIndexed(id int, index int) (TypedValue, bool) {
	tv, ok := r.lookup(r.site.Format, id)
	if !ok || index < 0 || index >= tv.Len() {
		return TypedValue{}, false
	}
	out := TypedValue{VectorEnd: -1}
	if len(tv.Floats) > 0 {
		out.Floats = []float64{tv.Floats[index]}
	}
	if len(tv.Ints) > 0 {
		out.Ints = []int64{tv.Ints[index]}
	}
	if len(tv.Missing) > 0 {
		out.Missing = []bool{tv.Missing[index]}
	}
	return out, true
}

func (r *JSONRecord) NSamples() int { return r.site.NSamp }

// Unpack is a no-op: JSONRecord decodes everything eagerly at construction.
func (r *JSONRecord) Unpack(mask UnpackMask) {}

// lookup resolves a header id against a name-keyed JSON map via r's
// id-to-name translation table.
func (r *JSONRecord) lookup(m map[string]jsonTagValue, id int) (TypedValue, bool) {
	name, ok := r.idToName[id]
	if !ok {
		return TypedValue{}, false
	}
	v, ok := m[name]
	if !ok {
		return TypedValue{}, false
	}
	return v.typed(), true
}

func (v jsonTagValue) typed() TypedValue {
	if v.Flag {
		return TypedValue{FlagSet: true, VectorEnd: -1}
	}
	if len(v.Strs) > 0 {
		strs := make([][]byte, len(v.Strs))
		missing := make([]bool, len(v.Strs))
		for i, s := range v.Strs {
			if s == nil {
				missing[i] = true
				continue
			}
			strs[i] = []byte(*s)
		}
		return TypedValue{Strs: strs, Missing: missing, VectorEnd: -1}
	}
	floats := make([]float64, len(v.Nums))
	ints := make([]int64, len(v.Nums))
	missing := make([]bool, len(v.Nums))
	for i, n := range v.Nums {
		if n == nil {
			missing[i] = true
			continue
		}
		floats[i] = *n
		ints[i] = int64(*n)
	}
	return TypedValue{Floats: floats, Ints: ints, Missing: missing, VectorEnd: -1}
}
