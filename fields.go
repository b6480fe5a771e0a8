package infraformat

// Fields is an insertion-ordered mapping from field name to decoded
// value. Values are string, int64 or float64; NaN marks a missing
// numeric field. Setting an existing name overwrites the value in place.
type Fields struct {
	names  []string
	values map[string]any
}

// NewFields returns an empty field mapping.
func NewFields() Fields {
	return Fields{values: make(map[string]any)}
}

// Set stores a value, keeping first-set order for new names.
func (f *Fields) Set(name string, value any) {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	if _, ok := f.values[name]; !ok {
		f.names = append(f.names, name)
	}
	f.values[name] = value
}

// Get returns the value for name.
func (f Fields) Get(name string) (any, bool) {
	v, ok := f.values[name]
	return v, ok
}

// String returns the value for name as a string, or "" when absent or
// not a string.
func (f Fields) String(name string) string {
	s, _ := f.values[name].(string)
	return s
}

// Float returns the value for name as a float64, widening int64. The
// second return is false when the field is absent or non-numeric.
func (f Fields) Float(name string) (float64, bool) {
	switch v := f.values[name].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Has reports whether name is present.
func (f Fields) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Names returns the field names in insertion order. The slice is shared;
// callers must not modify it.
func (f Fields) Names() []string { return f.names }

// Len returns the number of fields.
func (f Fields) Len() int { return len(f.names) }

// Values returns the values in insertion order.
func (f Fields) Values() []any {
	out := make([]any, 0, len(f.names))
	for _, name := range f.names {
		out = append(out, f.values[name])
	}
	return out
}

// Clone returns a deep copy.
func (f Fields) Clone() Fields {
	c := Fields{
		names:  append([]string(nil), f.names...),
		values: make(map[string]any, len(f.values)),
	}
	for k, v := range f.values {
		c.values[k] = v
	}
	return c
}

// Equal reports whether two field mappings hold the same names in the
// same order with equal values. NaN compares equal to NaN here so that
// missing fields do not break round-trip comparisons.
func (f Fields) Equal(other Fields) bool {
	if len(f.names) != len(other.names) {
		return false
	}
	for i, name := range f.names {
		if other.names[i] != name {
			return false
		}
		a, b := f.values[name], other.values[name]
		if IsMissing(a) && IsMissing(b) {
			continue
		}
		if a != b {
			return false
		}
	}
	return true
}
