package env

import (
	"slices"
	"strings"

	"github.com/prosuite/evaluation/object"
)

// Record is an in-memory row of named values. It remembers the order in
// which fields were first set. Unless created case sensitive, field names
// match without regard to case.
type Record struct {
	names         []string
	values        map[string]object.Value
	caseSensitive bool
}

// NewRecord returns an empty case-insensitive record.
func NewRecord() *Record {
	return &Record{values: map[string]object.Value{}}
}

// NewCaseSensitiveRecord returns an empty record whose field names are
// matched exactly.
func NewCaseSensitiveRecord() *Record {
	return &Record{values: map[string]object.Value{}, caseSensitive: true}
}

// RecordOf returns a case-insensitive record holding the given Go values,
// with fields ordered by name.
func RecordOf(fields map[string]any) *Record {
	r := NewRecord()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		r.Set(name, object.FromGo(fields[name]))
	}
	return r
}

func (r *Record) key(name string) string {
	if r.caseSensitive {
		return name
	}
	return strings.ToLower(name)
}

// Set stores value under name.
func (r *Record) Set(name string, value object.Value) {
	k := r.key(name)
	if _, ok := r.values[k]; !ok {
		r.names = append(r.names, name)
	}
	r.values[k] = value
}

// SetValue stores value under name. It never fails; the error result makes
// Record usable as a writable row.
func (r *Record) SetValue(name string, value object.Value) error {
	r.Set(name, value)
	return nil
}

// Exists reports whether the record has a field called name.
func (r *Record) Exists(name string) bool {
	_, ok := r.values[r.key(name)]
	return ok
}

// GetValue returns the value of the named field, or null if there is none.
func (r *Record) GetValue(name string) object.Value {
	return r.values[r.key(name)]
}

// Names returns the field names in the order they were first set.
func (r *Record) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.names)
}

// Map returns the fields as native Go values.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.names))
	for _, name := range r.names {
		m[name] = r.values[r.key(name)].Interface()
	}
	return m
}

// Clone returns a copy of the record.
func (r *Record) Clone() *Record {
	c := &Record{
		names:         r.Names(),
		values:        make(map[string]object.Value, len(r.values)),
		caseSensitive: r.caseSensitive,
	}
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}
