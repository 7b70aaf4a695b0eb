package document

import "sort"

// Document is a schemaless record identified by (collection, id).
type Document struct {
	id     string
	fields map[string]any
}

// Field is a single name/value pair, used for ordered rendering.
type Field struct {
	Name  string
	Value any
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id string, fields map[string]any) Document {
	if fields == nil {
		fields = map[string]any{}
	}
	return Document{id: id, fields: fields}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Fields returns the raw field map.
func (d *Document) Fields() map[string]any { return d.fields }

// StringField returns the value of name if it is present and a string.
func (d *Document) StringField(name string) (string, bool) {
	v, ok := d.fields[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Sorted returns fields ordered by name.
func (d *Document) Sorted() []Field {
	names := make([]string, 0, len(d.fields))
	for k := range d.fields {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]Field, len(names))
	for i, n := range names {
		out[i] = Field{Name: n, Value: d.fields[n]}
	}
	return out
}

// StringFieldNames returns the names of string-valued fields, sorted.
func (d *Document) StringFieldNames() []string {
	var names []string
	for k, v := range d.fields {
		if _, ok := v.(string); ok {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}
