package clientbank

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SectionRecord is one decoded or under-construction instance of a
// schema: a mapping from attribute name to value. Values are nil when the
// wire line was absent. Records are plain data — they are built either by
// the decode pipeline or by the application, and are not safe for
// concurrent mutation by multiple owners.
type SectionRecord struct {
	schema *Schema
	values map[string]any
}

// NewSectionRecord returns an empty record for the given schema.
func NewSectionRecord(schema *Schema) *SectionRecord {
	return &SectionRecord{
		schema: schema,
		values: make(map[string]any, len(schema.Fields)),
	}
}

// DecodeSection runs every field of the schema over a region of wire text
// and collects the results. Fields are independent: absence of a line
// yields a nil value, while malformed payloads (FormatError) or repeated
// scalar lines (StructuralError) fail the whole record.
func DecodeSection(schema *Schema, region string) (*SectionRecord, error) {
	r := NewSectionRecord(schema)
	for _, sf := range schema.Fields {
		v, err := sf.Field.valueFromText(region)
		if err != nil {
			return nil, fmt.Errorf("decoding %s section: %w", schema.Name, err)
		}
		if v != nil {
			r.values[sf.Name] = v
		}
	}
	return r, nil
}

// Schema returns the schema this record is an instance of.
func (r *SectionRecord) Schema() *Schema { return r.schema }

// Get returns the raw value of an attribute, nil when absent.
func (r *SectionRecord) Get(name string) any { return r.values[name] }

// Set assigns an attribute value. Unknown attribute names are rejected so
// typos surface at construction time rather than as silently dropped
// lines at encode time.
func (r *SectionRecord) Set(name string, value any) error {
	if _, ok := r.schema.byName[name]; !ok {
		return fmt.Errorf("schema %s has no attribute %q", r.schema.Name, name)
	}
	if value == nil {
		delete(r.values, name)
		return nil
	}
	r.values[name] = value
	return nil
}

// GetString returns a text attribute, "" when absent.
func (r *SectionRecord) GetString(name string) string {
	s, _ := r.values[name].(string)
	return s
}

// GetDate returns a date or time attribute and whether it was present.
func (r *SectionRecord) GetDate(name string) (time.Time, bool) {
	t, ok := r.values[name].(time.Time)
	return t, ok
}

// GetAmount returns an amount attribute and whether it was present.
func (r *SectionRecord) GetAmount(name string) (decimal.Decimal, bool) {
	d, ok := r.values[name].(decimal.Decimal)
	return d, ok
}

// GetArray returns an array attribute, nil when absent.
func (r *SectionRecord) GetArray(name string) []string {
	a, _ := r.values[name].([]string)
	return a
}

// GetFlag reports whether a flag attribute is set.
func (r *SectionRecord) GetFlag(name string) bool {
	b, _ := r.values[name].(bool)
	return b
}

// Empty reports whether every attribute of the record is absent. Used to
// decide whether a delimiter-less subsection was present in a document
// region at all.
func (r *SectionRecord) Empty() bool { return len(r.values) == 0 }

// Validate checks that every field required in the to-bank direction
// carries a non-empty value. Flags are exempt: a flag's absence is a
// legal value. Returns a ValidationError naming the first missing wire
// key in schema order.
func (r *SectionRecord) Validate() error {
	for _, sf := range r.schema.Fields {
		f := sf.Field
		if !f.Required.Has(RequiredToBank) || f.Kind == TypeFlag {
			continue
		}
		empty := false
		if f.Kind == TypeArray {
			empty = len(r.GetArray(sf.Name)) == 0
		} else {
			empty = r.encodedPayload(sf) == ""
		}
		if empty {
			return &ValidationError{
				Key:    f.Key,
				Reason: "field is required when sending to the bank but has no value",
			}
		}
	}
	return nil
}

// Encode renders the record's lines in schema order, joined by newlines.
// With validate set, to-bank requiredness is checked first and encoding
// fails atomically on the first violation.
//
// Rendering rules per field:
//   - flag: the bare key when set, or when the field is to-bank required
//   - array: one key=element line per element; nothing when empty
//   - other kinds: key=value when non-empty; a to-bank required field
//     with no value still renders "key=" on an unvalidated encode
func (r *SectionRecord) Encode(validate bool) (string, error) {
	if validate {
		if err := r.Validate(); err != nil {
			return "", err
		}
	}

	var lines []string
	for _, sf := range r.schema.Fields {
		f := sf.Field
		switch f.Kind {
		case TypeFlag:
			if r.GetFlag(sf.Name) || f.Required.Has(RequiredToBank) {
				lines = append(lines, f.Key)
			}
		case TypeArray:
			for _, item := range r.GetArray(sf.Name) {
				if item = strings.TrimSpace(item); item != "" {
					lines = append(lines, f.Key+"="+item)
				}
			}
		default:
			payload := r.encodedPayload(sf)
			if payload != "" || f.Required.Has(RequiredToBank) {
				lines = append(lines, f.Key+"="+payload)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

// encodedPayload renders one scalar attribute's wire payload, "" when the
// value is absent or empty.
func (r *SectionRecord) encodedPayload(sf SchemaField) string {
	v, ok := r.values[sf.Name]
	if !ok {
		return ""
	}
	return sf.Field.EncodeText(v)
}
