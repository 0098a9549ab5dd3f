package clientbank

import (
	"fmt"
	"regexp"
)

// Required says which party must supply a non-empty value for a field.
// It is a bitset: a field may be required when sending to the bank, when
// receiving from the bank, both, or neither. Requiredness governs
// validation only, never decoding — the bank omits fields the originator
// already supplied, so one schema serves both directions.
type Required uint8

const (
	RequiredNone   Required = 0
	RequiredToBank Required = 1 << iota
	RequiredFromBank
	// RequiredBoth is precomputed as the union of both direction bits.
	RequiredBoth = RequiredToBank | RequiredFromBank
)

// Has reports whether r includes the given direction bit.
func (r Required) Has(dir Required) bool { return r&dir != 0 }

// Field describes one wire line of a section: its literal key, a
// human-readable description, the direction in which it is required,
// and the kind of value it carries. Fields are immutable once built.
type Field struct {
	Key         string
	Description string
	Required    Required
	Kind        Kind

	// pattern matches this field's lines within a region. Anchored per
	// line; for flags the "=value" tail is optional and ignored.
	pattern *regexp.Regexp
}

// newField builds a descriptor and precompiles its line pattern.
func newField(key, description string, required Required, kind Kind) Field {
	var expr string
	if kind == TypeFlag {
		expr = `(?m)^` + regexp.QuoteMeta(key) + `(?:=.*)?$`
	} else {
		expr = `(?m)^` + regexp.QuoteMeta(key) + `=(.*)$`
	}
	return Field{
		Key:         key,
		Description: description,
		Required:    required,
		Kind:        kind,
		pattern:     regexp.MustCompile(expr),
	}
}

// DecodeText decodes one wire payload for this field's kind. Empty or
// whitespace-only input yields nil. Malformed input yields a FormatError.
func (f Field) DecodeText(s string) (any, error) {
	v, err := casts[f.Kind].fromText(s)
	if err != nil {
		return nil, &FormatError{Key: f.Key, Input: s, Err: err}
	}
	return v, nil
}

// EncodeText renders a decoded value back to its wire payload. A nil
// value renders as the empty string.
func (f Field) EncodeText(v any) string {
	if v == nil {
		return ""
	}
	return casts[f.Kind].toText(v)
}

// valueFromText extracts this field's value from a region of wire text.
//
//   - zero matches: nil (absence is never an error here)
//   - flag kind: true on any occurrence of the bare key
//   - array kind: one decoded element per occurrence, in region order
//   - any other kind: exactly one occurrence decodes; two or more is a
//     StructuralError, since the format forbids repeating scalar lines
func (f Field) valueFromText(region string) (any, error) {
	matches := f.pattern.FindAllStringSubmatch(region, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	switch f.Kind {
	case TypeFlag:
		return true, nil
	case TypeArray:
		items := make([]string, 0, len(matches))
		for _, m := range matches {
			v, err := f.DecodeText(m[1])
			if err != nil {
				return nil, err
			}
			if s, ok := v.(string); ok {
				items = append(items, s)
			}
		}
		if len(items) == 0 {
			return nil, nil
		}
		return items, nil
	default:
		if len(matches) > 1 {
			return nil, &StructuralError{
				Key:    f.Key,
				Reason: fmt.Sprintf("non-repeatable field occurs %d times", len(matches)),
			}
		}
		return f.DecodeText(matches[0][1])
	}
}
