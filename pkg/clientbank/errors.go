package clientbank

import "fmt"

// FormatError reports a scalar value that could not be decoded according to
// its field kind's text grammar (malformed date, time or amount text).
type FormatError struct {
	Key   string // wire key of the offending field
	Input string // raw text that failed to decode
	Err   error  // underlying parse error, if any
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("field %s: cannot decode %q: %v", e.Key, e.Input, e.Err)
	}
	return fmt.Sprintf("field %s: cannot decode %q", e.Key, e.Input)
}

func (e *FormatError) Unwrap() error { return e.Err }

// StructuralError reports a malformed document layout: a non-repeatable
// field occurring more than once in a region, a section-begin marker with
// no matching end marker, or text that is not this format at all.
type StructuralError struct {
	Key    string // wire key or section marker involved
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s", e.Key, e.Reason)
	}
	return e.Reason
}

// ValidationError reports a record that cannot be sent to the bank: a
// field required in the to-bank direction is empty, or an outbound file
// mixes documents from more than one bank. It is raised only by validated
// encoding and by outbound construction, never during decode.
type ValidationError struct {
	Key    string // wire key of the missing field, if field-level
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s", e.Key, e.Reason)
	}
	return e.Reason
}
