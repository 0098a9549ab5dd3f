// Package clientbank implements the 1CClientBankExchange v1.02 text format:
// the line-oriented key=value interchange used between Russian banks and
// accounting software for statements and payment orders.
//
// The package is a declarative codec. Each record kind (header, balance,
// document, and the document subsections) is described by an ordered Schema
// of typed field descriptors, and decoding, encoding and validation are all
// driven off that schema data rather than hand-written per record.
package clientbank

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Wire patterns for date and time values.
const (
	DateFormat = "02.01.2006"
	TimeFormat = "15:04:05"
)

// Kind identifies the wire representation of a field value.
type Kind int

const (
	// TypeText is a plain string, surrounding whitespace trimmed.
	TypeText Kind = iota
	// TypeDate is a calendar date in DD.MM.YYYY form, carried as time.Time.
	TypeDate
	// TypeTime is a time of day in HH:MM:SS form, carried as time.Time.
	TypeTime
	// TypeAmount is an exact decimal amount, carried as decimal.Decimal.
	TypeAmount
	// TypeArray is an ordered list of strings, one wire line per element.
	TypeArray
	// TypeFlag carries no payload: the bare key's presence is the value,
	// carried as bool.
	TypeFlag
)

// kindNames is used in error and log output.
var kindNames = map[Kind]string{
	TypeText:   "text",
	TypeDate:   "date",
	TypeTime:   "time",
	TypeAmount: "amount",
	TypeArray:  "array",
	TypeFlag:   "flag",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// cast is a pair of text codecs for one value kind. fromText returns nil
// for empty input; toText returns "" for a nil value. Both directions are
// total for values the other one produced.
type cast struct {
	fromText func(s string) (any, error)
	toText   func(v any) string
}

// casts dispatches codec behavior by kind. TypeArray and TypeFlag decode
// per element / per occurrence, so their fromText is the plain text cast;
// the extraction step in Field.valueFromText assembles the final value.
var casts = map[Kind]cast{
	TypeText:   {fromText: textFromWire, toText: textToWire},
	TypeDate:   {fromText: dateFromWire, toText: dateToWire},
	TypeTime:   {fromText: timeFromWire, toText: timeToWire},
	TypeAmount: {fromText: amountFromWire, toText: amountToWire},
	TypeArray:  {fromText: textFromWire, toText: textToWire},
	TypeFlag:   {fromText: textFromWire, toText: textToWire},
}

func textFromWire(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	return s, nil
}

func textToWire(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func dateFromWire(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func dateToWire(v any) string {
	t, ok := v.(time.Time)
	if !ok || t.IsZero() {
		return ""
	}
	return t.Format(DateFormat)
}

func timeFromWire(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func timeToWire(v any) string {
	t, ok := v.(time.Time)
	if !ok {
		return ""
	}
	return t.Format(TimeFormat)
}

// amountFromWire decodes bank amount text. Input is tolerant: thousands may
// be grouped with apostrophes or spaces, and either "." or "," may act as
// the decimal mark. Normalization order matters: strip everything that is
// not a digit, comma, period or minus; turn commas into periods; then treat
// every period but the last as a thousands separator. Replacing commas
// naively first would corrupt values like "1.234,56".
func amountFromWire(s string) (any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	normalized := strings.ReplaceAll(b.String(), ",", ".")
	if n := strings.Count(normalized, "."); n > 1 {
		normalized = strings.Replace(normalized, ".", "", n-1)
	}
	if normalized == "" {
		return nil, fmt.Errorf("no digits in amount text")
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// amountToWire renders the canonical decimal form: "." as the decimal
// mark, no thousands grouping.
func amountToWire(v any) string {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return ""
	}
	return d.String()
}
