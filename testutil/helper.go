// Package testutil holds comparison helpers shared by the codec tests.
package testutil

import (
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// DecimalComparer compares amounts by numeric value rather than by
// internal representation, so 1234.5 and 1234.50 are equal.
var DecimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool {
	return x.Equal(y)
})

// TimeComparer compares timestamps by instant.
var TimeComparer = cmp.Comparer(func(x, y time.Time) bool {
	return x.Equal(y)
})

// MustAmount parses a canonical decimal string, panicking on malformed
// test data.
func MustAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic("testutil: bad amount literal " + s + ": " + err.Error())
	}
	return d
}

// MustDate parses a DD.MM.YYYY literal, panicking on malformed test data.
func MustDate(s string) time.Time {
	t, err := time.Parse("02.01.2006", s)
	if err != nil {
		panic("testutil: bad date literal " + s + ": " + err.Error())
	}
	return t
}

// MustTime parses an HH:MM:SS literal, panicking on malformed test data.
func MustTime(s string) time.Time {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		panic("testutil: bad time literal " + s + ": " + err.Error())
	}
	return t
}

// Lines splits text into trimmed non-empty lines, tolerating Windows line
// endings in fixtures.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
