// Package charset converts 1CClientBankExchange wire bytes to and from
// Go strings. The format predates Unicode adoption: files are typically
// Windows-1251, the header's Кодировка field names the encoding, and a
// few legacy names (DOS code page, KOI8) still occur in the wild.
package charset

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// lookup maps the encoding names seen in the Кодировка header field (and
// their common aliases) to x/text encodings. A nil value means the bytes
// are already UTF-8 and pass through untouched.
func lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "windows", "windows-1251", "cp1251", "win":
		return charmap.Windows1251, nil
	case "dos", "cp866", "ibm866":
		return charmap.CodePage866, nil
	case "koi8", "koi8-r":
		return charmap.KOI8R, nil
	case "utf-8", "utf8":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported exchange file encoding %q", name)
	}
}

// Decode converts wire bytes in the named encoding to a Go string. An
// empty name defaults to Windows-1251, the format's usual encoding.
func Decode(name string, data []byte) (string, error) {
	enc, err := lookup(name)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return string(data), nil
	}
	text, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s bytes: %w", name, err)
	}
	return string(text), nil
}

// Encode converts a Go string to wire bytes in the named encoding. An
// empty name defaults to Windows-1251.
func Encode(name string, text string) ([]byte, error) {
	enc, err := lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return []byte(text), nil
	}
	data, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encoding text to %s: %w", name, err)
	}
	return data, nil
}
