package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncode_Windows1251RoundTrip(t *testing.T) {
	text := "СекцияДокумент=Платежное поручение"

	data, err := Encode("Windows", text)
	require.NoError(t, err)
	// One byte per character in cp1251, including the Cyrillic ones.
	assert.Len(t, data, len([]rune(text)))

	back, err := Decode("Windows", data)
	require.NoError(t, err)
	assert.Equal(t, text, back)
}

func TestDecode_NameAliases(t *testing.T) {
	tests := []struct {
		name string
	}{
		{"Windows"}, {"windows-1251"}, {"CP1251"}, {""},
		{"DOS"}, {"cp866"},
		{"KOI8"}, {"koi8-r"},
		{"utf-8"}, {"UTF8"},
	}
	for _, tt := range tests {
		t.Run("alias "+tt.name, func(t *testing.T) {
			_, err := Decode(tt.name, []byte("1CClientBankExchange"))
			assert.NoError(t, err)
		})
	}
}

func TestDecode_UnsupportedName(t *testing.T) {
	_, err := Decode("EBCDIC", []byte{})
	assert.Error(t, err)
	_, err = Encode("EBCDIC", "")
	assert.Error(t, err)
}

func TestDecode_UTF8Passthrough(t *testing.T) {
	text := "КонецФайла"
	got, err := Decode("utf-8", []byte(text))
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestEncode_DOSRoundTrip(t *testing.T) {
	text := "ВерсияФормата=1.02"
	data, err := Encode("DOS", text)
	require.NoError(t, err)
	back, err := Decode("cp866", data)
	require.NoError(t, err)
	assert.Equal(t, text, back)
}
