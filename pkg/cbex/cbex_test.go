package cbex

import (
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinfer/cbex-plugin/pkg/clientbank"
)

const sampleStatement = `1CClientBankExchange
ВерсияФормата=1.02
Кодировка=Windows
Отправитель=Банк
ДатаНачала=10.02.2020
ДатаКонца=10.02.2020
РасчСчет=40702810900000005555

СекцияДокумент=Платежное поручение
Номер=101
Дата=10.02.2020
Сумма=1234.56
ПлательщикСчет=40702810900000005555
Плательщик=ООО Ромашка
ПлательщикБИК=044525297
ПолучательСчет=40702810123450101230
Получатель=АО Василек
НазначениеПлатежа=Оплата по договору 42
КонецДокумента

КонецФайла
`

func TestParseStatementText(t *testing.T) {
	st, err := ParseStatementText(sampleStatement)
	require.NoError(t, err)

	assert.Equal(t, 1, st.Count())
	assert.Equal(t, "Windows", st.Header.GetString("encoding"))
	assert.Equal(t, "101", st.Documents[0].GetString("number"))
}

func TestParseStatement_Windows1251Bytes(t *testing.T) {
	// The parser consumes cp1251 bytes, the format's native encoding.
	st, err := ParseStatementText(sampleStatement)
	require.NoError(t, err)

	data, err := EncodeStatement(st, WithValidation(false))
	require.NoError(t, err)
	assert.False(t, utf8.Valid(data), "cp1251 bytes with Cyrillic must not be valid UTF-8")

	back, err := ParseStatement(data)
	require.NoError(t, err)
	assert.Equal(t, "ООО Ромашка", back.Documents[0].Payer.GetString("name"))
}

func TestEncodeStatement_ValidationDefaultsOn(t *testing.T) {
	st, err := ParseStatementText(sampleStatement)
	require.NoError(t, err)

	// The inbound file omits fields the bank does not send back, so a
	// validated re-encode must fail.
	_, err = EncodeStatement(st)
	var validation *clientbank.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = EncodeStatement(st, WithValidation(false))
	assert.NoError(t, err)
}

func TestStatementToJSON(t *testing.T) {
	parser := NewParser(WithCharset("utf-8"), WithLogger(slog.Default()))

	jsonData, err := parser.StatementToJSON([]byte(sampleStatement))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(jsonData, &m))

	header, ok := m["header"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, header["format_name"])
	assert.Equal(t, "1.02", header["format_version"])

	documents, ok := m["documents"].([]any)
	require.True(t, ok)
	require.Len(t, documents, 1)

	doc := documents[0].(map[string]any)
	assert.Equal(t, "1234.56", doc["amount"], "amounts travel as exact decimal strings")
	assert.Equal(t, "10.02.2020", doc["date"])

	payer, ok := doc["payer"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ООО Ромашка", payer["name"])

	_, hasBalance := m["balance"]
	assert.False(t, hasBalance)
	_, hasTax := doc["tax"]
	assert.False(t, hasTax)
}

func TestStatementJSONRoundTrip(t *testing.T) {
	parser := NewParser(WithCharset("utf-8"), WithValidation(false))

	jsonData, err := parser.StatementToJSON([]byte(sampleStatement))
	require.NoError(t, err)

	data, err := parser.EncodeStatementJSON(jsonData)
	require.NoError(t, err)

	// The header claims Windows encoding, so the bytes come back cp1251;
	// re-parse with the default charset.
	st, err := ParseStatement(data)
	require.NoError(t, err)

	assert.Equal(t, 1, st.Count())
	assert.Equal(t, "101", st.Documents[0].GetString("number"))
	amount, ok := st.Documents[0].GetAmount("amount")
	require.True(t, ok)
	assert.Equal(t, "1234.56", amount.String())
	assert.Equal(t, "Оплата по договору 42", st.Documents[0].Payment.GetString("purpose"))
}

func TestStatementFromMap_Errors(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		_, err := StatementFromMap(map[string]any{"documents": []any{}})
		assert.Error(t, err)
	})

	t.Run("malformed amount", func(t *testing.T) {
		_, err := StatementFromMap(map[string]any{
			"header": map[string]any{"format_name": true},
			"documents": []any{
				map[string]any{"amount": "not-a-number"},
			},
		})
		var format *clientbank.FormatError
		require.ErrorAs(t, err, &format)
		assert.Equal(t, "Сумма", format.Key)
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		st, err := StatementFromMap(map[string]any{
			"header":   map[string]any{"format_name": true, "kafka_topic": "statements"},
			"metadata": "ignored",
		})
		require.NoError(t, err)
		assert.True(t, st.Header.GetFlag("format_name"))
	})
}

func TestStatementToMap_FromMap_RoundTrip(t *testing.T) {
	first, err := ParseStatementText(sampleStatement)
	require.NoError(t, err)

	second, err := StatementFromMap(StatementToMap(first))
	require.NoError(t, err)

	text1, err := first.Encode(false)
	require.NoError(t, err)
	text2, err := second.Encode(false)
	require.NoError(t, err)
	assert.Equal(t, text1, text2)
}

func TestGlobalParserSingleton(t *testing.T) {
	p1 := getGlobalParser()
	p2 := getGlobalParser()
	assert.Same(t, p1, p2)
}

func TestWithDebugMode(t *testing.T) {
	parser := NewParser(WithDebugMode(true), WithCharset("utf-8"))
	st, err := parser.ParseStatement([]byte(sampleStatement))
	require.NoError(t, err)
	assert.Equal(t, 1, st.Count())

	// Per-call options override the parser's configuration.
	_, err = parser.EncodeStatement(st, WithValidation(false))
	assert.NoError(t, err)
}

func TestParseStatement_BadCharset(t *testing.T) {
	_, err := ParseStatement([]byte(sampleStatement), WithCharset("EBCDIC"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "EBCDIC"))
}
