package clientbank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinfer/cbex-plugin/testutil"
)

func TestDecodeSection_Balance(t *testing.T) {
	region := `
ДатаНачала=10.02.2020
ДатаКонца=10.02.2020
РасчСчет=40702810900000005555
НачальныйОстаток=100 000,00
КонечныйОстаток=148'765.44
`
	r, err := DecodeSection(BalanceSchema, region)
	require.NoError(t, err)

	assert.Equal(t, "40702810900000005555", r.GetString("account_number"))

	since, ok := r.GetDate("date_since")
	require.True(t, ok)
	assert.Equal(t, testutil.MustDate("10.02.2020"), since)

	initial, ok := r.GetAmount("initial_balance")
	require.True(t, ok)
	assert.True(t, initial.Equal(testutil.MustAmount("100000")))

	final, ok := r.GetAmount("final_balance")
	require.True(t, ok)
	assert.True(t, final.Equal(testutil.MustAmount("148765.44")))

	// Absent lines decode to absence, not errors.
	_, ok = r.GetAmount("total_income")
	assert.False(t, ok)
	assert.False(t, r.GetFlag("tag_begin"))
}

func TestSectionRecord_SetRejectsUnknownAttribute(t *testing.T) {
	r := NewSectionRecord(PayerSchema)
	assert.Error(t, r.Set("nonexistent", "x"))
	assert.NoError(t, r.Set("name", "ООО Ромашка"))
	assert.Equal(t, "ООО Ромашка", r.GetString("name"))

	// Setting nil clears the attribute.
	require.NoError(t, r.Set("name", nil))
	assert.Equal(t, "", r.GetString("name"))
	assert.True(t, r.Empty())
}

func TestSectionRecord_ValidateNamesMissingKey(t *testing.T) {
	r := NewSectionRecord(PayerSchema)
	require.NoError(t, r.Set("account", "40702810900000005555"))

	err := r.Validate()
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Плательщик", validation.Key)
}

func TestSectionRecord_EncodeValidateFailsAtomically(t *testing.T) {
	r := NewSectionRecord(PayerSchema)
	text, err := r.Encode(true)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "", text)
}

func TestSectionRecord_EncodeUnvalidatedRendersRequiredEmpty(t *testing.T) {
	r := NewSectionRecord(DocumentSchema)
	require.NoError(t, r.Set("number", "101"))

	text, err := r.Encode(false)
	require.NoError(t, err)

	lines := testutil.Lines(text)
	// Required fields render with empty payloads on an unvalidated encode.
	assert.Equal(t, []string{"СекцияДокумент=", "Номер=101", "Дата=", "Сумма="}, lines)
}

func TestSectionRecord_EncodeFlagAndArray(t *testing.T) {
	r := NewSectionRecord(HeaderSchema)
	require.NoError(t, r.Set("format_name", true))
	require.NoError(t, r.Set("format_version", "1.02"))
	require.NoError(t, r.Set("encoding", "Windows"))
	require.NoError(t, r.Set("sender", "Бухгалтерия предприятия"))
	require.NoError(t, r.Set("filter_date_since", testutil.MustDate("10.02.2020")))
	require.NoError(t, r.Set("filter_date_till", testutil.MustDate("11.02.2020")))
	require.NoError(t, r.Set("filter_account_numbers", []string{"111", "222"}))

	text, err := r.Encode(true)
	require.NoError(t, err)
	lines := testutil.Lines(text)

	assert.Equal(t, "1CClientBankExchange", lines[0], "flag renders its bare key")
	assert.Contains(t, lines, "РасчСчет=111")
	assert.Contains(t, lines, "РасчСчет=222")
	// One line per array element, in element order.
	assert.Less(t,
		strings.Index(text, "РасчСчет=111"),
		strings.Index(text, "РасчСчет=222"))
}

func TestSectionRecord_EncodeOmitsOptionalEmpty(t *testing.T) {
	r := NewSectionRecord(SpecialSchema)
	require.NoError(t, r.Set("priority", "5"))

	text, err := r.Encode(true)
	require.NoError(t, err)
	assert.Equal(t, "Очередность=5", text)
}

func TestSectionRecord_DecodeEncodeIdempotent(t *testing.T) {
	region := "КвитанцияДата=10.02.2020\nКвитанцияВремя=18:30:00\nКвитанцияСодержание=Документ проведен"

	first, err := DecodeSection(ReceiptSchema, region)
	require.NoError(t, err)

	text, err := first.Encode(false)
	require.NoError(t, err)

	second, err := DecodeSection(ReceiptSchema, text)
	require.NoError(t, err)

	for _, sf := range ReceiptSchema.Fields {
		assert.Equal(t,
			sf.Field.EncodeText(first.Get(sf.Name)),
			sf.Field.EncodeText(second.Get(sf.Name)),
			"attribute %s", sf.Name)
	}
}
