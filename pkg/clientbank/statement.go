package clientbank

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Defaults written into the header of an outbound file.
const (
	FormatVersion   = "1.02"
	DefaultEncoding = "Windows"
)

// timeNow is swapped out by tests that need a fixed outbound timestamp.
var timeNow = time.Now

// newlineNormalizer folds Windows and bare-CR line endings to \n. Real
// exchange files usually come from Windows software with CRLF endings,
// and the line-anchored field patterns only understand \n.
var newlineNormalizer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func normalizeNewlines(text string) string {
	if !strings.ContainsRune(text, '\r') {
		return text
	}
	return newlineNormalizer.Replace(text)
}

// StatementFile is the top-level aggregate of one exchange file: exactly
// one header, an optional balance section and the documents in file
// order. It is produced whole by DecodeStatement or assembled by the
// application; decode never returns a partially populated file.
type StatementFile struct {
	Header    *SectionRecord
	Balance   *SectionRecord
	Documents []*DocumentRecord
}

// DecodeStatement parses the full text of an exchange file. The text must
// already be in Go string form; byte-level charset handling (the header's
// Кодировка field) is the caller's concern.
//
// A file whose header region lacks the 1CClientBankExchange marker is not
// this format and fails with a StructuralError. Any document that fails
// to decode fails the whole file.
func DecodeStatement(text string) (*StatementFile, error) {
	text = normalizeNewlines(text)
	header, err := DecodeSection(HeaderSchema, headerRegion(text))
	if err != nil {
		return nil, err
	}
	if !header.GetFlag("format_name") {
		return nil, &StructuralError{
			Key:    "1CClientBankExchange",
			Reason: "file header carries no format marker",
		}
	}

	st := &StatementFile{Header: header}

	region, ok, err := balanceRegion(text)
	if err != nil {
		return nil, err
	}
	if ok {
		balance, err := DecodeSection(BalanceSchema, region)
		if err != nil {
			return nil, err
		}
		st.Balance = balance
	}

	regions, err := documentRegions(text)
	if err != nil {
		return nil, err
	}
	for i, region := range regions {
		doc, err := DecodeDocument(region)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}
		st.Documents = append(st.Documents, doc)
	}

	return st, nil
}

// Encode renders the whole file: header, balance if present, every
// document in order, and the end-of-file marker, with top-level blocks
// separated by a blank line. With validate set the file is checked
// against to-bank requiredness before any text is produced.
func (s *StatementFile) Encode(validate bool) (string, error) {
	if s.Header == nil {
		return "", &ValidationError{Reason: "statement file has no header"}
	}
	if validate {
		if err := s.Validate(); err != nil {
			return "", err
		}
	}

	var blocks []string

	header, err := s.Header.Encode(false)
	if err != nil {
		return "", err
	}
	if header != "" {
		blocks = append(blocks, header)
	}

	if s.Balance != nil {
		content, err := s.Balance.Encode(false)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, MarkerBalanceBegin+"\n"+content+"\n"+MarkerBalanceEnd)
	}

	for _, doc := range s.Documents {
		text, err := doc.Encode(false)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, text)
	}

	blocks = append(blocks, MarkerFileEnd)
	return strings.Join(blocks, "\n\n"), nil
}

// Validate checks to-bank requiredness across the header, the balance
// section if present, and every document.
func (s *StatementFile) Validate() error {
	if s.Header == nil {
		return &ValidationError{Reason: "statement file has no header"}
	}
	if err := s.Header.Validate(); err != nil {
		return err
	}
	if s.Balance != nil {
		if err := s.Balance.Validate(); err != nil {
			return err
		}
	}
	for _, doc := range s.Documents {
		if err := doc.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of documents in the file.
func (s *StatementFile) Count() int { return len(s.Documents) }

// TotalAmount sums the amounts of every document.
func (s *StatementFile) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, doc := range s.Documents {
		if amount, ok := doc.GetAmount("amount"); ok {
			total = total.Add(amount)
		}
	}
	return total
}

// BuildOutbound assembles a file of payment orders to send to a bank.
// Every document must reference the same payer bank (by BIC): one
// outbound file targets exactly one bank. The header is filled with the
// current timestamp, the sender name, the min/max document dates and the
// distinct payer account numbers in first-seen document order — the
// wire format is order-sensitive text, so the account filter must encode
// deterministically. Outbound files carry no balance section.
func BuildOutbound(sender string, documents []*DocumentRecord) (*StatementFile, error) {
	if len(documents) == 0 {
		return nil, &ValidationError{Reason: "an outbound file must contain at least one document"}
	}

	bics := make(map[string]struct{})
	accounts := make([]string, 0, len(documents))
	seenAccounts := make(map[string]struct{})
	var dateSince, dateTill time.Time

	for i, doc := range documents {
		var bic, account string
		if doc.Payer != nil {
			bic = doc.Payer.GetString("bank_bic")
			account = doc.Payer.GetString("account_number")
		}
		bics[bic] = struct{}{}
		if account != "" {
			if _, seen := seenAccounts[account]; !seen {
				seenAccounts[account] = struct{}{}
				accounts = append(accounts, account)
			}
		}

		date, ok := doc.GetDate("date")
		if !ok {
			return nil, &ValidationError{
				Key:    "Дата",
				Reason: fmt.Sprintf("document %d has no date", i+1),
			}
		}
		if dateSince.IsZero() || date.Before(dateSince) {
			dateSince = date
		}
		if date.After(dateTill) {
			dateTill = date
		}
	}

	if len(bics) > 1 {
		return nil, &ValidationError{
			Key:    "ПлательщикБИК",
			Reason: "an outbound file may contain payments from one bank only",
		}
	}

	now := timeNow()
	header := NewSectionRecord(HeaderSchema)
	header.values["format_name"] = true
	header.values["format_version"] = FormatVersion
	header.values["encoding"] = DefaultEncoding
	header.values["sender"] = sender
	header.values["creation_date"] = now
	header.values["creation_time"] = now
	header.values["filter_date_since"] = dateSince
	header.values["filter_date_till"] = dateTill
	header.values["filter_account_numbers"] = accounts

	return &StatementFile{Header: header, Documents: documents}, nil
}
