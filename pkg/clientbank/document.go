package clientbank

import "strings"

// DocumentRecord is one payment document: the document's own head fields
// plus up to six optional subsections. Subsections share the document's
// text region — they have no delimiters of their own and are told apart
// purely by their disjoint wire-key sets. A subsection whose fields are
// all absent is represented as nil, not as an empty record.
type DocumentRecord struct {
	*SectionRecord

	Receipt  *SectionRecord
	Payer    *SectionRecord
	Receiver *SectionRecord
	Payment  *SectionRecord
	Tax      *SectionRecord
	Special  *SectionRecord
}

// NewDocument returns an empty document under the document schema, with
// empty payer, receiver and payment subsections ready for population.
// The remaining subsections stay nil until assigned.
func NewDocument() *DocumentRecord {
	return &DocumentRecord{
		SectionRecord: NewSectionRecord(DocumentSchema),
		Payer:         NewSectionRecord(PayerSchema),
		Receiver:      NewSectionRecord(ReceiverSchema),
		Payment:       NewSectionRecord(PaymentSchema),
	}
}

// DecodeDocument decodes one carved document region: first the document's
// own schema, then every subsection schema over the same region.
// Subsections that decode to all-absent fields are dropped.
func DecodeDocument(region string) (*DocumentRecord, error) {
	own, err := DecodeSection(DocumentSchema, region)
	if err != nil {
		return nil, err
	}
	doc := &DocumentRecord{SectionRecord: own}

	for _, schema := range subsectionSchemas {
		sub, err := DecodeSection(schema, region)
		if err != nil {
			return nil, err
		}
		if sub.Empty() {
			continue
		}
		switch schema {
		case ReceiptSchema:
			doc.Receipt = sub
		case PayerSchema:
			doc.Payer = sub
		case ReceiverSchema:
			doc.Receiver = sub
		case PaymentSchema:
			doc.Payment = sub
		case TaxSchema:
			doc.Tax = sub
		case SpecialSchema:
			doc.Special = sub
		}
	}
	return doc, nil
}

// Subsections returns the present subsections in their fixed wire order:
// receipt, payer, receiver, payment, tax, special.
func (d *DocumentRecord) Subsections() []*SectionRecord {
	var subs []*SectionRecord
	for _, sub := range []*SectionRecord{d.Receipt, d.Payer, d.Receiver, d.Payment, d.Tax, d.Special} {
		if sub != nil {
			subs = append(subs, sub)
		}
	}
	return subs
}

// Validate checks to-bank requiredness on the document's own fields and
// on every present subsection.
func (d *DocumentRecord) Validate() error {
	if err := d.SectionRecord.Validate(); err != nil {
		return err
	}
	for _, sub := range d.Subsections() {
		if err := sub.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Encode renders the document's own fields, every present subsection in
// fixed order, and the document end marker line. With validate set, the
// whole document is validated before any text is rendered.
func (d *DocumentRecord) Encode(validate bool) (string, error) {
	if validate {
		if err := d.Validate(); err != nil {
			return "", err
		}
	}

	blocks := make([]string, 0, 8)

	own, err := d.SectionRecord.Encode(false)
	if err != nil {
		return "", err
	}
	if own != "" {
		blocks = append(blocks, own)
	}

	for _, sub := range d.Subsections() {
		text, err := sub.Encode(false)
		if err != nil {
			return "", err
		}
		if text != "" {
			blocks = append(blocks, text)
		}
	}

	blocks = append(blocks, MarkerDocumentEnd)
	return strings.Join(blocks, "\n"), nil
}
