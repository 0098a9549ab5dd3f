package cbex

import (
	"fmt"

	"github.com/twinfer/cbex-plugin/pkg/clientbank"
)

// subsectionNames maps structured-representation keys to subsection
// schemas, in the fixed wire order.
var subsectionNames = []struct {
	name   string
	schema *clientbank.Schema
}{
	{"receipt", clientbank.ReceiptSchema},
	{"payer", clientbank.PayerSchema},
	{"receiver", clientbank.ReceiverSchema},
	{"payment", clientbank.PaymentSchema},
	{"tax", clientbank.TaxSchema},
	{"special", clientbank.SpecialSchema},
}

// StatementToMap converts a statement to its structured representation:
// nested maps keyed by schema attribute names, with scalar values in
// their wire text form (dates as DD.MM.YYYY, amounts as canonical
// decimal strings), flags as booleans and arrays as string lists.
func StatementToMap(st *clientbank.StatementFile) map[string]any {
	m := map[string]any{
		"header": sectionToMap(st.Header),
	}
	if st.Balance != nil {
		m["balance"] = sectionToMap(st.Balance)
	}

	documents := make([]any, 0, len(st.Documents))
	for _, doc := range st.Documents {
		documents = append(documents, documentToMap(doc))
	}
	m["documents"] = documents
	return m
}

// StatementFromMap rebuilds a statement from its structured
// representation. Keys that name no schema attribute are ignored, so
// stream metadata can ride along in the same object.
func StatementFromMap(m map[string]any) (*clientbank.StatementFile, error) {
	headerMap, ok := m["header"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("statement object has no header")
	}
	header, err := sectionFromMap(clientbank.HeaderSchema, headerMap)
	if err != nil {
		return nil, err
	}

	st := &clientbank.StatementFile{Header: header}

	if balanceMap, ok := m["balance"].(map[string]any); ok {
		balance, err := sectionFromMap(clientbank.BalanceSchema, balanceMap)
		if err != nil {
			return nil, err
		}
		st.Balance = balance
	}

	if documents, ok := m["documents"].([]any); ok {
		for i, item := range documents {
			docMap, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("document %d: expected an object, got %T", i+1, item)
			}
			doc, err := documentFromMap(docMap)
			if err != nil {
				return nil, fmt.Errorf("document %d: %w", i+1, err)
			}
			st.Documents = append(st.Documents, doc)
		}
	}

	return st, nil
}

// sectionToMap renders one record's present attributes.
func sectionToMap(r *clientbank.SectionRecord) map[string]any {
	out := make(map[string]any)
	for _, sf := range r.Schema().Fields {
		v := r.Get(sf.Name)
		if v == nil {
			continue
		}
		switch sf.Field.Kind {
		case clientbank.TypeFlag:
			out[sf.Name] = r.GetFlag(sf.Name)
		case clientbank.TypeArray:
			out[sf.Name] = r.GetArray(sf.Name)
		default:
			out[sf.Name] = sf.Field.EncodeText(v)
		}
	}
	return out
}

// documentToMap renders a document: its own attributes flattened at the
// top level, present subsections nested under their names. Attribute
// names and subsection names never collide.
func documentToMap(doc *clientbank.DocumentRecord) map[string]any {
	out := sectionToMap(doc.SectionRecord)
	subs := map[string]*clientbank.SectionRecord{
		"receipt":  doc.Receipt,
		"payer":    doc.Payer,
		"receiver": doc.Receiver,
		"payment":  doc.Payment,
		"tax":      doc.Tax,
		"special":  doc.Special,
	}
	for _, entry := range subsectionNames {
		if sub := subs[entry.name]; sub != nil {
			out[entry.name] = sectionToMap(sub)
		}
	}
	return out
}

// sectionFromMap builds a record from a structured object, decoding each
// scalar through its field's wire codec so malformed values surface as
// the same FormatError the text decoder would produce.
func sectionFromMap(schema *clientbank.Schema, m map[string]any) (*clientbank.SectionRecord, error) {
	r := clientbank.NewSectionRecord(schema)
	for _, sf := range schema.Fields {
		raw, ok := m[sf.Name]
		if !ok || raw == nil {
			continue
		}

		var value any
		switch sf.Field.Kind {
		case clientbank.TypeFlag:
			b, ok := raw.(bool)
			if !ok {
				return nil, fmt.Errorf("%s.%s: expected a boolean, got %T", schema.Name, sf.Name, raw)
			}
			if !b {
				continue
			}
			value = true
		case clientbank.TypeArray:
			items, err := stringList(raw)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", schema.Name, sf.Name, err)
			}
			if len(items) == 0 {
				continue
			}
			value = items
		default:
			v, err := sf.Field.DecodeText(scalarText(raw))
			if err != nil {
				return nil, err
			}
			if v == nil {
				continue
			}
			value = v
		}

		if err := r.Set(sf.Name, value); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// documentFromMap builds a document and its present subsections.
func documentFromMap(m map[string]any) (*clientbank.DocumentRecord, error) {
	own, err := sectionFromMap(clientbank.DocumentSchema, m)
	if err != nil {
		return nil, err
	}
	doc := &clientbank.DocumentRecord{SectionRecord: own}

	targets := map[string]**clientbank.SectionRecord{
		"receipt":  &doc.Receipt,
		"payer":    &doc.Payer,
		"receiver": &doc.Receiver,
		"payment":  &doc.Payment,
		"tax":      &doc.Tax,
		"special":  &doc.Special,
	}
	for _, entry := range subsectionNames {
		subMap, ok := m[entry.name].(map[string]any)
		if !ok {
			continue
		}
		sub, err := sectionFromMap(entry.schema, subMap)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.name, err)
		}
		if !sub.Empty() {
			*targets[entry.name] = sub
		}
	}
	return doc, nil
}

// scalarText renders a JSON scalar as the wire text to decode. JSON
// numbers arrive as float64; everything else is stringified as-is.
func scalarText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// stringList accepts either []string or a JSON []any of scalars.
func stringList(v any) ([]string, error) {
	switch items := v.(type) {
	case []string:
		return items, nil
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, scalarText(item))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
}
