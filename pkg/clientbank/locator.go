package clientbank

import "strings"

// Literal section marker lines of the wire grammar.
const (
	MarkerBalanceBegin  = "СекцияРасчСчет"
	MarkerBalanceEnd    = "КонецРасчСчет"
	MarkerDocumentBegin = "СекцияДокумент"
	MarkerDocumentEnd   = "КонецДокумента"
	MarkerFileEnd       = "КонецФайла"
)

// sectionPrefix is the common prefix of every section-begin marker; the
// header region is everything before its first occurrence.
const sectionPrefix = "Секция"

// headerRegion returns the longest prefix of the file text up to the
// first section-begin marker. A file with no sections at all is its own
// header region.
func headerRegion(text string) string {
	if i := strings.Index(text, sectionPrefix); i >= 0 {
		return text[:i]
	}
	return text
}

// balanceRegion carves the text strictly between the balance begin and
// end markers. An absent begin marker means the file simply carries no
// balance section; a begin marker without its end marker is a
// StructuralError.
func balanceRegion(text string) (string, bool, error) {
	begin := strings.Index(text, MarkerBalanceBegin)
	if begin < 0 {
		return "", false, nil
	}
	rest := text[begin+len(MarkerBalanceBegin):]
	end := strings.Index(rest, MarkerBalanceEnd)
	if end < 0 {
		return "", false, &StructuralError{
			Key:    MarkerBalanceBegin,
			Reason: "section is not terminated by " + MarkerBalanceEnd,
		}
	}
	return rest[:end], true, nil
}

// documentRegions carves every document span, in file order. Each span
// runs from its begin marker line (inclusive, since that line also
// carries the document type) up to the next end marker (exclusive). A
// begin marker without a following end marker is a StructuralError.
func documentRegions(text string) ([]string, error) {
	var regions []string
	rest := text
	for {
		begin := strings.Index(rest, MarkerDocumentBegin)
		if begin < 0 {
			return regions, nil
		}
		tail := rest[begin:]
		end := strings.Index(tail, MarkerDocumentEnd)
		if end < 0 {
			return nil, &StructuralError{
				Key:    MarkerDocumentBegin,
				Reason: "section is not terminated by " + MarkerDocumentEnd,
			}
		}
		regions = append(regions, tail[:end])
		rest = tail[end+len(MarkerDocumentEnd):]
	}
}
