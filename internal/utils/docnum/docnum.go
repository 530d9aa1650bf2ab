package docnum

import "fmt"

// DocType selects the per-company sequence a document number is drawn from.
type DocType string

const (
	DocTypeJournal DocType = "journal"
	DocTypeInvoice DocType = "invoice"
)

// Prefix returns the fixed document number prefix for a type.
func (t DocType) Prefix() string {
	switch t {
	case DocTypeInvoice:
		return "INV"
	default:
		return "JRN"
	}
}

// IsValid reports whether t is a known document type.
func (t DocType) IsValid() bool {
	return t == DocTypeJournal || t == DocTypeInvoice
}

// Format renders a document number as PREFIX-YEAR-NNNN with the sequence
// zero-padded to four digits. Sequences beyond 9999 widen naturally.
func Format(docType DocType, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", docType.Prefix(), year, seq)
}
