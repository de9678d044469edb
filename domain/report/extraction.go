package report

// Extraction is a document together with facts about the workbook it came
// from that the document itself does not carry.
type Extraction struct {
	Document *Document
	// Sheets lists every resolved sheet name in declaration order.
	Sheets []string
}
