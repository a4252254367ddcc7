package models

// ReportFormat identifies a hearing report rendering.
type ReportFormat string

const (
	ReportFormatText ReportFormat = "txt"
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatPDF  ReportFormat = "pdf"
)

// Valid reports whether f is a supported format.
func (f ReportFormat) Valid() bool {
	switch f {
	case ReportFormatText, ReportFormatCSV, ReportFormatPDF:
		return true
	}
	return false
}

// ContentType returns the MIME type of the format.
func (f ReportFormat) ContentType() string {
	switch f {
	case ReportFormatCSV:
		return "text/csv; charset=utf-8"
	case ReportFormatPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}
