package types

type ExportFormat string

const (
	ExportFormatPDF  ExportFormat = "PDF"
	ExportFormatWord ExportFormat = "WORD"
	ExportFormatTxt  ExportFormat = "TXT"
)

// ValidExportFormat reports whether f is a supported export format.
func ValidExportFormat(f ExportFormat) bool {
	switch f {
	case ExportFormatPDF, ExportFormatWord, ExportFormatTxt:
		return true
	}
	return false
}
