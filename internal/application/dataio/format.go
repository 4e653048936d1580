package dataio

import (
	"path/filepath"
	"strings"
)

// Format formato de archivo de importación o exportación.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatPDF  Format = "pdf"
)

var (
	importFormats = []Format{FormatCSV, FormatJSON, FormatXLSX, FormatXLS, FormatXML}
	exportFormats = []Format{FormatCSV, FormatJSON, FormatXML, FormatPDF}
)

var contentTypes = map[Format]string{
	FormatCSV:  "text/csv",
	FormatJSON: "application/json",
	FormatXML:  "application/xml",
	FormatPDF:  "application/pdf",
}

// ContentType tipo MIME de un formato de exportación.
func (f Format) ContentType() string {
	if ct, ok := contentTypes[f]; ok {
		return ct
	}
	return "application/octet-stream"
}

func parseFormat(s string, allowed []Format) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return "", &UnsupportedFormatError{Format: s}
}

// ParseImportFormat acepta csv, json, xlsx, xls y xml.
func ParseImportFormat(s string) (Format, error) { return parseFormat(s, importFormats) }

// ParseExportFormat acepta csv, json, xml y pdf.
func ParseExportFormat(s string) (Format, error) { return parseFormat(s, exportFormats) }

// FormatFromFilename detecta el formato de importación por la extensión.
func FormatFromFilename(name string) (Format, error) {
	return ParseImportFormat(filepath.Ext(name))
}
