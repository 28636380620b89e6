package domain

import (
	"fmt"
	"strings"
)

// ExportFormat names a rendering of a trip.
type ExportFormat string

const (
	FormatMarkdown ExportFormat = "markdown"
	FormatHTML     ExportFormat = "html"
	FormatPDF      ExportFormat = "pdf"
	FormatXLSX     ExportFormat = "xlsx"
)

// ParseExportFormat maps a caller-supplied format name to an ExportFormat.
// "md" is accepted as an alias for markdown. Unknown names fail with
// ErrUnsupportedFormat; pdf is recognised but has no renderer and fails with
// ErrFormatNotImplemented.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "xlsx":
		return FormatXLSX, nil
	case "pdf":
		return FormatPDF, fmt.Errorf("%w: pdf", ErrFormatNotImplemented)
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Document is a rendered export ready to be written to a response.
type Document struct {
	Format      ExportFormat
	ContentType string
	Filename    string
	Body        []byte
}
