package render

import (
	"slices"
	"strings"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// Format is an output format.
type Format string

// Output formats.
const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT}

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of svg, png, pdf, json, dot)", s)
	}
	return f, nil
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension of f, with the dot.
func (f Format) Extension() string {
	if f == FormatDOT {
		return ".gv"
	}
	return "." + string(f)
}
