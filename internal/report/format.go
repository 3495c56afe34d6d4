package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/temirov/goldencheck/internal/comparison"
)

const unsupportedFormatTemplate = "unsupported report format %q (supported: %s)"

// Format names an output representation.
type Format string

// Supported formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatYAML  Format = "yaml"
)

var supportedFormats = []Format{FormatTable, FormatJSON, FormatCSV, FormatYAML}

// FormatNames lists the supported formats as strings.
func FormatNames() []string {
	names := make([]string, 0, len(supportedFormats))
	for _, format := range supportedFormats {
		names = append(names, string(format))
	}
	return names
}

// ParseFormat resolves a format name case-insensitively.
func ParseFormat(raw string) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(raw)))
	for _, format := range supportedFormats {
		if format == normalized {
			return format, nil
		}
	}
	return "", fmt.Errorf(unsupportedFormatTemplate, raw, strings.Join(FormatNames(), ", "))
}

// Options tune rendering.
type Options struct {
	Colorize bool
}

// Renderer writes results in one format.
type Renderer interface {
	Render(writer io.Writer, results []comparison.CheckResult) error
}

// New returns the renderer for format.
func New(format Format, options Options) (Renderer, error) {
	switch format {
	case FormatTable:
		return newTableRenderer(options), nil
	case FormatJSON:
		return jsonRenderer{}, nil
	case FormatCSV:
		return csvRenderer{}, nil
	case FormatYAML:
		return yamlRenderer{}, nil
	default:
		return nil, fmt.Errorf(unsupportedFormatTemplate, format, strings.Join(FormatNames(), ", "))
	}
}

// IsTerminal reports whether writer is an interactive terminal.
func IsTerminal(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	descriptor := file.Fd()
	return isatty.IsTerminal(descriptor) || isatty.IsCygwinTerminal(descriptor)
}
