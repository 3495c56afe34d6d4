package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/temirov/goldencheck/internal/comparison"
)

const (
	indentationConstant      = "  "
	yamlIndentSpacesConstant = 2
	encodeErrorTemplate      = "failed to encode %s report: %w"
)

type jsonRenderer struct{}

// Render implements Renderer.
func (jsonRenderer) Render(writer io.Writer, results []comparison.CheckResult) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", indentationConstant)
	encoder.SetEscapeHTML(false)
	if encodeError := encoder.Encode(NewRecords(results)); encodeError != nil {
		return fmt.Errorf(encodeErrorTemplate, FormatJSON, encodeError)
	}
	return nil
}

type csvRenderer struct{}

// Render implements Renderer.
func (csvRenderer) Render(writer io.Writer, results []comparison.CheckResult) error {
	csvWriter := csv.NewWriter(writer)
	if writeError := csvWriter.Write(CSVHeader()); writeError != nil {
		return fmt.Errorf(encodeErrorTemplate, FormatCSV, writeError)
	}
	for _, record := range NewRecords(results) {
		if writeError := csvWriter.Write(record.CSVRecord()); writeError != nil {
			return fmt.Errorf(encodeErrorTemplate, FormatCSV, writeError)
		}
	}
	csvWriter.Flush()
	if flushError := csvWriter.Error(); flushError != nil {
		return fmt.Errorf(encodeErrorTemplate, FormatCSV, flushError)
	}
	return nil
}

type yamlRenderer struct{}

// Render implements Renderer.
func (yamlRenderer) Render(writer io.Writer, results []comparison.CheckResult) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentSpacesConstant)
	if encodeError := encoder.Encode(NewRecords(results)); encodeError != nil {
		return fmt.Errorf(encodeErrorTemplate, FormatYAML, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(encodeErrorTemplate, FormatYAML, closeError)
	}
	return nil
}
