package report

import "github.com/temirov/goldencheck/internal/comparison"

// CSV column headers.
const (
	csvHeaderRole          = "Role"
	csvHeaderConfigFile    = "Config File"
	csvHeaderStanza        = "Stanza"
	csvHeaderSetting       = "Setting"
	csvHeaderExpectedValue = "Expected Value"
	csvHeaderActualValue   = "Actual Value"
	csvHeaderStatus        = "Status"
	csvHeaderSeverity      = "Severity"
	csvHeaderSource        = "Source"
	csvHeaderMessage       = "Message"
	csvHeaderCause         = "Cause"
)

// Record is the flat, serializable form of a check result.
type Record struct {
	Role          string  `json:"role" yaml:"role"`
	ConfigFile    string  `json:"config_file" yaml:"config_file"`
	Stanza        string  `json:"stanza" yaml:"stanza"`
	Setting       string  `json:"setting" yaml:"setting"`
	ExpectedValue string  `json:"expected_value" yaml:"expected_value"`
	ActualValue   *string `json:"actual_value" yaml:"actual_value"`
	Status        string  `json:"status" yaml:"status"`
	Severity      string  `json:"severity" yaml:"severity"`
	Source        string  `json:"source,omitempty" yaml:"source,omitempty"`
	Message       string  `json:"message,omitempty" yaml:"message,omitempty"`
	Cause         string  `json:"cause,omitempty" yaml:"cause,omitempty"`
}

// NewRecord flattens a check result. ActualValue is nil when no value was found.
func NewRecord(result comparison.CheckResult) Record {
	record := Record{
		Role:          string(result.Expectation.Role),
		ConfigFile:    result.Expectation.File,
		Stanza:        result.Expectation.Stanza,
		Setting:       result.Expectation.Key,
		ExpectedValue: result.Expectation.Expected,
		Status:        string(result.Status),
		Severity:      string(result.Expectation.Severity),
		Source:        string(result.Strategy),
		Message:       result.Expectation.Message,
		Cause:         result.Cause,
	}
	if result.ActualFound {
		actual := result.Actual
		record.ActualValue = &actual
	}
	return record
}

// NewRecords flattens results, preserving order.
func NewRecords(results []comparison.CheckResult) []Record {
	records := make([]Record, 0, len(results))
	for _, result := range results {
		records = append(records, NewRecord(result))
	}
	return records
}

// CSVHeader returns the CSV header row.
func CSVHeader() []string {
	return []string{
		csvHeaderRole,
		csvHeaderConfigFile,
		csvHeaderStanza,
		csvHeaderSetting,
		csvHeaderExpectedValue,
		csvHeaderActualValue,
		csvHeaderStatus,
		csvHeaderSeverity,
		csvHeaderSource,
		csvHeaderMessage,
		csvHeaderCause,
	}
}

// CSVRecord returns the record formatted for CSV encoding.
func (record Record) CSVRecord() []string {
	actualValue := ""
	if record.ActualValue != nil {
		actualValue = *record.ActualValue
	}
	return []string{
		record.Role,
		record.ConfigFile,
		record.Stanza,
		record.Setting,
		record.ExpectedValue,
		actualValue,
		record.Status,
		record.Severity,
		record.Source,
		record.Message,
		record.Cause,
	}
}
