package expectation

import "fmt"

const (
	parseErrorLineTemplateConstant    = "line %d: %s"
	parseErrorGeneralTemplateConstant = "%s"
	parseErrorSourceTemplateConstant  = "%s: %s"
)

// ParseError reports malformed expectation input. Line is zero when the error
// is not tied to a specific line, as with declarative rule entries.
type ParseError struct {
	Source string
	Line   int
	Reason string
}

// Error implements error.
func (parseError *ParseError) Error() string {
	message := fmt.Sprintf(parseErrorGeneralTemplateConstant, parseError.Reason)
	if parseError.Line > 0 {
		message = fmt.Sprintf(parseErrorLineTemplateConstant, parseError.Line, parseError.Reason)
	}
	if len(parseError.Source) > 0 {
		return fmt.Sprintf(parseErrorSourceTemplateConstant, parseError.Source, message)
	}
	return message
}
