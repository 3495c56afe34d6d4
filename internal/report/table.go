package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/temirov/goldencheck/internal/comparison"
	"github.com/temirov/goldencheck/internal/expectation"
)

const (
	sectionRuleWidthConstant      = 60
	configFileColumnWidthConstant = 20
	stanzaColumnWidthConstant     = 25
	settingColumnWidthConstant    = 30
	statusColumnWidthConstant     = 10
	sectionRuleSymbolConstant     = "="
	headerRuleSymbolConstant      = "-"
	noResultsMessageConstant      = "No configuration checks found."
	roleHeadingTemplateConstant   = "ROLE: %s"
	summaryHeadingConstant        = "SUMMARY"
	summaryLineTemplateConstant   = "%s: %d"
	summaryTotalTemplateConstant  = "TOTAL: %d"
	rowTemplateConstant           = "%-*s %-*s %-*s %s"
	detailTemplateConstant        = "%*s %*s %s"
	expectedDetailTemplate        = "Expected: %s"
	actualDetailTemplate          = "Actual:   %s"
	causeDetailTemplate           = "Cause:    %s"
	notSetPlaceholderConstant     = "<not set>"
	headerConfigFileConstant      = "Config File"
	headerStanzaConstant          = "Stanza"
	headerSettingConstant         = "Setting"
	headerStatusConstant          = "Status"
	statusSymbolSeparatorConstant = " "
)

var statusSymbols = map[comparison.Status]string{
	comparison.StatusOK:       "✓",
	comparison.StatusMismatch: "✗",
	comparison.StatusMissing:  "?",
	comparison.StatusError:    "!",
	comparison.StatusUnknown:  "-",
}

var statusColors = map[comparison.Status]color.Attribute{
	comparison.StatusOK:       color.FgGreen,
	comparison.StatusMismatch: color.FgRed,
	comparison.StatusMissing:  color.FgYellow,
	comparison.StatusError:    color.FgMagenta,
	comparison.StatusUnknown:  color.FgWhite,
}

type tableRenderer struct {
	painters map[comparison.Status]*color.Color
}

func newTableRenderer(options Options) tableRenderer {
	painters := make(map[comparison.Status]*color.Color, len(statusColors))
	for status, attribute := range statusColors {
		painter := color.New(attribute)
		if options.Colorize {
			painter.EnableColor()
		} else {
			painter.DisableColor()
		}
		painters[status] = painter
	}
	return tableRenderer{painters: painters}
}

// Render implements Renderer.
func (renderer tableRenderer) Render(writer io.Writer, results []comparison.CheckResult) error {
	buffered := bufio.NewWriter(writer)
	if len(results) == 0 {
		fmt.Fprintln(buffered, noResultsMessageConstant)
		return buffered.Flush()
	}

	var currentRole expectation.Role
	for index, result := range results {
		if index == 0 || result.Expectation.Role != currentRole {
			currentRole = result.Expectation.Role
			renderer.writeRoleHeading(buffered, currentRole)
		}
		renderer.writeRow(buffered, result)
	}

	renderer.writeSummary(buffered, comparison.Summarize(results))
	return buffered.Flush()
}

func (renderer tableRenderer) writeRoleHeading(writer io.Writer, role expectation.Role) {
	sectionRule := strings.Repeat(sectionRuleSymbolConstant, sectionRuleWidthConstant)
	fmt.Fprintln(writer)
	fmt.Fprintln(writer, sectionRule)
	fmt.Fprintf(writer, roleHeadingTemplateConstant+"\n", strings.ToUpper(string(role)))
	fmt.Fprintln(writer, sectionRule)
	fmt.Fprintf(writer, rowTemplateConstant+"\n",
		configFileColumnWidthConstant, headerConfigFileConstant,
		stanzaColumnWidthConstant, headerStanzaConstant,
		settingColumnWidthConstant, headerSettingConstant,
		headerStatusConstant)
	fmt.Fprintf(writer, rowTemplateConstant+"\n",
		configFileColumnWidthConstant, strings.Repeat(headerRuleSymbolConstant, configFileColumnWidthConstant),
		stanzaColumnWidthConstant, strings.Repeat(headerRuleSymbolConstant, stanzaColumnWidthConstant),
		settingColumnWidthConstant, strings.Repeat(headerRuleSymbolConstant, settingColumnWidthConstant),
		strings.Repeat(headerRuleSymbolConstant, statusColumnWidthConstant))
}

func (renderer tableRenderer) writeRow(writer io.Writer, result comparison.CheckResult) {
	statusLabel := statusSymbols[result.Status] + statusSymbolSeparatorConstant + string(result.Status)
	if painter, exists := renderer.painters[result.Status]; exists {
		statusLabel = painter.Sprint(statusLabel)
	}
	fmt.Fprintf(writer, rowTemplateConstant+"\n",
		configFileColumnWidthConstant, result.Expectation.File,
		stanzaColumnWidthConstant, result.Expectation.Stanza,
		settingColumnWidthConstant, result.Expectation.Key,
		statusLabel)

	switch result.Status {
	case comparison.StatusMismatch, comparison.StatusMissing:
		actual := notSetPlaceholderConstant
		if result.ActualFound {
			actual = result.Actual
		}
		renderer.writeDetail(writer, fmt.Sprintf(expectedDetailTemplate, result.Expectation.Expected))
		renderer.writeDetail(writer, fmt.Sprintf(actualDetailTemplate, actual))
	case comparison.StatusError:
		renderer.writeDetail(writer, fmt.Sprintf(causeDetailTemplate, result.Cause))
	}
}

func (renderer tableRenderer) writeDetail(writer io.Writer, detail string) {
	fmt.Fprintf(writer, detailTemplateConstant+"\n", configFileColumnWidthConstant, "", stanzaColumnWidthConstant, "", detail)
}

func (renderer tableRenderer) writeSummary(writer io.Writer, summary comparison.Summary) {
	sectionRule := strings.Repeat(sectionRuleSymbolConstant, sectionRuleWidthConstant)
	fmt.Fprintln(writer)
	fmt.Fprintln(writer, sectionRule)
	fmt.Fprintln(writer, summaryHeadingConstant)
	fmt.Fprintln(writer, sectionRule)
	for _, status := range comparison.Statuses() {
		fmt.Fprintf(writer, summaryLineTemplateConstant+"\n", status, summary.Counts[status])
	}
	fmt.Fprintf(writer, summaryTotalTemplateConstant+"\n", summary.Total)
}
