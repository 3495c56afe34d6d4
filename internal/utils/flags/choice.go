// Package flags formats and resolves enumerated flag values.
package flags

import (
	"strings"
)

const (
	choiceListOpenConstant  = "`<"
	choiceListCloseConstant = ">`"
	choiceSeparatorConstant = "|"
)

// FormatChoiceUsage renders "`<a|B|c>` description", upper-casing the default
// choice. Blank and repeated choices are dropped.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := normalizeChoice(defaultChoice)
	displayed := make([]string, 0, len(choices))
	for _, choice := range uniqueChoices(choices) {
		if len(normalizedDefault) > 0 && normalizeChoice(choice) == normalizedDefault {
			choice = strings.ToUpper(choice)
		}
		displayed = append(displayed, choice)
	}

	var usage strings.Builder
	usage.WriteString(choiceListOpenConstant)
	usage.WriteString(strings.Join(displayed, choiceSeparatorConstant))
	usage.WriteString(choiceListCloseConstant)
	if trimmedDescription := strings.TrimSpace(description); len(trimmedDescription) > 0 {
		usage.WriteString(" ")
		usage.WriteString(trimmedDescription)
	}
	return usage.String()
}

// ResolveChoice matches raw against choices ignoring case and surrounding
// space, returning the choice as declared.
func ResolveChoice(raw string, choices []string) (string, bool) {
	normalizedRaw := normalizeChoice(raw)
	if len(normalizedRaw) == 0 {
		return "", false
	}
	for _, choice := range uniqueChoices(choices) {
		if normalizeChoice(choice) == normalizedRaw {
			return choice, true
		}
	}
	return "", false
}

func uniqueChoices(choices []string) []string {
	seen := make(map[string]struct{}, len(choices))
	unique := make([]string, 0, len(choices))
	for _, choice := range choices {
		trimmed := strings.TrimSpace(choice)
		normalized := strings.ToLower(trimmed)
		if len(normalized) == 0 {
			continue
		}
		if _, duplicate := seen[normalized]; duplicate {
			continue
		}
		seen[normalized] = struct{}{}
		unique = append(unique, trimmed)
	}
	return unique
}

func normalizeChoice(choice string) string {
	return strings.ToLower(strings.TrimSpace(choice))
}
