package comparison

import (
	"strings"

	"github.com/temirov/goldencheck/internal/acquisition"
	"github.com/temirov/goldencheck/internal/expectation"
)

const (
	// DryRunCause is recorded on results produced without acquisition.
	DryRunCause             = "dry run: value not acquired"
	causeLineSeparator      = "\n"
	causeJoinedSeparator    = "; "
	unknownOutcomeCauseText = "acquisition produced no outcome"
)

// Classify compares an expectation with its acquisition result. Values are
// compared after trimming surrounding whitespace and are case-sensitive.
func Classify(expected expectation.Expectation, result acquisition.Result) CheckResult {
	checkResult := CheckResult{Expectation: expected, Strategy: result.Strategy}

	switch result.Outcome {
	case acquisition.OutcomeFound:
		checkResult.Actual = result.Value
		checkResult.ActualFound = true
		if strings.TrimSpace(result.Value) == strings.TrimSpace(expected.Expected) {
			checkResult.Status = StatusOK
		} else {
			checkResult.Status = StatusMismatch
		}
	case acquisition.OutcomeAbsent:
		checkResult.Status = StatusMissing
	case acquisition.OutcomeScopeMissing:
		checkResult.Status = StatusUnknown
		checkResult.Cause = describeCause(result.Cause)
	case acquisition.OutcomeFailed:
		checkResult.Status = StatusError
		checkResult.Cause = describeCause(result.Cause)
	default:
		checkResult.Status = StatusUnknown
		checkResult.Cause = unknownOutcomeCauseText
	}
	return checkResult
}

// Unknown produces an UNKNOWN result carrying cause.
func Unknown(expected expectation.Expectation, cause string) CheckResult {
	return CheckResult{Expectation: expected, Status: StatusUnknown, Cause: cause}
}

// DryRun classifies every expectation as UNKNOWN without acquisition.
func DryRun(expectations []expectation.Expectation) []CheckResult {
	results := make([]CheckResult, 0, len(expectations))
	for _, expected := range expectations {
		results = append(results, Unknown(expected, DryRunCause))
	}
	SortResults(results)
	return results
}

func describeCause(cause error) string {
	if cause == nil {
		return ""
	}
	return strings.ReplaceAll(cause.Error(), causeLineSeparator, causeJoinedSeparator)
}
