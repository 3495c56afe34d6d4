package comparison

import "github.com/temirov/goldencheck/internal/expectation"

// Summary counts results per status.
type Summary struct {
	Total  int
	Counts map[Status]int
}

// Summarize counts results per status. Every status is present in Counts.
func Summarize(results []CheckResult) Summary {
	summary := Summary{Total: len(results), Counts: make(map[Status]int, len(statusOrder))}
	for _, status := range statusOrder {
		summary.Counts[status] = 0
	}
	for _, result := range results {
		summary.Counts[result.Status]++
	}
	return summary
}

// Policy decides whether a run fails.
type Policy struct {
	Threshold     expectation.Severity
	FailOnMissing bool
}

// Failures returns the results that fail the run: MISMATCH and ERROR at or
// above the threshold, and MISSING as well when FailOnMissing is set.
func (policy Policy) Failures(results []CheckResult) []CheckResult {
	var failures []CheckResult
	for _, result := range results {
		if !result.Expectation.Severity.AtLeast(policy.Threshold) {
			continue
		}
		switch result.Status {
		case StatusMismatch, StatusError:
			failures = append(failures, result)
		case StatusMissing:
			if policy.FailOnMissing {
				failures = append(failures, result)
			}
		}
	}
	return failures
}

// Failed reports whether any result fails the run.
func (policy Policy) Failed(results []CheckResult) bool {
	return len(policy.Failures(results)) > 0
}
