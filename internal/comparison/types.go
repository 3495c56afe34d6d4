package comparison

import (
	"sort"

	"github.com/temirov/goldencheck/internal/acquisition"
	"github.com/temirov/goldencheck/internal/expectation"
)

// Status is the classification of one check.
type Status string

// Check statuses.
const (
	StatusOK       Status = "OK"
	StatusMismatch Status = "MISMATCH"
	StatusMissing  Status = "MISSING"
	StatusError    Status = "ERROR"
	StatusUnknown  Status = "UNKNOWN"
)

var statusOrder = []Status{StatusOK, StatusMismatch, StatusMissing, StatusError, StatusUnknown}

// Statuses lists every status in summary order.
func Statuses() []Status {
	return append([]Status(nil), statusOrder...)
}

// CheckResult is the outcome of comparing one expectation.
type CheckResult struct {
	Expectation expectation.Expectation
	Actual      string
	ActualFound bool
	Strategy    acquisition.StrategyName
	Status      Status
	Cause       string
}

// SortResults orders results by role, file, stanza, and key.
func SortResults(results []CheckResult) {
	sort.SliceStable(results, func(first int, second int) bool {
		return expectation.Less(results[first].Expectation, results[second].Expectation)
	})
}
