package comparison_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/goldencheck/internal/acquisition"
	"github.com/temirov/goldencheck/internal/comparison"
	"github.com/temirov/goldencheck/internal/expectation"
)

const subtestNameTemplateConstant = "%d_%s"

func newExpectation(role expectation.Role, file string, stanza string, key string, expected string, severity expectation.Severity) expectation.Expectation {
	return expectation.Expectation{
		Role:     role,
		File:     file,
		Stanza:   stanza,
		Key:      key,
		Expected: expected,
		Severity: severity,
		Origin:   expectation.OriginGolden,
	}
}

func TestClassify(testInstance *testing.T) {
	expected := newExpectation(expectation.RoleIndexer, "server.conf", "general", "site", "site1", expectation.SeverityError)

	testCases := []struct {
		name           string
		result         acquisition.Result
		expectedStatus comparison.Status
		expectedCause  string
	}{
		{name: "equal", result: acquisition.Result{Value: "site1", Found: true, Outcome: acquisition.OutcomeFound}, expectedStatus: comparison.StatusOK},
		{name: "equal_after_trim", result: acquisition.Result{Value: "  site1 ", Found: true, Outcome: acquisition.OutcomeFound}, expectedStatus: comparison.StatusOK},
		{name: "case_sensitive", result: acquisition.Result{Value: "Site1", Found: true, Outcome: acquisition.OutcomeFound}, expectedStatus: comparison.StatusMismatch},
		{name: "absent", result: acquisition.Result{Outcome: acquisition.OutcomeAbsent}, expectedStatus: comparison.StatusMissing},
		{name: "scope_missing", result: acquisition.Result{Outcome: acquisition.OutcomeScopeMissing, Cause: acquisition.ErrNotCollected}, expectedStatus: comparison.StatusUnknown, expectedCause: acquisition.ErrNotCollected.Error()},
		{name: "failed", result: acquisition.Result{Outcome: acquisition.OutcomeFailed, Cause: errors.Join(errors.New("btool timed out"), errors.New("file denied"))}, expectedStatus: comparison.StatusError, expectedCause: "btool timed out; file denied"},
		{name: "no_outcome", result: acquisition.Result{}, expectedStatus: comparison.StatusUnknown, expectedCause: "acquisition produced no outcome"},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(subtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			checkResult := comparison.Classify(expected, testCase.result)
			require.Equal(testInstance, testCase.expectedStatus, checkResult.Status)
			require.Equal(testInstance, testCase.expectedCause, checkResult.Cause)
			require.Equal(testInstance, expected, checkResult.Expectation)
		})
	}
}

type stubResolver struct {
	results  map[expectation.Address]acquisition.Result
	received []expectation.Address
}

func (resolver *stubResolver) ResolveAll(_ context.Context, addresses []expectation.Address) map[expectation.Address]acquisition.Result {
	resolver.received = append(resolver.received, addresses...)
	return resolver.results
}

func TestEngineRunResolvesDistinctAddressesAndSorts(testInstance *testing.T) {
	indexerSite := newExpectation(expectation.RoleIndexer, "server.conf", "general", "site", "site1", expectation.SeverityError)
	searchHeadSite := newExpectation(expectation.RoleSearchHead, "server.conf", "general", "site", "site1", expectation.SeverityWarn)
	searchHeadLimits := newExpectation(expectation.RoleSearchHead, "limits.conf", "search", "max_searches_per_cpu", "2", expectation.SeverityInfo)

	resolver := &stubResolver{results: map[expectation.Address]acquisition.Result{
		indexerSite.Address():      {Value: "site1", Found: true, Outcome: acquisition.OutcomeFound, Strategy: acquisition.StrategyLive},
		searchHeadLimits.Address(): {Value: "1", Found: true, Outcome: acquisition.OutcomeFound, Strategy: acquisition.StrategyLive},
	}}

	results := comparison.NewEngine(resolver, zap.NewNop()).Run(context.Background(), []expectation.Expectation{indexerSite, searchHeadSite, searchHeadLimits})

	require.Len(testInstance, resolver.received, 2)
	require.Len(testInstance, results, 3)
	require.Equal(testInstance, searchHeadLimits, results[0].Expectation)
	require.Equal(testInstance, comparison.StatusMismatch, results[0].Status)
	require.Equal(testInstance, "1", results[0].Actual)
	require.Equal(testInstance, searchHeadSite, results[1].Expectation)
	require.Equal(testInstance, comparison.StatusOK, results[1].Status)
	require.Equal(testInstance, acquisition.StrategyLive, results[1].Strategy)
	require.Equal(testInstance, indexerSite, results[2].Expectation)
}

func TestEngineRunLogsAcquisitionFailures(testInstance *testing.T) {
	outputs := newExpectation(expectation.RoleIndexer, "outputs.conf", "tcpout", "useACK", "true", expectation.SeverityWarn)
	resolver := &stubResolver{results: map[expectation.Address]acquisition.Result{
		outputs.Address(): {Outcome: acquisition.OutcomeFailed, Cause: errors.New("permission denied")},
	}}

	core, logs := observer.New(zapcore.DebugLevel)
	results := comparison.NewEngine(resolver, zap.New(core)).Run(context.Background(), []expectation.Expectation{outputs})
	require.Equal(testInstance, comparison.StatusError, results[0].Status)

	failures := logs.FilterMessage("Could not acquire configuration value").All()
	require.Len(testInstance, failures, 1)
	require.Equal(testInstance, "outputs.conf [tcpout] useACK", failures[0].ContextMap()["address"])
	require.Equal(testInstance, "permission denied", failures[0].ContextMap()["cause"])
}

func TestDryRunProducesUnknown(testInstance *testing.T) {
	results := comparison.DryRun([]expectation.Expectation{
		newExpectation(expectation.RoleIndexer, "server.conf", "general", "site", "site1", expectation.SeverityError),
	})
	require.Len(testInstance, results, 1)
	require.Equal(testInstance, comparison.StatusUnknown, results[0].Status)
	require.Equal(testInstance, comparison.DryRunCause, results[0].Cause)
}

func TestSummarizeCountsEveryStatus(testInstance *testing.T) {
	results := []comparison.CheckResult{
		{Status: comparison.StatusOK},
		{Status: comparison.StatusOK},
		{Status: comparison.StatusMissing},
	}

	summary := comparison.Summarize(results)
	require.Equal(testInstance, 3, summary.Total)
	require.Equal(testInstance, 2, summary.Counts[comparison.StatusOK])
	require.Equal(testInstance, 1, summary.Counts[comparison.StatusMissing])
	require.Len(testInstance, summary.Counts, len(comparison.Statuses()))
}

func TestPolicyFailed(testInstance *testing.T) {
	warnMismatch := comparison.CheckResult{Expectation: expectation.Expectation{Severity: expectation.SeverityWarn}, Status: comparison.StatusMismatch}
	infoError := comparison.CheckResult{Expectation: expectation.Expectation{Severity: expectation.SeverityInfo}, Status: comparison.StatusError}
	errorMissing := comparison.CheckResult{Expectation: expectation.Expectation{Severity: expectation.SeverityError}, Status: comparison.StatusMissing}
	errorUnknown := comparison.CheckResult{Expectation: expectation.Expectation{Severity: expectation.SeverityError}, Status: comparison.StatusUnknown}

	testCases := []struct {
		name           string
		policy         comparison.Policy
		results        []comparison.CheckResult
		expectedFailed bool
	}{
		{name: "mismatch_at_threshold", policy: comparison.Policy{Threshold: expectation.SeverityWarn}, results: []comparison.CheckResult{warnMismatch}, expectedFailed: true},
		{name: "mismatch_below_threshold", policy: comparison.Policy{Threshold: expectation.SeverityError}, results: []comparison.CheckResult{warnMismatch}, expectedFailed: false},
		{name: "error_default_threshold", policy: comparison.Policy{}, results: []comparison.CheckResult{infoError}, expectedFailed: true},
		{name: "missing_ignored", policy: comparison.Policy{Threshold: expectation.SeverityInfo}, results: []comparison.CheckResult{errorMissing}, expectedFailed: false},
		{name: "missing_enforced", policy: comparison.Policy{Threshold: expectation.SeverityInfo, FailOnMissing: true}, results: []comparison.CheckResult{errorMissing}, expectedFailed: true},
		{name: "unknown_never_fails", policy: comparison.Policy{FailOnMissing: true}, results: []comparison.CheckResult{errorUnknown}, expectedFailed: false},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(subtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedFailed, testCase.policy.Failed(testCase.results))
		})
	}
}
