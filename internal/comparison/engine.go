package comparison

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/goldencheck/internal/acquisition"
	"github.com/temirov/goldencheck/internal/expectation"
)

const (
	expectationsFieldConstant = "expectations"
	addressesFieldConstant    = "addresses"
	addressFieldConstant      = "address"
	causeFieldConstant        = "cause"
	engineStartMessage        = "Evaluating expectations"
	acquisitionFailedMessage  = "Could not acquire configuration value"
)

// ValueResolver resolves many addresses at once.
type ValueResolver interface {
	ResolveAll(executionContext context.Context, addresses []expectation.Address) map[expectation.Address]acquisition.Result
}

// Engine evaluates expectations through a ValueResolver.
type Engine struct {
	resolver ValueResolver
	logger   *zap.Logger
}

// NewEngine constructs an Engine.
func NewEngine(resolver ValueResolver, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{resolver: resolver, logger: logger}
}

// Run resolves each distinct address once and returns sorted results, one per
// expectation.
func (engine *Engine) Run(executionContext context.Context, expectations []expectation.Expectation) []CheckResult {
	seen := map[expectation.Address]struct{}{}
	addresses := make([]expectation.Address, 0, len(expectations))
	for _, expected := range expectations {
		address := expected.Address()
		if _, exists := seen[address]; exists {
			continue
		}
		seen[address] = struct{}{}
		addresses = append(addresses, address)
	}

	engine.logger.Debug(engineStartMessage, zap.Int(expectationsFieldConstant, len(expectations)), zap.Int(addressesFieldConstant, len(addresses)))
	resolved := engine.resolver.ResolveAll(executionContext, addresses)

	results := make([]CheckResult, 0, len(expectations))
	for _, expected := range expectations {
		result := Classify(expected, resolved[expected.Address()])
		if result.Status == StatusError {
			engine.logger.Debug(acquisitionFailedMessage, zap.Stringer(addressFieldConstant, expected.Address()), zap.String(causeFieldConstant, result.Cause))
		}
		results = append(results, result)
	}
	SortResults(results)
	return results
}
