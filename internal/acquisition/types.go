package acquisition

import (
	"context"
	"errors"
	"fmt"

	"github.com/temirov/goldencheck/internal/conffile"
)

const strategyErrorTemplate = "%s strategy could not read %s: %v"

// StrategyName identifies an acquisition strategy.
type StrategyName string

// Known strategies.
const (
	StrategyLive StrategyName = "live"
	StrategyFile StrategyName = "file"
)

// Outcome classifies how a key lookup ended.
type Outcome string

// Lookup outcomes.
const (
	OutcomeFound        Outcome = "found"
	OutcomeAbsent       Outcome = "absent"
	OutcomeScopeMissing Outcome = "scope-missing"
	OutcomeFailed       Outcome = "failed"
)

// ErrNotCollected indicates that a configuration file exists in none of the
// sources a strategy can see.
var ErrNotCollected = errors.New("configuration file is not present in any collected source")

// Strategy fetches the effective view of one configuration file.
type Strategy interface {
	Name() StrategyName
	Fetch(executionContext context.Context, fileName string) (*conffile.Configuration, error)
}

// StrategyError is a soft failure that lets the resolver try the next strategy.
type StrategyError struct {
	Strategy StrategyName
	File     string
	Cause    error
}

// Error implements error.
func (strategyError *StrategyError) Error() string {
	return fmt.Sprintf(strategyErrorTemplate, strategyError.Strategy, strategyError.File, strategyError.Cause)
}

// Unwrap exposes the underlying cause.
func (strategyError *StrategyError) Unwrap() error {
	return strategyError.Cause
}

// Result is the outcome of resolving one key.
type Result struct {
	Value    string
	Found    bool
	Strategy StrategyName
	Outcome  Outcome
	Cause    error
}
