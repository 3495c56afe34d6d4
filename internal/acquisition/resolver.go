package acquisition

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/temirov/goldencheck/internal/conffile"
	"github.com/temirov/goldencheck/internal/expectation"
)

const (
	defaultWorkerCountConstant = 1
	fileFieldConstant          = "file"
	strategyFieldConstant      = "strategy"
	keysFieldConstant          = "keys"
	strategyFailedMessage      = "Acquisition strategy failed, trying next"
	fileResolvedMessage        = "Resolved configuration file"
	fileUnresolvedMessage      = "No acquisition strategy could read configuration file"
	fileScopeMissingMessage    = "Configuration file not present in any source"
)

type fileOutcome struct {
	configuration *conffile.Configuration
	strategy      StrategyName
	cause         error
	scopeMissing  bool
}

// Resolver looks up effective values through an ordered strategy list and
// caches one fetch per configuration file for its lifetime.
type Resolver struct {
	logger     *zap.Logger
	strategies []Strategy
	workers    int
	cacheMutex sync.Mutex
	cache      map[string]fileOutcome
	flights    singleflight.Group
}

// NewResolver constructs a Resolver. Strategies are tried in the given order;
// workers bounds concurrent file fetches in ResolveAll.
func NewResolver(logger *zap.Logger, workers int, strategies ...Strategy) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = defaultWorkerCountConstant
	}
	return &Resolver{
		logger:     logger,
		strategies: append([]Strategy(nil), strategies...),
		workers:    workers,
		cache:      map[string]fileOutcome{},
	}
}

// Resolve returns the effective value of address.
func (resolver *Resolver) Resolve(executionContext context.Context, address expectation.Address) Result {
	return resolver.resultFor(resolver.fetchFile(executionContext, address.File), address)
}

// ResolveAll resolves addresses concurrently. Addresses are grouped by file so
// that no two workers fetch the same file.
func (resolver *Resolver) ResolveAll(executionContext context.Context, addresses []expectation.Address) map[expectation.Address]Result {
	addressesByFile := map[string][]expectation.Address{}
	var fileOrder []string
	for _, address := range addresses {
		if _, seen := addressesByFile[address.File]; !seen {
			fileOrder = append(fileOrder, address.File)
		}
		addressesByFile[address.File] = append(addressesByFile[address.File], address)
	}

	results := make(map[expectation.Address]Result, len(addresses))
	var resultsMutex sync.Mutex

	group, groupContext := errgroup.WithContext(executionContext)
	group.SetLimit(resolver.workers)
	for _, fileName := range fileOrder {
		fileAddresses := addressesByFile[fileName]
		group.Go(func() error {
			outcome := resolver.fetchFile(groupContext, fileName)
			resultsMutex.Lock()
			defer resultsMutex.Unlock()
			for _, address := range fileAddresses {
				results[address] = resolver.resultFor(outcome, address)
			}
			return nil
		})
	}
	_ = group.Wait()

	return results
}

func (resolver *Resolver) resultFor(outcome fileOutcome, address expectation.Address) Result {
	switch {
	case outcome.configuration != nil:
		value, found := outcome.configuration.Effective(address.Stanza, address.Key)
		if !found {
			return Result{Strategy: outcome.strategy, Outcome: OutcomeAbsent}
		}
		return Result{Value: value, Found: true, Strategy: outcome.strategy, Outcome: OutcomeFound}
	case outcome.scopeMissing:
		return Result{Outcome: OutcomeScopeMissing, Cause: outcome.cause}
	default:
		return Result{Outcome: OutcomeFailed, Cause: outcome.cause}
	}
}

func (resolver *Resolver) fetchFile(executionContext context.Context, fileName string) fileOutcome {
	resolver.cacheMutex.Lock()
	cached, exists := resolver.cache[fileName]
	resolver.cacheMutex.Unlock()
	if exists {
		return cached
	}

	value, _, _ := resolver.flights.Do(fileName, func() (any, error) {
		resolver.cacheMutex.Lock()
		cachedInFlight, existsInFlight := resolver.cache[fileName]
		resolver.cacheMutex.Unlock()
		if existsInFlight {
			return cachedInFlight, nil
		}

		outcome := resolver.runStrategies(executionContext, fileName)
		if executionContext.Err() == nil {
			resolver.cacheMutex.Lock()
			resolver.cache[fileName] = outcome
			resolver.cacheMutex.Unlock()
		}
		return outcome, nil
	})
	return value.(fileOutcome)
}

func (resolver *Resolver) runStrategies(executionContext context.Context, fileName string) fileOutcome {
	var failures []error
	scopeMissing := true

	for _, strategy := range resolver.strategies {
		configuration, fetchError := strategy.Fetch(executionContext, fileName)
		if fetchError == nil {
			resolver.logger.Debug(
				fileResolvedMessage,
				zap.String(fileFieldConstant, fileName),
				zap.String(strategyFieldConstant, string(strategy.Name())),
				zap.Int(keysFieldConstant, configuration.Len()),
			)
			return fileOutcome{configuration: configuration, strategy: strategy.Name()}
		}

		resolver.logger.Debug(
			strategyFailedMessage,
			zap.String(fileFieldConstant, fileName),
			zap.String(strategyFieldConstant, string(strategy.Name())),
			zap.Error(fetchError),
		)
		failures = append(failures, fetchError)
		if !errors.Is(fetchError, ErrNotCollected) {
			scopeMissing = false
		}
	}

	cause := errors.Join(failures...)
	if cause == nil {
		cause = ErrNotCollected
	}
	if scopeMissing {
		resolver.logger.Debug(fileScopeMissingMessage, zap.String(fileFieldConstant, fileName))
		return fileOutcome{cause: cause, scopeMissing: true}
	}

	resolver.logger.Warn(fileUnresolvedMessage, zap.String(fileFieldConstant, fileName), zap.Error(cause))
	return fileOutcome{cause: cause}
}
