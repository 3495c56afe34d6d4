package audit

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/temirov/goldencheck/internal/acquisition"
	"github.com/temirov/goldencheck/internal/archive"
	"github.com/temirov/goldencheck/internal/comparison"
	"github.com/temirov/goldencheck/internal/execshell"
	"github.com/temirov/goldencheck/internal/expectation"
	"github.com/temirov/goldencheck/internal/installation"
	"github.com/temirov/goldencheck/internal/layering"
	"github.com/temirov/goldencheck/internal/report"
)

const (
	runIdentifierFieldConstant      = "run_id"
	modeFieldConstant               = "mode"
	sourceFieldConstant             = "source"
	roleFieldConstant               = "role"
	expectationsFieldConstant       = "expectations"
	installationRootFieldConstant   = "installation_root"
	bundleFieldConstant             = "bundle"
	liveQueriesFieldConstant        = "live_queries"
	failuresFieldConstant           = "failures"
	loadedExpectationsMessage       = "Loaded expectations"
	splunkHomeIgnoredMessage        = "Ignoring installation root because a diagnostic bundle was provided"
	btoolUnavailableMessage         = "btool is not available; reading configuration files directly"
	auditCompletedMessage           = "Audit completed"
	bundleReleaseFailedMessage      = "Failed to release diagnostic bundle"
	loadExpectationsErrorTemplate   = "unable to load expectations: %w"
	locateInstallationErrorTemplate = "unable to locate installation: %w"
	layoutErrorTemplate             = "invalid layer configuration: %w"
	executorErrorTemplate           = "unable to construct command executor: %w"
	rendererErrorTemplate           = "unable to construct report renderer: %w"
	renderErrorTemplate             = "unable to render report: %w"
	cancelledErrorTemplate          = "audit interrupted: %w"
	checksFailedErrorTemplate       = "%w: %d of %d checks at or above severity %s"
)

// Service runs audits against a live installation or a diagnostic bundle.
type Service struct {
	logger        *zap.Logger
	commandRunner execshell.CommandRunner
	locator       InstallationLocator
	outputWriter  io.Writer
	eventObserver execshell.CommandEventObserver
}

// NewService constructs a Service using the provided dependencies.
func NewService(logger *zap.Logger, commandRunner execshell.CommandRunner, locator InstallationLocator, outputWriter io.Writer) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}
	if locator == nil {
		locator = installation.NewLocator()
	}
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	return &Service{
		logger:        logger,
		commandRunner: commandRunner,
		locator:       locator,
		outputWriter:  outputWriter,
	}
}

// WithCommandEventObserver returns a copy of the service that also reports
// btool lifecycle events to observer.
func (service *Service) WithCommandEventObserver(observer execshell.CommandEventObserver) *Service {
	copied := *service
	copied.eventObserver = observer
	return &copied
}

// Run executes one audit. The report is written only after every result is
// final. A policy failure returns the outcome together with ErrChecksFailed.
func (service *Service) Run(executionContext context.Context, options Options) (RunOutcome, error) {
	logger := service.logger.With(zap.String(runIdentifierFieldConstant, options.RunIdentifier))

	renderer, rendererError := report.New(options.Format, report.Options{Colorize: options.Colorize})
	if rendererError != nil {
		return RunOutcome{}, fmt.Errorf(rendererErrorTemplate, rendererError)
	}

	document, loadError := expectation.LoadFile(options.Source.Path, options.Source.Kind)
	if loadError != nil {
		return RunOutcome{}, fmt.Errorf(loadExpectationsErrorTemplate, loadError)
	}
	if len(options.Role) > 0 {
		document = document.FilterRole(options.Role)
	}
	expectations := document.Expectations()
	logger.Info(
		loadedExpectationsMessage,
		zap.String(sourceFieldConstant, options.Source.Path),
		zap.String(roleFieldConstant, string(options.Role)),
		zap.Int(expectationsFieldConstant, len(expectations)),
	)

	outcome, evaluationError := service.evaluate(executionContext, logger, options, expectations)
	if evaluationError != nil {
		return RunOutcome{}, evaluationError
	}
	if contextError := executionContext.Err(); contextError != nil {
		return RunOutcome{}, fmt.Errorf(cancelledErrorTemplate, contextError)
	}

	if renderError := renderer.Render(service.outputWriter, outcome.Results); renderError != nil {
		return RunOutcome{}, fmt.Errorf(renderErrorTemplate, renderError)
	}

	outcome.Summary = comparison.Summarize(outcome.Results)
	outcome.Failures = options.Policy.Failures(outcome.Results)

	summaryFields := []zap.Field{
		zap.String(modeFieldConstant, string(outcome.Mode)),
		zap.Int(expectationsFieldConstant, outcome.Summary.Total),
		zap.Int64(liveQueriesFieldConstant, outcome.LiveQueries),
		zap.Int(failuresFieldConstant, len(outcome.Failures)),
	}
	for _, status := range comparison.Statuses() {
		summaryFields = append(summaryFields, zap.Int(string(status), outcome.Summary.Counts[status]))
	}
	logger.Info(auditCompletedMessage, summaryFields...)

	if len(outcome.Failures) > 0 {
		return outcome, fmt.Errorf(checksFailedErrorTemplate, ErrChecksFailed, len(outcome.Failures), outcome.Summary.Total, options.Policy.Threshold)
	}
	return outcome, nil
}

func (service *Service) evaluate(executionContext context.Context, logger *zap.Logger, options Options, expectations []expectation.Expectation) (RunOutcome, error) {
	if options.DryRun {
		return RunOutcome{Mode: ModeDryRun, Results: comparison.DryRun(expectations)}, nil
	}
	if len(options.DiagBundle) > 0 {
		return service.evaluateBundle(executionContext, logger, options, expectations)
	}
	return service.evaluateInstallation(executionContext, logger, options, expectations)
}

func (service *Service) evaluateBundle(executionContext context.Context, logger *zap.Logger, options Options, expectations []expectation.Expectation) (RunOutcome, error) {
	if len(options.SplunkHome) > 0 {
		logger.Warn(splunkHomeIgnoredMessage, zap.String(installationRootFieldConstant, options.SplunkHome), zap.String(bundleFieldConstant, options.DiagBundle))
	}

	handle, openError := archive.Open(executionContext, options.DiagBundle, archive.Options{
		TemporaryDirectory: options.TemporaryDirectory,
		MaxExtractedBytes:  options.MaxArchiveBytes,
		Layers:             options.Layers,
		Logger:             logger,
	})
	if openError != nil {
		return RunOutcome{}, openError
	}
	defer func() {
		if closeError := handle.Close(); closeError != nil {
			logger.Warn(bundleReleaseFailedMessage, zap.String(bundleFieldConstant, options.DiagBundle), zap.Error(closeError))
		}
	}()

	resolver := acquisition.NewResolver(logger, options.Workers, acquisition.NewFileStrategy(handle.Layout()))
	results := comparison.NewEngine(resolver, logger).Run(executionContext, expectations)
	return RunOutcome{Mode: ModeOffline, Results: results}, nil
}

func (service *Service) evaluateInstallation(executionContext context.Context, logger *zap.Logger, options Options, expectations []expectation.Expectation) (RunOutcome, error) {
	installationRoot, locateError := service.locator.Locate(options.SplunkHome)
	if locateError != nil {
		return RunOutcome{}, fmt.Errorf(locateInstallationErrorTemplate, locateError)
	}

	layout, layoutError := layering.NewLayout(installationRoot, options.Layers)
	if layoutError != nil {
		return RunOutcome{}, fmt.Errorf(layoutErrorTemplate, layoutError)
	}

	counter := &liveQueryCounter{}
	var strategies []acquisition.Strategy
	if installation.HasBinary(installationRoot) {
		executor, executorError := execshell.NewShellExecutor(logger, service.commandRunner)
		if executorError != nil {
			return RunOutcome{}, fmt.Errorf(executorErrorTemplate, executorError)
		}
		strategies = append(strategies, acquisition.NewLiveStrategy(executor.WithObserver(execshell.CombineObservers(counter, service.eventObserver)), installationRoot, options.LiveQueryTimeout))
	} else {
		logger.Warn(btoolUnavailableMessage, zap.String(installationRootFieldConstant, installationRoot))
	}
	strategies = append(strategies, acquisition.NewFileStrategy(layout))

	resolver := acquisition.NewResolver(logger, options.Workers, strategies...)
	results := comparison.NewEngine(resolver, logger).Run(executionContext, expectations)
	return RunOutcome{Mode: ModeLive, Results: results, LiveQueries: counter.started.Load()}, nil
}

// liveQueryCounter counts btool invocations for the run summary.
type liveQueryCounter struct {
	started atomic.Int64
}

func (counter *liveQueryCounter) CommandStarted(execshell.ShellCommand) {
	counter.started.Add(1)
}

func (counter *liveQueryCounter) CommandCompleted(execshell.ShellCommand, execshell.ExecutionResult) {
}

func (counter *liveQueryCounter) CommandExecutionFailed(execshell.ShellCommand, error) {}
