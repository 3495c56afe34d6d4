package audit

import (
	"errors"
	"time"

	"github.com/temirov/goldencheck/internal/comparison"
	"github.com/temirov/goldencheck/internal/expectation"
	"github.com/temirov/goldencheck/internal/report"
)

// ErrChecksFailed reports that at least one check failed the exit policy.
var ErrChecksFailed = errors.New("configuration checks failed")

// AcquisitionMode names how actual values were collected.
type AcquisitionMode string

// Supported acquisition modes.
const (
	ModeLive    AcquisitionMode = "live"
	ModeOffline AcquisitionMode = "offline"
	ModeDryRun  AcquisitionMode = "dry-run"
)

// InstallationLocator resolves the installation root for live audits.
type InstallationLocator interface {
	Locate(explicit string) (string, error)
}

// ExpectationSource selects the expectation file and its front-end.
type ExpectationSource struct {
	Path string
	Kind expectation.SourceKind
}

// Options is the immutable configuration of one audit run.
type Options struct {
	Source             ExpectationSource
	Role               expectation.Role
	SplunkHome         string
	DiagBundle         string
	Format             report.Format
	Colorize           bool
	DryRun             bool
	LiveQueryTimeout   time.Duration
	Workers            int
	Policy             comparison.Policy
	TemporaryDirectory string
	MaxArchiveBytes    int64
	Layers             []string
	RunIdentifier      string
}

// RunOutcome describes a completed audit run.
type RunOutcome struct {
	Mode        AcquisitionMode
	Results     []comparison.CheckResult
	Summary     comparison.Summary
	Failures    []comparison.CheckResult
	LiveQueries int64
}
