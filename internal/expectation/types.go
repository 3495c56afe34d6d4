package expectation

import (
	"fmt"
	"sort"
	"strings"
)

const (
	confFileExtensionConstant          = ".conf"
	unknownRoleTemplateConstant        = "unknown role %q"
	unknownSeverityTemplateConstant    = "unknown severity %q"
	roleWordSeparatorReplacementTarget = "-"
)

// Role identifies the deployment category an expectation applies to.
type Role string

// Supported roles in report order.
const (
	RoleSearchHead         Role = "search-head"
	RoleIndexer            Role = "indexer"
	RoleClusterManager     Role = "cluster-manager"
	RoleSHCDeployer        Role = "shc-deployer"
	RoleHTTPEventCollector Role = "http-event-collector"
	RoleGeneral            Role = "general"
)

var roleOrder = []Role{
	RoleSearchHead,
	RoleIndexer,
	RoleClusterManager,
	RoleSHCDeployer,
	RoleHTTPEventCollector,
	RoleGeneral,
}

// legacyRoleLabels maps the section labels used by historical golden files.
var legacyRoleLabels = map[string]Role{
	"search heads":                           RoleSearchHead,
	"search head":                            RoleSearchHead,
	"indexers":                               RoleIndexer,
	"cluster manager":                        RoleClusterManager,
	"cluster master":                         RoleClusterManager,
	"shc deployer":                           RoleSHCDeployer,
	"http event collector":                   RoleHTTPEventCollector,
	"http event collector receiver instance": RoleHTTPEventCollector,
	"http event collector recevier instance": RoleHTTPEventCollector,
}

// RoleNames returns the supported role identifiers as strings.
func RoleNames() []string {
	names := make([]string, 0, len(roleOrder))
	for _, role := range roleOrder {
		names = append(names, string(role))
	}
	return names
}

// ParseRole resolves a canonical role name or a legacy section label, ignoring case.
func ParseRole(raw string) (Role, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if legacyRole, isLegacy := legacyRoleLabels[normalized]; isLegacy {
		return legacyRole, nil
	}

	canonical := strings.NewReplacer(" ", roleWordSeparatorReplacementTarget, "_", roleWordSeparatorReplacementTarget).Replace(normalized)
	for _, role := range roleOrder {
		if string(role) == canonical {
			return role, nil
		}
	}
	return "", fmt.Errorf(unknownRoleTemplateConstant, raw)
}

func roleRank(role Role) int {
	for index, candidate := range roleOrder {
		if candidate == role {
			return index
		}
	}
	return len(roleOrder)
}

// Severity ranks how serious a failed expectation is.
type Severity string

// Supported severities, lowest first.
const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

var severityRanks = map[Severity]int{
	SeverityInfo:  0,
	SeverityWarn:  1,
	SeverityError: 2,
}

// ParseSeverity resolves a severity name, accepting "warning" as an alias of warn.
func ParseSeverity(raw string) (Severity, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "warning" {
		normalized = string(SeverityWarn)
	}
	severity := Severity(normalized)
	if _, known := severityRanks[severity]; !known {
		return "", fmt.Errorf(unknownSeverityTemplateConstant, raw)
	}
	return severity, nil
}

// AtLeast reports whether the severity is at or above the threshold.
func (severity Severity) AtLeast(threshold Severity) bool {
	return severityRanks[severity] >= severityRanks[threshold]
}

// Origin tags which front-end produced an expectation.
type Origin string

// Supported origins.
const (
	OriginGolden Origin = "golden"
	OriginRules  Origin = "rules"
)

// Setting is one expected key/value pair inside a stanza.
type Setting struct {
	Key      string
	Value    string
	Severity Severity
	Message  string
}

// StanzaBlock groups settings under a bracketed stanza header.
type StanzaBlock struct {
	Name     string
	Settings []Setting
}

// FileBlock groups stanzas for one configuration file.
type FileBlock struct {
	Name    string
	Stanzas []StanzaBlock
}

// RoleBlock groups configuration files expected for one role.
type RoleBlock struct {
	Role  Role
	Files []FileBlock
}

// Document is the ordered role → file → stanza → key tree of expected values.
type Document struct {
	Origin Origin
	Roles  []RoleBlock
}

// Expectation is one flattened, immutable check.
type Expectation struct {
	Role     Role
	File     string
	Stanza   string
	Key      string
	Expected string
	Severity Severity
	Message  string
	Origin   Origin
}

// Address identifies the configuration value an expectation refers to.
func (expectation Expectation) Address() Address {
	return Address{File: expectation.File, Stanza: expectation.Stanza, Key: expectation.Key}
}

// Address locates a key inside a configuration file stanza.
type Address struct {
	File   string
	Stanza string
	Key    string
}

// String renders the address as file [stanza] key.
func (address Address) String() string {
	return fmt.Sprintf("%s [%s] %s", address.File, address.Stanza, address.Key)
}

// NormalizeFileName lowercases a configuration file name and ensures the .conf suffix.
func NormalizeFileName(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if len(normalized) == 0 {
		return normalized
	}
	if !strings.HasSuffix(normalized, confFileExtensionConstant) {
		normalized += confFileExtensionConstant
	}
	return normalized
}

// Expectations flattens the document, ordered by role, file, stanza, and key.
func (document Document) Expectations() []Expectation {
	var flattened []Expectation
	for _, roleBlock := range document.Roles {
		for _, fileBlock := range roleBlock.Files {
			for _, stanzaBlock := range fileBlock.Stanzas {
				for _, setting := range stanzaBlock.Settings {
					flattened = append(flattened, Expectation{
						Role:     roleBlock.Role,
						File:     fileBlock.Name,
						Stanza:   stanzaBlock.Name,
						Key:      setting.Key,
						Expected: setting.Value,
						Severity: setting.Severity,
						Message:  setting.Message,
						Origin:   document.Origin,
					})
				}
			}
		}
	}
	SortExpectations(flattened)
	return flattened
}

// FilterRole returns a document holding only the blocks of the requested role.
func (document Document) FilterRole(role Role) Document {
	filtered := Document{Origin: document.Origin}
	for _, roleBlock := range document.Roles {
		if roleBlock.Role == role {
			filtered.Roles = append(filtered.Roles, roleBlock)
		}
	}
	return filtered
}

// Count returns the number of settings in the document.
func (document Document) Count() int {
	total := 0
	for _, roleBlock := range document.Roles {
		for _, fileBlock := range roleBlock.Files {
			for _, stanzaBlock := range fileBlock.Stanzas {
				total += len(stanzaBlock.Settings)
			}
		}
	}
	return total
}

// Less orders expectations by role, file, stanza, then key.
func Less(first Expectation, second Expectation) bool {
	if first.Role != second.Role {
		return roleRank(first.Role) < roleRank(second.Role)
	}
	if first.File != second.File {
		return first.File < second.File
	}
	if first.Stanza != second.Stanza {
		return first.Stanza < second.Stanza
	}
	return first.Key < second.Key
}

// SortExpectations orders expectations in place using Less.
func SortExpectations(expectations []Expectation) {
	sort.SliceStable(expectations, func(left int, right int) bool {
		return Less(expectations[left], expectations[right])
	})
}
