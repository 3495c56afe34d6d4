package expectation

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	yamlNullTagConstant           = "!!null"
	rulesReadErrorTemplate        = "failed to read rules: %w"
	reasonRulesDecode             = "invalid rule document: %v"
	reasonRulesEmpty              = "rule document defines no rules"
	reasonRuleMissingField        = "rule %d: missing %s"
	reasonRuleInvalidRole         = "rule %d: %v"
	reasonRuleInvalidSeverity     = "rule %d: %v"
	reasonRuleDuplicate           = "rule %d: %v"
	reasonDocumentRoleInvalid     = "document role: %v"
	ruleFieldFilenameConstant     = "filename"
	ruleFieldStanzaConstant       = "stanza"
	ruleFieldSettingConstant      = "setting"
	ruleFieldExpectedConstant     = "expected_value"
	expectedValueNotScalarMessage = "expected_value must be a scalar"
)

// ruleDocument is the declarative rule form. JSON documents decode through the
// same YAML decoder since JSON is a YAML subset.
type ruleDocument struct {
	Role  string      `yaml:"role"`
	Rules []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	Filename      string     `yaml:"filename"`
	ConfigFile    string     `yaml:"config_file"`
	Stanza        string     `yaml:"stanza"`
	Setting       string     `yaml:"setting"`
	Key           string     `yaml:"key"`
	ExpectedValue scalarText `yaml:"expected_value"`
	Level         string     `yaml:"level"`
	Severity      string     `yaml:"severity"`
	Message       string     `yaml:"message"`
	Role          string     `yaml:"role"`
}

// scalarText keeps the literal text of a scalar so that true, 30, and 30.0
// are compared exactly as written.
type scalarText struct {
	Text    string
	Present bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (scalar *scalarText) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.New(expectedValueNotScalarMessage)
	}
	if node.Tag == yamlNullTagConstant {
		return nil
	}
	scalar.Text = node.Value
	scalar.Present = true
	return nil
}

// LoadRules reads the declarative rule form into a Document.
func LoadRules(reader io.Reader) (Document, error) {
	content, readError := io.ReadAll(reader)
	if readError != nil {
		return Document{}, fmt.Errorf(rulesReadErrorTemplate, readError)
	}

	var parsed ruleDocument
	if decodeError := yaml.Unmarshal(content, &parsed); decodeError != nil {
		return Document{}, &ParseError{Reason: fmt.Sprintf(reasonRulesDecode, decodeError)}
	}
	if len(parsed.Rules) == 0 {
		return Document{}, &ParseError{Reason: reasonRulesEmpty}
	}

	documentRole := RoleGeneral
	if len(strings.TrimSpace(parsed.Role)) > 0 {
		resolvedRole, roleError := ParseRole(parsed.Role)
		if roleError != nil {
			return Document{}, &ParseError{Reason: fmt.Sprintf(reasonDocumentRoleInvalid, roleError)}
		}
		documentRole = resolvedRole
	}

	builder := newDocumentBuilder(OriginRules)
	for ruleIndex, rule := range parsed.Rules {
		ruleNumber := ruleIndex + 1
		if buildError := addRule(builder, documentRole, ruleNumber, rule); buildError != nil {
			return Document{}, buildError
		}
	}

	return builder.build(), nil
}

func addRule(builder *documentBuilder, documentRole Role, ruleNumber int, rule ruleEntry) error {
	fileName := NormalizeFileName(firstNonEmpty(rule.Filename, rule.ConfigFile))
	stanza := strings.TrimSpace(rule.Stanza)
	key := strings.TrimSpace(firstNonEmpty(rule.Setting, rule.Key))

	switch {
	case len(fileName) == 0:
		return &ParseError{Reason: fmt.Sprintf(reasonRuleMissingField, ruleNumber, ruleFieldFilenameConstant)}
	case len(stanza) == 0:
		return &ParseError{Reason: fmt.Sprintf(reasonRuleMissingField, ruleNumber, ruleFieldStanzaConstant)}
	case len(key) == 0:
		return &ParseError{Reason: fmt.Sprintf(reasonRuleMissingField, ruleNumber, ruleFieldSettingConstant)}
	case !rule.ExpectedValue.Present:
		return &ParseError{Reason: fmt.Sprintf(reasonRuleMissingField, ruleNumber, ruleFieldExpectedConstant)}
	}

	role := documentRole
	if len(strings.TrimSpace(rule.Role)) > 0 {
		resolvedRole, roleError := ParseRole(rule.Role)
		if roleError != nil {
			return &ParseError{Reason: fmt.Sprintf(reasonRuleInvalidRole, ruleNumber, roleError)}
		}
		role = resolvedRole
	}

	severity := SeverityWarn
	if levelText := firstNonEmpty(rule.Level, rule.Severity); len(levelText) > 0 {
		resolvedSeverity, severityError := ParseSeverity(levelText)
		if severityError != nil {
			return &ParseError{Reason: fmt.Sprintf(reasonRuleInvalidSeverity, ruleNumber, severityError)}
		}
		severity = resolvedSeverity
	}

	setting := Setting{
		Key:      key,
		Value:    strings.TrimSpace(rule.ExpectedValue.Text),
		Severity: severity,
		Message:  strings.TrimSpace(rule.Message),
	}
	if addError := builder.add(role, fileName, stanza, setting); addError != nil {
		return &ParseError{Reason: fmt.Sprintf(reasonRuleDuplicate, ruleNumber, addError)}
	}
	return nil
}

func firstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		if trimmed := strings.TrimSpace(candidate); len(trimmed) > 0 {
			return trimmed
		}
	}
	return ""
}
