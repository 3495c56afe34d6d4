package expectation

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	openExpectationFileErrorTemplate = "unable to open expectation file %s: %w"
)

// SourceKind selects which front-end parses an expectation file.
type SourceKind string

// Supported source kinds.
const (
	SourceGolden SourceKind = "golden"
	SourceRules  SourceKind = "rules"
)

// LoadFile opens path and parses it with the front-end named by kind. Parse
// errors carry the file path as their source.
func LoadFile(path string, kind SourceKind) (Document, error) {
	file, openError := os.Open(path)
	if openError != nil {
		return Document{}, fmt.Errorf(openExpectationFileErrorTemplate, path, openError)
	}
	defer file.Close()

	document, parseError := Parse(file, kind)
	if parseError != nil {
		var malformed *ParseError
		if errors.As(parseError, &malformed) {
			malformed.Source = path
		}
		return Document{}, parseError
	}
	return document, nil
}

// Parse dispatches to ParseGolden or LoadRules.
func Parse(reader io.Reader, kind SourceKind) (Document, error) {
	if kind == SourceRules {
		return LoadRules(reader)
	}
	return ParseGolden(reader)
}
