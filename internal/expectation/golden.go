package expectation

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	markerDelimiterConstant       = "###"
	beginMarkerKeywordConstant    = "BEGIN"
	endMarkerKeywordConstant      = "END"
	commentPrefixConstant         = "#"
	stanzaOpenConstant            = "["
	stanzaCloseConstant           = "]"
	keyValueSeparatorConstant     = "="
	goldenReadErrorTemplate       = "failed to read golden configuration: %w"
	goldenWriteErrorTemplate      = "failed to write golden configuration: %w"
	reasonMalformedMarker         = "malformed section marker %q"
	reasonUnknownRole             = "unknown role %q in section marker"
	reasonNestedBegin             = "role block %s opened while %s is still open"
	reasonEndWithoutBegin         = "end marker for %s without a matching begin marker"
	reasonEndMismatch             = "end marker for %s does not close open block %s"
	reasonUnterminatedBlock       = "role block %s is not closed"
	reasonFileOutsideRole         = "configuration file marker %q outside a role block"
	reasonStanzaOutsideFile       = "stanza %q outside a configuration file block"
	reasonEmptyStanza             = "empty stanza header"
	reasonSettingOutsideStanza    = "setting %q outside a stanza"
	reasonContentOutsideRole      = "content outside a role block"
	reasonUnrecognizedLine        = "expected [stanza] or key = value"
	reasonEmptyKey                = "setting without a key"
	goldenBeginLineTemplate       = "###BEGIN %s###\n"
	goldenEndLineTemplate         = "###END %s###\n"
	goldenFileLineTemplate        = "###%s###\n"
	goldenStanzaLineTemplate      = "[%s]\n"
	goldenSettingLineTemplate     = "%s = %s\n"
	goldenSeparatorLine           = "\n"
	goldenParseScannerBufferBytes = 1024 * 1024
)

// goldenParser tracks the open role, file, and stanza while scanning lines.
type goldenParser struct {
	builder       *documentBuilder
	lineNumber    int
	openRole      Role
	openRoleLine  int
	roleIsOpen    bool
	currentFile   string
	currentStanza string
	stanzaIsOpen  bool
}

// ParseGolden reads the sectioned golden configuration format into a Document.
// Any structural problem aborts parsing with a *ParseError carrying the line number.
func ParseGolden(reader io.Reader) (Document, error) {
	parser := &goldenParser{builder: newDocumentBuilder(OriginGolden)}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), goldenParseScannerBufferBytes)
	for scanner.Scan() {
		parser.lineNumber++
		if parseError := parser.consume(scanner.Text()); parseError != nil {
			return Document{}, parseError
		}
	}
	if scanError := scanner.Err(); scanError != nil {
		return Document{}, fmt.Errorf(goldenReadErrorTemplate, scanError)
	}

	if parser.roleIsOpen {
		return Document{}, &ParseError{Line: parser.openRoleLine, Reason: fmt.Sprintf(reasonUnterminatedBlock, parser.openRole)}
	}

	return parser.builder.build(), nil
}

func (parser *goldenParser) consume(rawLine string) error {
	line := strings.TrimSpace(rawLine)
	if len(line) == 0 {
		return nil
	}

	// A line made only of '#' is a decorative rule, not a marker.
	if len(strings.Trim(line, commentPrefixConstant)) == 0 {
		return nil
	}

	if strings.HasPrefix(line, markerDelimiterConstant) {
		return parser.consumeMarker(line)
	}

	if strings.HasPrefix(line, commentPrefixConstant) {
		return nil
	}

	if !parser.roleIsOpen {
		return parser.fail(reasonContentOutsideRole)
	}

	if strings.HasPrefix(line, stanzaOpenConstant) && strings.HasSuffix(line, stanzaCloseConstant) {
		return parser.consumeStanza(line)
	}

	if strings.Contains(line, keyValueSeparatorConstant) {
		return parser.consumeSetting(line)
	}

	return parser.fail(reasonUnrecognizedLine)
}

func (parser *goldenParser) consumeMarker(line string) error {
	if len(line) < 2*len(markerDelimiterConstant)+1 || !strings.HasSuffix(line, markerDelimiterConstant) {
		return parser.fail(fmt.Sprintf(reasonMalformedMarker, line))
	}

	inner := strings.TrimSpace(line[len(markerDelimiterConstant) : len(line)-len(markerDelimiterConstant)])
	if len(inner) == 0 || strings.Contains(inner, markerDelimiterConstant) {
		return parser.fail(fmt.Sprintf(reasonMalformedMarker, line))
	}

	keyword, remainder := splitMarkerKeyword(inner)
	switch strings.ToUpper(keyword) {
	case beginMarkerKeywordConstant:
		return parser.beginRole(line, remainder)
	case endMarkerKeywordConstant:
		return parser.endRole(line, remainder)
	default:
		return parser.beginFile(line, inner)
	}
}

func splitMarkerKeyword(inner string) (string, string) {
	fields := strings.SplitN(inner, " ", 2)
	if len(fields) == 1 {
		return fields[0], ""
	}
	return fields[0], strings.TrimSpace(fields[1])
}

func (parser *goldenParser) beginRole(line string, roleLabel string) error {
	if len(roleLabel) == 0 {
		return parser.fail(fmt.Sprintf(reasonMalformedMarker, line))
	}
	role, roleError := ParseRole(roleLabel)
	if roleError != nil {
		return parser.fail(fmt.Sprintf(reasonUnknownRole, roleLabel))
	}
	if parser.roleIsOpen {
		return parser.fail(fmt.Sprintf(reasonNestedBegin, role, parser.openRole))
	}

	parser.openRole = role
	parser.openRoleLine = parser.lineNumber
	parser.roleIsOpen = true
	parser.currentFile = ""
	parser.stanzaIsOpen = false
	return nil
}

func (parser *goldenParser) endRole(line string, roleLabel string) error {
	if !parser.roleIsOpen {
		return parser.fail(fmt.Sprintf(reasonEndWithoutBegin, roleLabel))
	}
	if len(roleLabel) > 0 {
		role, roleError := ParseRole(roleLabel)
		if roleError != nil {
			return parser.fail(fmt.Sprintf(reasonUnknownRole, roleLabel))
		}
		if role != parser.openRole {
			return parser.fail(fmt.Sprintf(reasonEndMismatch, role, parser.openRole))
		}
	}

	parser.roleIsOpen = false
	parser.currentFile = ""
	parser.stanzaIsOpen = false
	return nil
}

func (parser *goldenParser) beginFile(line string, fileLabel string) error {
	if strings.ContainsAny(fileLabel, " \t") || !strings.HasSuffix(strings.ToLower(fileLabel), confFileExtensionConstant) {
		return parser.fail(fmt.Sprintf(reasonMalformedMarker, line))
	}
	if !parser.roleIsOpen {
		return parser.fail(fmt.Sprintf(reasonFileOutsideRole, fileLabel))
	}

	parser.currentFile = NormalizeFileName(fileLabel)
	parser.stanzaIsOpen = false
	return nil
}

func (parser *goldenParser) consumeStanza(line string) error {
	stanzaName := strings.TrimSpace(line[len(stanzaOpenConstant) : len(line)-len(stanzaCloseConstant)])
	if len(parser.currentFile) == 0 {
		return parser.fail(fmt.Sprintf(reasonStanzaOutsideFile, stanzaName))
	}
	if len(stanzaName) == 0 {
		return parser.fail(reasonEmptyStanza)
	}

	parser.currentStanza = stanzaName
	parser.stanzaIsOpen = true
	return nil
}

func (parser *goldenParser) consumeSetting(line string) error {
	key, value, _ := strings.Cut(line, keyValueSeparatorConstant)
	key = strings.TrimSpace(key)
	if len(key) == 0 {
		return parser.fail(reasonEmptyKey)
	}
	if !parser.stanzaIsOpen {
		return parser.fail(fmt.Sprintf(reasonSettingOutsideStanza, key))
	}

	value = stripInlineComment(value)
	if len(value) == 0 {
		return nil
	}

	setting := Setting{Key: key, Value: value, Severity: SeverityError}
	if addError := parser.builder.add(parser.openRole, parser.currentFile, parser.currentStanza, setting); addError != nil {
		return parser.fail(addError.Error())
	}
	return nil
}

func stripInlineComment(value string) string {
	if commentIndex := strings.Index(value, commentPrefixConstant); commentIndex >= 0 {
		value = value[:commentIndex]
	}
	return strings.TrimSpace(value)
}

func (parser *goldenParser) fail(reason string) error {
	return &ParseError{Line: parser.lineNumber, Reason: reason}
}

// WriteGolden serializes a document in the canonical golden configuration format.
func WriteGolden(writer io.Writer, document Document) error {
	bufferedWriter := bufio.NewWriter(writer)
	for roleIndex, roleBlock := range document.Roles {
		if roleIndex > 0 {
			fmt.Fprint(bufferedWriter, goldenSeparatorLine)
		}
		fmt.Fprintf(bufferedWriter, goldenBeginLineTemplate, roleBlock.Role)
		for _, fileBlock := range roleBlock.Files {
			fmt.Fprint(bufferedWriter, goldenSeparatorLine)
			fmt.Fprintf(bufferedWriter, goldenFileLineTemplate, fileBlock.Name)
			for _, stanzaBlock := range fileBlock.Stanzas {
				fmt.Fprintf(bufferedWriter, goldenStanzaLineTemplate, stanzaBlock.Name)
				for _, setting := range stanzaBlock.Settings {
					fmt.Fprintf(bufferedWriter, goldenSettingLineTemplate, setting.Key, setting.Value)
				}
			}
		}
		fmt.Fprint(bufferedWriter, goldenSeparatorLine)
		fmt.Fprintf(bufferedWriter, goldenEndLineTemplate, roleBlock.Role)
	}
	if flushError := bufferedWriter.Flush(); flushError != nil {
		return fmt.Errorf(goldenWriteErrorTemplate, flushError)
	}
	return nil
}
