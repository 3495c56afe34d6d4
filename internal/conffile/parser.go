package conffile

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

const (
	parseConfigurationErrorTemplate = "unable to parse %s: %w"
	readConfigurationErrorTemplate  = "unable to read %s: %w"
	keyValueDelimiterConstant       = "="
)

var loadOptions = ini.LoadOptions{
	KeyValueDelimiters:      keyValueDelimiterConstant,
	IgnoreInlineComment:     true,
	PreserveSurroundedQuote: true,
	SkipUnrecognizableLines: true,
}

// Parse reads .conf content. Keys that appear before any stanza header belong
// to the default stanza. Repeated stanzas merge and the last value of a
// repeated key wins.
func Parse(name string, content []byte) (*Configuration, error) {
	parsed, loadError := ini.LoadSources(loadOptions, content)
	if loadError != nil {
		return nil, fmt.Errorf(parseConfigurationErrorTemplate, name, loadError)
	}

	configuration := NewConfiguration(name)
	for _, section := range parsed.Sections() {
		stanza := section.Name()
		if stanza == ini.DefaultSection {
			stanza = DefaultStanzaName
		}
		for _, key := range section.Keys() {
			configuration.Set(stanza, key.Name(), key.Value())
		}
	}
	return configuration, nil
}

// ParseFile reads and parses the file at path, naming the result name.
func ParseFile(name string, path string) (*Configuration, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return nil, fmt.Errorf(readConfigurationErrorTemplate, path, readError)
	}
	return Parse(name, content)
}

// ParseBtoolListing parses the output of "btool <name> list", which uses the
// same stanza syntax as the files it merges.
func ParseBtoolListing(name string, output string) (*Configuration, error) {
	return Parse(name, []byte(output))
}
