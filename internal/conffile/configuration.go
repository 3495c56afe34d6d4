package conffile

import (
	"sort"
	"strings"
)

const (
	// DefaultStanzaName is the global stanza consulted when a stanza lacks a key.
	DefaultStanzaName           = "default"
	outputsFileNameConstant     = "outputs.conf"
	tcpoutStanzaNameConstant    = "tcpout"
	tcpoutGroupPrefixConstant   = "tcpout:"
	configurationSuffixConstant = ".conf"
)

// Configuration is the merged stanza/key view of one configuration file.
type Configuration struct {
	name    string
	stanzas map[string]map[string]string
}

// NewConfiguration creates an empty configuration for the named file.
func NewConfiguration(name string) *Configuration {
	return &Configuration{name: normalizeName(name), stanzas: map[string]map[string]string{}}
}

// Name returns the canonical file name, for example server.conf.
func (configuration *Configuration) Name() string {
	return configuration.name
}

// Set assigns a key in a stanza, replacing any previous value.
func (configuration *Configuration) Set(stanza string, key string, value string) {
	settings, exists := configuration.stanzas[stanza]
	if !exists {
		settings = map[string]string{}
		configuration.stanzas[stanza] = settings
	}
	settings[key] = value
}

// Merge applies overlay on top of the receiver. Keys present in overlay win.
func (configuration *Configuration) Merge(overlay *Configuration) {
	if overlay == nil {
		return
	}
	for stanza, settings := range overlay.stanzas {
		for key, value := range settings {
			configuration.Set(stanza, key, value)
		}
	}
}

// Lookup returns the value of key declared directly in stanza.
func (configuration *Configuration) Lookup(stanza string, key string) (string, bool) {
	settings, exists := configuration.stanzas[stanza]
	if !exists {
		return "", false
	}
	value, found := settings[key]
	return value, found
}

// Effective resolves key the way the product does at runtime: the exact
// stanza first, then the parent tcpout stanza for output groups, then the
// default stanza.
func (configuration *Configuration) Effective(stanza string, key string) (string, bool) {
	for _, candidate := range configuration.stanzaChain(stanza) {
		if value, found := configuration.Lookup(candidate, key); found {
			return value, true
		}
	}
	return "", false
}

func (configuration *Configuration) stanzaChain(stanza string) []string {
	chain := []string{stanza}
	if configuration.name == outputsFileNameConstant && strings.HasPrefix(stanza, tcpoutGroupPrefixConstant) {
		chain = append(chain, tcpoutStanzaNameConstant)
	}
	if stanza != DefaultStanzaName {
		chain = append(chain, DefaultStanzaName)
	}
	return chain
}

// StanzaNames lists declared stanzas in ASCII order.
func (configuration *Configuration) StanzaNames() []string {
	names := make([]string, 0, len(configuration.stanzas))
	for name := range configuration.stanzas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of declared keys across all stanzas.
func (configuration *Configuration) Len() int {
	total := 0
	for _, settings := range configuration.stanzas {
		total += len(settings)
	}
	return total
}

func normalizeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if len(normalized) > 0 && !strings.HasSuffix(normalized, configurationSuffixConstant) {
		normalized += configurationSuffixConstant
	}
	return normalized
}
