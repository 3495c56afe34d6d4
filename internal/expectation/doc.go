// Package expectation models the golden configuration values an audit checks.
//
// It parses two textual front-ends into one Document: the sectioned golden
// configuration format (###BEGIN <ROLE>### blocks holding ###<file>### sections
// of stanza/key lines) and the declarative rule list (YAML or JSON). Both
// converge to the same flattened Expectation values consumed by the comparison
// engine.
package expectation
