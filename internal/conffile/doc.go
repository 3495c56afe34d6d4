// Package conffile parses stanza-based .conf files and btool listings into a
// merged key view with Splunk-style effective-value lookup.
package conffile
