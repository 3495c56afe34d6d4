// Package audit runs a golden-configuration audit end to end.
//
// Service loads expectations, selects acquisition strategies for a live
// installation or an extracted diagnostic bundle, evaluates every expectation,
// renders the report, and applies the exit policy. CommandBuilder wires Service
// into the audit Cobra command.
package audit
