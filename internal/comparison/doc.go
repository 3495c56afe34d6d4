// Package comparison classifies expectations against acquired values and
// decides whether a run passes.
package comparison
