// Package core defines the types shared by every sqlprobe analysis.
//
// It holds only what more than one analysis package needs, today the
// finding Severity. The rule: pkg/core imports only the standard library,
// and everything else may depend on core.
package core
