// Package rules contains the built-in lint rules. Importing the package
// registers all of them with the lint registry:
//
//	import _ "github.com/leapstack-labs/sqlprobe/pkg/lint/rules"
//
// Each rule lives in its own file and registers itself from init().
// Rule order is fixed by lint.AllCodes, not by file order.
package rules
