// Package catalog holds the function-name tables shared by the parser
// boundary and the analyzers.
//
// All tables are built at package initialization and are read-only
// afterwards, so they are safe for concurrent use.
package catalog

import (
	"strings"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
)

// Volatility groups volatile functions by how badly they break repeatability.
type Volatility int

// Volatility tiers.
const (
	NotVolatile Volatility = iota
	// VolatileRandom functions return a different value on every call.
	VolatileRandom
	// VolatileIdentity functions mint new identifiers on every call.
	VolatileIdentity
	// VolatileClock functions read the current time.
	VolatileClock
)

// Severity returns the severity a call to a function in this tier carries.
func (v Volatility) Severity() core.Severity {
	switch v {
	case VolatileRandom:
		return core.SeverityError
	case VolatileIdentity:
		return core.SeverityWarning
	default:
		return core.SeverityInfo
	}
}

// WindowClass groups window functions that need ORDER BY to be repeatable.
type WindowClass int

// Window classes.
const (
	NotOrdered WindowClass = iota
	// Ranking functions number rows: ROW_NUMBER, RANK, DENSE_RANK, NTILE.
	Ranking
	// Navigation functions read neighbouring rows: LAG, LEAD, FIRST_VALUE ...
	Navigation
)

var (
	aggregates = setOf(
		"COUNT", "SUM", "AVG", "MIN", "MAX",
		"ANY_VALUE", "ARRAY_AGG", "BIT_AND", "BIT_OR", "BIT_XOR",
		"BOOL_AND", "BOOL_OR", "COUNTIF", "COUNT_IF", "GROUP_CONCAT",
		"JSON_ARRAYAGG", "JSON_OBJECTAGG", "LISTAGG", "MEDIAN", "MODE",
		"PERCENTILE_CONT", "PERCENTILE_DISC", "STDDEV", "STDDEV_POP",
		"STDDEV_SAMP", "STD", "STRING_AGG", "VARIANCE", "VAR_POP", "VAR_SAMP",
		"APPROX_COUNT_DISTINCT", "APPROX_PERCENTILE",
	)

	ranking    = setOf("ROW_NUMBER", "RANK", "DENSE_RANK", "NTILE")
	navigation = setOf("LAG", "LEAD", "FIRST_VALUE", "LAST_VALUE", "NTH_VALUE")
	otherWin   = setOf("PERCENT_RANK", "CUME_DIST")

	volatile = map[string]Volatility{
		"RANDOM":            VolatileRandom,
		"RAND":              VolatileRandom,
		"UUID":              VolatileIdentity,
		"GEN_RANDOM_UUID":   VolatileIdentity,
		"NEWID":             VolatileIdentity,
		"UUID_GENERATE_V4":  VolatileIdentity,
		"NOW":               VolatileClock,
		"CURRENT_TIMESTAMP": VolatileClock,
		"SYSDATE":           VolatileClock,
		"GETDATE":           VolatileClock,
		"SYSTIMESTAMP":      VolatileClock,
		"CURRENT_DATE":      VolatileClock,
		"CURRENT_TIME":      VolatileClock,
	}

	// aliases maps dialect spellings to the canonical name used everywhere else.
	aliases = map[string]string{
		"CURDATE":           "CURRENT_DATE",
		"CURTIME":           "CURRENT_TIME",
		"LOCALTIME":         "CURRENT_TIMESTAMP",
		"LOCALTIMESTAMP":    "CURRENT_TIMESTAMP",
		"UTC_TIMESTAMP":     "CURRENT_TIMESTAMP",
		"STDDEV_POPULATION": "STDDEV_POP",
		"VARIANCE_POP":      "VAR_POP",
		"UUID_V4":           "UUID_GENERATE_V4",
	}
)

func setOf(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// Canonical returns the uppercase canonical spelling of a function name.
func Canonical(name string) string {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if c, ok := aliases[upper]; ok {
		return c
	}
	return upper
}

// IsAggregate reports whether the canonical name is an aggregate function.
func IsAggregate(name string) bool {
	_, ok := aggregates[name]
	return ok
}

// IsWindowOnly reports whether the function is only valid with OVER.
func IsWindowOnly(name string) bool {
	if _, ok := ranking[name]; ok {
		return true
	}
	if _, ok := navigation[name]; ok {
		return true
	}
	_, ok := otherWin[name]
	return ok
}

// WindowClassOf returns the ordering class of a window function.
func WindowClassOf(name string) WindowClass {
	if _, ok := ranking[name]; ok {
		return Ranking
	}
	if _, ok := navigation[name]; ok {
		return Navigation
	}
	return NotOrdered
}

// VolatilityOf returns the volatility tier of a function.
func VolatilityOf(name string) Volatility {
	return volatile[name]
}

// FlavorOf tags a canonical function name for the expression tree.
func FlavorOf(name string) ast.Flavor {
	switch {
	case IsAggregate(name):
		return ast.FlavorAggregate
	case IsWindowOnly(name):
		return ast.FlavorWindow
	case VolatilityOf(name) != NotVolatile:
		return ast.FlavorVolatile
	default:
		return ast.FlavorPlain
	}
}
