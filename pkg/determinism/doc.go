// Package determinism finds SQL constructs whose results are not stable
// across repeated executions, and suggests how to make them stable.
//
// Findings come from four checks, run in this order:
//
//   - window: ranking and navigation window functions without ORDER BY,
//     and ranking functions whose ORDER BY may not be unique
//   - limit: LIMIT without ORDER BY
//   - volatile: calls to RANDOM, UUID and clock functions
//   - distinct: SELECT DISTINCT with LIMIT and no ORDER BY
//
// Window findings carry tie-breaker column suggestions (see Suggest) and a
// data-quality query that detects ties at run time. Plan turns a list of
// findings into recommendations and monitoring columns.
package determinism
