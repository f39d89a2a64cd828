package lineage

import (
	"strings"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
)

// Unknown is the table reported for a column with no qualifier.
const Unknown = "unknown"

// Aliases maps table aliases to canonical table names and records the
// names a statement defines in its WITH clause.
type Aliases struct {
	tables map[string]string
	ctes   map[string]struct{}
}

// ResolveAliases walks every Table in stmt in document order. An aliased
// table maps alias to name; an unaliased one maps its name to itself.
// A later declaration of the same key overwrites an earlier one.
func ResolveAliases(stmt *ast.Statement) *Aliases {
	a := &Aliases{
		tables: make(map[string]string),
		ctes:   make(map[string]struct{}),
	}
	if stmt == nil {
		return a
	}

	for _, name := range ast.CTENames(stmt) {
		a.ctes[strings.ToLower(name)] = struct{}{}
	}

	for _, t := range ast.Tables(stmt) {
		key := t.Alias
		if key == "" {
			key = t.Name
		}
		a.tables[strings.ToLower(key)] = t.QualifiedName()
	}
	return a
}

// Resolve maps a column qualifier to a table name. An empty qualifier
// resolves to Unknown; a qualifier that names no table is returned as is.
func (a *Aliases) Resolve(qualifier string) string {
	if qualifier == "" {
		return Unknown
	}
	if name, ok := a.tables[strings.ToLower(qualifier)]; ok {
		return name
	}
	return qualifier
}

// IsCTE reports whether name is defined by the statement's WITH clause.
func (a *Aliases) IsCTE(name string) bool {
	_, ok := a.ctes[strings.ToLower(name)]
	return ok
}

// Map returns a copy of the alias map, keyed by lower-cased alias.
func (a *Aliases) Map() map[string]string {
	out := make(map[string]string, len(a.tables))
	for k, v := range a.tables {
		out[k] = v
	}
	return out
}

// Len returns the number of distinct aliases.
func (a *Aliases) Len() int {
	return len(a.tables)
}
