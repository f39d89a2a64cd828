package lineage

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
)

// ColumnLineage is the lineage of one output column.
// SourceColumns and SourceTables have the same length.
type ColumnLineage struct {
	TargetColumn  string      `json:"target_column" yaml:"target_column"`
	TargetAlias   string      `json:"target_alias,omitempty" yaml:"target_alias,omitempty"`
	SourceColumns []string    `json:"source_columns" yaml:"source_columns"`
	SourceTables  []string    `json:"source_tables" yaml:"source_tables"`
	MappingType   MappingType `json:"mapping_type" yaml:"mapping_type"`
	Expression    string      `json:"expression,omitempty" yaml:"expression,omitempty"`
}

// Target returns the alias if set, otherwise the target column.
func (c ColumnLineage) Target() string {
	if c.TargetAlias != "" {
		return c.TargetAlias
	}
	return c.TargetColumn
}

// String renders the record as "t.c, t2.c2 -> target (type)".
func (c ColumnLineage) String() string {
	sources := make([]string, 0, len(c.SourceColumns))
	for i, col := range c.SourceColumns {
		sources = append(sources, c.SourceTables[i]+"."+col)
	}
	return fmt.Sprintf("%s -> %s (%s)", strings.Join(sources, ", "), c.Target(), strings.ToLower(string(c.MappingType)))
}

// ModelLineage summarizes the lineage of a whole statement.
type ModelLineage struct {
	Sources []string        `json:"sources" yaml:"sources"`
	CTEs    []string        `json:"ctes,omitempty" yaml:"ctes,omitempty"`
	Columns []ColumnLineage `json:"columns" yaml:"columns"`
}

// Extract returns one record per select item of the outermost query, in
// select-list order. A nil statement yields an empty list.
func Extract(stmt *ast.Statement) []ColumnLineage {
	out := []ColumnLineage{}
	if stmt == nil {
		return out
	}
	sel := ast.MainSelect(stmt.Body)
	if sel == nil {
		return out
	}

	aliases := ResolveAliases(stmt)
	for _, item := range sel.Items {
		out = append(out, record(item, aliases))
	}
	return out
}

// ExtractModel returns the column records together with the statement's
// source tables and CTE names. Sources are deduplicated, in document order,
// and never include a CTE name.
func ExtractModel(stmt *ast.Statement) *ModelLineage {
	m := &ModelLineage{
		Sources: []string{},
		Columns: Extract(stmt),
	}
	if stmt == nil {
		return m
	}

	aliases := ResolveAliases(stmt)
	m.CTEs = ast.CTENames(stmt)

	seen := make(map[string]bool)
	for _, t := range ast.Tables(stmt) {
		if t.Schema == "" && aliases.IsCTE(t.Name) {
			continue
		}
		name := t.QualifiedName()
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		m.Sources = append(m.Sources, name)
	}
	return m
}

func record(item *ast.SelectItem, aliases *Aliases) ColumnLineage {
	c := Classify(item, aliases)

	var alias string
	if item != nil {
		alias = item.Alias
	}
	rec := ColumnLineage{
		TargetColumn:  c.Target,
		TargetAlias:   alias,
		SourceColumns: make([]string, 0, len(c.Sources)),
		SourceTables:  make([]string, 0, len(c.Sources)),
		MappingType:   c.Type,
		Expression:    c.Expression,
	}
	for _, src := range c.Sources {
		rec.SourceTables = append(rec.SourceTables, src.Table)
		rec.SourceColumns = append(rec.SourceColumns, src.Column)
	}
	return rec
}
