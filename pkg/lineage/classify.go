package lineage

import (
	"github.com/leapstack-labs/sqlprobe/pkg/ast"
)

// MappingType describes how a select item derives its value.
type MappingType string

const (
	MappingDirect      MappingType = "DIRECT"
	MappingRename      MappingType = "RENAME"
	MappingAggregation MappingType = "AGGREGATION"
	MappingConstant    MappingType = "CONSTANT"
	MappingDerived     MappingType = "DERIVED"
	MappingStar        MappingType = "STAR"
)

// AllMappingTypes lists every mapping type in classification priority order.
func AllMappingTypes() []MappingType {
	return []MappingType{
		MappingStar,
		MappingDirect,
		MappingRename,
		MappingAggregation,
		MappingConstant,
		MappingDerived,
	}
}

// Target names used when an unaliased item has no column name of its own.
const (
	TargetStar       = "*"
	TargetAggregate  = "aggregate"
	TargetConstant   = "constant"
	TargetExpression = "expression"
)

// SourceRef is one input column of a select item.
type SourceRef struct {
	Table  string
	Column string
}

// Classification is the result of classifying one select item.
type Classification struct {
	Target     string
	Type       MappingType
	Sources    []SourceRef
	Expression string
}

// Classify assigns item exactly one MappingType. Rules apply in priority
// order and the first match wins:
//
//  1. a star is STAR
//  2. a bare column is DIRECT, or RENAME when aliased to another name
//  3. an expression with an aggregate call anywhere in it is AGGREGATION
//  4. a literal is CONSTANT
//  5. anything else is DERIVED
func Classify(item *ast.SelectItem, aliases *Aliases) Classification {
	if aliases == nil {
		aliases = &Aliases{}
	}
	if item == nil || item.Expr == nil {
		return Classification{Target: TargetExpression, Type: MappingDerived, Sources: []SourceRef{}}
	}

	switch e := item.Expr.(type) {
	case *ast.Star:
		return Classification{
			Target:  TargetStar,
			Type:    MappingStar,
			Sources: []SourceRef{{Table: "all", Column: "*"}},
		}

	case *ast.Column:
		c := Classification{
			Target:  orDefault(item.Alias, e.Name),
			Type:    MappingDirect,
			Sources: []SourceRef{{Table: aliases.Resolve(e.Table), Column: e.Name}},
		}
		if item.Alias != "" && item.Alias != e.Name {
			c.Type = MappingRename
		}
		return c
	}

	if ast.ContainsAggregate(item.Expr) {
		return Classification{
			Target:     orDefault(item.Alias, TargetAggregate),
			Type:       MappingAggregation,
			Sources:    sourcesOf(item.Expr, aliases),
			Expression: item.Expr.Text(),
		}
	}

	if _, ok := item.Expr.(*ast.Literal); ok {
		return Classification{
			Target:     orDefault(item.Alias, TargetConstant),
			Type:       MappingConstant,
			Sources:    []SourceRef{},
			Expression: item.Expr.Text(),
		}
	}

	return Classification{
		Target:     orDefault(item.Alias, TargetExpression),
		Type:       MappingDerived,
		Sources:    sourcesOf(item.Expr, aliases),
		Expression: item.Expr.Text(),
	}
}

// sourcesOf resolves every column in the subtree, in document order.
func sourcesOf(e ast.Expr, aliases *Aliases) []SourceRef {
	cols := ast.Columns(e)
	refs := make([]SourceRef, 0, len(cols))
	for _, c := range cols {
		refs = append(refs, SourceRef{Table: aliases.Resolve(c.Table), Column: c.Name})
	}
	return refs
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
