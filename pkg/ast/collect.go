package ast

// MainSelect returns the outermost Select of q. For a set operation that is
// its leftmost branch.
func MainSelect(q Query) *Select {
	for {
		switch n := q.(type) {
		case *Select:
			return n
		case *SetOperation:
			if isNil(n) {
				return nil
			}
			q = n.Left
		default:
			return nil
		}
	}
}

// Branches returns the Select operands of q in text order. A plain Select
// yields itself. Subqueries are not entered.
func Branches(q Query) []*Select {
	switch n := q.(type) {
	case *Select:
		if n == nil {
			return nil
		}
		return []*Select{n}
	case *SetOperation:
		if n == nil {
			return nil
		}
		return append(Branches(n.Left), Branches(n.Right)...)
	}
	return nil
}

// Tables collects all Table nodes under node in document order.
func Tables(node Node) []*Table {
	var out []*Table
	Walk(node, func(n Node) bool {
		if t, ok := n.(*Table); ok {
			out = append(out, t)
		}
		return true
	})
	return out
}

// Columns collects all Column nodes under node in document order,
// including those inside subqueries.
func Columns(node Node) []*Column {
	var out []*Column
	Walk(node, func(n Node) bool {
		if c, ok := n.(*Column); ok {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Functions collects all FunctionCall nodes under node in document order.
func Functions(node Node) []*FunctionCall {
	var out []*FunctionCall
	Walk(node, func(n Node) bool {
		if f, ok := n.(*FunctionCall); ok {
			out = append(out, f)
		}
		return true
	})
	return out
}

// Selects collects every Select under node, outermost first.
func Selects(node Node) []*Select {
	var out []*Select
	Walk(node, func(n Node) bool {
		if s, ok := n.(*Select); ok {
			out = append(out, s)
		}
		return true
	})
	return out
}

// SetOperations collects every SetOperation under node.
func SetOperations(node Node) []*SetOperation {
	var out []*SetOperation
	Walk(node, func(n Node) bool {
		if s, ok := n.(*SetOperation); ok {
			out = append(out, s)
		}
		return true
	})
	return out
}

// Joins collects every Join under node.
func Joins(node Node) []*Join {
	var out []*Join
	Walk(node, func(n Node) bool {
		if j, ok := n.(*Join); ok {
			out = append(out, j)
		}
		return true
	})
	return out
}

// CTENames returns the names defined in the statement's WITH clause.
func CTENames(stmt *Statement) []string {
	if stmt == nil {
		return nil
	}
	names := make([]string, 0, len(stmt.With))
	for _, cte := range stmt.With {
		names = append(names, cte.Name)
	}
	return names
}

// ContainsAggregate reports whether an aggregate call appears anywhere at or
// below e, windowed or not, including inside subqueries.
func ContainsAggregate(e Node) bool {
	found := false
	Walk(e, func(n Node) bool {
		if found {
			return false
		}
		if f, ok := n.(*FunctionCall); ok && f.Flavor == FlavorAggregate {
			found = true
			return false
		}
		return true
	})
	return found
}

// ContainsGroupingAggregate reports whether e aggregates rows of its own
// query level: a non-windowed aggregate call outside any subquery.
func ContainsGroupingAggregate(e Node) bool {
	found := false
	Walk(e, func(n Node) bool {
		if found {
			return false
		}
		switch v := n.(type) {
		case *Subquery:
			return false
		case *FunctionCall:
			if v.Flavor == FlavorAggregate && !v.Windowed() {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// SubqueryDepth returns the deepest nesting of queries below node. A query
// with no nested query has depth 0; each Subquery or DerivedTable level
// adds one.
func SubqueryDepth(node Node) int {
	deepest := 0
	for _, child := range Children(node) {
		d := SubqueryDepth(child)
		switch child.(type) {
		case *Subquery, *DerivedTable:
			d++
		}
		if d > deepest {
			deepest = d
		}
	}
	return deepest
}
