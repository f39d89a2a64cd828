package ast

// Walk traverses the tree depth-first in document order and calls fn for
// each node. If fn returns false, the node's children are skipped.
func Walk(node Node, fn func(node Node) bool) {
	if isNil(node) {
		return
	}
	if !fn(node) {
		return
	}
	for _, child := range Children(node) {
		Walk(child, fn)
	}
}

// Children returns the direct children of node in document order.
// Nil fields are omitted.
func Children(node Node) []Node {
	var out []Node
	add := func(n Node) {
		if !isNil(n) {
			out = append(out, n)
		}
	}

	switch n := node.(type) {
	case *Statement:
		for _, cte := range n.With {
			add(cte)
		}
		add(n.Body)

	case *CTE:
		add(n.Query)

	case *Select:
		for _, item := range n.Items {
			add(item)
		}
		add(n.From)
		add(n.Where)
		add(n.GroupBy)
		add(n.Having)
		for _, o := range n.OrderBy {
			add(o)
		}
		add(n.Limit)

	case *SetOperation:
		add(n.Left)
		add(n.Right)
		for _, o := range n.OrderBy {
			add(o)
		}
		add(n.Limit)

	case *SelectItem:
		add(n.Expr)

	case *Star, *Column, *Literal, *Table:
		// leaves

	case *FunctionCall:
		for _, arg := range n.Args {
			add(arg)
		}
		add(n.Over)

	case *Window:
		for _, p := range n.PartitionBy {
			add(p)
		}
		for _, o := range n.OrderBy {
			add(o)
		}

	case *BinaryOp:
		add(n.Left)
		add(n.Right)

	case *UnaryOp:
		add(n.Operand)

	case *Case:
		add(n.Operand)
		for _, w := range n.Whens {
			add(w.Cond)
			add(w.Result)
		}
		add(n.Else)

	case *Between:
		add(n.Expr)
		add(n.Low)
		add(n.High)

	case *List:
		for _, item := range n.Items {
			add(item)
		}

	case *Subquery:
		add(n.Query)

	case *Opaque:
		for _, c := range n.Children {
			add(c)
		}

	case *DerivedTable:
		add(n.Query)

	case *NestedJoin:
		add(n.From)

	case *From:
		add(n.Source)
		for _, j := range n.Joins {
			add(j)
		}

	case *Join:
		add(n.Right)
		add(n.On)

	case *Where:
		add(n.Cond)

	case *GroupBy:
		for _, item := range n.Items {
			add(item)
		}

	case *OrderSpec:
		add(n.Expr)

	case *Limit:
		add(n.Count)
		add(n.Offset)
	}
	return out
}

// isNil catches both untyped nil and typed nil pointers stored in an interface.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Statement:
		return v == nil
	case *CTE:
		return v == nil
	case *Select:
		return v == nil
	case *SetOperation:
		return v == nil
	case *SelectItem:
		return v == nil
	case *Star:
		return v == nil
	case *Column:
		return v == nil
	case *Literal:
		return v == nil
	case *FunctionCall:
		return v == nil
	case *Window:
		return v == nil
	case *BinaryOp:
		return v == nil
	case *UnaryOp:
		return v == nil
	case *Case:
		return v == nil
	case *Between:
		return v == nil
	case *List:
		return v == nil
	case *Subquery:
		return v == nil
	case *Opaque:
		return v == nil
	case *Table:
		return v == nil
	case *DerivedTable:
		return v == nil
	case *NestedJoin:
		return v == nil
	case *From:
		return v == nil
	case *Join:
		return v == nil
	case *Where:
		return v == nil
	case *GroupBy:
		return v == nil
	case *OrderSpec:
		return v == nil
	case *Limit:
		return v == nil
	}
	return false
}
