// Package ast defines the read-only expression tree the analyzers work on.
//
// The tree is a closed union: every node type lives in this package and
// reports its Kind. Trees are built once by pkg/parser and never mutated
// afterwards, so any number of analyses may share one tree concurrently.
package ast

// Kind discriminates node types.
type Kind int

// Node kinds.
const (
	KindStatement Kind = iota
	KindCTE
	KindSelect
	KindSetOperation
	KindSelectItem
	KindStar
	KindColumn
	KindLiteral
	KindFunctionCall
	KindWindow
	KindBinaryOp
	KindUnaryOp
	KindCase
	KindBetween
	KindList
	KindSubquery
	KindOpaque
	KindTable
	KindDerivedTable
	KindNestedJoin
	KindFrom
	KindJoin
	KindWhere
	KindGroupBy
	KindOrderSpec
	KindLimit
)

var kindNames = [...]string{
	KindStatement:    "Statement",
	KindCTE:          "CTE",
	KindSelect:       "Select",
	KindSetOperation: "SetOperation",
	KindSelectItem:   "SelectItem",
	KindStar:         "Star",
	KindColumn:       "Column",
	KindLiteral:      "Literal",
	KindFunctionCall: "FunctionCall",
	KindWindow:       "Window",
	KindBinaryOp:     "BinaryOp",
	KindUnaryOp:      "UnaryOp",
	KindCase:         "Case",
	KindBetween:      "Between",
	KindList:         "List",
	KindSubquery:     "Subquery",
	KindOpaque:       "Opaque",
	KindTable:        "Table",
	KindDerivedTable: "DerivedTable",
	KindNestedJoin:   "NestedJoin",
	KindFrom:         "From",
	KindJoin:         "Join",
	KindWhere:        "Where",
	KindGroupBy:      "GroupBy",
	KindOrderSpec:    "OrderSpec",
	KindLimit:        "Limit",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Node is implemented by every tree node.
type Node interface {
	Kind() Kind
	// Text returns the node's SQL text as rendered by the parser.
	Text() string
	node()
}

// Expr is a scalar expression.
type Expr interface {
	Node
	exprNode()
}

// Query is a Select or a SetOperation.
type Query interface {
	Node
	queryNode()
}

// TableRef is a source in a FROM clause.
type TableRef interface {
	Node
	tableRefNode()
}

// NodeInfo carries the fields shared by all nodes.
type NodeInfo struct {
	SQL string
}

// Text returns the node's SQL text.
func (n *NodeInfo) Text() string {
	if n == nil {
		return ""
	}
	return n.SQL
}

func (*NodeInfo) node() {}
