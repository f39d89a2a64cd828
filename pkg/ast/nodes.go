package ast

// ---------- Statement ----------

// Statement is the root of a parsed SQL statement.
type Statement struct {
	NodeInfo
	Recursive bool
	With      []*CTE
	Body      Query
}

// Kind implements Node.
func (*Statement) Kind() Kind { return KindStatement }

// CTE is one common table expression of a WITH clause.
type CTE struct {
	NodeInfo
	Name    string
	Columns []string
	Query   Query
}

// Kind implements Node.
func (*CTE) Kind() Kind { return KindCTE }

// ---------- Queries ----------

// Select is a single SELECT block.
type Select struct {
	NodeInfo
	Distinct bool
	Items    []*SelectItem
	From     *From
	Where    *Where
	GroupBy  *GroupBy
	Having   Expr
	OrderBy  []*OrderSpec
	Limit    *Limit
}

// Kind implements Node.
func (*Select) Kind() Kind { return KindSelect }
func (*Select) queryNode() {}

// SetOp names a set operator.
type SetOp string

// Set operators.
const (
	SetOpUnion     SetOp = "UNION"
	SetOpIntersect SetOp = "INTERSECT"
	SetOpExcept    SetOp = "EXCEPT"
)

// SetOperation combines two queries. Chains are left-deep:
// a UNION b UNION c is ((a UNION b) UNION c).
type SetOperation struct {
	NodeInfo
	Op      SetOp
	All     bool
	Left    Query
	Right   Query
	OrderBy []*OrderSpec
	Limit   *Limit
}

// Kind implements Node.
func (*SetOperation) Kind() Kind { return KindSetOperation }
func (*SetOperation) queryNode() {}

// SelectItem is one entry in a select list. Alias is empty when absent.
type SelectItem struct {
	NodeInfo
	Expr  Expr
	Alias string
}

// Kind implements Node.
func (*SelectItem) Kind() Kind { return KindSelectItem }

// ---------- Expressions ----------

// Star is * or t.*.
type Star struct {
	NodeInfo
	Table string
}

// Kind implements Node.
func (*Star) Kind() Kind { return KindStar }
func (*Star) exprNode()  {}

// Column is a column reference with an optional table qualifier.
type Column struct {
	NodeInfo
	Table string
	Name  string
}

// Kind implements Node.
func (*Column) Kind() Kind { return KindColumn }
func (*Column) exprNode()  {}

// LiteralType classifies a literal.
type LiteralType int

// Literal types.
const (
	LiteralString LiteralType = iota
	LiteralInt
	LiteralNumber
	LiteralBool
	LiteralNull
	LiteralDate
)

func (t LiteralType) String() string {
	switch t {
	case LiteralString:
		return "string"
	case LiteralInt:
		return "int"
	case LiteralNumber:
		return "number"
	case LiteralBool:
		return "bool"
	case LiteralNull:
		return "null"
	case LiteralDate:
		return "date"
	default:
		return "unknown"
	}
}

// Literal is a constant. Value holds the unquoted value.
type Literal struct {
	NodeInfo
	Type  LiteralType
	Value string
}

// Kind implements Node.
func (*Literal) Kind() Kind { return KindLiteral }
func (*Literal) exprNode()  {}

// IsString reports whether the literal carries string or date text.
func (l *Literal) IsString() bool {
	return l.Type == LiteralString || l.Type == LiteralDate
}

// Flavor tags a function by what its name means, independent of call site.
type Flavor int

// Function flavors.
const (
	FlavorPlain Flavor = iota
	FlavorAggregate
	FlavorWindow
	FlavorVolatile
)

func (f Flavor) String() string {
	switch f {
	case FlavorAggregate:
		return "aggregate"
	case FlavorWindow:
		return "window"
	case FlavorVolatile:
		return "volatile"
	default:
		return "plain"
	}
}

// FunctionCall is a call to a named function. Name is canonical uppercase.
// Over is set when the call carries an OVER clause.
type FunctionCall struct {
	NodeInfo
	Name     string
	Flavor   Flavor
	Args     []Expr
	Star     bool
	Distinct bool
	Over     *Window
}

// Kind implements Node.
func (*FunctionCall) Kind() Kind { return KindFunctionCall }
func (*FunctionCall) exprNode()  {}

// Windowed reports whether the call has an OVER clause.
func (f *FunctionCall) Windowed() bool { return f.Over != nil }

// Window is the specification in an OVER clause, with any named
// window reference already resolved.
type Window struct {
	NodeInfo
	Name        string
	PartitionBy []Expr
	OrderBy     []*OrderSpec
}

// Kind implements Node.
func (*Window) Kind() Kind { return KindWindow }

// BinaryOp is a two-operand operator. Op is uppercase SQL spelling such as
// "=", "AND", "OR", "LIKE", "NOT LIKE", "IN", "||".
type BinaryOp struct {
	NodeInfo
	Op    string
	Left  Expr
	Right Expr
}

// Kind implements Node.
func (*BinaryOp) Kind() Kind { return KindBinaryOp }
func (*BinaryOp) exprNode()  {}

// UnaryOp is a prefix or postfix operator such as NOT, -, IS NULL.
type UnaryOp struct {
	NodeInfo
	Op      string
	Operand Expr
}

// Kind implements Node.
func (*UnaryOp) Kind() Kind { return KindUnaryOp }
func (*UnaryOp) exprNode()  {}

// When is one WHEN ... THEN ... arm of a Case.
type When struct {
	Cond   Expr
	Result Expr
}

// Case is a CASE expression. Operand is nil for searched CASE.
type Case struct {
	NodeInfo
	Operand Expr
	Whens   []When
	Else    Expr
}

// Kind implements Node.
func (*Case) Kind() Kind { return KindCase }
func (*Case) exprNode()  {}

// Between is x [NOT] BETWEEN low AND high.
type Between struct {
	NodeInfo
	Expr Expr
	Low  Expr
	High Expr
	Not  bool
}

// Kind implements Node.
func (*Between) Kind() Kind { return KindBetween }
func (*Between) exprNode()  {}

// List is a parenthesized expression list, as in IN (...) or a row value.
type List struct {
	NodeInfo
	Items []Expr
}

// Kind implements Node.
func (*List) Kind() Kind { return KindList }
func (*List) exprNode()  {}

// Subquery is a query used as an expression, or EXISTS (query).
type Subquery struct {
	NodeInfo
	Query  Query
	Exists bool
}

// Kind implements Node.
func (*Subquery) Kind() Kind { return KindSubquery }
func (*Subquery) exprNode()  {}

// Opaque stands in for expression shapes the tree does not model.
// Children keeps the operands so column references stay reachable.
type Opaque struct {
	NodeInfo
	Children []Expr
}

// Kind implements Node.
func (*Opaque) Kind() Kind { return KindOpaque }
func (*Opaque) exprNode()  {}

// ---------- FROM clause ----------

// Table is a named table reference.
type Table struct {
	NodeInfo
	Schema string
	Name   string
	Alias  string
}

// Kind implements Node.
func (*Table) Kind() Kind    { return KindTable }
func (*Table) tableRefNode() {}

// QualifiedName returns schema.name, or name when no schema is set.
func (t *Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// DerivedTable is a subquery in FROM.
type DerivedTable struct {
	NodeInfo
	Query Query
	Alias string
}

// Kind implements Node.
func (*DerivedTable) Kind() Kind    { return KindDerivedTable }
func (*DerivedTable) tableRefNode() {}

// NestedJoin is a parenthesized join group used as a single source.
type NestedJoin struct {
	NodeInfo
	From *From
}

// Kind implements Node.
func (*NestedJoin) Kind() Kind    { return KindNestedJoin }
func (*NestedJoin) tableRefNode() {}

// From is a FROM clause: a first source followed by joins in text order.
type From struct {
	NodeInfo
	Source TableRef
	Joins  []*Join
}

// Kind implements Node.
func (*From) Kind() Kind { return KindFrom }

// JoinType is the join keyword as written.
type JoinType string

// Join types. JoinComma is the implicit join of a comma-separated FROM list.
const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinFull  JoinType = "FULL"
	JoinCross JoinType = "CROSS"
	JoinComma JoinType = ","
)

// Join attaches Right to everything before it in the FROM clause.
type Join struct {
	NodeInfo
	Type    JoinType
	Natural bool
	Right   TableRef
	On      Expr
	Using   []string
}

// Kind implements Node.
func (*Join) Kind() Kind { return KindJoin }

// HasCondition reports whether the join constrains its rows by ON, USING or NATURAL.
func (j *Join) HasCondition() bool {
	return j.On != nil || len(j.Using) > 0 || j.Natural
}

// ---------- Clauses ----------

// Where wraps a WHERE condition.
type Where struct {
	NodeInfo
	Cond Expr
}

// Kind implements Node.
func (*Where) Kind() Kind { return KindWhere }

// GroupBy is a GROUP BY clause.
type GroupBy struct {
	NodeInfo
	Items []Expr
}

// Kind implements Node.
func (*GroupBy) Kind() Kind { return KindGroupBy }

// OrderSpec is one ORDER BY key.
type OrderSpec struct {
	NodeInfo
	Expr Expr
	Desc bool
}

// Kind implements Node.
func (*OrderSpec) Kind() Kind { return KindOrderSpec }

// Limit is LIMIT count [OFFSET offset].
type Limit struct {
	NodeInfo
	Count  Expr
	Offset Expr
}

// Kind implements Node.
func (*Limit) Kind() Kind { return KindLimit }
