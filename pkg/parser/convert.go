package parser

import (
	"fmt"
	"strconv"
	"strings"

	tast "github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/format"
	"github.com/pingcap/tidb/parser/model"
	"github.com/pingcap/tidb/parser/opcode"
	"github.com/pingcap/tidb/types"
	parserDriver "github.com/pingcap/tidb/types/parser_driver"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/catalog"
)

const restoreFlags = format.RestoreStringSingleQuotes | format.RestoreStringWithoutCharset | format.RestoreKeyWordUppercase

// converter builds an ast tree from a TiDB tree. It is single use.
type converter struct {
	sql        string
	connectors []connector
	next       int
	desynced   bool
	ctes       []*ast.CTE
	windows    map[string]*tast.WindowSpec
	depth      int
	err        error
}

func newConverter(sql string) *converter {
	return &converter{sql: sql, connectors: scanConnectors(sql)}
}

func (c *converter) statement(root tast.ResultSetNode) (*ast.Statement, error) {
	stmt := &ast.Statement{NodeInfo: ast.NodeInfo{SQL: strings.TrimSpace(c.sql)}}
	switch r := root.(type) {
	case *tast.SelectStmt:
		stmt.Recursive = r.With != nil && r.With.IsRecursive
	case *tast.SetOprStmt:
		stmt.Recursive = r.With != nil && r.With.IsRecursive
	}
	stmt.Body = c.query(root)
	stmt.With = c.ctes
	if c.err != nil {
		return nil, c.err
	}
	return stmt, nil
}

// ---------- Queries ----------

func (c *converter) query(n tast.ResultSetNode) ast.Query {
	switch q := n.(type) {
	case *tast.SelectStmt:
		return c.selectStmt(q)
	case *tast.SetOprStmt:
		return c.setOprStmt(q)
	}
	return &ast.Select{NodeInfo: info(n)}
}

func (c *converter) with(w *tast.WithClause) {
	if w == nil {
		return
	}
	for _, cte := range w.CTEs {
		def := &ast.CTE{Name: cte.Name.O}
		for _, col := range cte.ColNameList {
			def.Columns = append(def.Columns, col.O)
		}
		if cte.Query != nil {
			def.SQL = cte.Name.O + " AS " + restore(cte.Query)
			def.Query = c.query(cte.Query.Query)
		}
		c.ctes = append(c.ctes, def)
	}
}

func (c *converter) selectStmt(n *tast.SelectStmt) *ast.Select {
	c.with(n.With)

	saved := c.windows
	c.windows = make(map[string]*tast.WindowSpec, len(n.WindowSpecs))
	for i := range n.WindowSpecs {
		spec := &n.WindowSpecs[i]
		c.windows[spec.Name.L] = spec
	}
	defer func() { c.windows = saved }()

	sel := &ast.Select{NodeInfo: info(n), Distinct: n.Distinct}
	if n.Fields != nil {
		for _, f := range n.Fields.Fields {
			sel.Items = append(sel.Items, c.selectItem(f))
		}
	}
	if n.From != nil && n.From.TableRefs != nil {
		sel.From = c.from(n.From.TableRefs)
	}
	if n.Where != nil {
		sel.Where = &ast.Where{NodeInfo: info(n.Where), Cond: c.expr(n.Where)}
	}
	if n.GroupBy != nil {
		gb := &ast.GroupBy{NodeInfo: info(n.GroupBy)}
		for _, item := range n.GroupBy.Items {
			gb.Items = append(gb.Items, c.expr(item.Expr))
		}
		sel.GroupBy = gb
	}
	if n.Having != nil {
		sel.Having = c.expr(n.Having.Expr)
	}
	sel.OrderBy = c.orderBy(n.OrderBy)
	sel.Limit = c.limit(n.Limit)
	return sel
}

func (c *converter) setOprStmt(n *tast.SetOprStmt) ast.Query {
	c.with(n.With)

	var q ast.Query
	if n.SelectList != nil {
		q = c.setOprList(n.SelectList)
	}
	if q == nil {
		q = &ast.Select{NodeInfo: info(n)}
	}

	orderBy := c.orderBy(n.OrderBy)
	limit := c.limit(n.Limit)
	switch v := q.(type) {
	case *ast.SetOperation:
		v.SQL = restore(n)
		v.OrderBy = orderBy
		v.Limit = limit
	case *ast.Select:
		if v.OrderBy == nil {
			v.OrderBy = orderBy
		}
		if v.Limit == nil {
			v.Limit = limit
		}
	}
	return q
}

func (c *converter) setOprList(list *tast.SetOprSelectList) ast.Query {
	var result ast.Query
	for _, node := range list.Selects {
		var q ast.Query
		var op *tast.SetOprType
		switch s := node.(type) {
		case *tast.SelectStmt:
			op = s.AfterSetOperator
			q = c.selectStmt(s)
		case *tast.SetOprSelectList:
			op = s.AfterSetOperator
			q = c.setOprList(s)
		default:
			continue
		}
		if result == nil {
			result = q
			continue
		}
		setOp, all := setOpOf(op)
		result = &ast.SetOperation{
			NodeInfo: ast.NodeInfo{SQL: result.Text() + " " + setOpText(setOp, all) + " " + q.Text()},
			Op:       setOp,
			All:      all,
			Left:     result,
			Right:    q,
		}
	}
	return result
}

func setOpOf(t *tast.SetOprType) (ast.SetOp, bool) {
	if t == nil {
		return ast.SetOpUnion, false
	}
	switch *t {
	case tast.UnionAll:
		return ast.SetOpUnion, true
	case tast.Except:
		return ast.SetOpExcept, false
	case tast.ExceptAll:
		return ast.SetOpExcept, true
	case tast.Intersect:
		return ast.SetOpIntersect, false
	case tast.IntersectAll:
		return ast.SetOpIntersect, true
	default:
		return ast.SetOpUnion, false
	}
}

func setOpText(op ast.SetOp, all bool) string {
	if all {
		return string(op) + " ALL"
	}
	return string(op)
}

func (c *converter) selectItem(f *tast.SelectField) *ast.SelectItem {
	item := &ast.SelectItem{NodeInfo: info(f), Alias: f.AsName.O}
	if f.WildCard != nil {
		text := "*"
		if f.WildCard.Table.O != "" {
			text = f.WildCard.Table.O + ".*"
		}
		item.Expr = &ast.Star{NodeInfo: ast.NodeInfo{SQL: text}, Table: f.WildCard.Table.O}
		return item
	}
	item.Expr = c.expr(f.Expr)
	return item
}

func (c *converter) orderBy(ob *tast.OrderByClause) []*ast.OrderSpec {
	if ob == nil {
		return nil
	}
	out := make([]*ast.OrderSpec, 0, len(ob.Items))
	for _, item := range ob.Items {
		out = append(out, &ast.OrderSpec{NodeInfo: info(item), Expr: c.expr(item.Expr), Desc: item.Desc})
	}
	return out
}

func (c *converter) limit(l *tast.Limit) *ast.Limit {
	if l == nil {
		return nil
	}
	return &ast.Limit{NodeInfo: info(l), Count: c.expr(l.Count), Offset: c.expr(l.Offset)}
}

// ---------- FROM ----------

func (c *converter) from(j *tast.Join) *ast.From {
	f := &ast.From{NodeInfo: info(j)}
	c.flattenJoin(f, j)
	return f
}

// flattenJoin turns TiDB's left-deep join tree into a source plus joins in
// text order. Connectors are consumed in the same order they were scanned.
func (c *converter) flattenJoin(f *ast.From, j *tast.Join) {
	if left, ok := j.Left.(*tast.Join); ok {
		c.flattenJoin(f, left)
	} else if j.Left != nil {
		f.Source = c.tableRef(j.Left)
	}
	if j.Right == nil {
		return
	}

	typ, natural := c.joinKind(j)
	join := &ast.Join{
		Type:    typ,
		Natural: natural || j.NaturalJoin,
		Right:   c.tableRef(j.Right),
	}
	if j.On != nil {
		join.On = c.expr(j.On.Expr)
	}
	for _, u := range j.Using {
		join.Using = append(join.Using, u.Name.O)
	}
	join.SQL = joinText(join)
	f.Joins = append(f.Joins, join)
}

// joinKind takes the next scanned connector when it agrees with the TiDB
// join type. On disagreement the scan is abandoned and the kind is derived
// from the tree alone.
func (c *converter) joinKind(j *tast.Join) (ast.JoinType, bool) {
	if !c.desynced && c.next < len(c.connectors) {
		conn := c.connectors[c.next]
		c.next++
		if connectorMatches(conn, j) {
			return conn.typ, conn.natural
		}
		c.desynced = true
	}
	switch j.Tp {
	case tast.LeftJoin:
		return ast.JoinLeft, false
	case tast.RightJoin:
		return ast.JoinRight, false
	}
	if j.On != nil || len(j.Using) > 0 || j.NaturalJoin {
		return ast.JoinInner, false
	}
	return ast.JoinCross, false
}

func connectorMatches(conn connector, j *tast.Join) bool {
	switch conn.typ {
	case ast.JoinLeft:
		return j.Tp == tast.LeftJoin
	case ast.JoinRight:
		return j.Tp == tast.RightJoin
	case ast.JoinComma:
		return j.Tp == tast.CrossJoin && j.On == nil && len(j.Using) == 0
	default:
		return j.Tp == tast.CrossJoin
	}
}

func joinText(j *ast.Join) string {
	var sb strings.Builder
	if j.Type == ast.JoinComma {
		sb.WriteString(", ")
	} else {
		if j.Natural {
			sb.WriteString("NATURAL ")
		}
		sb.WriteString(string(j.Type))
		sb.WriteString(" JOIN ")
	}
	if j.Right != nil {
		sb.WriteString(j.Right.Text())
	}
	if j.On != nil {
		sb.WriteString(" ON ")
		sb.WriteString(j.On.Text())
	}
	if len(j.Using) > 0 {
		sb.WriteString(" USING (")
		sb.WriteString(strings.Join(j.Using, ", "))
		sb.WriteString(")")
	}
	return sb.String()
}

func (c *converter) tableRef(n tast.ResultSetNode) ast.TableRef {
	switch t := n.(type) {
	case *tast.TableSource:
		switch src := t.Source.(type) {
		case *tast.TableName:
			return &ast.Table{NodeInfo: info(t), Schema: src.Schema.O, Name: src.Name.O, Alias: t.AsName.O}
		case *tast.SelectStmt, *tast.SetOprStmt:
			return &ast.DerivedTable{NodeInfo: info(t), Query: c.query(src), Alias: t.AsName.O}
		case *tast.Join:
			return &ast.NestedJoin{NodeInfo: info(t), From: c.from(src)}
		}
		return &ast.Table{NodeInfo: info(t), Name: restore(t.Source), Alias: t.AsName.O}
	case *tast.Join:
		return &ast.NestedJoin{NodeInfo: info(t), From: c.from(t)}
	case *tast.TableName:
		return &ast.Table{NodeInfo: info(t), Schema: t.Schema.O, Name: t.Name.O}
	case *tast.SelectStmt, *tast.SetOprStmt:
		return &ast.DerivedTable{NodeInfo: info(t), Query: c.query(t)}
	}
	return &ast.Table{NodeInfo: info(n), Name: restore(n)}
}

// ---------- Expressions ----------

func (c *converter) expr(n tast.ExprNode) ast.Expr {
	if n == nil {
		return nil
	}
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > maxDepth {
		if c.err == nil {
			c.err = &ParseError{Message: fmt.Sprintf("expression nesting exceeds %d levels", maxDepth)}
		}
		return &ast.Opaque{NodeInfo: info(n)}
	}

	switch e := n.(type) {
	case *tast.ColumnNameExpr:
		return &ast.Column{NodeInfo: info(e), Table: e.Name.Table.O, Name: e.Name.Name.O}

	case *parserDriver.ValueExpr:
		return literal(e)

	case *tast.PositionExpr:
		if e.P != nil {
			return c.expr(e.P)
		}
		return &ast.Literal{NodeInfo: info(e), Type: ast.LiteralInt, Value: strconv.Itoa(e.N)}

	case *tast.ParenthesesExpr:
		return c.expr(e.Expr)

	case *tast.AggregateFuncExpr:
		name := catalog.Canonical(e.F)
		call := &ast.FunctionCall{NodeInfo: info(e), Name: name, Flavor: ast.FlavorAggregate, Distinct: e.Distinct}
		if name == "COUNT" && len(e.Args) == 1 && isCountStar(e.Args[0]) {
			call.Star = true
			return call
		}
		call.Args = c.exprs(e.Args)
		return call

	case *tast.WindowFuncExpr:
		name := catalog.Canonical(e.F)
		call := &ast.FunctionCall{
			NodeInfo: info(e),
			Name:     name,
			Flavor:   catalog.FlavorOf(name),
			Distinct: e.Distinct,
			Over:     c.window(&e.Spec),
		}
		if name == "COUNT" && len(e.Args) == 1 && isCountStar(e.Args[0]) {
			call.Star = true
		} else {
			call.Args = c.exprs(e.Args)
		}
		return call

	case *tast.FuncCallExpr:
		if lit := temporalLiteral(e); lit != nil {
			return lit
		}
		name := catalog.Canonical(e.FnName.O)
		return &ast.FunctionCall{NodeInfo: info(e), Name: name, Flavor: catalog.FlavorOf(name), Args: c.exprs(e.Args)}

	case *tast.FuncCastExpr:
		return &ast.FunctionCall{NodeInfo: info(e), Name: "CAST", Args: c.exprs([]tast.ExprNode{e.Expr})}

	case *tast.BinaryOperationExpr:
		return &ast.BinaryOp{NodeInfo: info(e), Op: binaryOp(e.Op), Left: c.expr(e.L), Right: c.expr(e.R)}

	case *tast.UnaryOperationExpr:
		return &ast.UnaryOp{NodeInfo: info(e), Op: unaryOp(e.Op), Operand: c.expr(e.V)}

	case *tast.PatternLikeExpr:
		return &ast.BinaryOp{NodeInfo: info(e), Op: negate("LIKE", e.Not), Left: c.expr(e.Expr), Right: c.expr(e.Pattern)}

	case *tast.PatternRegexpExpr:
		return &ast.BinaryOp{NodeInfo: info(e), Op: negate("REGEXP", e.Not), Left: c.expr(e.Expr), Right: c.expr(e.Pattern)}

	case *tast.PatternInExpr:
		op := &ast.BinaryOp{NodeInfo: info(e), Op: negate("IN", e.Not), Left: c.expr(e.Expr)}
		if e.Sel != nil {
			op.Right = c.expr(e.Sel)
		} else {
			op.Right = &ast.List{Items: c.exprs(e.List)}
		}
		return op

	case *tast.BetweenExpr:
		return &ast.Between{NodeInfo: info(e), Expr: c.expr(e.Expr), Low: c.expr(e.Left), High: c.expr(e.Right), Not: e.Not}

	case *tast.IsNullExpr:
		op := "IS NULL"
		if e.Not {
			op = "IS NOT NULL"
		}
		return &ast.UnaryOp{NodeInfo: info(e), Op: op, Operand: c.expr(e.Expr)}

	case *tast.IsTruthExpr:
		op := "IS TRUE"
		if e.True == 0 {
			op = "IS FALSE"
		}
		if e.Not {
			op = strings.Replace(op, "IS", "IS NOT", 1)
		}
		return &ast.UnaryOp{NodeInfo: info(e), Op: op, Operand: c.expr(e.Expr)}

	case *tast.CaseExpr:
		ce := &ast.Case{NodeInfo: info(e), Operand: c.expr(e.Value), Else: c.expr(e.ElseClause)}
		for _, w := range e.WhenClauses {
			ce.Whens = append(ce.Whens, ast.When{Cond: c.expr(w.Expr), Result: c.expr(w.Result)})
		}
		return ce

	case *tast.SubqueryExpr:
		return &ast.Subquery{NodeInfo: info(e), Query: c.query(e.Query), Exists: e.Exists}

	case *tast.ExistsSubqueryExpr:
		inner := c.expr(e.Sel)
		if sq, ok := inner.(*ast.Subquery); ok {
			sq.Exists = true
			sq.SQL = "EXISTS " + sq.SQL
		}
		if e.Not {
			return &ast.UnaryOp{NodeInfo: info(e), Op: "NOT", Operand: inner}
		}
		return inner

	case *tast.CompareSubqueryExpr:
		op := binaryOp(e.Op)
		if e.All {
			op += " ALL"
		} else {
			op += " ANY"
		}
		return &ast.BinaryOp{NodeInfo: info(e), Op: op, Left: c.expr(e.L), Right: c.expr(e.R)}

	case *tast.RowExpr:
		return &ast.List{NodeInfo: info(e), Items: c.exprs(e.Values)}
	}

	return &ast.Opaque{NodeInfo: info(n), Children: c.exprs(childExprs(n))}
}

func (c *converter) exprs(nodes []tast.ExprNode) []ast.Expr {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]ast.Expr, 0, len(nodes))
	for _, n := range nodes {
		if e := c.expr(n); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// window resolves named window references against the enclosing SELECT's
// WINDOW clause.
func (c *converter) window(spec *tast.WindowSpec) *ast.Window {
	partition := spec.PartitionBy
	order := spec.OrderBy
	name := ""

	if spec.OnlyAlias {
		name = spec.Name.O
		if def, ok := c.windows[spec.Name.L]; ok {
			partition, order = def.PartitionBy, def.OrderBy
		}
	} else if spec.Ref.L != "" {
		name = spec.Ref.O
		if def, ok := c.windows[spec.Ref.L]; ok {
			if partition == nil {
				partition = def.PartitionBy
			}
			if order == nil {
				order = def.OrderBy
			}
		}
	}

	w := &ast.Window{NodeInfo: info(spec), Name: name, OrderBy: c.orderBy(order)}
	if partition != nil {
		for _, item := range partition.Items {
			w.PartitionBy = append(w.PartitionBy, c.expr(item.Expr))
		}
	}
	return w
}

func literal(v *parserDriver.ValueExpr) *ast.Literal {
	lit := &ast.Literal{NodeInfo: info(v)}
	d := v.Datum
	switch d.Kind() {
	case types.KindNull:
		lit.Type, lit.Value = ast.LiteralNull, "NULL"
	case types.KindInt64:
		lit.Type, lit.Value = ast.LiteralInt, strconv.FormatInt(d.GetInt64(), 10)
	case types.KindUint64:
		lit.Type, lit.Value = ast.LiteralInt, strconv.FormatUint(d.GetUint64(), 10)
	case types.KindFloat32, types.KindFloat64:
		lit.Type, lit.Value = ast.LiteralNumber, strconv.FormatFloat(d.GetFloat64(), 'g', -1, 64)
	case types.KindMysqlDecimal:
		lit.Type, lit.Value = ast.LiteralNumber, d.GetMysqlDecimal().String()
	case types.KindString, types.KindBytes:
		lit.Type, lit.Value = ast.LiteralString, d.GetString()
	default:
		lit.Type, lit.Value = ast.LiteralString, lit.SQL
	}
	return lit
}

// temporalLiteral maps DATE '...', TIME '...' and TIMESTAMP '...' to literals.
// TiDB parses them as calls to internal functions.
func temporalLiteral(e *tast.FuncCallExpr) *ast.Literal {
	switch e.FnName.L {
	case tast.DateLiteral, tast.TimeLiteral, tast.TimestampLiteral:
	default:
		return nil
	}
	if len(e.Args) != 1 {
		return nil
	}
	v, ok := e.Args[0].(*parserDriver.ValueExpr)
	if !ok {
		return nil
	}
	return &ast.Literal{NodeInfo: info(e), Type: ast.LiteralDate, Value: v.Datum.GetString()}
}

// countStar stands in for the constant 1 TiDB substitutes for COUNT(*), so
// that restored text reads COUNT(*). A literal COUNT(1) is indistinguishable
// and is rendered the same way.
var countStar = model.NewCIStr("*")

// countStarMarker rewrites COUNT(*) arguments before conversion.
type countStarMarker struct{}

func (countStarMarker) Enter(n tast.Node) (tast.Node, bool) {
	switch f := n.(type) {
	case *tast.AggregateFuncExpr:
		markCountStar(f.F, f.Distinct, f.Args)
	case *tast.WindowFuncExpr:
		markCountStar(f.F, f.Distinct, f.Args)
	}
	return n, false
}

func (countStarMarker) Leave(n tast.Node) (tast.Node, bool) {
	return n, true
}

func markCountStar(name string, distinct bool, args []tast.ExprNode) {
	if distinct || !strings.EqualFold(name, "count") || len(args) != 1 {
		return
	}
	v, ok := args[0].(*parserDriver.ValueExpr)
	if ok && v.Datum.Kind() == types.KindInt64 && v.Datum.GetInt64() == 1 {
		args[0] = &tast.ColumnNameExpr{Name: &tast.ColumnName{Name: countStar}}
	}
}

// isCountStar reports whether a COUNT argument was rewritten by countStarMarker.
func isCountStar(arg tast.ExprNode) bool {
	col, ok := arg.(*tast.ColumnNameExpr)
	return ok && col.Name.Table.L == "" && col.Name.Name.L == countStar.L
}

func negate(op string, not bool) string {
	if not {
		return "NOT " + op
	}
	return op
}

func binaryOp(op opcode.Op) string {
	switch op {
	case opcode.LogicAnd:
		return "AND"
	case opcode.LogicOr:
		return "OR"
	case opcode.LogicXor:
		return "XOR"
	case opcode.EQ:
		return "="
	case opcode.NE:
		return "<>"
	case opcode.LT:
		return "<"
	case opcode.LE:
		return "<="
	case opcode.GT:
		return ">"
	case opcode.GE:
		return ">="
	case opcode.NullEQ:
		return "<=>"
	case opcode.Plus:
		return "+"
	case opcode.Minus:
		return "-"
	case opcode.Mul:
		return "*"
	case opcode.Div:
		return "/"
	case opcode.IntDiv:
		return "DIV"
	case opcode.Mod:
		return "%"
	case opcode.And:
		return "&"
	case opcode.Or:
		return "|"
	case opcode.Xor:
		return "^"
	case opcode.LeftShift:
		return "<<"
	case opcode.RightShift:
		return ">>"
	}
	return strings.ToUpper(op.String())
}

func unaryOp(op opcode.Op) string {
	switch op {
	case opcode.Not:
		return "NOT"
	case opcode.Minus:
		return "-"
	case opcode.Plus:
		return "+"
	case opcode.BitNeg:
		return "~"
	}
	return strings.ToUpper(op.String())
}

// ---------- Text ----------

func info(n tast.Node) ast.NodeInfo {
	return ast.NodeInfo{SQL: restore(n)}
}

func restore(n tast.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	if err := n.Restore(format.NewRestoreCtx(restoreFlags, &sb)); err != nil {
		return strings.TrimSpace(n.Text())
	}
	return sb.String()
}

// childExprs returns the direct expression children of a node the
// converter has no dedicated case for.
func childExprs(n tast.Node) []tast.ExprNode {
	v := &childCollector{root: n}
	n.Accept(v)
	return v.children
}

type childCollector struct {
	root     tast.Node
	children []tast.ExprNode
}

func (v *childCollector) Enter(n tast.Node) (tast.Node, bool) {
	if n == v.root {
		return n, false
	}
	if e, ok := n.(tast.ExprNode); ok {
		v.children = append(v.children, e)
	}
	return n, true
}

func (v *childCollector) Leave(n tast.Node) (tast.Node, bool) {
	return n, true
}
