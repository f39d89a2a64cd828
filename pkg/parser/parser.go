// Package parser turns SQL text into the read-only tree in pkg/ast.
//
// Parsing is delegated to the TiDB SQL parser. This package is the only
// place that knows about TiDB's node types: it canonicalizes function names,
// tags function flavors, recovers join keywords the TiDB tree drops, and
// renders node text, so analyzers never deal with dialect quirks.
//
// # Usage
//
//	stmt, err := parser.Parse("SELECT a, b FROM t")
//	var perr *parser.ParseError
//	if errors.As(err, &perr) {
//	    // perr.Message is the raw parser message
//	}
package parser

import (
	"fmt"
	"strings"

	tiparser "github.com/pingcap/tidb/parser"
	tast "github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/mysql"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
)

// maxDepth bounds expression nesting so pathological input cannot exhaust the stack.
const maxDepth = 1000

// Options controls how SQL text is read.
type Options struct {
	// ANSI enables ANSI quoting: "x" is an identifier and || concatenates.
	ANSI bool
}

// DefaultOptions returns the options used by Parse.
func DefaultOptions() Options {
	return Options{ANSI: true}
}

// ParseError is returned when the SQL text cannot be turned into a tree.
// Message carries the parser's own wording verbatim.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// Parse parses the first statement of sql with DefaultOptions.
func Parse(sql string) (*ast.Statement, error) {
	return ParseWithOptions(sql, DefaultOptions())
}

// ParseWithOptions parses the first statement of sql.
// Any failure is reported as a *ParseError.
func ParseWithOptions(sql string, opts Options) (*ast.Statement, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, &ParseError{Message: "empty SQL statement"}
	}

	// TiDB parsers are not safe for concurrent use; each call gets its own.
	p := tiparser.New()
	mode, _ := mysql.GetSQLMode(mysql.DefaultSQLMode)
	if opts.ANSI {
		mode |= mysql.ModeANSIQuotes | mysql.ModePipesAsConcat | mysql.ModeIgnoreSpace
	}
	p.SetSQLMode(mode)
	p.EnableWindowFunc(true)

	stmts, _, err := p.Parse(sql, "", "")
	if err != nil {
		return nil, &ParseError{Message: err.Error()}
	}
	if len(stmts) == 0 {
		return nil, &ParseError{Message: "no statement found"}
	}

	root, err := queryOf(stmts[0])
	if err != nil {
		return nil, err
	}

	root.Accept(countStarMarker{})

	c := newConverter(sql)
	stmt, err := c.statement(root)
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

// queryOf extracts the query a statement carries.
func queryOf(stmt tast.StmtNode) (tast.ResultSetNode, error) {
	switch s := stmt.(type) {
	case *tast.SelectStmt:
		return s, nil
	case *tast.SetOprStmt:
		return s, nil
	case *tast.InsertStmt:
		if s.Select != nil {
			return s.Select, nil
		}
	case *tast.CreateViewStmt:
		if rs, ok := s.Select.(tast.ResultSetNode); ok {
			return rs, nil
		}
	}
	return nil, &ParseError{Message: fmt.Sprintf("unsupported statement: %s", statementKind(stmt))}
}

func statementKind(stmt tast.StmtNode) string {
	name := fmt.Sprintf("%T", stmt)
	name = strings.TrimPrefix(name, "*ast.")
	return strings.TrimSuffix(name, "Stmt")
}
