// Package lineage extracts column-level lineage from a parsed statement.
//
// Every select-list item of the outermost query yields exactly one
// ColumnLineage record, in select-list order. The record names the target
// column, how its value is produced (MappingType), and the input columns it
// reads, with table qualifiers resolved through the statement's aliases.
//
// # Usage
//
//	stmt, err := parser.Parse("SELECT o.id, SUM(o.amount) AS total FROM orders o GROUP BY o.id")
//	if err != nil {
//	    return err
//	}
//	for _, col := range lineage.Extract(stmt) {
//	    fmt.Println(col) // orders.id -> id (DIRECT)
//	}
//
// Lineage is single-statement: CTEs and subqueries are not separate roots,
// and names defined by a WITH clause are not reported as source tables.
package lineage
