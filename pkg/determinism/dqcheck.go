package determinism

import (
	"fmt"
	"strings"
)

// DefaultTablePlaceholder stands in for the table name in generated
// data-quality queries.
const DefaultTablePlaceholder = "your_table"

// tieGroupCheck counts rows per partition. Any group with more than one row
// means the unordered window function has to pick between rows.
func tieGroupCheck(fn string, partition []string, table string) string {
	keys := "1"
	if len(partition) > 0 {
		keys = strings.Join(partition, ", ")
	}
	return fmt.Sprintf(`-- DQ Check: Detect potential %[1]s non-determinism
-- If this returns rows, the ordering is not unique
SELECT %[2]s, COUNT(*) as duplicate_count
FROM %[3]s
GROUP BY %[2]s
HAVING COUNT(*) > 1`, fn, keys, table)
}

// uniquenessCheck counts duplicate partition+order key combinations.
func uniquenessCheck(fn string, keys []string, table string) string {
	cols := "*"
	if len(keys) > 0 {
		cols = strings.Join(keys, ", ")
	}
	return fmt.Sprintf(`-- DQ Check: Verify ORDER BY uniqueness for %[1]s
-- If this returns > 0, ties exist that make %[1]s non-deterministic
SELECT COUNT(*) as tie_count
FROM (
    SELECT %[2]s, COUNT(*) as cnt
    FROM %[3]s
    GROUP BY %[2]s
    HAVING COUNT(*) > 1
) ties`, fn, cols, table)
}

// MonitoringColumns is a select-list fragment that flags rows whose
// partition+order key is tied.
const MonitoringColumns = `
-- DQ Monitoring Columns (add to your SELECT)
-- These detect when non-determinism would affect results

-- Count of duplicates in partition+order key (should be 0 or 1)
COUNT(*) OVER (PARTITION BY <partition_cols>, <order_cols>) AS _dq_tie_count,

-- Flag rows where ties exist
CASE
    WHEN COUNT(*) OVER (PARTITION BY <partition_cols>, <order_cols>) > 1
    THEN 'NON_DETERMINISTIC'
    ELSE 'DETERMINISTIC'
END AS _dq_determinism_status
`
