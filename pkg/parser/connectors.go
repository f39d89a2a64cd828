package parser

import (
	"strings"

	tiparser "github.com/pingcap/tidb/parser"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
)

// The TiDB tree records INNER JOIN, CROSS JOIN, plain JOIN and a comma
// list all as one join type. connectors recovers the keyword as written
// by walking the statement's tokens for join connectors in document order:
// a JOIN keyword with its modifiers, or a comma at the paren depth of a
// FROM list.
//
// Tokens come from TiDB's own lexer through tiparser.Normalize, which drops
// comments, replaces literals with ? and back-quotes identifiers, so only
// keywords and punctuation reach the walk below.

type connector struct {
	typ     ast.JoinType
	natural bool
}

// scanConnectors returns the join connectors of the first statement in sql.
func scanConnectors(sql string) []connector {
	frames := []bool{false} // inFrom per paren depth
	var out []connector
	var pending []string
	var prev, prev2 string

	for _, tok := range normalizedTokens(tiparser.Normalize(sql)) {
		top := len(frames) - 1
		switch {
		case tok == "(" || tok == ")" || tok == "," || tok == ";":
			switch tok {
			case "(":
				frames = append(frames, false)
			case ")":
				if len(frames) > 1 {
					frames = frames[:top]
				}
			case ",":
				if frames[top] {
					out = append(out, connector{typ: ast.JoinComma})
				}
			case ";":
				if len(frames) == 1 {
					return out
				}
			}
			pending = pending[:0]

		case isKeyword(tok):
			word := strings.ToUpper(tok)
			switch word {
			case "FROM":
				// IS [NOT] DISTINCT FROM is a comparison, not a clause.
				if !(prev == "DISTINCT" && (prev2 == "IS" || prev2 == "NOT")) {
					frames[top] = true
				}
			case "SELECT", "WHERE", "GROUP", "HAVING", "ORDER", "LIMIT",
				"UNION", "EXCEPT", "INTERSECT", "WINDOW":
				frames[top] = false
			}

			switch word {
			case "NATURAL", "INNER", "CROSS", "LEFT", "RIGHT", "FULL", "OUTER":
				pending = append(pending, word)
			case "JOIN":
				// Normalize already spells STRAIGHT_JOIN as join.
				out = append(out, joinConnector(pending))
				pending = pending[:0]
			default:
				pending = pending[:0]
			}
			prev2, prev = prev, word

		default:
			pending = pending[:0]
			prev2, prev = prev, ""
		}
	}
	return out
}

func joinConnector(modifiers []string) connector {
	c := connector{typ: ast.JoinInner}
	for _, m := range modifiers {
		switch m {
		case "NATURAL":
			c.natural = true
		case "LEFT":
			c.typ = ast.JoinLeft
		case "RIGHT":
			c.typ = ast.JoinRight
		case "FULL":
			c.typ = ast.JoinFull
		case "CROSS":
			c.typ = ast.JoinCross
		}
	}
	return c
}

// normalizedTokens splits normalized SQL back into its tokens. Tokens are
// separated by single spaces; a back-quoted identifier may contain spaces.
func normalizedTokens(norm string) []string {
	var toks []string
	for i := 0; i < len(norm); {
		switch norm[i] {
		case ' ':
			i++
		case '`':
			end := strings.IndexByte(norm[i+1:], '`')
			if end < 0 {
				return append(toks, norm[i:])
			}
			toks = append(toks, norm[i:i+end+2])
			i += end + 2
		default:
			end := strings.IndexByte(norm[i:], ' ')
			if end < 0 {
				end = len(norm) - i
			}
			toks = append(toks, norm[i:i+end])
			i += end
		}
	}
	return toks
}

// isKeyword reports whether a normalized token is a bare word. Identifiers
// are back-quoted and literals are ?, so a bare word is a keyword or a
// built-in function name.
func isKeyword(tok string) bool {
	c := tok[0]
	return c == '_' || (c >= 'a' && c <= 'z')
}
