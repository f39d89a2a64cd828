package determinism

import (
	"regexp"
	"strings"
)

// tieBreakerPatterns are tried in order, most specific first. Matching is
// case-insensitive and anchored at the start of the name.
var tieBreakerPatterns = compilePatterns(
	`.*_source_row_id$`,
	`.*_row_id$`,
	`^row_id$`,
	`.*_load_timestamp$`,
	`.*_load_ts$`,
	`^load_ts$`,
	`^created_at$`,
	`.*_file_row_number$`,
	`^surrogate_key$`,
	`^sk$`,
	`.*_sk$`,
	`^id$`,
	`.*_id$`,
)

func compilePatterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(`(?i)^(?:` + strings.TrimPrefix(expr, "^") + `)`)
	}
	return out
}

// Suggest ranks candidate column names as tie-breakers. For each pattern
// in priority order it appends every matching candidate not yet selected,
// so the result follows pattern priority, not input order. Candidates that
// match no pattern are dropped.
func Suggest(candidates []string) []string {
	out := []string{}
	picked := make(map[string]bool, len(candidates))
	for _, re := range tieBreakerPatterns {
		for _, name := range candidates {
			if picked[name] || !re.MatchString(name) {
				continue
			}
			picked[name] = true
			out = append(out, name)
		}
	}
	return out
}
