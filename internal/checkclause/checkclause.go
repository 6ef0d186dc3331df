// Package checkclause compares CHECK constraint clauses by their parsed form, so that
// formatting, redundant parentheses and keyword case do not register as changes.
package checkclause

import (
	"fmt"
	"regexp"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

var (
	checkPrefix  = regexp.MustCompile(`(?is)^\s*CHECK\s*\((.*)\)\s*$`)
	whitespace   = regexp.MustCompile(`\s+`)
	numericCasts = []*regexp.Regexp{
		regexp.MustCompile(`(\d+(?:\.\d+)?)::numeric\b`),
		regexp.MustCompile(`(\d+)::integer\b`),
		regexp.MustCompile(`(\d+)::bigint\b`),
		regexp.MustCompile(`(\d+)::smallint\b`),
		regexp.MustCompile(`(\d+(?:\.\d+)?)::decimal\b`),
	}
)

// Normalize returns the canonical form of a clause. Clauses the SQL parser rejects fall back to
// whitespace collapsing; the bool reports whether the parser succeeded.
func Normalize(clause string) (string, bool) {
	expr := strings.TrimSpace(clause)
	if m := checkPrefix.FindStringSubmatch(expr); m != nil {
		expr = strings.TrimSpace(m[1])
	}

	if normalized := normalizeWithPgQuery(expr); normalized != "" {
		return normalized, true
	}
	return whitespace.ReplaceAllString(expr, " "), false
}

// normalizeWithPgQuery wraps the expression in a SELECT, parses and deparses it, and strips
// the wrapper again
func normalizeWithPgQuery(expr string) string {
	parseResult, err := pg_query.Parse(fmt.Sprintf("SELECT %s", expr))
	if err != nil {
		return ""
	}
	if len(parseResult.Stmts) != 1 {
		return ""
	}

	deparsed, err := pg_query.Deparse(parseResult)
	if err != nil {
		return ""
	}
	after, found := strings.CutPrefix(deparsed, "SELECT ")
	if !found {
		return ""
	}

	normalized := strings.TrimSpace(after)
	for _, re := range numericCasts {
		normalized = re.ReplaceAllString(normalized, "$1")
	}
	return normalized
}

// Equivalent reports whether two clauses are the same expression. It satisfies
// diff.CheckClauseComparer.
func Equivalent(a, b string) bool {
	na, _ := Normalize(a)
	nb, _ := Normalize(b)
	return na == nb
}
