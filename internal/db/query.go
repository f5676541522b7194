package db

import (
	"strconv"
	"strings"
	"unicode"
)

// MatchAllQuery matches every document in an FT index.
const MatchAllQuery = "*"

// EscapeTag escapes a value for use inside a TAG filter {...}.
func EscapeTag(s string) string { return tagEscaper.Replace(s) }

// EscapeText escapes a term for use in a full-text query.
func EscapeText(s string) string { return queryEscaper.Replace(s) }

// TagFilter builds @field:{v1 | v2}.
func TagFilter(field string, values ...string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = EscapeTag(v)
	}
	return "@" + field + ":{" + strings.Join(escaped, " | ") + "}"
}

// TextAnyFilter builds @field:(t1|t2) so that any term matches, mirroring a default OR match.
func TextAnyFilter(field string, terms []string) string {
	escaped := make([]string, len(terms))
	for i, t := range terms {
		escaped[i] = EscapeText(t)
	}
	return "@" + field + ":(" + strings.Join(escaped, "|") + ")"
}

// GeoRadiusFilter builds @field:[lon lat radius km].
func GeoRadiusFilter(field string, lon, lat, radiusKm float64) string {
	return "@" + field + ":[" + formatFloat(lon) + " " + formatFloat(lat) + " " + formatFloat(radiusKm) + " km]"
}

// Or joins clauses into a parenthesized disjunction.
func Or(clauses ...string) string {
	if len(clauses) == 1 {
		return clauses[0]
	}
	return "(" + strings.Join(clauses, " | ") + ")"
}

// And joins clauses into a conjunction, skipping empty ones. No clauses means match all.
func And(clauses ...string) string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return MatchAllQuery
	}
	return strings.Join(parts, " ")
}

// Terms splits free text into word tokens the way the FT tokenizer would.
func Terms(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)
