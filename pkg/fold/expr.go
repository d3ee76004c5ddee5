package fold

import "fmt"

// Expression is a comparison fragment and the value to bind to its placeholder.
type Expression struct {
	SQL   string
	Value any
}

// Args returns the positional arguments for SQL.
func (e Expression) Args() []any { return []any{e.Value} }

// LikeExpression is a LIKE fragment and the pattern to bind.
type LikeExpression struct {
	SQL     string
	Pattern string
}

// Args returns the positional arguments for SQL.
func (e LikeExpression) Args() []any { return []any{e.Pattern} }

// IncludesExpression is an instr() fragment and the search text to bind.
type IncludesExpression struct {
	SQL  string
	Text string
}

// Args returns the positional arguments for SQL.
func (e IncludesExpression) Args() []any { return []any{e.Text} }

// UnicodeAwareExpression builds "column operator ?". When value needs Unicode
// processing the column is wrapped in LOWER() and value is normalized.
//
// column and operator are interpolated verbatim; callers must not pass user input.
func UnicodeAwareExpression(column, operator string, value any) Expression {
	if !NeedsUnicodeProcessing(value) {
		return Expression{
			SQL:   fmt.Sprintf("%s %s ?", column, operator),
			Value: value,
		}
	}
	return Expression{
		SQL:   fmt.Sprintf("LOWER(%s) %s ?", column, operator),
		Value: NormalizeForSearch(value.(string)),
	}
}

// UnicodeLikeExpression builds a LIKE fragment for pattern.
func UnicodeLikeExpression(column, pattern string) LikeExpression {
	if !NeedsUnicodeProcessing(pattern) {
		return LikeExpression{
			SQL:     column + " LIKE ?",
			Pattern: pattern,
		}
	}
	return LikeExpression{
		SQL:     "LOWER(" + column + ") LIKE ?",
		Pattern: CreateLikePattern(pattern),
	}
}

// UnicodeIncludesExpression builds a substring test using instr(). The
// fragment evaluates to a position, so it is truthy when searchText occurs.
func UnicodeIncludesExpression(column, searchText string) IncludesExpression {
	if !NeedsUnicodeProcessing(searchText) {
		return IncludesExpression{
			SQL:  "instr(" + column + ", ?)",
			Text: searchText,
		}
	}
	return IncludesExpression{
		SQL:  "instr(LOWER(" + column + "), ?)",
		Text: NormalizeForSearch(searchText),
	}
}
