package store

import (
	"context"
	"fmt"

	"github.com/hazyhaar/unifold/pkg/fold"
	"github.com/hazyhaar/unifold/pkg/icu"
)

// Match selects how Query.Text is compared to a column.
type Match string

const (
	// Detection-based: LOWER(column) only when the text is non-ASCII.
	MatchEqual    Match = "equal"
	MatchLike     Match = "like"
	MatchIncludes Match = "includes"

	// Collation-based: NOCASE on both operands, no detection.
	MatchNoCaseEqual Match = "nocase_equal"
	MatchNoCaseLike  Match = "nocase_like"
)

// DefaultLimit caps results when Query.Limit is not set.
const DefaultLimit = 50

// MaxLimit is the largest accepted Query.Limit.
const MaxLimit = 1000

// Query describes a search over one column.
type Query struct {
	Field string `json:"field"`
	Match Match  `json:"match"`
	Text  string `json:"text"`
	Limit int    `json:"limit,omitempty"`
}

// columns whitelists the fields a query may target; builders interpolate them.
var columns = map[string]string{
	"term": "term",
	"body": "body",
}

// Where returns the WHERE fragment and its arguments for q.
func Where(q Query) (string, []any, error) {
	if q.Text == "" {
		return "", nil, ErrEmptyQuery
	}
	field := q.Field
	if field == "" {
		field = "term"
	}
	col, ok := columns[field]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownField, q.Field)
	}

	sql, args, err := Fragment(col, q.Match, q.Text)
	if err != nil {
		return "", nil, err
	}
	if q.Match == MatchIncludes {
		sql += " > 0"
	}
	return sql, args, nil
}

// Fragment returns the fragment match produces for column, as emitted by the
// fold or icu builders. column is interpolated verbatim and must already be
// validated. An empty match means MatchEqual.
func Fragment(column string, match Match, text string) (string, []any, error) {
	switch match {
	case MatchEqual, "":
		e := fold.UnicodeAwareExpression(column, "=", text)
		return e.SQL, e.Args(), nil
	case MatchLike:
		e := fold.UnicodeLikeExpression(column, text)
		return e.SQL, e.Args(), nil
	case MatchIncludes:
		e := fold.UnicodeIncludesExpression(column, text)
		return e.SQL, e.Args(), nil
	case MatchNoCaseEqual:
		return icu.UnicodeAwareEqualityQuery(column), []any{text}, nil
	case MatchNoCaseLike:
		return icu.UnicodeAwareLikeQuery(column, text), []any{text}, nil
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownMatch, match)
	}
}

// Search returns entries matching q ordered by term.
func (s *Store) Search(ctx context.Context, q Query) ([]Entry, error) {
	where, args, err := Where(q)
	if err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	query := `SELECT id, term, body, source, created_at FROM entries WHERE ` +
		where + ` ORDER BY term, id LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Term, &e.Body, &e.Source, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.logger.Debug("search", "field", q.Field, "match", q.Match, "results", len(entries))
	return entries, nil
}
