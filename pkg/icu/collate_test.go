package icu

import (
	"context"
	"testing"
)

func TestCollationQueries(t *testing.T) {
	if got, want := UnicodeAwareLikeQuery("name", "ignored"), "name COLLATE NOCASE LIKE ? COLLATE NOCASE"; got != want {
		t.Errorf("UnicodeAwareLikeQuery = %q, want %q", got, want)
	}
	if got, want := UnicodeAwareEqualityQuery("name"), "name COLLATE NOCASE = ? COLLATE NOCASE"; got != want {
		t.Errorf("UnicodeAwareEqualityQuery = %q, want %q", got, want)
	}
}

func TestCollationQueries_Execute(t *testing.T) {
	ctx := context.Background()
	conn := openConn(t)

	if _, err := conn.ExecContext(ctx, `CREATE TABLE people (name TEXT)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := conn.ExecContext(ctx, `INSERT INTO people VALUES ('Alice'), ('ALICE'), ('bob')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var n int
	q := `SELECT COUNT(*) FROM people WHERE ` + UnicodeAwareEqualityQuery("name")
	if err := conn.QueryRowContext(ctx, q, "alice").Scan(&n); err != nil {
		t.Fatalf("equality: %v", err)
	}
	if n != 2 {
		t.Errorf("equality matched %d, want 2", n)
	}

	q = `SELECT COUNT(*) FROM people WHERE ` + UnicodeAwareLikeQuery("name", "AL%")
	if err := conn.QueryRowContext(ctx, q, "AL%").Scan(&n); err != nil {
		t.Fatalf("like: %v", err)
	}
	if n != 2 {
		t.Errorf("like matched %d, want 2", n)
	}
}
