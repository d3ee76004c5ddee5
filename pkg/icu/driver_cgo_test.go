//go:build cgo

package icu

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func openCgo(t *testing.T) *sql.DB {
	t.Helper()
	if err := RegisterCgoDriver(Options{Collations: map[string]string{"russian": "ru-RU"}}); err != nil {
		t.Fatalf("RegisterCgoDriver: %v", err)
	}
	db, err := sql.Open(CgoDriverName, "file:"+filepath.Join(t.TempDir(), "cgo.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCgoDriver_Functions(t *testing.T) {
	db := openCgo(t)
	ctx := context.Background()

	var lower, upper, version string
	if err := db.QueryRowContext(ctx, `SELECT lower('ПРИВЕТ'), upper('мир'), icu_version()`).
		Scan(&lower, &upper, &version); err != nil {
		t.Fatalf("query: %v", err)
	}
	if lower != "привет" {
		t.Errorf("lower = %q, want привет", lower)
	}
	if upper != "МИР" {
		t.Errorf("upper = %q, want МИР", upper)
	}
	if version != Version() {
		t.Errorf("icu_version() = %q, want %q", version, Version())
	}

	var null sql.NullString
	if err := db.QueryRowContext(ctx, `SELECT lower(NULL)`).Scan(&null); err != nil {
		t.Fatalf("lower(NULL): %v", err)
	}
	if null.Valid {
		t.Errorf("lower(NULL) = %q, want NULL", null.String)
	}
}

func TestCgoDriver_Collations(t *testing.T) {
	db := openCgo(t)
	ctx := context.Background()

	conn, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("conn: %v", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `CREATE TEMP TABLE words (w TEXT)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := conn.ExecContext(ctx, `INSERT INTO words VALUES ('Привет'), ('привет'), ('ПРИВЕТ'), ('Мир')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	for _, coll := range []string{"russian", "unicase"} {
		n, err := scanCount(ctx, conn, `SELECT COUNT(*) FROM words WHERE w = 'привет' COLLATE `+coll)
		if err != nil {
			t.Fatalf("COLLATE %s: %v", coll, err)
		}
		if n != 3 {
			t.Errorf("COLLATE %s matched %d rows, want 3", coll, n)
		}
	}

	if got := DetectStrategy(ctx, conn, nil); got != StrategyUnicase {
		t.Errorf("DetectStrategy = %q, want %q", got, StrategyUnicase)
	}
}

func TestCgoFunc(t *testing.T) {
	fns := scalarFunctions()

	zero, ok := cgoFunc(fns["icu_version"]).(func() any)
	if !ok {
		t.Fatal("icu_version adapter is not func() any")
	}
	if got := zero(); got != Version() {
		t.Errorf("icu_version adapter = %v", got)
	}

	one, ok := cgoFunc(fns["lower"]).(func(any) any)
	if !ok {
		t.Fatal("lower adapter is not func(any) any")
	}
	if got := one("ТЕСТ"); got != "тест" {
		t.Errorf("lower adapter = %v, want тест", got)
	}
}
