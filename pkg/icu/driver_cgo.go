//go:build cgo

package icu

import (
	"database/sql"
	"fmt"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// CgoDriverName is the mattn/go-sqlite3 driver registered by RegisterCgoDriver.
const CgoDriverName = "sqlite3_icu"

var (
	cgoOnce sync.Once
	cgoErr  error
)

// RegisterCgoDriver registers the sqlite3_icu driver. Every connection it opens
// loads opts.Extensions and gets the same collations and functions as Register.
// Only the first call's options take effect.
func RegisterCgoDriver(opts Options) error {
	cgoOnce.Do(func() {
		collations, err := buildCollations(opts)
		if err != nil {
			cgoErr = err
			return
		}
		functions := scalarFunctions()

		sql.Register(CgoDriverName, &sqlite3.SQLiteDriver{
			Extensions: opts.Extensions,
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				for name, cmp := range collations {
					if err := conn.RegisterCollation(name, cmp); err != nil {
						return fmt.Errorf("register collation %s: %w", name, err)
					}
				}
				for name, fn := range functions {
					if err := conn.RegisterFunc(name, cgoFunc(fn), true); err != nil {
						return fmt.Errorf("register function %s: %w", name, err)
					}
				}
				return nil
			},
		})
	})
	return cgoErr
}

// cgoFunc adapts a scalar function to the signatures go-sqlite3 accepts.
func cgoFunc(fn scalarFunction) any {
	if fn.nArgs == 0 {
		return func() any { return fn.impl(nil) }
	}
	return func(v any) any { return fn.impl([]any{v}) }
}
