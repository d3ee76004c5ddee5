//go:build !cgo

package icu

import "errors"

// CgoDriverName is the mattn/go-sqlite3 driver, unavailable in this build.
const CgoDriverName = "sqlite3_icu"

// RegisterCgoDriver always fails without cgo.
func RegisterCgoDriver(Options) error {
	return errors.New("icu: the sqlite3_icu driver requires cgo")
}
