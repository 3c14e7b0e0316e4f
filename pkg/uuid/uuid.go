// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the time-ordered (version 7) identifiers used as
primary keys and stored file name prefixes.

Version 7 values sort by creation time, which keeps Postgres B-tree inserts
append-only.
*/
package uuid

import "github.com/google/uuid"

// New returns a UUIDv7 string. It panics only if the system entropy source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate v7: " + err.Error())
	}
	return id.String()
}

// Valid reports whether s is a canonical UUID string.
func Valid(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
