// SPDX-License-Identifier: MIT

//go:build !nosqlite

package container

import (
	// Pure-Go SQLite driver; registers as "sqlite".
	_ "modernc.org/sqlite"
)

const (
	sqliteDriver    = "sqlite"
	sqliteAvailable = true
)
