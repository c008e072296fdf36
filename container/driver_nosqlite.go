// SPDX-License-Identifier: MIT

//go:build nosqlite

package container

const (
	sqliteDriver    = ""
	sqliteAvailable = false
)
