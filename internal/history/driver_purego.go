//go:build !cgo_sqlite

package history

import (
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const driverName = "sqlite"
