// Package all registers every storage backend with the factory. The binary
// blank-imports it so config alone decides which backend a run uses.
package all

import (
	_ "orderetl/internal/storage/mssql"
	_ "orderetl/internal/storage/postgres"
	_ "orderetl/internal/storage/sqlite"
)
