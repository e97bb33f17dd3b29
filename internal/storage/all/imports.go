// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories with the storage package. A binary
// that only needs one backend can blank-import that backend directly instead.
package all

import (
	_ "oews/internal/storage/postgres"
	_ "oews/internal/storage/sqlite"
)
