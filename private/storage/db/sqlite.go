// Copyright 2026 ETH Zurich
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package db wraps the sqlite driver used for the registry database.
package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/netsec-ethz/topogen/pkg/private/serrors"
)

// NewSqlite opens the sqlite database at path. The connection pool is limited
// to a single connection, since the registry is written by one process.
func NewSqlite(path string) (*sql.DB, error) {
	if strings.Contains(path, ":memory:") {
		return nil, serrors.New("use an explicitly named database file", "path", path)
	}
	params := make(url.Values)
	params.Add("_txlock", "immediate")
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "busy_timeout(1000)")
	params.Add("_pragma", "foreign_keys(1)")
	noFile, ok := strings.CutPrefix(path, "file:")
	connURL := "file:" + noFile + "?" + params.Encode()
	if ok {
		connURL = path + "?" + params.Encode()
	}
	db, err := sql.Open("sqlite", connURL)
	if err != nil {
		return nil, serrors.Wrap("opening database", err, "path", path)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Setup applies the schema to a fresh database and verifies the schema
// version of an existing one.
func Setup(db *sql.DB, schema string, schemaVersion int) error {
	var existing int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&existing); err != nil {
		return NewReadError("checking schema version", err)
	}
	switch {
	case existing == 0:
		if _, err := db.Exec(schema); err != nil {
			return NewWriteError("applying schema", err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return NewWriteError("writing schema version", err)
		}
		return nil
	case existing != schemaVersion:
		return serrors.New("database schema version mismatch",
			"expected", schemaVersion, "actual", existing)
	default:
		return nil
	}
}

