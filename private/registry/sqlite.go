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

package registry

import (
	"context"
	"database/sql"
	"net/netip"

	"github.com/netsec-ethz/topogen/pkg/addr"
	"github.com/netsec-ethz/topogen/pkg/caida"
	"github.com/netsec-ethz/topogen/pkg/subnet"
	"github.com/netsec-ethz/topogen/private/storage/db"
	"github.com/netsec-ethz/topogen/private/topology"
)

const (
	// SchemaVersion is the version of the SQLite schema understood by this
	// implementation.
	SchemaVersion = 2
	// Schema is the SQLite database layout.
	Schema = `CREATE TABLE subnets(
		RowID INTEGER PRIMARY KEY,
		Source TEXT NOT NULL,
		Family TEXT NOT NULL,
		Prefix TEXT NOT NULL,
		GroupKey TEXT NOT NULL,
		Rel TEXT NOT NULL,
		Intra INTEGER NOT NULL,
		UNIQUE (Source, Family, Prefix)
	);
	CREATE TABLE addresses(
		SubnetRowID INTEGER NOT NULL,
		Router TEXT NOT NULL,
		Address TEXT NOT NULL,
		PRIMARY KEY (SubnetRowID, Router),
		FOREIGN KEY (SubnetRowID) REFERENCES subnets(RowID) ON DELETE CASCADE
	);
	CREATE INDEX addresses_router ON addresses(Router);`
)

// Address is an address row.
type Address struct {
	Router addr.Router
	Addr   netip.Prefix
}

// Entry is a subnet row with its addresses.
type Entry struct {
	Source    string
	Family    subnet.Family
	Prefix    netip.Prefix
	Group     addr.RouterPair
	Rel       caida.Rel
	Intra     bool
	Addresses []Address
}

// Backend is the sqlite registry.
type Backend struct {
	db *sql.DB
}

// New opens the registry database at path and sets up the schema if the
// database is new.
func New(path string) (*Backend, error) {
	sdb, err := db.NewSqlite(path)
	if err != nil {
		return nil, err
	}
	if err := db.Setup(sdb, Schema, SchemaVersion); err != nil {
		sdb.Close()
		return nil, err
	}
	return &Backend{db: sdb}, nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// Insert stores all subnets of res in one transaction. Subnets of an earlier
// run with the same source are replaced; other sources are kept and may use
// the same prefixes.
func (b *Backend) Insert(ctx context.Context, res *topology.Result) error {
	groups := make(map[addr.RouterPair]topology.Group)
	for _, g := range res.Topology.Groups() {
		groups[g.Key] = g
	}
	source := res.Topology.Source
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return db.NewTxError("begin", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM subnets WHERE Source = ?`, source); err != nil {
		return db.NewWriteError("deleting previous subnets", err, "source", source)
	}
	for _, f := range res.Families() {
		for _, sn := range res.Subnets(f) {
			g := groups[sn.Key]
			r, err := tx.ExecContext(ctx,
				`INSERT INTO subnets (Source, Family, Prefix, GroupKey, Rel, Intra)
				VALUES (?, ?, ?, ?, ?, ?)`,
				source, f.String(), sn.Prefix.String(), sn.Key.String(),
				g.Rel.String(), g.Intra,
			)
			if err != nil {
				return db.NewWriteError("inserting subnet", err, "subnet", sn.Prefix)
			}
			id, err := r.LastInsertId()
			if err != nil {
				return db.NewWriteError("reading subnet id", err, "subnet", sn.Prefix)
			}
			for _, a := range sn.Members {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO addresses (SubnetRowID, Router, Address) VALUES (?, ?, ?)`,
					id, a.Member.String(), a.Addr.String(),
				)
				if err != nil {
					return db.NewWriteError("inserting address", err,
						"subnet", sn.Prefix, "router", a.Member)
				}
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return db.NewTxError("commit", err)
	}
	return nil
}

// Sources returns the stored sources in lexical order.
func (b *Backend) Sources(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT DISTINCT Source FROM subnets ORDER BY Source`)
	if err != nil {
		return nil, db.NewReadError("querying sources", err)
	}
	defer rows.Close()
	var res []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, db.NewReadError("scanning source", err)
		}
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, db.NewReadError("iterating sources", err)
	}
	return res, nil
}

// Subnets returns the stored subnets of the source in the family, in
// insertion order.
func (b *Backend) Subnets(ctx context.Context, source string,
	f subnet.Family) ([]Entry, error) {

	rows, err := b.db.QueryContext(ctx,
		`SELECT RowID, Source, Prefix, GroupKey, Rel, Intra FROM subnets
		WHERE Source = ? AND Family = ? ORDER BY RowID`, source, f.String())
	if err != nil {
		return nil, db.NewReadError("querying subnets", err, "source", source)
	}
	defer rows.Close()
	var ids []int64
	var entries []Entry
	for rows.Next() {
		var (
			id                       int64
			source, prefix, key, rel string
			intra                    bool
		)
		if err := rows.Scan(&id, &source, &prefix, &key, &rel, &intra); err != nil {
			return nil, db.NewReadError("scanning subnet", err)
		}
		e := Entry{Source: source, Family: f, Intra: intra}
		if e.Prefix, err = netip.ParsePrefix(prefix); err != nil {
			return nil, db.NewReadError("parsing prefix", err, "prefix", prefix)
		}
		if e.Group, err = addr.ParseRouterPair(key); err != nil {
			return nil, db.NewReadError("parsing group", err, "group", key)
		}
		if e.Rel, err = caida.ParseRel(rel); err != nil {
			return nil, db.NewReadError("parsing relationship", err, "rel", rel)
		}
		ids = append(ids, id)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, db.NewReadError("iterating subnets", err)
	}
	for i, id := range ids {
		addrs, err := b.addresses(ctx, id)
		if err != nil {
			return nil, err
		}
		entries[i].Addresses = addrs
	}
	return entries, nil
}

// Lookup returns the addresses of a router of the source in all families.
func (b *Backend) Lookup(ctx context.Context, source string,
	router addr.Router) ([]netip.Prefix, error) {

	rows, err := b.db.QueryContext(ctx,
		`SELECT a.Address FROM addresses a JOIN subnets s ON a.SubnetRowID = s.RowID
		WHERE s.Source = ? AND a.Router = ? ORDER BY a.SubnetRowID`,
		source, router.String())
	if err != nil {
		return nil, db.NewReadError("querying addresses", err, "router", router)
	}
	defer rows.Close()
	var res []netip.Prefix
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, db.NewReadError("scanning address", err)
		}
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return nil, db.NewReadError("parsing address", err, "address", s)
		}
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, db.NewReadError("iterating addresses", err)
	}
	return res, nil
}

func (b *Backend) addresses(ctx context.Context, id int64) ([]Address, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT Router, Address FROM addresses WHERE SubnetRowID = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, db.NewReadError("querying addresses", err)
	}
	defer rows.Close()
	var res []Address
	for rows.Next() {
		var r, a string
		if err := rows.Scan(&r, &a); err != nil {
			return nil, db.NewReadError("scanning address", err)
		}
		var entry Address
		if entry.Router, err = addr.ParseRouter(r); err != nil {
			return nil, db.NewReadError("parsing router", err, "router", r)
		}
		if entry.Addr, err = netip.ParsePrefix(a); err != nil {
			return nil, db.NewReadError("parsing address", err, "address", a)
		}
		res = append(res, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, db.NewReadError("iterating addresses", err)
	}
	return res, nil
}
