// Package schemastore loads a record-type schema from a relational store,
// grounded on the teacher's multi-driver database/sql connection pattern
// (internal/database/database.go) but purposed here to load a header
// definition table instead of probing for database services.
package schemastore

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"vcffilter/internal/schema"
)

// Store is a schema.Schema backed by a SQL table of tag definitions. Tag
// lookups are served from an in-memory cache loaded once at Open, since
// evaluation is on the hot path and must not round-trip to the database
// per record.
type Store struct {
	db       *sql.DB
	nsamples int

	mu   sync.RWMutex
	mem  *schema.Memory
}

// tagRow mirrors one row of the expected schema table:
//
//	CREATE TABLE header_tags (
//	    name      TEXT PRIMARY KEY,
//	    namespace INT NOT NULL, -- 0=INFO, 1=FORMAT, 2=FILTER
//	    type      INT NOT NULL, -- 0=int, 1=float, 2=string, 3=flag
//	    arity     INT NOT NULL  -- 0=scalar, 1=A, 2=R, 3=G, 4=.
//	);
type tagRow struct {
	name      string
	namespace int
	typ       int
	arity     int
}

// Open connects to driver/dsn (one of "mysql", "postgres", "sqlite3",
// "sqlserver") and loads every row of header_tags into memory.
func Open(driver, dsn string, nsamples int) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("schemastore: open %s: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("schemastore: ping %s: %w", driver, err)
	}
	s := &Store{db: db, nsamples: nsamples}
	if err := s.reload(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// Reload re-reads header_tags, replacing the in-memory cache atomically.
func (s *Store) Reload() error { return s.reload() }

func (s *Store) reload() error {
	rows, err := s.db.Query(`SELECT name, namespace, type, arity FROM header_tags`)
	if err != nil {
		return fmt.Errorf("schemastore: query header_tags: %w", err)
	}
	defer rows.Close()

	mem := schema.NewMemory(s.nsamples)
	for rows.Next() {
		var r tagRow
		if err := rows.Scan(&r.name, &r.namespace, &r.typ, &r.arity); err != nil {
			return fmt.Errorf("schemastore: scan header_tags row: %w", err)
		}
		mem.Define(schema.Namespace(r.namespace), r.name, schema.Type(r.typ), schema.Arity(r.arity))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.mem = mem
	s.mu.Unlock()
	return nil
}

func (s *Store) current() *schema.Memory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem
}

func (s *Store) IDOf(name string) (int, bool)                 { return s.current().IDOf(name) }
func (s *Store) IsDefined(ns schema.Namespace, id int) bool    { return s.current().IsDefined(ns, id) }
func (s *Store) DeclaredType(ns schema.Namespace, id int) schema.Type {
	return s.current().DeclaredType(ns, id)
}
func (s *Store) DeclaredArity(ns schema.Namespace, id int) schema.Arity {
	return s.current().DeclaredArity(ns, id)
}
func (s *Store) NSamples() int { return s.nsamples }

// Names exposes the id-to-name table for record.JSONRecord construction.
func (s *Store) Names() map[int]string { return s.current().Names() }
