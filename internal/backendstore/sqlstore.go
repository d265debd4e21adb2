package backendstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver, blank-imported for its side-effect registration
	_ "github.com/lib/pq"              // PostgreSQL driver, ditto
)

// SQLStore is the in-database backend-store variant (SPEC_FULL.md §4.2.4):
// a single table in the same relational database as the metadata store
// (internal/metadata), addressed directly over database/sql — no ORM.
// Grounded on the teacher's pkg/protocol/sql.go direct database/sql usage,
// reinterpreted from its rotation action-switch (create/verify/rotate/
// revoke/list) into this package's Put/Get/Delete/Update contract.
type SQLStore struct {
	db    *sql.DB
	table string
}

// NewSQLStore wraps an already-opened *sql.DB. table defaults to
// "backend_payloads" when empty.
func NewSQLStore(db *sql.DB, table string) *SQLStore {
	if table == "" {
		table = "backend_payloads"
	}
	return &SQLStore{db: db, table: table}
}

func (s *SQLStore) Name() string { return "sql" }

func (s *SQLStore) Put(ctx context.Context, id string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO "+s.table+" (id, payload) VALUES ($1, $2)", id, payload)
	if err != nil {
		if isUniqueViolation(err) {
			return errConflict(s.Name(), id)
		}
		return errUnavailable(s.Name(), err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM "+s.table+" WHERE id = $1", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound(s.Name(), id)
	}
	if err != nil {
		return nil, errUnavailable(s.Name(), err)
	}
	return payload, nil
}

func (s *SQLStore) Update(ctx context.Context, id string, payload []byte) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE "+s.table+" SET payload = $2 WHERE id = $1", id, payload)
	if err != nil {
		return errUnavailable(s.Name(), err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errUnavailable(s.Name(), err)
	}
	if rows == 0 {
		return errNotFound(s.Name(), id)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM "+s.table+" WHERE id = $1", id)
	if err != nil {
		return errUnavailable(s.Name(), err)
	}
	return nil
}

// isUniqueViolation is deliberately conservative: it only recognizes the
// driver-specific error shapes worth special-casing into ErrAlreadyExists,
// matching both PostgreSQL (lib/pq) and MySQL (go-sql-driver) unique-key
// violations. Anything else surfaces as ErrStoreUnavailable.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	for _, sub := range []string{"duplicate key value", "Duplicate entry", "UNIQUE constraint"} {
		if strings.Contains(msg, sub) {
			return true
		}
	}
	return false
}
