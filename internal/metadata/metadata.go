// Package metadata is the typed record store for Secret, TrustedSecret, and
// UserSecret metadata (SPEC_FULL.md §4.5). It never touches payload bytes —
// those live behind internal/backendstore — only the record envelope:
// names, tags, scope, and encrypt_options.
//
// Grounded on the teacher's pkg/protocol/sql.go: plain database/sql, no ORM,
// numbered placeholders, blank-imported drivers selected by DSN scheme.
package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/model"
)

const component = "metadata-store"

// Store is the metadata record store backed by a relational database.
type Store struct {
	db *sql.DB
}

// Open wraps an already-configured *sql.DB. Connection lifecycle (pooling,
// max-idle, DSN selection) is the caller's responsibility, same division of
// concerns as internal/backendstore.SQLStore.
func Open(db *sql.DB) *Store {
	return &Store{db: db}
}

func encodeOptions(o model.EncryptOptions) ([]byte, error) { return json.Marshal(o) }

func decodeOptions(raw []byte) (model.EncryptOptions, error) {
	var o model.EncryptOptions
	if len(raw) == 0 {
		return o, nil
	}
	err := json.Unmarshal(raw, &o)
	return o, err
}

func encodeTags(tags map[string]string) ([]byte, error) {
	if tags == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(tags)
}

func decodeTags(raw []byte) (map[string]string, error) {
	tags := map[string]string{}
	if len(raw) == 0 {
		return tags, nil
	}
	err := json.Unmarshal(raw, &tags)
	return tags, err
}

func wrapDBErr(err error, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return dserrors.New(dserrors.KindNotFound, component, id+" not found")
	}
	return dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
}

// Stat summarizes record counts for a scope, used by the service layer's
// Stat operations.
type Stat struct {
	Secrets        int64
	TrustedSecrets int64
	UserSecrets    int64
}

// Stat counts records per table scoped to domainID.
func (s *Store) Stat(ctx context.Context, domainID string) (Stat, error) {
	var st Stat
	rows := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM secrets WHERE domain_id = $1", &st.Secrets},
		{"SELECT COUNT(*) FROM trusted_secrets WHERE domain_id = $1", &st.TrustedSecrets},
		{"SELECT COUNT(*) FROM user_secrets WHERE domain_id = $1", &st.UserSecrets},
	}
	for _, r := range rows {
		if err := s.db.QueryRowContext(ctx, r.query, domainID).Scan(r.dest); err != nil {
			return Stat{}, dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
		}
	}
	return st, nil
}
