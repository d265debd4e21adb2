package metadata

import (
	"context"
	"strconv"
	"strings"

	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/model"
)

const selectUserSecretColumns = `user_secret_id, name, schema_id, tags, encrypted, encrypt_options,
	user_id, domain_id, created_at`

func scanUserSecret(row interface{ Scan(dest ...any) error }) (model.UserSecret, error) {
	var rec model.UserSecret
	var tags, opts []byte
	err := row.Scan(&rec.UserSecretID, &rec.Name, &rec.SchemaID, &tags,
		&rec.Encrypted, &opts, &rec.UserID, &rec.DomainID, &rec.CreatedAt)
	if err != nil {
		return model.UserSecret{}, err
	}
	if rec.Tags, err = decodeTags(tags); err != nil {
		return model.UserSecret{}, err
	}
	if rec.EncryptOptions, err = decodeOptions(opts); err != nil {
		return model.UserSecret{}, err
	}
	return rec, nil
}

// CreateUserSecret inserts a new UserSecret record.
func (s *Store) CreateUserSecret(ctx context.Context, rec model.UserSecret) error {
	tags, err := encodeTags(rec.Tags)
	if err != nil {
		return dserrors.Wrap(dserrors.KindInternal, component, err)
	}
	opts, err := encodeOptions(rec.EncryptOptions)
	if err != nil {
		return dserrors.Wrap(dserrors.KindInternal, component, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_secrets
			(user_secret_id, name, schema_id, tags, encrypted, encrypt_options, user_id, domain_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rec.UserSecretID, rec.Name, rec.SchemaID, tags, rec.Encrypted, opts, rec.UserID, rec.DomainID, rec.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return dserrors.New(dserrors.KindAlreadyExists, component, "user secret "+rec.UserSecretID+" already exists")
		}
		return dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	return nil
}

// GetUserSecret fetches a single UserSecret by ID.
func (s *Store) GetUserSecret(ctx context.Context, userSecretID string) (model.UserSecret, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+selectUserSecretColumns+" FROM user_secrets WHERE user_secret_id = $1", userSecretID)
	rec, err := scanUserSecret(row)
	if err != nil {
		return model.UserSecret{}, wrapDBErr(err, userSecretID)
	}
	return rec, nil
}

// UpdateUserSecret applies patch restricted to model.UpdatableUserSecretFields.
func (s *Store) UpdateUserSecret(ctx context.Context, userSecretID string, patch model.Patch) error {
	if ok, bad := patch.Allowed(model.UpdatableUserSecretFields); !ok {
		return dserrors.New(dserrors.KindWrongConfiguration, component, "field "+bad+" is not updatable on a user secret")
	}
	if len(patch) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(patch))
	args := make([]any, 0, len(patch)+1)
	i := 1
	for _, field := range model.UpdatableUserSecretFields {
		v, ok := patch[field]
		if !ok {
			continue
		}
		switch field {
		case "tags":
			encoded, err := encodeTags(v.(map[string]string))
			if err != nil {
				return dserrors.Wrap(dserrors.KindInternal, component, err)
			}
			v = encoded
		case "encrypt_options":
			encoded, err := encodeOptions(v.(model.EncryptOptions))
			if err != nil {
				return dserrors.Wrap(dserrors.KindInternal, component, err)
			}
			v = encoded
		}
		setClauses = append(setClauses, field+" = $"+strconv.Itoa(i))
		args = append(args, v)
		i++
	}
	args = append(args, userSecretID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE user_secrets SET "+strings.Join(setClauses, ", ")+" WHERE user_secret_id = $"+strconv.Itoa(i), args...)
	if err != nil {
		return dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	if rows == 0 {
		return dserrors.New(dserrors.KindNotFound, component, "user secret "+userSecretID+" not found")
	}
	return nil
}

// DeleteUserSecret removes a UserSecret record.
func (s *Store) DeleteUserSecret(ctx context.Context, userSecretID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM user_secrets WHERE user_secret_id = $1", userSecretID)
	if err != nil {
		return dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	return nil
}

// ListUserSecrets returns UserSecret records owned by userID.
func (s *Store) ListUserSecrets(ctx context.Context, domainID, userID string) ([]model.UserSecret, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+selectUserSecretColumns+" FROM user_secrets WHERE domain_id = $1 AND user_id = $2 ORDER BY created_at DESC",
		domainID, userID)
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	defer rows.Close()

	var out []model.UserSecret
	for rows.Next() {
		rec, err := scanUserSecret(rows)
		if err != nil {
			return nil, dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
