package metadata

import (
	"context"
	"strconv"
	"strings"

	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/model"
)

const selectTrustedSecretColumns = `trusted_secret_id, name, schema_id, provider, tags, encrypted, encrypt_options,
	trusted_account_id, resource_group, workspace_id, domain_id, created_at`

func scanTrustedSecret(row interface{ Scan(dest ...any) error }) (model.TrustedSecret, error) {
	var rec model.TrustedSecret
	var resourceGroup string
	var tags, opts []byte
	err := row.Scan(&rec.TrustedSecretID, &rec.Name, &rec.SchemaID, &rec.Provider, &tags,
		&rec.Encrypted, &opts, &rec.TrustedAccountID, &resourceGroup, &rec.WorkspaceID,
		&rec.DomainID, &rec.CreatedAt)
	if err != nil {
		return model.TrustedSecret{}, err
	}
	rec.ResourceGroup = model.ResourceGroup(resourceGroup)
	if rec.Tags, err = decodeTags(tags); err != nil {
		return model.TrustedSecret{}, err
	}
	if rec.EncryptOptions, err = decodeOptions(opts); err != nil {
		return model.TrustedSecret{}, err
	}
	return rec, nil
}

// CreateTrustedSecret inserts a new TrustedSecret record.
func (s *Store) CreateTrustedSecret(ctx context.Context, rec model.TrustedSecret) error {
	tags, err := encodeTags(rec.Tags)
	if err != nil {
		return dserrors.Wrap(dserrors.KindInternal, component, err)
	}
	opts, err := encodeOptions(rec.EncryptOptions)
	if err != nil {
		return dserrors.Wrap(dserrors.KindInternal, component, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trusted_secrets
			(trusted_secret_id, name, schema_id, provider, tags, encrypted, encrypt_options,
			 trusted_account_id, resource_group, workspace_id, domain_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		rec.TrustedSecretID, rec.Name, rec.SchemaID, rec.Provider, tags, rec.Encrypted, opts,
		rec.TrustedAccountID, string(rec.ResourceGroup), rec.WorkspaceID, rec.DomainID, rec.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return dserrors.New(dserrors.KindAlreadyExists, component, "trusted secret "+rec.TrustedSecretID+" already exists")
		}
		return dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	return nil
}

// GetTrustedSecret fetches a single TrustedSecret by ID.
func (s *Store) GetTrustedSecret(ctx context.Context, trustedSecretID string) (model.TrustedSecret, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+selectTrustedSecretColumns+" FROM trusted_secrets WHERE trusted_secret_id = $1", trustedSecretID)
	rec, err := scanTrustedSecret(row)
	if err != nil {
		return model.TrustedSecret{}, wrapDBErr(err, trustedSecretID)
	}
	return rec, nil
}

// UpdateTrustedSecret applies patch restricted to model.UpdatableTrustedSecretFields.
func (s *Store) UpdateTrustedSecret(ctx context.Context, trustedSecretID string, patch model.Patch) error {
	if ok, bad := patch.Allowed(model.UpdatableTrustedSecretFields); !ok {
		return dserrors.New(dserrors.KindWrongConfiguration, component, "field "+bad+" is not updatable on a trusted secret")
	}
	if len(patch) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(patch))
	args := make([]any, 0, len(patch)+1)
	i := 1
	for _, field := range model.UpdatableTrustedSecretFields {
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
	args = append(args, trustedSecretID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE trusted_secrets SET "+strings.Join(setClauses, ", ")+" WHERE trusted_secret_id = $"+strconv.Itoa(i), args...)
	if err != nil {
		return dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	if rows == 0 {
		return dserrors.New(dserrors.KindNotFound, component, "trusted secret "+trustedSecretID+" not found")
	}
	return nil
}

// DeleteTrustedSecret removes a TrustedSecret record. Callers must verify,
// via CountSecretsReferencing, that no Secret still derives from it before
// calling this (TrustedSecretService.Delete enforces it, not this method).
func (s *Store) DeleteTrustedSecret(ctx context.Context, trustedSecretID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM trusted_secrets WHERE trusted_secret_id = $1", trustedSecretID)
	if err != nil {
		return dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	return nil
}

// CountSecretsReferencing counts Secret records whose trusted_secret_id
// points at trustedSecretID, used to enforce the "related secret exists"
// guard before a TrustedSecret delete.
func (s *Store) CountSecretsReferencing(ctx context.Context, trustedSecretID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM secrets WHERE trusted_secret_id = $1", trustedSecretID).Scan(&count)
	if err != nil {
		return 0, dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	return count, nil
}

// ListTrustedSecrets returns TrustedSecret records matching filter.
func (s *Store) ListTrustedSecrets(ctx context.Context, filter model.ScopeFilter) ([]model.TrustedSecret, error) {
	query := "SELECT " + selectTrustedSecretColumns + " FROM trusted_secrets WHERE domain_id = $1"
	args := []any{filter.DomainID}
	i := 2
	if filter.WorkspaceID != "" && filter.WorkspaceID != model.Wildcard {
		query += " AND (workspace_id = $" + strconv.Itoa(i) + " OR workspace_id = '" + model.Wildcard + "')"
		args = append(args, filter.WorkspaceID)
		i++
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	defer rows.Close()

	var out []model.TrustedSecret
	for rows.Next() {
		rec, err := scanTrustedSecret(rows)
		if err != nil {
			return nil, dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
