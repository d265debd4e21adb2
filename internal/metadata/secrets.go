package metadata

import (
	"context"
	"strconv"
	"strings"

	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/model"
)

// CreateSecret inserts a new Secret record. Callers populate SecretID before
// calling; this package never generates identifiers.
func (s *Store) CreateSecret(ctx context.Context, rec model.Secret) error {
	tags, err := encodeTags(rec.Tags)
	if err != nil {
		return dserrors.Wrap(dserrors.KindInternal, component, err)
	}
	opts, err := encodeOptions(rec.EncryptOptions)
	if err != nil {
		return dserrors.Wrap(dserrors.KindInternal, component, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO secrets
			(secret_id, name, schema_id, provider, tags, encrypted, encrypt_options,
			 trusted_secret_id, service_account_id, resource_group, project_id,
			 workspace_id, domain_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		rec.SecretID, rec.Name, rec.SchemaID, rec.Provider, tags, rec.Encrypted, opts,
		rec.TrustedSecretID, rec.ServiceAccountID, string(rec.ResourceGroup), rec.ProjectID,
		rec.WorkspaceID, rec.DomainID, rec.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return dserrors.New(dserrors.KindAlreadyExists, component, "secret "+rec.SecretID+" already exists")
		}
		return dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	return nil
}

func scanSecret(row interface{ Scan(dest ...any) error }) (model.Secret, error) {
	var rec model.Secret
	var resourceGroup string
	var tags, opts []byte
	err := row.Scan(&rec.SecretID, &rec.Name, &rec.SchemaID, &rec.Provider, &tags,
		&rec.Encrypted, &opts, &rec.TrustedSecretID, &rec.ServiceAccountID,
		&resourceGroup, &rec.ProjectID, &rec.WorkspaceID, &rec.DomainID, &rec.CreatedAt)
	if err != nil {
		return model.Secret{}, err
	}
	rec.ResourceGroup = model.ResourceGroup(resourceGroup)
	if rec.Tags, err = decodeTags(tags); err != nil {
		return model.Secret{}, err
	}
	if rec.EncryptOptions, err = decodeOptions(opts); err != nil {
		return model.Secret{}, err
	}
	return rec, nil
}

const selectSecretColumns = `secret_id, name, schema_id, provider, tags, encrypted, encrypt_options,
	trusted_secret_id, service_account_id, resource_group, project_id, workspace_id, domain_id, created_at`

// GetSecret fetches a single Secret by ID.
func (s *Store) GetSecret(ctx context.Context, secretID string) (model.Secret, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectSecretColumns+" FROM secrets WHERE secret_id = $1", secretID)
	rec, err := scanSecret(row)
	if err != nil {
		return model.Secret{}, wrapDBErr(err, secretID)
	}
	return rec, nil
}

// UpdateSecret applies patch to the named Secret, restricted to
// model.UpdatableSecretFields. It is the caller's (C9 Service Layer's)
// responsibility to have already validated the patch against that allow
// list; this method re-validates so a direct caller cannot bypass it.
func (s *Store) UpdateSecret(ctx context.Context, secretID string, patch model.Patch) error {
	if ok, bad := patch.Allowed(model.UpdatableSecretFields); !ok {
		return dserrors.New(dserrors.KindWrongConfiguration, component, "field "+bad+" is not updatable on a secret")
	}
	if len(patch) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(patch))
	args := make([]any, 0, len(patch)+1)
	i := 1
	for _, field := range model.UpdatableSecretFields {
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
	args = append(args, secretID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE secrets SET "+strings.Join(setClauses, ", ")+" WHERE secret_id = $"+strconv.Itoa(i), args...)
	if err != nil {
		return dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	if rows == 0 {
		return dserrors.New(dserrors.KindNotFound, component, "secret "+secretID+" not found")
	}
	return nil
}

// DeleteSecret removes a Secret record. Removing the encrypted payload from
// the backend store is the service layer's (SecretService.Delete) job, not
// this one's.
func (s *Store) DeleteSecret(ctx context.Context, secretID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM secrets WHERE secret_id = $1", secretID)
	if err != nil {
		return dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	return nil
}

// ListSecrets returns Secret records matching filter, most recent first.
func (s *Store) ListSecrets(ctx context.Context, filter model.ScopeFilter) ([]model.Secret, error) {
	query := "SELECT " + selectSecretColumns + " FROM secrets WHERE domain_id = $1"
	args := []any{filter.DomainID}
	i := 2

	if filter.WorkspaceID != "" && filter.WorkspaceID != model.Wildcard {
		query += " AND (workspace_id = $" + strconv.Itoa(i) + " OR workspace_id = '" + model.Wildcard + "')"
		args = append(args, filter.WorkspaceID)
		i++
	}
	if len(filter.ProjectIDs) > 0 {
		placeholders := make([]string, len(filter.ProjectIDs))
		for j, p := range filter.ProjectIDs {
			placeholders[j] = "$" + strconv.Itoa(i)
			args = append(args, p)
			i++
		}
		query += " AND (project_id IN (" + strings.Join(placeholders, ",") + ") OR project_id = '" + model.Wildcard + "')"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	defer rows.Close()

	var out []model.Secret
	for rows.Next() {
		rec, err := scanSecret(rows)
		if err != nil {
			return nil, dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	for _, sub := range []string{"duplicate key value", "Duplicate entry", "UNIQUE constraint"} {
		if strings.Contains(msg, sub) {
			return true
		}
	}
	return false
}
