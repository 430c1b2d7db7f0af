package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mhpenta/pinflow"
)

const upsertKVQuery = `
INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value;
`

// CredentialRepo implements pinflow.CredentialStore as a JSON value under
// pinflow.CredentialsKey.
type CredentialRepo struct {
	db *sql.DB
}

var _ pinflow.CredentialStore = (*CredentialRepo)(nil)

func (r *CredentialRepo) Save(ctx context.Context, creds pinflow.RepoCredentials) error {
	value, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, upsertKVQuery, pinflow.CredentialsKey, string(value)); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (r *CredentialRepo) Load(ctx context.Context) (pinflow.RepoCredentials, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?;`, pinflow.CredentialsKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return pinflow.RepoCredentials{}, pinflow.ErrNoCredentials
	}
	if err != nil {
		return pinflow.RepoCredentials{}, err
	}

	var creds pinflow.RepoCredentials
	if err := json.Unmarshal([]byte(value), &creds); err != nil {
		return pinflow.RepoCredentials{}, fmt.Errorf("stored credentials: %w", err)
	}
	return creds, nil
}

func (r *CredentialRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?;`, pinflow.CredentialsKey)
	return err
}
