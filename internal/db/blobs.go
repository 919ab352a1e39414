package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/agent-registration/internal/types"
)

// The blob store holds every raw PDF payload keyed by an opaque string.
// Key layout: forms/<form_id>, addendums/<agent_id>/<kind>,
// generations/<generation_id>.

// FormBlobKey returns the blob key for a form's source bytes.
func FormBlobKey(formID uuid.UUID) string {
	return fmt.Sprintf("forms/%s", formID)
}

// AddendumBlobKey returns the blob key for an agent's addendum payload.
func AddendumBlobKey(agentID uuid.UUID, kind types.AddendumKind) string {
	return fmt.Sprintf("addendums/%s/%s", agentID, kind)
}

// GenerationBlobKey returns the blob key for a generated output document.
func GenerationBlobKey(generationID uuid.UUID) string {
	return fmt.Sprintf("generations/%s", generationID)
}

// PutBlob stores bytes under a key, replacing any previous value.
func (db *DB) PutBlob(ctx context.Context, key string, data []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO blobs (key, data)
		 VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET data = $2, updated_at = NOW()`,
		key, data,
	)
	if err != nil {
		return fmt.Errorf("failed to put blob %s: %w", key, err)
	}
	return nil
}

// GetBlob retrieves the bytes stored under a key, or nil if absent.
func (db *DB) GetBlob(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT data FROM blobs WHERE key = $1`,
		key,
	).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get blob %s: %w", key, err)
	}
	return data, nil
}

// DeleteBlob removes the bytes stored under a key. Deleting an absent key
// is not an error.
func (db *DB) DeleteBlob(ctx context.Context, key string) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM blobs WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

// DeleteBlobsByPrefix removes every blob whose key starts with prefix.
// Used when an agent or form is deleted.
func (db *DB) DeleteBlobsByPrefix(ctx context.Context, prefix string) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM blobs WHERE key LIKE $1 || '%'`, prefix)
	if err != nil {
		return fmt.Errorf("failed to delete blobs with prefix %s: %w", prefix, err)
	}
	return nil
}
