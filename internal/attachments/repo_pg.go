package attachments

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new attachment.
func (r *PGRepo) Create(ctx context.Context, att Attachment) error {
	const query = `
INSERT INTO cv_attachments (id, user_id, file_name, mime_type, size_bytes, storage_provider, storage_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	provider := att.StorageProvider
	if provider == "" {
		provider = "local"
	}
	_, err := r.DB.ExecContext(ctx, query,
		att.ID,
		att.UserID,
		att.FileName,
		att.MimeType,
		att.SizeBytes,
		provider,
		att.StorageKey,
		att.CreatedAt,
	)
	return err
}

// GetByID fetches an attachment by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, attachmentID string) (Attachment, error) {
	const query = `
SELECT id, user_id, file_name, mime_type, size_bytes, storage_provider, storage_key, extracted_text_key, extracted_at, created_at
FROM cv_attachments
WHERE user_id = $1 AND id = $2
LIMIT 1`
	var att Attachment
	var extractedKey sql.NullString
	var extractedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, userID, attachmentID).Scan(
		&att.ID,
		&att.UserID,
		&att.FileName,
		&att.MimeType,
		&att.SizeBytes,
		&att.StorageProvider,
		&att.StorageKey,
		&extractedKey,
		&extractedAt,
		&att.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attachment{}, ErrNotFound
		}
		return Attachment{}, err
	}
	if extractedKey.Valid {
		att.ExtractedTextKey = extractedKey.String
	}
	if extractedAt.Valid {
		att.ExtractedAt = &extractedAt.Time
	}
	return att, nil
}

// ListByUser lists attachments ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Attachment, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, user_id, file_name, mime_type, size_bytes, storage_provider, storage_key, extracted_text_key, extracted_at, created_at
FROM cv_attachments
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attachment
	for rows.Next() {
		var att Attachment
		var extractedKey sql.NullString
		var extractedAt sql.NullTime
		if err := rows.Scan(
			&att.ID,
			&att.UserID,
			&att.FileName,
			&att.MimeType,
			&att.SizeBytes,
			&att.StorageProvider,
			&att.StorageKey,
			&extractedKey,
			&extractedAt,
			&att.CreatedAt,
		); err != nil {
			return nil, err
		}
		if extractedKey.Valid {
			att.ExtractedTextKey = extractedKey.String
		}
		if extractedAt.Valid {
			att.ExtractedAt = &extractedAt.Time
		}
		out = append(out, att)
	}
	return out, rows.Err()
}

// UpdateExtraction stores the extracted text metadata for an attachment. The
// first extraction wins; repeat calls are no-ops.
func (r *PGRepo) UpdateExtraction(ctx context.Context, userID, attachmentID, extractedKey string, extractedAt time.Time) error {
	const query = `
UPDATE cv_attachments
SET extracted_text_key = $1, extracted_at = $2
WHERE user_id = $3 AND id = $4 AND extracted_text_key IS NULL`
	_, err := r.DB.ExecContext(ctx, query, extractedKey, extractedAt, userID, attachmentID)
	return err
}

// Delete removes an attachment record. Absence reports false.
func (r *PGRepo) Delete(ctx context.Context, userID, attachmentID string) (bool, error) {
	const query = `DELETE FROM cv_attachments WHERE user_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, userID, attachmentID)
	if err != nil {
		return false, err
	}
	deleted, _ := res.RowsAffected()
	return deleted > 0, nil
}

var _ Repo = (*PGRepo)(nil)
