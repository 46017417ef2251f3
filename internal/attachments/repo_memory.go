package attachments

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Attachment // userId -> attachments
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Attachment),
	}
}

// Create stores an attachment for a user.
func (r *MemoryRepo) Create(ctx context.Context, att Attachment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[att.UserID] = append(r.data[att.UserID], att)
	return nil
}

// GetByID returns an attachment by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, attachmentID string) (Attachment, error) {
	if err := ctx.Err(); err != nil {
		return Attachment{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, att := range r.data[userID] {
		if att.ID == attachmentID {
			return att, nil
		}
	}
	return Attachment{}, ErrNotFound
}

// ListByUser returns attachments for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	owned := make([]Attachment, len(r.data[userID]))
	copy(owned, r.data[userID])
	r.mu.RUnlock()

	if len(owned) == 0 || offset >= len(owned) {
		return []Attachment{}, nil
	}

	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	end := len(owned)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return owned[offset:end], nil
}

// UpdateExtraction stores the extracted text metadata for an attachment.
func (r *MemoryRepo) UpdateExtraction(ctx context.Context, userID, attachmentID, extractedKey string, extractedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := r.data[userID]
	for i := range owned {
		if owned[i].ID == attachmentID {
			if owned[i].ExtractedTextKey == "" {
				owned[i].ExtractedTextKey = extractedKey
				owned[i].ExtractedAt = &extractedAt
				r.data[userID] = owned
			}
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes an attachment. Absence reports false.
func (r *MemoryRepo) Delete(ctx context.Context, userID, attachmentID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := r.data[userID]
	for i := range owned {
		if owned[i].ID == attachmentID {
			r.data[userID] = append(owned[:i], owned[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

var _ Repo = (*MemoryRepo)(nil)
