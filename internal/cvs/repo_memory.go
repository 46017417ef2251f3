package cvs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"cvision-backend/cv/model"
)

// MemoryRepo is an in-memory implementation of Repo. It holds the same
// invariants as the Postgres repo: at most one primary per owner, the first
// CV becomes primary, and updates replace the dependent collections wholesale.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]model.CV // userId -> CVs
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]model.CV),
	}
}

// Create stores a new CV for a user.
func (r *MemoryRepo) Create(ctx context.Context, userID string, in Input) (model.CV, error) {
	if err := ctx.Err(); err != nil {
		return model.CV{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := r.data[userID]
	isPrimary := in.IsPrimary || len(owned) == 0
	if isPrimary {
		for i := range owned {
			owned[i].IsPrimary = false
		}
	}

	now := time.Now().UTC()
	cv := model.CV{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     in.Title,
		Summary:   in.Summary,
		Template:  in.Template,
		IsPrimary: isPrimary,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyDependents(&cv, in)
	r.data[userID] = append(owned, cv)
	return cloneCV(cv), nil
}

// GetByID returns a CV by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, cvID string) (model.CV, error) {
	if err := ctx.Err(); err != nil {
		return model.CV{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cv := range r.data[userID] {
		if cv.ID == cvID {
			return cloneCV(cv), nil
		}
	}
	return model.CV{}, ErrNotFound
}

// ListByOwner returns summaries for a user's CVs, primary first, then most
// recently updated.
func (r *MemoryRepo) ListByOwner(ctx context.Context, userID string) ([]model.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	owned := make([]model.CV, len(r.data[userID]))
	copy(owned, r.data[userID])
	r.mu.RUnlock()

	sort.SliceStable(owned, func(i, j int) bool {
		if owned[i].IsPrimary != owned[j].IsPrimary {
			return owned[i].IsPrimary
		}
		return owned[i].UpdatedAt.After(owned[j].UpdatedAt)
	})

	out := make([]model.Summary, 0, len(owned))
	for _, cv := range owned {
		s := model.Summary{
			ID:        cv.ID,
			Title:     cv.Title,
			Template:  cv.Template,
			IsPrimary: cv.IsPrimary,
			CreatedAt: cv.CreatedAt,
			UpdatedAt: cv.UpdatedAt,
		}
		if cv.PersonalInfo != nil {
			s.FullName = cv.PersonalInfo.FullName
			s.JobTitle = cv.PersonalInfo.JobTitle
			s.Email = cv.PersonalInfo.Email
		}
		out = append(out, s)
	}
	return out, nil
}

// Update replaces the CV's fields and dependent collections.
func (r *MemoryRepo) Update(ctx context.Context, userID, cvID string, in Input) (model.CV, error) {
	if err := ctx.Err(); err != nil {
		return model.CV{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := r.data[userID]
	idx := -1
	for i := range owned {
		if owned[i].ID == cvID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.CV{}, ErrNotFound
	}

	if in.IsPrimary && !owned[idx].IsPrimary {
		for i := range owned {
			owned[i].IsPrimary = false
		}
	}

	cv := &owned[idx]
	cv.Title = in.Title
	cv.Summary = in.Summary
	cv.Template = in.Template
	cv.IsPrimary = in.IsPrimary
	cv.UpdatedAt = time.Now().UTC()
	applyDependents(cv, in)
	r.data[userID] = owned
	return cloneCV(*cv), nil
}

// Delete removes a CV. Absence reports false, never an error.
func (r *MemoryRepo) Delete(ctx context.Context, userID, cvID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := r.data[userID]
	for i := range owned {
		if owned[i].ID == cvID {
			r.data[userID] = append(owned[:i], owned[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// SetPrimary makes the target the user's single primary CV. The target must
// exist before any other CV loses its flag.
func (r *MemoryRepo) SetPrimary(ctx context.Context, userID, cvID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := r.data[userID]
	idx := -1
	for i := range owned {
		if owned[i].ID == cvID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	for i := range owned {
		owned[i].IsPrimary = i == idx
	}
	owned[idx].UpdatedAt = time.Now().UTC()
	r.data[userID] = owned
	return true, nil
}

func applyDependents(cv *model.CV, in Input) {
	if in.PersonalInfo != nil {
		info := *in.PersonalInfo
		cv.PersonalInfo = &info
	} else {
		cv.PersonalInfo = nil
	}
	cv.Experiences = append([]model.Experience(nil), in.Experiences...)
	cv.Educations = append([]model.Education(nil), in.Educations...)
	cv.Skills = append([]model.Skill(nil), in.Skills...)
	cv.Projects = append([]model.Project(nil), in.Projects...)
	cv.Certifications = append([]model.Certification(nil), in.Certifications...)
}

func cloneCV(cv model.CV) model.CV {
	out := cv
	if cv.PersonalInfo != nil {
		info := *cv.PersonalInfo
		out.PersonalInfo = &info
	}
	out.Experiences = append([]model.Experience(nil), cv.Experiences...)
	out.Educations = append([]model.Education(nil), cv.Educations...)
	out.Skills = append([]model.Skill(nil), cv.Skills...)
	out.Projects = append([]model.Project(nil), cv.Projects...)
	out.Certifications = append([]model.Certification(nil), cv.Certifications...)
	return out
}

var _ Repo = (*MemoryRepo)(nil)
