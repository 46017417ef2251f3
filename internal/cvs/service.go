package cvs

import (
	"context"
	"errors"
	"time"

	"cvision-backend/cv/model"
	"cvision-backend/cv/render"
	"cvision-backend/internal/shared/metrics"
)

// Service contains business logic for CVs.
type Service struct {
	Repo   Repo
	Engine *render.Engine
}

// Create validates and stores a new CV for a user.
func (s *Service) Create(ctx context.Context, userID string, in Input) (model.CV, error) {
	if userID == "" {
		return model.CV{}, ErrValidation
	}
	if err := in.Validate(); err != nil {
		return model.CV{}, err
	}
	return s.Repo.Create(ctx, userID, in.normalized())
}

// Get returns a CV by ID for a user.
func (s *Service) Get(ctx context.Context, userID, cvID string) (model.CV, error) {
	if userID == "" || cvID == "" {
		return model.CV{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID, cvID)
}

// List returns summaries of a user's CVs, primary first.
func (s *Service) List(ctx context.Context, userID string) ([]model.Summary, error) {
	if userID == "" {
		return nil, ErrValidation
	}
	return s.Repo.ListByOwner(ctx, userID)
}

// Update validates and replaces a CV's content.
func (s *Service) Update(ctx context.Context, userID, cvID string, in Input) (model.CV, error) {
	if userID == "" || cvID == "" {
		return model.CV{}, ErrNotFound
	}
	if err := in.Validate(); err != nil {
		return model.CV{}, err
	}
	return s.Repo.Update(ctx, userID, cvID, in.normalized())
}

// Delete removes a CV by ID for a user.
func (s *Service) Delete(ctx context.Context, userID, cvID string) error {
	if userID == "" || cvID == "" {
		return ErrNotFound
	}
	deleted, err := s.Repo.Delete(ctx, userID, cvID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// SetPrimary marks a CV as the user's primary one.
func (s *Service) SetPrimary(ctx context.Context, userID, cvID string) error {
	if userID == "" || cvID == "" {
		return ErrNotFound
	}
	updated, err := s.Repo.SetPrimary(ctx, userID, cvID)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

// Export renders a CV to PDF bytes. templateID overrides the CV's stored
// template when non-empty; unknown names fall back to the default layout.
func (s *Service) Export(ctx context.Context, userID, cvID, templateID string) ([]byte, string, error) {
	cv, err := s.Get(ctx, userID, cvID)
	if err != nil {
		return nil, "", err
	}
	if templateID == "" {
		templateID = cv.Template
	}

	metrics.IncExportStarted()
	start := time.Now()
	data, err := s.Engine.Render(cv, templateID)
	metrics.ObserveExportDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncExportFailed()
		if errors.Is(err, render.ErrNothingToRender) {
			return nil, "", ErrValidation
		}
		return nil, "", err
	}
	metrics.IncExportCompleted()
	name := exportFileName(cv)
	return data, name, nil
}

// Templates returns the layout catalog in registration order.
func (s *Service) Templates() []render.TemplateInfo {
	return s.Engine.Registry.Templates()
}

func exportFileName(cv model.CV) string {
	base := cv.Title
	if base == "" && cv.PersonalInfo != nil {
		base = cv.PersonalInfo.FullName
	}
	if base == "" {
		base = "cv"
	}
	out := make([]rune, 0, len(base))
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ' || r == '-' || r == '_':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		out = []rune("cv")
	}
	return string(out) + ".pdf"
}
