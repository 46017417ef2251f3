package cvs

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"cvision-backend/cv/model"
	"cvision-backend/cv/render"
)

func newService() *Service {
	return &Service{
		Repo:   NewMemoryRepo(),
		Engine: render.NewEngine(),
	}
}

func validInput(title string) Input {
	return Input{
		Title: title,
		PersonalInfo: &model.PersonalInfo{
			FullName: "Dana Developer",
			JobTitle: "Backend Engineer",
			Email:    "dana@example.com",
		},
	}
}

func TestServiceCreateRejectsMissingPersonalInfo(t *testing.T) {
	svc := newService()

	cases := []Input{
		{Title: "No personal info"},
		{PersonalInfo: &model.PersonalInfo{Email: "dana@example.com"}},
		{PersonalInfo: &model.PersonalInfo{FullName: "Dana Developer"}},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), "user-1", in); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	}
}

func TestServiceFirstCVBecomesPrimary(t *testing.T) {
	svc := newService()

	first, err := svc.Create(context.Background(), "user-1", validInput("First"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !first.IsPrimary {
		t.Fatal("expected the first CV to be primary")
	}

	second, err := svc.Create(context.Background(), "user-1", validInput("Second"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if second.IsPrimary {
		t.Fatal("expected a later CV to not be primary by default")
	}
}

func TestServiceCreateRequestedPrimaryDemotesExisting(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	first, _ := svc.Create(ctx, "user-1", validInput("First"))

	in := validInput("Second")
	in.IsPrimary = true
	second, err := svc.Create(ctx, "user-1", in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !second.IsPrimary {
		t.Fatal("expected the requested CV to be primary")
	}

	reloaded, err := svc.Get(ctx, "user-1", first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if reloaded.IsPrimary {
		t.Fatal("expected the previous primary to be demoted")
	}
}

func TestServiceSetPrimaryMovesTheFlag(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	first, _ := svc.Create(ctx, "user-1", validInput("First"))
	second, _ := svc.Create(ctx, "user-1", validInput("Second"))

	if err := svc.SetPrimary(ctx, "user-1", second.ID); err != nil {
		t.Fatalf("SetPrimary: %v", err)
	}

	summaries, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	primaries := 0
	for _, s := range summaries {
		if s.IsPrimary {
			primaries++
			if s.ID != second.ID {
				t.Fatalf("wrong primary: %s", s.ID)
			}
		}
	}
	if primaries != 1 {
		t.Fatalf("expected exactly one primary, got %d", primaries)
	}

	// A bad id must not disturb the current primary.
	if err := svc.SetPrimary(ctx, "user-1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	cv, _ := svc.Get(ctx, "user-1", second.ID)
	if !cv.IsPrimary {
		t.Fatal("failed SetPrimary must leave the existing primary in place")
	}
	_ = first
}

func TestServiceListPutsPrimaryFirst(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	svc.Create(ctx, "user-1", validInput("First"))
	second, _ := svc.Create(ctx, "user-1", validInput("Second"))
	svc.SetPrimary(ctx, "user-1", second.ID)

	summaries, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != second.ID || !summaries[0].IsPrimary {
		t.Fatalf("expected the primary CV first, got %+v", summaries[0])
	}
	if summaries[0].FullName != "Dana Developer" {
		t.Fatalf("expected personal info projected into the summary, got %+v", summaries[0])
	}
}

func TestServiceUpdateReplacesDependents(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	in := validInput("Engineer CV")
	in.Skills = []model.Skill{
		{Name: "Go", Level: "Expert", Category: "Technical", DisplayOrder: 1},
		{Name: "SQL", Level: "Advanced", Category: "Technical", DisplayOrder: 2},
	}
	created, err := svc.Create(ctx, "user-1", in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created.Skills) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(created.Skills))
	}

	// The update sends one different skill; the stored set must be exactly
	// that one, not a merge.
	in.Skills = []model.Skill{{Name: "Kubernetes", Level: "Intermediate", Category: "Technical", DisplayOrder: 1}}
	updated, err := svc.Update(ctx, "user-1", created.ID, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Skills) != 1 || updated.Skills[0].Name != "Kubernetes" {
		t.Fatalf("expected skills replaced wholesale, got %+v", updated.Skills)
	}

	// Omitting a collection clears it.
	in.Skills = nil
	updated, err = svc.Update(ctx, "user-1", created.ID, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Skills) != 0 {
		t.Fatalf("expected skills cleared, got %+v", updated.Skills)
	}
}

func TestServiceDeleteMissingReturnsNotFound(t *testing.T) {
	svc := newService()

	if err := svc.Delete(context.Background(), "user-1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceOtherUsersCVIsInvisible(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	cv, _ := svc.Create(ctx, "user-1", validInput("Mine"))

	if _, err := svc.Get(ctx, "user-2", cv.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user's CV, got %v", err)
	}
	if err := svc.Delete(ctx, "user-2", cv.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected cross-user delete to fail, got %v", err)
	}
	if _, err := svc.Get(ctx, "user-1", cv.ID); err != nil {
		t.Fatalf("cross-user delete must not remove the CV: %v", err)
	}
}

func TestServiceExportRendersPDF(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	cv, _ := svc.Create(ctx, "user-1", validInput("Backend CV"))

	data, name, err := svc.Export(ctx, "user-1", cv.ID, "")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("expected PDF output")
	}
	if name != "Backend_CV.pdf" {
		t.Fatalf("unexpected file name %q", name)
	}

	// Explicit template overrides the stored one; unknown names fall back.
	if _, _, err := svc.Export(ctx, "user-1", cv.ID, "Executive"); err != nil {
		t.Fatalf("Export with template: %v", err)
	}
	if _, _, err := svc.Export(ctx, "user-1", cv.ID, "Creative"); err != nil {
		t.Fatalf("Export with unknown template: %v", err)
	}
}

func TestServiceTemplatesCatalog(t *testing.T) {
	svc := newService()

	infos := svc.Templates()
	if len(infos) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(infos))
	}
	if infos[0].ID != model.TemplateModern {
		t.Fatalf("expected Modern first, got %s", infos[0].ID)
	}
}
