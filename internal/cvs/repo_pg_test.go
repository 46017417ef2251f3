package cvs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"cvision-backend/cv/model"
)

func newMock(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

// expectGetByID queues the reload queries: the root row plus one query per
// dependent table. The aggregate id is not pinned because Create generates it.
func expectGetByID(mock sqlmock.Sqlmock, userID, cvID string) {
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, user_id, title").
		WithArgs(sqlmock.AnyArg(), userID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "title", "summary", "template", "is_primary", "created_at", "updated_at",
		}).AddRow(cvID, userID, "Backend CV", "", "Modern", true, now, now))
	mock.ExpectQuery("FROM personal_info").
		WillReturnRows(sqlmock.NewRows([]string{
			"full_name", "job_title", "email", "phone", "location", "linkedin", "github", "website",
		}))
	mock.ExpectQuery("FROM experiences").
		WillReturnRows(sqlmock.NewRows([]string{
			"job_title", "company", "location", "start_date", "end_date", "currently_working", "description", "display_order",
		}))
	mock.ExpectQuery("FROM educations").
		WillReturnRows(sqlmock.NewRows([]string{
			"degree", "institution", "location", "start_date", "end_date", "currently_studying", "grade", "description", "display_order",
		}))
	mock.ExpectQuery("FROM skills").
		WillReturnRows(sqlmock.NewRows([]string{
			"name", "level", "category", "years_of_experience", "display_order",
		}))
	mock.ExpectQuery("FROM projects").
		WillReturnRows(sqlmock.NewRows([]string{
			"name", "description", "technologies", "project_link", "github_link", "start_date", "end_date", "display_order",
		}))
	mock.ExpectQuery("FROM certifications").
		WillReturnRows(sqlmock.NewRows([]string{
			"name", "issuing_organization", "issue_date", "expiration_date", "credential_id", "credential_url", "display_order",
		}))
}

func TestPGRepoCreateFirstCVBecomesPrimary(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO cvs").
		WithArgs(
			sqlmock.AnyArg(), // id
			"user-1",
			"Backend CV",
			"",
			"Modern",
			true, // first CV is primary even when not requested
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO personal_info").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// Create reloads the aggregate after commit.
	mock.ExpectQuery("SELECT id, user_id, title").
		WithArgs(sqlmock.AnyArg(), "user-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "title", "summary", "template", "is_primary", "created_at", "updated_at",
		}).AddRow("cv-1", "user-1", "Backend CV", "", "Modern", true, time.Now().UTC(), time.Now().UTC()))
	mock.ExpectQuery("FROM personal_info").
		WillReturnRows(sqlmock.NewRows([]string{
			"full_name", "job_title", "email", "phone", "location", "linkedin", "github", "website",
		}).AddRow("Dana Developer", "Engineer", "dana@example.com", "", "", nil, nil, nil))
	mock.ExpectQuery("FROM experiences").
		WillReturnRows(sqlmock.NewRows([]string{
			"job_title", "company", "location", "start_date", "end_date", "currently_working", "description", "display_order",
		}))
	mock.ExpectQuery("FROM educations").
		WillReturnRows(sqlmock.NewRows([]string{
			"degree", "institution", "location", "start_date", "end_date", "currently_studying", "grade", "description", "display_order",
		}))
	mock.ExpectQuery("FROM skills").
		WillReturnRows(sqlmock.NewRows([]string{
			"name", "level", "category", "years_of_experience", "display_order",
		}))
	mock.ExpectQuery("FROM projects").
		WillReturnRows(sqlmock.NewRows([]string{
			"name", "description", "technologies", "project_link", "github_link", "start_date", "end_date", "display_order",
		}))
	mock.ExpectQuery("FROM certifications").
		WillReturnRows(sqlmock.NewRows([]string{
			"name", "issuing_organization", "issue_date", "expiration_date", "credential_id", "credential_url", "display_order",
		}))

	in := Input{
		Title:        "Backend CV",
		Template:     model.TemplateModern,
		PersonalInfo: &model.PersonalInfo{FullName: "Dana Developer", JobTitle: "Engineer", Email: "dana@example.com"},
	}
	cv, err := repo.Create(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !cv.IsPrimary {
		t.Fatal("expected the first CV to be primary")
	}
	if cv.PersonalInfo == nil || cv.PersonalInfo.FullName != "Dana Developer" {
		t.Fatalf("unexpected personal info: %+v", cv.PersonalInfo)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateRequestedPrimaryClearsExisting(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cv-1"))
	mock.ExpectExec("UPDATE cvs SET is_primary = FALSE").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO cvs").
		WithArgs(sqlmock.AnyArg(), "user-1", "Second CV", "", "Classic", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO personal_info").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	expectGetByID(mock, "user-1", "cv-2")

	in := Input{
		Title:        "Second CV",
		Template:     model.TemplateClassic,
		IsPrimary:    true,
		PersonalInfo: &model.PersonalInfo{FullName: "Dana Developer", Email: "dana@example.com"},
	}
	if _, err := repo.Create(context.Background(), "user-1", in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetPrimaryClearsOthersInOneTransaction(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cv-1").AddRow("cv-2"))
	mock.ExpectQuery("SELECT id FROM cvs WHERE id").
		WithArgs("cv-2", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cv-2"))
	mock.ExpectExec("UPDATE cvs SET is_primary = FALSE").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE cvs SET is_primary = TRUE").
		WithArgs(sqlmock.AnyArg(), "cv-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := repo.SetPrimary(context.Background(), "user-1", "cv-2")
	if err != nil {
		t.Fatalf("SetPrimary: %v", err)
	}
	if !updated {
		t.Fatal("expected SetPrimary to report success")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetPrimaryMissingTargetLeavesFlagsAlone(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cv-1"))
	mock.ExpectQuery("SELECT id FROM cvs WHERE id").
		WithArgs("nope", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	updated, err := repo.SetPrimary(context.Background(), "user-1", "nope")
	if err != nil {
		t.Fatalf("SetPrimary: %v", err)
	}
	if updated {
		t.Fatal("expected SetPrimary to report false for a missing id")
	}
	// No clear and no flag update may run when the target does not exist.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateRollsBackWhenDependentInsertFails(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cv-1"))
	mock.ExpectQuery("SELECT is_primary FROM cvs").
		WithArgs("cv-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"is_primary"}).AddRow(false))
	mock.ExpectExec("UPDATE cvs").
		WillReturnResult(sqlmock.NewResult(0, 1))
	for range dependentTables {
		mock.ExpectExec("DELETE FROM").
			WithArgs("cv-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec("INSERT INTO personal_info").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	in := Input{
		Title:        "Backend CV",
		Template:     model.TemplateModern,
		PersonalInfo: &model.PersonalInfo{FullName: "Dana Developer", Email: "dana@example.com"},
	}
	if _, err := repo.Update(context.Background(), "user-1", "cv-1", in); err == nil {
		t.Fatal("expected Update to propagate the dependent insert failure")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateMissingCVReturnsNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT is_primary FROM cvs").
		WithArgs("nope", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"is_primary"}))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), "user-1", "nope", Input{
		PersonalInfo: &model.PersonalInfo{FullName: "Dana Developer", Email: "dana@example.com"},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteReportsAbsence(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("DELETE FROM cvs").
		WithArgs("nope", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), "user-1", "nope")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted {
		t.Fatal("expected Delete to report false for a missing id")
	}
}

func TestPGRepoGetByIDLoadsDependents(t *testing.T) {
	repo, mock := newMock(t)

	expectGetByID(mock, "user-1", "cv-1")

	cv, err := repo.GetByID(context.Background(), "user-1", "cv-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if cv.ID != "cv-1" || !cv.IsPrimary {
		t.Fatalf("unexpected cv: %+v", cv)
	}
	if cv.PersonalInfo != nil {
		t.Fatal("expected nil personal info when no row exists")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
