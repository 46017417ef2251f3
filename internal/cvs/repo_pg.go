package cvs

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"cvision-backend/cv/model"
)

// PGRepo implements Repo using Postgres. Each mutating call runs as one
// transaction: the primary-flag bookkeeping, the root row and the dependent
// rows commit together or not at all.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts the aggregate. The owner's CV set is locked first so a
// concurrent create cannot also elect itself primary.
func (r *PGRepo) Create(ctx context.Context, userID string, in Input) (model.CV, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.CV{}, err
	}
	defer tx.Rollback()

	existing, err := lockOwnerCVs(ctx, tx, userID)
	if err != nil {
		return model.CV{}, err
	}
	if in.IsPrimary {
		if err := clearPrimary(ctx, tx, userID); err != nil {
			return model.CV{}, err
		}
	}
	isPrimary := in.IsPrimary || existing == 0

	id := uuid.NewString()
	now := time.Now().UTC()

	const insertRoot = `
INSERT INTO cvs (id, user_id, title, summary, template, is_primary, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`
	if _, err := tx.ExecContext(ctx, insertRoot,
		id,
		userID,
		in.Title,
		in.Summary,
		in.Template,
		isPrimary,
		now,
	); err != nil {
		return model.CV{}, err
	}

	if err := insertDependents(ctx, tx, id, in); err != nil {
		return model.CV{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.CV{}, err
	}

	return r.GetByID(ctx, userID, id)
}

// Update replaces the root fields and every dependent collection. The target
// row must exist and belong to the owner.
func (r *PGRepo) Update(ctx context.Context, userID, cvID string, in Input) (model.CV, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.CV{}, err
	}
	defer tx.Rollback()

	if _, err := lockOwnerCVs(ctx, tx, userID); err != nil {
		return model.CV{}, err
	}

	const selectTarget = `SELECT is_primary FROM cvs WHERE id = $1 AND user_id = $2`
	var currentPrimary bool
	if err := tx.QueryRowContext(ctx, selectTarget, cvID, userID).Scan(&currentPrimary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.CV{}, ErrNotFound
		}
		return model.CV{}, err
	}

	// Clear the others before flipping this row primary, so no committed or
	// intermediate state ever holds two primaries.
	if in.IsPrimary && !currentPrimary {
		if err := clearPrimary(ctx, tx, userID); err != nil {
			return model.CV{}, err
		}
	}

	const updateRoot = `
UPDATE cvs
SET title = $1, summary = $2, template = $3, is_primary = $4, updated_at = $5
WHERE id = $6`
	if _, err := tx.ExecContext(ctx, updateRoot,
		in.Title,
		in.Summary,
		in.Template,
		in.IsPrimary,
		time.Now().UTC(),
		cvID,
	); err != nil {
		return model.CV{}, err
	}

	if err := deleteDependents(ctx, tx, cvID); err != nil {
		return model.CV{}, err
	}
	if err := insertDependents(ctx, tx, cvID, in); err != nil {
		return model.CV{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.CV{}, err
	}

	return r.GetByID(ctx, userID, cvID)
}

// Delete removes the aggregate; dependent rows go with it via the cascading
// foreign keys. Absence reports false, never an error.
func (r *PGRepo) Delete(ctx context.Context, userID, cvID string) (bool, error) {
	const query = `DELETE FROM cvs WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, cvID, userID)
	if err != nil {
		return false, err
	}
	deleted, _ := res.RowsAffected()
	return deleted > 0, nil
}

// SetPrimary makes the target the owner's single primary CV. The existence
// check precedes the clear step: a bad id leaves the owner's current primary
// untouched.
func (r *PGRepo) SetPrimary(ctx context.Context, userID, cvID string) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := lockOwnerCVs(ctx, tx, userID); err != nil {
		return false, err
	}

	const selectTarget = `SELECT id FROM cvs WHERE id = $1 AND user_id = $2`
	var id string
	if err := tx.QueryRowContext(ctx, selectTarget, cvID, userID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	if err := clearPrimary(ctx, tx, userID); err != nil {
		return false, err
	}

	const setTarget = `UPDATE cvs SET is_primary = TRUE, updated_at = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, setTarget, time.Now().UTC(), cvID); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// GetByID loads the root row and every dependent collection, dependents
// ordered by display order with row identity breaking ties.
func (r *PGRepo) GetByID(ctx context.Context, userID, cvID string) (model.CV, error) {
	const query = `
SELECT id, user_id, title, summary, template, is_primary, created_at, updated_at
FROM cvs
WHERE id = $1 AND user_id = $2
LIMIT 1`
	var cv model.CV
	err := r.DB.QueryRowContext(ctx, query, cvID, userID).Scan(
		&cv.ID,
		&cv.UserID,
		&cv.Title,
		&cv.Summary,
		&cv.Template,
		&cv.IsPrimary,
		&cv.CreatedAt,
		&cv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.CV{}, ErrNotFound
		}
		return model.CV{}, err
	}

	if cv.PersonalInfo, err = r.loadPersonalInfo(ctx, cvID); err != nil {
		return model.CV{}, err
	}
	if cv.Experiences, err = r.loadExperiences(ctx, cvID); err != nil {
		return model.CV{}, err
	}
	if cv.Educations, err = r.loadEducations(ctx, cvID); err != nil {
		return model.CV{}, err
	}
	if cv.Skills, err = r.loadSkills(ctx, cvID); err != nil {
		return model.CV{}, err
	}
	if cv.Projects, err = r.loadProjects(ctx, cvID); err != nil {
		return model.CV{}, err
	}
	if cv.Certifications, err = r.loadCertifications(ctx, cvID); err != nil {
		return model.CV{}, err
	}
	return cv, nil
}

// ListByOwner returns the owner's CVs, primary first, then most recently
// updated.
func (r *PGRepo) ListByOwner(ctx context.Context, userID string) ([]model.Summary, error) {
	const query = `
SELECT c.id, c.title, c.template, c.is_primary, c.created_at, c.updated_at,
       p.full_name, p.job_title, p.email
FROM cvs c
LEFT JOIN personal_info p ON p.cv_id = c.id
WHERE c.user_id = $1
ORDER BY c.is_primary DESC, c.updated_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Summary
	for rows.Next() {
		var s model.Summary
		var fullName sql.NullString
		var jobTitle sql.NullString
		var email sql.NullString
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Template,
			&s.IsPrimary,
			&s.CreatedAt,
			&s.UpdatedAt,
			&fullName,
			&jobTitle,
			&email,
		); err != nil {
			return nil, err
		}
		if fullName.Valid {
			s.FullName = fullName.String
		}
		if jobTitle.Valid {
			s.JobTitle = jobTitle.String
		}
		if email.Valid {
			s.Email = email.String
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGRepo) loadPersonalInfo(ctx context.Context, cvID string) (*model.PersonalInfo, error) {
	const query = `
SELECT full_name, job_title, email, phone, location, linkedin, github, website
FROM personal_info
WHERE cv_id = $1
LIMIT 1`
	var info model.PersonalInfo
	var linkedin sql.NullString
	var github sql.NullString
	var website sql.NullString
	err := r.DB.QueryRowContext(ctx, query, cvID).Scan(
		&info.FullName,
		&info.JobTitle,
		&info.Email,
		&info.Phone,
		&info.Location,
		&linkedin,
		&github,
		&website,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if linkedin.Valid {
		info.LinkedIn = linkedin.String
	}
	if github.Valid {
		info.GitHub = github.String
	}
	if website.Valid {
		info.Website = website.String
	}
	return &info, nil
}

func (r *PGRepo) loadExperiences(ctx context.Context, cvID string) ([]model.Experience, error) {
	const query = `
SELECT job_title, company, location, start_date, end_date, currently_working, description, display_order
FROM experiences
WHERE cv_id = $1
ORDER BY display_order, id`
	rows, err := r.DB.QueryContext(ctx, query, cvID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Experience
	for rows.Next() {
		var exp model.Experience
		var endDate sql.NullTime
		if err := rows.Scan(
			&exp.JobTitle,
			&exp.Company,
			&exp.Location,
			&exp.StartDate,
			&endDate,
			&exp.CurrentlyWorking,
			&exp.Description,
			&exp.DisplayOrder,
		); err != nil {
			return nil, err
		}
		if endDate.Valid {
			exp.EndDate = &endDate.Time
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}

func (r *PGRepo) loadEducations(ctx context.Context, cvID string) ([]model.Education, error) {
	const query = `
SELECT degree, institution, location, start_date, end_date, currently_studying, grade, description, display_order
FROM educations
WHERE cv_id = $1
ORDER BY display_order, id`
	rows, err := r.DB.QueryContext(ctx, query, cvID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Education
	for rows.Next() {
		var edu model.Education
		var endDate sql.NullTime
		var grade sql.NullString
		if err := rows.Scan(
			&edu.Degree,
			&edu.Institution,
			&edu.Location,
			&edu.StartDate,
			&endDate,
			&edu.CurrentlyStudying,
			&grade,
			&edu.Description,
			&edu.DisplayOrder,
		); err != nil {
			return nil, err
		}
		if endDate.Valid {
			edu.EndDate = &endDate.Time
		}
		if grade.Valid {
			edu.Grade = grade.String
		}
		out = append(out, edu)
	}
	return out, rows.Err()
}

func (r *PGRepo) loadSkills(ctx context.Context, cvID string) ([]model.Skill, error) {
	const query = `
SELECT name, level, category, years_of_experience, display_order
FROM skills
WHERE cv_id = $1
ORDER BY display_order, id`
	rows, err := r.DB.QueryContext(ctx, query, cvID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Skill
	for rows.Next() {
		var skill model.Skill
		var years sql.NullInt64
		if err := rows.Scan(
			&skill.Name,
			&skill.Level,
			&skill.Category,
			&years,
			&skill.DisplayOrder,
		); err != nil {
			return nil, err
		}
		if years.Valid {
			v := int(years.Int64)
			skill.YearsOfExperience = &v
		}
		out = append(out, skill)
	}
	return out, rows.Err()
}

func (r *PGRepo) loadProjects(ctx context.Context, cvID string) ([]model.Project, error) {
	const query = `
SELECT name, description, technologies, project_link, github_link, start_date, end_date, display_order
FROM projects
WHERE cv_id = $1
ORDER BY display_order, id`
	rows, err := r.DB.QueryContext(ctx, query, cvID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Project
	for rows.Next() {
		var project model.Project
		var technologies sql.NullString
		var projectLink sql.NullString
		var githubLink sql.NullString
		var endDate sql.NullTime
		if err := rows.Scan(
			&project.Name,
			&project.Description,
			&technologies,
			&projectLink,
			&githubLink,
			&project.StartDate,
			&endDate,
			&project.DisplayOrder,
		); err != nil {
			return nil, err
		}
		if technologies.Valid {
			project.Technologies = technologies.String
		}
		if projectLink.Valid {
			project.ProjectLink = projectLink.String
		}
		if githubLink.Valid {
			project.GithubLink = githubLink.String
		}
		if endDate.Valid {
			project.EndDate = &endDate.Time
		}
		out = append(out, project)
	}
	return out, rows.Err()
}

func (r *PGRepo) loadCertifications(ctx context.Context, cvID string) ([]model.Certification, error) {
	const query = `
SELECT name, issuing_organization, issue_date, expiration_date, credential_id, credential_url, display_order
FROM certifications
WHERE cv_id = $1
ORDER BY display_order, id`
	rows, err := r.DB.QueryContext(ctx, query, cvID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Certification
	for rows.Next() {
		var cert model.Certification
		var expiration sql.NullTime
		var credentialID sql.NullString
		var credentialURL sql.NullString
		if err := rows.Scan(
			&cert.Name,
			&cert.IssuingOrganization,
			&cert.IssueDate,
			&expiration,
			&credentialID,
			&credentialURL,
			&cert.DisplayOrder,
		); err != nil {
			return nil, err
		}
		if expiration.Valid {
			cert.ExpirationDate = &expiration.Time
		}
		if credentialID.Valid {
			cert.CredentialID = credentialID.String
		}
		if credentialURL.Valid {
			cert.CredentialURL = credentialURL.String
		}
		out = append(out, cert)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
