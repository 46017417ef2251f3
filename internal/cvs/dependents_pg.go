package cvs

import (
	"context"
	"database/sql"
)

// Dependent rows are replaced wholesale: delete everything keyed by the
// aggregate id, then re-insert the submitted collections with the id stamped
// on. No diffing; the client always sends the complete desired state. These
// helpers run only inside the caller's transaction and propagate errors to
// its rollback.

var dependentTables = []string{
	"personal_info",
	"experiences",
	"educations",
	"skills",
	"projects",
	"certifications",
}

func deleteDependents(ctx context.Context, tx *sql.Tx, cvID string) error {
	for _, table := range dependentTables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE cv_id = $1`, cvID); err != nil {
			return err
		}
	}
	return nil
}

func insertDependents(ctx context.Context, tx *sql.Tx, cvID string, in Input) error {
	if in.PersonalInfo != nil {
		const query = `
INSERT INTO personal_info (cv_id, full_name, job_title, email, phone, location, linkedin, github, website)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		info := in.PersonalInfo
		if _, err := tx.ExecContext(ctx, query,
			cvID,
			info.FullName,
			info.JobTitle,
			info.Email,
			info.Phone,
			info.Location,
			nullableString(info.LinkedIn),
			nullableString(info.GitHub),
			nullableString(info.Website),
		); err != nil {
			return err
		}
	}

	for _, exp := range in.Experiences {
		const query = `
INSERT INTO experiences (cv_id, job_title, company, location, start_date, end_date, currently_working, description, display_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		if _, err := tx.ExecContext(ctx, query,
			cvID,
			exp.JobTitle,
			exp.Company,
			exp.Location,
			exp.StartDate,
			exp.EndDate,
			exp.CurrentlyWorking,
			exp.Description,
			exp.DisplayOrder,
		); err != nil {
			return err
		}
	}

	for _, edu := range in.Educations {
		const query = `
INSERT INTO educations (cv_id, degree, institution, location, start_date, end_date, currently_studying, grade, description, display_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		if _, err := tx.ExecContext(ctx, query,
			cvID,
			edu.Degree,
			edu.Institution,
			edu.Location,
			edu.StartDate,
			edu.EndDate,
			edu.CurrentlyStudying,
			nullableString(edu.Grade),
			edu.Description,
			edu.DisplayOrder,
		); err != nil {
			return err
		}
	}

	for _, skill := range in.Skills {
		const query = `
INSERT INTO skills (cv_id, name, level, category, years_of_experience, display_order)
VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := tx.ExecContext(ctx, query,
			cvID,
			skill.Name,
			skill.Level,
			skill.Category,
			skill.YearsOfExperience,
			skill.DisplayOrder,
		); err != nil {
			return err
		}
	}

	for _, project := range in.Projects {
		const query = `
INSERT INTO projects (cv_id, name, description, technologies, project_link, github_link, start_date, end_date, display_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		if _, err := tx.ExecContext(ctx, query,
			cvID,
			project.Name,
			project.Description,
			nullableString(project.Technologies),
			nullableString(project.ProjectLink),
			nullableString(project.GithubLink),
			project.StartDate,
			project.EndDate,
			project.DisplayOrder,
		); err != nil {
			return err
		}
	}

	for _, cert := range in.Certifications {
		const query = `
INSERT INTO certifications (cv_id, name, issuing_organization, issue_date, expiration_date, credential_id, credential_url, display_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err := tx.ExecContext(ctx, query,
			cvID,
			cert.Name,
			cert.IssuingOrganization,
			cert.IssueDate,
			cert.ExpirationDate,
			nullableString(cert.CredentialID),
			nullableString(cert.CredentialURL),
			cert.DisplayOrder,
		); err != nil {
			return err
		}
	}

	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
