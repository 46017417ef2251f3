package cvs

import (
	"fmt"
	"strings"

	"cvision-backend/cv/model"
)

// Input is the full desired state of a CV as submitted by the client. Both
// create and update take the complete set of dependent items: an update
// replaces every stored collection with the ones sent here, so omitted items
// are removed.
type Input struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Template  string `json:"template"`
	IsPrimary bool   `json:"isPrimary"`

	PersonalInfo   *model.PersonalInfo   `json:"personalInfo"`
	Experiences    []model.Experience    `json:"experiences"`
	Educations     []model.Education     `json:"educations"`
	Skills         []model.Skill         `json:"skills"`
	Projects       []model.Project       `json:"projects"`
	Certifications []model.Certification `json:"certifications"`
}

// Validate enforces the required identification fields.
func (in Input) Validate() error {
	if in.PersonalInfo == nil {
		return fmt.Errorf("%w: personal info is required", ErrValidation)
	}
	if strings.TrimSpace(in.PersonalInfo.FullName) == "" {
		return fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if strings.TrimSpace(in.PersonalInfo.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	return nil
}

// normalized returns a copy with trimmed root fields and a defaulted
// template identifier.
func (in Input) normalized() Input {
	out := in
	out.Title = strings.TrimSpace(in.Title)
	out.Template = strings.TrimSpace(in.Template)
	if out.Template == "" {
		out.Template = model.TemplateModern
	}
	return out
}
