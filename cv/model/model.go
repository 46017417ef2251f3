package model

import "time"

// Template identifiers understood by the render engine. Unknown values fall
// back to TemplateModern.
const (
	TemplateModern    = "Modern"
	TemplateClassic   = "Classic"
	TemplateExecutive = "Executive"
)

// CV is the aggregate root: one cvs row plus all dependent rows, loaded as a
// single consistency unit.
type CV struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Template  string    `json:"template"`
	IsPrimary bool      `json:"isPrimary"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PersonalInfo   *PersonalInfo   `json:"personalInfo,omitempty"`
	Experiences    []Experience    `json:"experiences"`
	Educations     []Education     `json:"educations"`
	Skills         []Skill         `json:"skills"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
}

// PersonalInfo is the one-to-one contact block of a CV.
type PersonalInfo struct {
	FullName string `json:"fullName"`
	JobTitle string `json:"jobTitle"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedIn,omitempty"`
	GitHub   string `json:"gitHub,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Experience is a work history entry. EndDate is ignored for display when
// CurrentlyWorking is set.
type Experience struct {
	JobTitle         string     `json:"jobTitle"`
	Company          string     `json:"company"`
	Location         string     `json:"location"`
	StartDate        time.Time  `json:"startDate"`
	EndDate          *time.Time `json:"endDate,omitempty"`
	CurrentlyWorking bool       `json:"currentlyWorking"`
	Description      string     `json:"description"`
	DisplayOrder     int        `json:"displayOrder"`
}

// Education is a degree entry. EndDate is ignored for display when
// CurrentlyStudying is set.
type Education struct {
	Degree            string     `json:"degree"`
	Institution       string     `json:"institution"`
	Location          string     `json:"location"`
	StartDate         time.Time  `json:"startDate"`
	EndDate           *time.Time `json:"endDate,omitempty"`
	CurrentlyStudying bool       `json:"currentlyStudying"`
	Grade             string     `json:"grade,omitempty"`
	Description       string     `json:"description"`
	DisplayOrder      int        `json:"displayOrder"`
}

// Skill is a single skill line, grouped by Category when rendered.
type Skill struct {
	Name              string `json:"name"`
	Level             string `json:"level"`
	Category          string `json:"category"`
	YearsOfExperience *int   `json:"yearsOfExperience,omitempty"`
	DisplayOrder      int    `json:"displayOrder"`
}

// Project is a notable project entry.
type Project struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Technologies string     `json:"technologies,omitempty"`
	ProjectLink  string     `json:"projectLink,omitempty"`
	GithubLink   string     `json:"githubLink,omitempty"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	DisplayOrder int        `json:"displayOrder"`
}

// Certification is a certification entry. Expiration is stored but not shown
// by the base layouts.
type Certification struct {
	Name                string     `json:"name"`
	IssuingOrganization string     `json:"issuingOrganization"`
	IssueDate           time.Time  `json:"issueDate"`
	ExpirationDate      *time.Time `json:"expirationDate,omitempty"`
	CredentialID        string     `json:"credentialId,omitempty"`
	CredentialURL       string     `json:"credentialUrl,omitempty"`
	DisplayOrder        int        `json:"displayOrder"`
}

// Summary is the list-view projection of a CV: root fields plus the contact
// identity from personal info.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Template  string    `json:"template"`
	IsPrimary bool      `json:"isPrimary"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	FullName  string    `json:"fullName,omitempty"`
	JobTitle  string    `json:"jobTitle,omitempty"`
	Email     string    `json:"email,omitempty"`
}

// HasRenderableContent reports whether the aggregate carries anything a
// layout could place on a page.
func (c CV) HasRenderableContent() bool {
	if c.PersonalInfo != nil && c.PersonalInfo.FullName != "" {
		return true
	}
	return c.Title != ""
}
