package render

import "cvision-backend/cv/model"

// Layout is one named arrangement of sections. The closed set of layouts
// shares all section composition; each variant only decides where sections
// go on the page.
type Layout interface {
	Name() string
	Description() string
	arrange(cv model.CV) []band
}

const (
	classicLeftFrac    = 1.0 / 3.0
	executiveSkillFrac = 0.5
)

// modernLayout is a single vertical column with sections in fixed order.
type modernLayout struct{}

func (modernLayout) Name() string        { return model.TemplateModern }
func (modernLayout) Description() string { return "Clean and professional design" }

func (modernLayout) arrange(cv model.CV) []band {
	bands := []band{fullBand(composeHeader(cv))}

	if cv.Summary != "" {
		bands = append(bands, fullBand(composeSummary("PROFILE", cv.Summary, contentWidth)))
	}
	if len(cv.Experiences) > 0 {
		bands = append(bands, fullBand(composeExperiences(cv.Experiences, contentWidth)))
	}
	if len(cv.Educations) > 0 {
		bands = append(bands, fullBand(composeEducations(cv.Educations, contentWidth)))
	}
	if len(cv.Skills) > 0 {
		bands = append(bands, fullBand(composeSkills(cv.Skills)))
	}
	if len(cv.Projects) > 0 {
		bands = append(bands, fullBand(composeProjects(cv.Projects, contentWidth)))
	}
	if len(cv.Certifications) > 0 {
		bands = append(bands, fullBand(composeCertifications(cv.Certifications)))
	}
	return bands
}

// classicLayout is two columns: Skills and Certifications in a narrow left
// column, everything else on the right.
type classicLayout struct{}

func (classicLayout) Name() string        { return model.TemplateClassic }
func (classicLayout) Description() string { return "Traditional and formal design" }

func (classicLayout) arrange(cv model.CV) []band {
	bands := []band{fullBand(composeHeader(cv))}

	var left []line
	if len(cv.Skills) > 0 {
		left = append(left, composeSkills(cv.Skills)...)
	}
	if len(cv.Certifications) > 0 {
		left = append(left, composeCertifications(cv.Certifications)...)
	}

	rightWidth := (contentWidth - columnGutter) * (1 - classicLeftFrac)
	var right []line
	if cv.Summary != "" {
		right = append(right, composeSummary("PROFESSIONAL SUMMARY", cv.Summary, rightWidth)...)
	}
	if len(cv.Experiences) > 0 {
		right = append(right, composeExperiences(cv.Experiences, rightWidth)...)
	}
	if len(cv.Educations) > 0 {
		right = append(right, composeEducations(cv.Educations, rightWidth)...)
	}
	if len(cv.Projects) > 0 {
		right = append(right, composeProjects(cv.Projects, rightWidth)...)
	}

	if len(left) == 0 && len(right) == 0 {
		return bands
	}
	return append(bands, band{Left: left, Right: right, LeftFrac: classicLeftFrac})
}

// executiveLayout is a single column with a split header; Skills and
// Certifications close the document side by side.
type executiveLayout struct{}

func (executiveLayout) Name() string        { return model.TemplateExecutive }
func (executiveLayout) Description() string { return "Professional executive style" }

func (executiveLayout) arrange(cv model.CV) []band {
	bands := []band{composeExecutiveHeader(cv)}

	if cv.Summary != "" {
		bands = append(bands, fullBand(composeSummary("EXECUTIVE SUMMARY", cv.Summary, contentWidth)))
	}
	if len(cv.Experiences) > 0 {
		bands = append(bands, fullBand(composeExperiences(cv.Experiences, contentWidth)))
	}
	if len(cv.Educations) > 0 {
		bands = append(bands, fullBand(composeEducations(cv.Educations, contentWidth)))
	}
	if len(cv.Projects) > 0 {
		bands = append(bands, fullBand(composeProjects(cv.Projects, contentWidth)))
	}

	if len(cv.Skills) > 0 || len(cv.Certifications) > 0 {
		var left, right []line
		if len(cv.Skills) > 0 {
			left = composeSkills(cv.Skills)
		}
		if len(cv.Certifications) > 0 {
			right = composeCertifications(cv.Certifications)
		}
		if right == nil {
			bands = append(bands, fullBand(left))
		} else {
			if left == nil {
				left = []line{}
			}
			bands = append(bands, band{Left: left, Right: right, LeftFrac: executiveSkillFrac})
		}
	}
	return bands
}
