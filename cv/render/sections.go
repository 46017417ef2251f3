package render

import (
	"sort"
	"strings"
	"time"

	"cvision-backend/cv/model"
)

const (
	headingSize = 12
	titleSize   = 11
	bodySize    = 9
	dateSize    = 9
	smallSize   = 8

	dateLayout = "Jan 2006"
)

var (
	headingStyle = style{Size: headingSize, Bold: true}
	titleStyle   = style{Size: titleSize, Bold: true}
	bodyStyle    = style{Size: bodySize}
	italicStyle  = style{Size: bodySize, Italic: true}
	smallStyle   = style{Size: smallSize}
)

// formatDateRange renders "start - end" with Present substituted when the
// entry is ongoing or has no end date. An ongoing flag wins over a stored
// end date.
func formatDateRange(start time.Time, end *time.Time, ongoing bool) string {
	right := "Present"
	if !ongoing && end != nil {
		right = end.Format(dateLayout)
	}
	return start.Format(dateLayout) + " - " + right
}

func sectionHeading(title string) line {
	return line{Text: title, Style: headingStyle, Rule: true, Gap: 8}
}

// wrapText splits text into lines that fit the given column width, using an
// average glyph width estimate for Helvetica.
func wrapText(text string, s style, width float64) []string {
	charWidth := s.Size * 0.5
	maxChars := int(width / charWidth)
	if maxChars < 8 {
		maxChars = 8
	}

	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			if len(cur)+1+len(w) > maxChars {
				out = append(out, cur)
				cur = w
				continue
			}
			cur += " " + w
		}
		out = append(out, cur)
	}
	return out
}

func wrappedLines(text string, s style, width float64, indent float64) []line {
	var out []line
	for _, row := range wrapText(text, s, width-indent) {
		out = append(out, line{Text: row, Style: s, Indent: indent})
	}
	return out
}

// composeHeader builds the centered header used by the Modern and Classic
// layouts: name, job title and a single contact line.
func composeHeader(cv model.CV) []line {
	info := cv.PersonalInfo

	name := cv.Title
	jobTitle := ""
	if info != nil {
		if info.FullName != "" {
			name = info.FullName
		}
		jobTitle = info.JobTitle
	}

	lines := []line{
		{Text: strings.ToUpper(name), Style: style{Size: 20, Bold: true}, Center: true, Gap: 2},
	}
	if jobTitle != "" {
		lines = append(lines, line{Text: jobTitle, Style: style{Size: 14}, Center: true, Gap: 4})
	}
	if contact := contactLine(info); contact != "" {
		lines = append(lines, line{Text: contact, Style: style{Size: 10}, Center: true, Gap: 2})
	}
	lines[len(lines)-1].Rule = true
	lines[len(lines)-1].Gap += 14
	return lines
}

// composeExecutiveHeader builds the split header of the Executive layout:
// name and title on the left, the contact block on the right.
func composeExecutiveHeader(cv model.CV) band {
	info := cv.PersonalInfo

	name := cv.Title
	jobTitle := ""
	if info != nil {
		if info.FullName != "" {
			name = info.FullName
		}
		jobTitle = info.JobTitle
	}

	left := []line{
		{Text: strings.ToUpper(name), Style: style{Size: 18, Bold: true}, Gap: 2},
	}
	if jobTitle != "" {
		left = append(left, line{Text: jobTitle, Style: style{Size: 12}})
	}

	var right []line
	if info != nil {
		if info.Email != "" {
			right = append(right, line{Text: "Email: " + info.Email, Style: style{Size: 9}})
		}
		if info.Phone != "" {
			right = append(right, line{Text: "Phone: " + info.Phone, Style: style{Size: 9}})
		}
		if info.Location != "" {
			right = append(right, line{Text: "Location: " + info.Location, Style: style{Size: 9}})
		}
	}
	if len(right) == 0 {
		right = append(right, line{Text: "", Style: style{Size: 9}})
	}

	left[len(left)-1].Rule = true
	left[len(left)-1].Gap += 12

	return band{Left: left, Right: right, LeftFrac: 2.0 / 3.0}
}

func contactLine(info *model.PersonalInfo) string {
	if info == nil {
		return ""
	}
	var parts []string
	for _, v := range []string{info.Email, info.Phone, info.Location, info.LinkedIn} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "  |  ")
}

func composeSummary(heading, text string, width float64) []line {
	lines := []line{sectionHeading(heading)}
	lines = append(lines, wrappedLines(text, style{Size: 10}, width, 0)...)
	lines[len(lines)-1].Gap += 12
	return lines
}

func composeExperiences(items []model.Experience, width float64) []line {
	lines := []line{sectionHeading("PROFESSIONAL EXPERIENCE")}
	for _, exp := range items {
		lines = append(lines, line{
			Text:      exp.JobTitle,
			RightText: formatDateRange(exp.StartDate, exp.EndDate, exp.CurrentlyWorking),
			Style:     titleStyle,
		})
		lines = append(lines, line{Text: exp.Company, Style: style{Size: 10, Bold: true}})
		if exp.Location != "" {
			lines = append(lines, line{Text: exp.Location, Style: italicStyle})
		}
		if exp.Description != "" {
			lines = append(lines, wrappedLines(exp.Description, bodyStyle, width, 0)...)
		}
		lines[len(lines)-1].Gap += 8
	}
	lines[len(lines)-1].Gap += 4
	return lines
}

func composeEducations(items []model.Education, width float64) []line {
	lines := []line{sectionHeading("EDUCATION")}
	for _, edu := range items {
		lines = append(lines, line{
			Text:      edu.Degree,
			RightText: formatDateRange(edu.StartDate, edu.EndDate, edu.CurrentlyStudying),
			Style:     titleStyle,
		})
		lines = append(lines, line{Text: edu.Institution, Style: style{Size: 10, Bold: true}})
		if edu.Location != "" {
			lines = append(lines, line{Text: edu.Location, Style: italicStyle})
		}
		if edu.Grade != "" {
			lines = append(lines, line{Text: "Grade: " + edu.Grade, Style: bodyStyle})
		}
		if edu.Description != "" {
			lines = append(lines, wrappedLines(edu.Description, bodyStyle, width, 0)...)
		}
		lines[len(lines)-1].Gap += 8
	}
	lines[len(lines)-1].Gap += 4
	return lines
}

// composeSkills renders skills grouped by category, categories in first-seen
// order after the display-order sort.
func composeSkills(items []model.Skill) []line {
	lines := []line{sectionHeading("SKILLS")}

	var categories []string
	grouped := map[string][]model.Skill{}
	for _, s := range items {
		if _, ok := grouped[s.Category]; !ok {
			categories = append(categories, s.Category)
		}
		grouped[s.Category] = append(grouped[s.Category], s)
	}

	for _, category := range categories {
		lines = append(lines, line{Text: category, Style: style{Size: 10, Bold: true}, Gap: 2})
		for _, s := range grouped[category] {
			lines = append(lines, line{Text: s.Name + " - " + s.Level, Style: bodyStyle, Indent: 10})
		}
		lines[len(lines)-1].Gap += 4
	}
	lines[len(lines)-1].Gap += 8
	return lines
}

func composeProjects(items []model.Project, width float64) []line {
	lines := []line{sectionHeading("PROJECTS")}
	for _, p := range items {
		lines = append(lines, line{
			Text:      p.Name,
			RightText: formatDateRange(p.StartDate, p.EndDate, false),
			Style:     titleStyle,
		})
		if p.Technologies != "" {
			lines = append(lines, line{Text: "Technologies: " + p.Technologies, Style: bodyStyle})
		}
		if p.Description != "" {
			lines = append(lines, wrappedLines(p.Description, bodyStyle, width, 0)...)
		}
		if p.GithubLink != "" {
			lines = append(lines, line{Text: "GitHub: " + p.GithubLink, Style: smallStyle})
		}
		lines[len(lines)-1].Gap += 8
	}
	lines[len(lines)-1].Gap += 4
	return lines
}

// composeCertifications shows name, organization and issue date only;
// expiration is intentionally not displayed by the base layouts.
func composeCertifications(items []model.Certification) []line {
	lines := []line{sectionHeading("CERTIFICATIONS")}
	for _, c := range items {
		lines = append(lines, line{Text: c.Name, Style: style{Size: 10, Bold: true}})
		lines = append(lines, line{Text: c.IssuingOrganization, Style: bodyStyle})
		lines = append(lines, line{Text: "Issued: " + c.IssueDate.Format(dateLayout), Style: smallStyle, Gap: 5})
	}
	lines[len(lines)-1].Gap += 8
	return lines
}

// sortedForRender returns a copy of the aggregate with every dependent
// collection stable-sorted by display order. Duplicate or sparse order
// values keep their stored relative order.
func sortedForRender(cv model.CV) model.CV {
	out := cv

	out.Experiences = append([]model.Experience(nil), cv.Experiences...)
	sort.SliceStable(out.Experiences, func(i, j int) bool {
		return out.Experiences[i].DisplayOrder < out.Experiences[j].DisplayOrder
	})

	out.Educations = append([]model.Education(nil), cv.Educations...)
	sort.SliceStable(out.Educations, func(i, j int) bool {
		return out.Educations[i].DisplayOrder < out.Educations[j].DisplayOrder
	})

	out.Skills = append([]model.Skill(nil), cv.Skills...)
	sort.SliceStable(out.Skills, func(i, j int) bool {
		return out.Skills[i].DisplayOrder < out.Skills[j].DisplayOrder
	})

	out.Projects = append([]model.Project(nil), cv.Projects...)
	sort.SliceStable(out.Projects, func(i, j int) bool {
		return out.Projects[i].DisplayOrder < out.Projects[j].DisplayOrder
	})

	out.Certifications = append([]model.Certification(nil), cv.Certifications...)
	sort.SliceStable(out.Certifications, func(i, j int) bool {
		return out.Certifications[i].DisplayOrder < out.Certifications[j].DisplayOrder
	})

	return out
}
