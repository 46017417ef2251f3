package main

// Renders a sample CV with every registered template:
//   go run ./cmd/renderdemo -out ./out

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cvision-backend/cv/model"
	"cvision-backend/cv/render"
)

func main() {
	outDir := flag.String("out", "./out", "output directory for generated PDFs")
	flag.Parse()

	cv := sampleCV()
	engine := render.NewEngine()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir failed: %v\n", err)
		os.Exit(1)
	}

	for _, info := range engine.Registry.Templates() {
		data, err := engine.Render(cv, info.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "render %s failed: %v\n", info.ID, err)
			os.Exit(1)
		}
		if err := validatePDF(data); err != nil {
			fmt.Fprintf(os.Stderr, "render %s validation failed: %v\n", info.ID, err)
			os.Exit(1)
		}
		path := filepath.Join(*outDir, "sample_cv_"+strings.ToLower(info.ID)+".pdf")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("OK: wrote %s (%d bytes)\n", path, len(data))
	}

	payload, err := json.MarshalIndent(cv, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal failed: %v\n", err)
		os.Exit(1)
	}
	modelPath := filepath.Join(*outDir, "sample_cv.json")
	if err := os.WriteFile(modelPath, payload, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK: wrote %s\n", modelPath)
}

func validatePDF(data []byte) error {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return fmt.Errorf("missing PDF header")
	}
	if !bytes.Contains(data, []byte("xref")) {
		return fmt.Errorf("missing xref table")
	}
	if !bytes.HasSuffix(bytes.TrimRight(data, "\n"), []byte("%%EOF")) {
		return fmt.Errorf("missing EOF marker")
	}
	return nil
}

func date(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

func datePtr(year, month int) *time.Time {
	d := date(year, month)
	return &d
}

func sampleCV() model.CV {
	return model.CV{
		ID:       "sample",
		Title:    "Senior Backend Engineer CV",
		Summary:  "Backend engineer with 8+ years of experience building resilient APIs and data services.",
		Template: model.TemplateModern,
		PersonalInfo: &model.PersonalInfo{
			FullName: "Jordan Lee",
			JobTitle: "Senior Backend Engineer",
			Email:    "jordan.lee@example.com",
			Phone:    "+1-555-0102",
			Location: "Austin, TX",
			LinkedIn: "https://www.linkedin.com/in/jordanlee",
			GitHub:   "https://github.com/jordanlee",
		},
		Experiences: []model.Experience{
			{
				JobTitle:         "Senior Backend Engineer",
				Company:          "Acme Logistics",
				Location:         "Austin, TX",
				StartDate:        date(2021, 4),
				CurrentlyWorking: true,
				Description:      "Designed a routing service that reduced shipment latency by 18%.",
				DisplayOrder:     1,
			},
			{
				JobTitle:     "Backend Engineer",
				Company:      "Blue Harbor Systems",
				Location:     "Seattle, WA",
				StartDate:    date(2018, 1),
				EndDate:      datePtr(2021, 3),
				Description:  "Built event-driven ingestion pipelines for compliance data feeds.",
				DisplayOrder: 2,
			},
		},
		Educations: []model.Education{
			{
				Degree:       "B.S. Computer Science",
				Institution:  "University of Texas at Austin",
				Location:     "Austin, TX",
				StartDate:    date(2010, 8),
				EndDate:      datePtr(2014, 5),
				DisplayOrder: 1,
			},
		},
		Skills: []model.Skill{
			{Name: "Go", Level: "Expert", Category: "Languages", DisplayOrder: 1},
			{Name: "PostgreSQL", Level: "Advanced", Category: "Databases", DisplayOrder: 2},
			{Name: "Kubernetes", Level: "Advanced", Category: "Cloud", DisplayOrder: 3},
		},
		Projects: []model.Project{
			{
				Name:         "Shipment Tracker",
				Description:  "Real-time shipment tracking platform with event sourcing.",
				Technologies: "Go, PostgreSQL, Kafka",
				StartDate:    date(2022, 1),
				DisplayOrder: 1,
			},
		},
		Certifications: []model.Certification{
			{
				Name:                "AWS Certified Solutions Architect",
				IssuingOrganization: "Amazon Web Services",
				IssueDate:           date(2023, 6),
				DisplayOrder:        1,
			},
		},
	}
}
