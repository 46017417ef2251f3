package attachments

import "time"

// Attachment is a source file a user uploaded to seed a CV, typically an
// existing resume in PDF or DOCX form.
type Attachment struct {
	ID               string
	UserID           string
	FileName         string
	MimeType         string
	SizeBytes        int64
	StorageProvider  string
	StorageKey       string
	ExtractedTextKey string
	ExtractedAt      *time.Time
	CreatedAt        time.Time
}
