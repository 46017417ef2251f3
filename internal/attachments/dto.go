package attachments

import "time"

// AttachmentResponse is the outward-facing representation of an attachment.
type AttachmentResponse struct {
	AttachmentID string    `json:"attachmentId"`
	FileName     string    `json:"fileName"`
	MimeType     string    `json:"mimeType"`
	SizeBytes    int64     `json:"sizeBytes"`
	Extracted    bool      `json:"extracted"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func toResponse(att Attachment) AttachmentResponse {
	return AttachmentResponse{
		AttachmentID: att.ID,
		FileName:     att.FileName,
		MimeType:     att.MimeType,
		SizeBytes:    att.SizeBytes,
		Extracted:    att.ExtractedTextKey != "",
		UploadedAt:   att.CreatedAt,
	}
}
