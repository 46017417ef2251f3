package attachments

import (
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cvision-backend/internal/shared/server/middleware"
	"cvision-backend/internal/shared/server/respond"
	"cvision-backend/internal/shared/telemetry"
	"cvision-backend/internal/shared/util"
)

const (
	maxPresignBytes = 5 << 20
	presignExpires  = 15 * time.Minute
)

// PresignHandler issues presigned S3 PUT URLs so large resume files upload
// straight to the bucket instead of through the API.
type PresignHandler struct {
	Presign *s3.PresignClient
	Bucket  string
	Prefix  string
}

type presignRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type presignResponse struct {
	UploadURL        string `json:"uploadUrl"`
	S3Key            string `json:"s3Key"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

// RegisterRoutes attaches the presign route to the router group.
func (h *PresignHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/attachments/presign", h.presign)
}

func (h *PresignHandler) presign(c *gin.Context) {
	if h.Presign == nil || h.Bucket == "" {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "presigned uploads not configured", nil)
		return
	}

	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.FileName = strings.TrimSpace(req.FileName)
	req.ContentType = strings.TrimSpace(req.ContentType)

	if req.FileName == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fileName is required", nil)
		return
	}
	if _, ok := allowedMimeTypes[req.ContentType]; !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "contentType is not allowed", nil)
		return
	}
	if req.SizeBytes <= 0 || req.SizeBytes > maxPresignBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "sizeBytes exceeds limit", nil)
		return
	}

	sanitized, err := util.SanitizeFileName(req.FileName)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid fileName", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	key := path.Join(h.Prefix, userID, uuid.NewString()+"-"+sanitized)

	out, err := h.Presign.PresignPutObject(c.Request.Context(), &s3.PutObjectInput{
		Bucket: aws.String(h.Bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignExpires
	})
	if err != nil {
		telemetry.Error("attachments.presign.failed", map[string]any{
			"err":        err.Error(),
			"bucket":     h.Bucket,
			"key":        key,
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate upload url", nil)
		return
	}

	respond.JSON(c, http.StatusOK, presignResponse{
		UploadURL:        out.URL,
		S3Key:            key,
		ExpiresInSeconds: int64(presignExpires.Seconds()),
	})
}
