package handlers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/example/zylm/internal/apperr"
)

const maxCVSize = 5 << 20

var cvExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

var cvContentTypes = map[string]bool{
	"application/pdf":          true,
	"application/msword":       true,
	"application/octet-stream": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// UploadHandler stores résumé files under the upload directory.
type UploadHandler struct {
	dir string
	log *zap.Logger
}

// NewUploadHandler constructs UploadHandler writing into dir.
func NewUploadHandler(dir string, log *zap.Logger) *UploadHandler {
	return &UploadHandler{dir: dir, log: log}
}

// UploadCV accepts a PDF, DOC or DOCX file of at most 5 MB in the "cv" field.
func (h *UploadHandler) UploadCV(c *fiber.Ctx) error {
	file, err := c.FormFile("cv")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "No file uploaded")
	}
	if file.Size > maxCVSize {
		return fiber.NewError(fiber.StatusBadRequest, "File exceeds the 5MB limit")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(file.Header.Get(fiber.HeaderContentType), ";")[0]))
	if !cvExtensions[ext] || (contentType != "" && !cvContentTypes[contentType]) {
		return fiber.NewError(fiber.StatusBadRequest, "Only PDF, DOC, DOCX files are allowed")
	}

	cvDir := filepath.Join(h.dir, "cv")
	if err := os.MkdirAll(cvDir, 0o755); err != nil {
		return apperr.Wrap(apperr.ErrStorage, "create upload dir", err)
	}

	name := "cv-" + ksuid.New().String() + ext
	if err := c.SaveFile(file, filepath.Join(cvDir, name)); err != nil {
		return apperr.Wrap(apperr.ErrStorage, "save upload", err)
	}

	h.log.Info("cv uploaded", zap.String("file", name), zap.Int64("size", file.Size))
	return c.JSON(fiber.Map{"success": true, "fileUrl": "/uploads/cv/" + name})
}
