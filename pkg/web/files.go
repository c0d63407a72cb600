package web

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".csv":  true,
	".xlsx": true,
	".docx": true,
}

// UploadFiles stores one or more multipart files under the upload directory.
// Each stored file gets a UUID prefix so later lookups by ID work without a
// database.
func (h *APIHandlers) UploadFiles(c fiber.Ctx) error {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return internalError(c, err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "No file part in the request")
	}

	files := form.File["files"]
	if len(files) == 0 || files[0].Filename == "" {
		return badRequest(c, "No selected file")
	}

	uploaded := make([]fiber.Map, 0, len(files))

	for _, file := range files {
		filename := sanitizeFilename(file.Filename)
		if filename == "" || !allowedExtensions[strings.ToLower(filepath.Ext(filename))] {
			continue
		}

		fileID := uuid.New().String()
		storedName := fileID + "_" + filename
		path := filepath.Join(h.uploadDir, storedName)

		if err := c.SaveFile(file, path); err != nil {
			return internalError(c, err)
		}

		uploaded = append(uploaded, fiber.Map{
			"id":           fileID,
			"filename":     filename,
			"path":         storedName,
			"size":         file.Size,
			"content_type": file.Header.Get("Content-Type"),
			"upload_time":  time.Now().UTC(),
		})
	}

	if len(uploaded) == 0 {
		return badRequest(c, "No valid files uploaded")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"files":   uploaded,
		"count":   len(uploaded),
		"message": "Files uploaded successfully",
	})
}

// GetFile streams a stored file back as an attachment.
func (h *APIHandlers) GetFile(c fiber.Ctx) error {
	fileID := c.Params("id")

	storedName, ok := h.findStoredFile(fileID)
	if !ok {
		return notFound(c, "File not found")
	}

	originalName := strings.TrimPrefix(storedName, fileID+"_")

	return c.Download(filepath.Join(h.uploadDir, storedName), originalName)
}

// DeleteFile removes a stored file.
func (h *APIHandlers) DeleteFile(c fiber.Ctx) error {
	fileID := c.Params("id")

	storedName, ok := h.findStoredFile(fileID)
	if !ok {
		return notFound(c, "File not found")
	}

	if err := os.Remove(filepath.Join(h.uploadDir, storedName)); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("File %s deleted successfully", fileID),
	})
}

func (h *APIHandlers) findStoredFile(fileID string) (string, bool) {
	if fileID == "" {
		return "", false
	}

	entries, err := os.ReadDir(h.uploadDir)
	if err != nil {
		return "", false
	}

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), fileID) {
			return entry.Name(), true
		}
	}

	return "", false
}

// sanitizeFilename strips directory components and characters that are not
// safe in a stored filename.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var builder strings.Builder

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			builder.WriteRune(r)
		case r == '.', r == '-', r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteRune('_')
		}
	}

	return strings.Trim(builder.String(), "._")
}
