package http

import (
	"io"

	"github.com/VigilNet/FedWatch/pkg/app/analysis"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type analyzeHandler struct {
	logger   *logrus.Logger
	analyzer analysis.Analyzer
}

func NewAnalyzeHandler(logger *logrus.Logger, analyzer analysis.Analyzer) Handler {
	return &analyzeHandler{
		logger:   logger,
		analyzer: analyzer,
	}
}

// Handle accepts a multipart media upload and returns the analysis outcome.
// Unsupported media types are rejected with 415 and never persisted.
func (h *analyzeHandler) Handle(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "multipart field 'file' is required"})
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.WithError(err).Error("failed to open upload")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read upload"})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.WithError(err).Error("failed to read upload")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read upload"})
	}

	h.logger.WithFields(logrus.Fields{
		"filename":  fileHeader.Filename,
		"mime_type": mimeType,
		"size":      fileHeader.Size,
	}).Info("analysis request received")

	entity, result, err := h.analyzer.Analyze(c.Context(), fileHeader.Filename, mimeType, content)
	if err != nil {
		h.logger.WithError(err).Error("analysis failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "analysis failed"})
	}
	if result.Error != "" {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(result)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"detection_id": entity.ID,
		"filename":     entity.Filename,
		"result":       result,
	})
}
