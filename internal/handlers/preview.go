package handlers

import (
	"encoding/base64"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blankspace-backend/internal/metrics"
	"blankspace-backend/internal/models"
	"blankspace-backend/internal/openai"
)

// maxUploadSize caps customer photos at 15 MiB.
const maxUploadSize = 15 << 20

// ColoringGenerator produces a line-art rendering of a source photo.
type ColoringGenerator interface {
	GenerateColoring(imageData []byte, filename, mimeType string) (*openai.GeneratedImage, error)
}

type PreviewHandler struct {
	generator ColoringGenerator
}

func NewPreviewHandler(generator ColoringGenerator) *PreviewHandler {
	return &PreviewHandler{generator: generator}
}

// readImageFile pulls the multipart "file" field and enforces the shared
// type and size constraints. A non-nil *models.ErrorResponse means the
// request was rejected with a 400.
func readImageFile(c *gin.Context) ([]byte, *multipart.FileHeader, *models.ErrorResponse) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return nil, nil, &models.ErrorResponse{Error: "No file provided"}
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, nil, &models.ErrorResponse{Error: "Invalid file type"}
	}
	if header.Size > maxUploadSize {
		return nil, nil, &models.ErrorResponse{Error: "File too large"}
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, nil, &models.ErrorResponse{Error: "Failed to read file", Message: err.Error()}
	}
	if len(data) > maxUploadSize {
		return nil, nil, &models.ErrorResponse{Error: "File too large"}
	}

	return data, header, nil
}

// Preview godoc
// @Summary     Generate a line-art preview
// @Description Converts an uploaded photo into a coloring-book style preview image.
// @Tags        preview
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "Photo to convert (image/*, max 15 MiB)"
// @Success     200 {object} models.PreviewResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /preview [post]
func (h *PreviewHandler) Preview(c *gin.Context) {
	if h.generator == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "generation service not available"})
		return
	}

	data, header, errResp := readImageFile(c)
	if errResp != nil {
		c.JSON(http.StatusBadRequest, *errResp)
		return
	}

	contentType := header.Header.Get("Content-Type")
	generated, err := h.generator.GenerateColoring(data, header.Filename, contentType)
	if err != nil {
		log.Printf("Preview generation error: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate coloring page"})
		return
	}

	previewURL := generated.URL
	if previewURL == "" {
		previewURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(generated.Data)
	}

	metrics.PreviewsGenerated.Inc()
	c.JSON(http.StatusOK, models.PreviewResponse{
		PreviewURL:  previewURL,
		OriginalURL: "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data),
	})
}
