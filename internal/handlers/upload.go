package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blankspace-backend/internal/config"
	"blankspace-backend/internal/models"
)

// FileUploader stores a file and returns its public URL.
type FileUploader interface {
	UploadFile(path, contentType string, data []byte) (string, error)
}

type UploadHandler struct {
	cfg     *config.Config
	storage FileUploader
}

func NewUploadHandler(cfg *config.Config, storage FileUploader) *UploadHandler {
	return &UploadHandler{cfg: cfg, storage: storage}
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:13]
}

// Upload godoc
// @Summary     Upload a customer photo
// @Description Stores a photo in object storage and returns its public URL. Returns a placeholder URL when storage is unconfigured (demo mode).
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "Photo to store (image/*, max 15 MiB)"
// @Success     200 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	data, header, errResp := readImageFile(c)
	if errResp != nil {
		c.JSON(http.StatusBadRequest, *errResp)
		return
	}

	contentType := header.Header.Get("Content-Type")
	fileName := fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), randomSuffix(), filepath.Ext(header.Filename))

	if h.cfg.DemoStorage {
		c.JSON(http.StatusOK, models.UploadResponse{
			Success:   true,
			FileName:  fileName,
			PublicURL: "https://via.placeholder.com/800x600/cccccc/333333?text=" + url.QueryEscape(header.Filename),
			Size:      header.Size,
			Type:      contentType,
			DemoMode:  true,
		})
		return
	}

	publicURL, err := h.storage.UploadFile("uploads/"+fileName, contentType, data)
	if err != nil {
		log.Printf("Upload error: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to upload file"})
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		Success:   true,
		FileName:  fileName,
		PublicURL: publicURL,
		Size:      header.Size,
		Type:      contentType,
	})
}
