package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blankspace-backend/internal/handlers"
	"blankspace-backend/internal/openai"
)

type stubGenerator struct {
	calls    int
	filename string
	mimeType string
	image    *openai.GeneratedImage
	err      error
}

func (g *stubGenerator) GenerateColoring(imageData []byte, filename, mimeType string) (*openai.GeneratedImage, error) {
	g.calls++
	g.filename = filename
	g.mimeType = mimeType
	return g.image, g.err
}

// buildImageForm builds a multipart body with an explicit part Content-Type,
// since CreateFormFile always writes application/octet-stream.
func buildImageForm(t *testing.T, fieldName, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}

func newPreviewRouter(generator handlers.ColoringGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/preview", handlers.NewPreviewHandler(generator).Preview)
	return router
}

func TestPreview_NoFile(t *testing.T) {
	router := newPreviewRouter(&stubGenerator{})

	body, contentType := buildImageForm(t, "wrong_field", "photo.jpg", "image/jpeg", []byte("jpegdata"))
	req, _ := http.NewRequest("POST", "/api/preview", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file provided")
}

func TestPreview_InvalidFileType(t *testing.T) {
	generator := &stubGenerator{}
	router := newPreviewRouter(generator)

	body, contentType := buildImageForm(t, "file", "notes.txt", "text/plain", []byte("hello"))
	req, _ := http.NewRequest("POST", "/api/preview", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid file type")
	assert.Equal(t, 0, generator.calls)
}

func TestPreview_FileTooLarge(t *testing.T) {
	router := newPreviewRouter(&stubGenerator{})

	oversized := make([]byte, 15<<20+1)
	body, contentType := buildImageForm(t, "file", "huge.png", "image/png", oversized)
	req, _ := http.NewRequest("POST", "/api/preview", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File too large")
}

func TestPreview_GeneratorUnavailable(t *testing.T) {
	router := newPreviewRouter(nil)

	body, contentType := buildImageForm(t, "file", "photo.jpg", "image/jpeg", []byte("jpegdata"))
	req, _ := http.NewRequest("POST", "/api/preview", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "generation service not available")
}

func TestPreview_GenerationFailure(t *testing.T) {
	router := newPreviewRouter(&stubGenerator{err: assert.AnError})

	body, contentType := buildImageForm(t, "file", "photo.jpg", "image/jpeg", []byte("jpegdata"))
	req, _ := http.NewRequest("POST", "/api/preview", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to generate coloring page")
}

func TestPreview_Success(t *testing.T) {
	generator := &stubGenerator{image: &openai.GeneratedImage{URL: "https://cdn.example.com/preview.png"}}
	router := newPreviewRouter(generator)

	body, contentType := buildImageForm(t, "file", "photo.jpg", "image/jpeg", []byte("jpegdata"))
	req, _ := http.NewRequest("POST", "/api/preview", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://cdn.example.com/preview.png")
	assert.Contains(t, w.Body.String(), "data:image/jpeg;base64,")
	assert.Equal(t, "photo.jpg", generator.filename)
	assert.Equal(t, "image/jpeg", generator.mimeType)
}

func TestPreview_InlineImageFallback(t *testing.T) {
	generator := &stubGenerator{image: &openai.GeneratedImage{Data: []byte{0x89, 0x50, 0x4e, 0x47}}}
	router := newPreviewRouter(generator)

	body, contentType := buildImageForm(t, "file", "photo.png", "image/png", []byte("pngdata"))
	req, _ := http.NewRequest("POST", "/api/preview", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"previewUrl":"data:image/png;base64,`)
}
