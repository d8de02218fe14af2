package worker

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blankspace-backend/internal/config"
	"blankspace-backend/internal/metrics"
	"blankspace-backend/internal/models"
	"blankspace-backend/internal/openai"
	"blankspace-backend/internal/resend"
)

// Store is the slice of the database layer the worker drives.
type Store interface {
	ClaimPaidOrders(limit int) ([]models.Order, error)
	CompleteOrder(orderID, artifactURL string) error
	FailOrderGeneration(orderID, errorMsg string) error
}

type Generator interface {
	GenerateColoring(imageData []byte, filename, mimeType string) (*openai.GeneratedImage, error)
	DownloadFile(downloadURL string) ([]byte, error)
}

type Uploader interface {
	UploadFile(path, contentType string, data []byte) (string, error)
}

type Mailer interface {
	SendEmail(to, subject, html string) error
}

// BookWorker turns paid orders into finished coloring books: one generated
// line-art page per source photo, bundled into a ZIP artifact in object
// storage. Orders are claimed with SKIP LOCKED so multiple workers never
// double-process.
type BookWorker struct {
	cfg        *config.Config
	store      Store
	generator  Generator
	storage    Uploader
	mailer     Mailer
	httpClient *http.Client
	interval   time.Duration
	batchSize  int
}

func NewBookWorker(cfg *config.Config, store Store, generator Generator, storage Uploader, mailer Mailer) *BookWorker {
	return &BookWorker{
		cfg:       cfg,
		store:     store,
		generator: generator,
		storage:   storage,
		mailer:    mailer,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		interval:  15 * time.Second,
		batchSize: 3,
	}
}

func (w *BookWorker) Start(ctx context.Context) {
	log.Println("Starting book worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Book worker stopped")
			return
		case <-ticker.C:
			if err := w.ProcessBatch(); err != nil {
				log.Printf("Book worker batch failed: %v", err)
			}
		}
	}
}

// ProcessBatch runs a single claim-and-generate pass.
func (w *BookWorker) ProcessBatch() error {
	orders, err := w.store.ClaimPaidOrders(w.batchSize)
	if err != nil {
		return fmt.Errorf("claim paid orders: %w", err)
	}

	for _, order := range orders {
		w.generateBook(order)
	}

	return nil
}

func (w *BookWorker) generateBook(order models.Order) {
	log.Printf("Generating coloring book for order %s", order.ID)

	if w.cfg.DemoGeneration || w.generator == nil {
		// No generation credential: complete with a placeholder artifact so
		// the demo flow still reaches a terminal state.
		placeholder := "https://via.placeholder.com/1024x1024/ffffff/333333?text=" + url.QueryEscape(order.ID)
		if err := w.store.CompleteOrder(order.ID, placeholder); err != nil {
			log.Printf("Failed to complete demo order %s: %v", order.ID, err)
			return
		}
		metrics.BooksCompleted.Inc()
		w.sendReadyEmail(order, placeholder)
		return
	}

	var images []string
	if err := json.Unmarshal(order.ImageData, &images); err != nil || len(images) == 0 {
		w.fail(order.ID, "no images attached to order")
		return
	}

	var archive bytes.Buffer
	zipWriter := zip.NewWriter(&archive)

	for i, image := range images {
		source, mimeType, err := w.fetchSource(image)
		if err != nil {
			w.fail(order.ID, fmt.Sprintf("failed to fetch source image %d: %v", i+1, err))
			return
		}

		pageName := fmt.Sprintf("page_%02d.png", i+1)
		generated, err := w.generator.GenerateColoring(source, pageName, mimeType)
		if err != nil {
			w.fail(order.ID, fmt.Sprintf("failed to generate page %d: %v", i+1, err))
			return
		}

		pageData := generated.Data
		if pageData == nil {
			pageData, err = w.generator.DownloadFile(generated.URL)
			if err != nil {
				w.fail(order.ID, fmt.Sprintf("failed to download page %d: %v", i+1, err))
				return
			}
		}

		if !w.cfg.DemoStorage && w.storage != nil {
			if _, err := w.storage.UploadFile("orders/"+order.ID+"/"+pageName, "image/png", pageData); err != nil {
				log.Printf("Failed to store page %s for order %s: %v", pageName, order.ID, err)
			}
		}

		entry, err := zipWriter.Create(pageName)
		if err == nil {
			_, err = entry.Write(pageData)
		}
		if err != nil {
			w.fail(order.ID, fmt.Sprintf("failed to archive page %d: %v", i+1, err))
			return
		}
	}

	if err := zipWriter.Close(); err != nil {
		w.fail(order.ID, fmt.Sprintf("failed to finalize archive: %v", err))
		return
	}

	artifactURL := "https://via.placeholder.com/1024x1024/ffffff/333333?text=" + url.QueryEscape(order.ID)
	if !w.cfg.DemoStorage && w.storage != nil {
		uploaded, err := w.storage.UploadFile("orders/"+order.ID+"/coloring-book.zip", "application/zip", archive.Bytes())
		if err != nil {
			w.fail(order.ID, fmt.Sprintf("failed to upload artifact: %v", err))
			return
		}
		artifactURL = uploaded
	}

	if err := w.store.CompleteOrder(order.ID, artifactURL); err != nil {
		log.Printf("Failed to complete order %s: %v", order.ID, err)
		return
	}

	metrics.BooksCompleted.Inc()
	log.Printf("Completed coloring book for order %s", order.ID)
	w.sendReadyEmail(order, artifactURL)
}

func (w *BookWorker) fail(orderID, reason string) {
	log.Printf("Generation failed for order %s: %s", orderID, reason)
	metrics.BooksFailed.Inc()
	if err := w.store.FailOrderGeneration(orderID, reason); err != nil {
		log.Printf("Failed to record generation failure for order %s: %v", orderID, err)
	}
}

func (w *BookWorker) sendReadyEmail(order models.Order, downloadURL string) {
	subject, html := resend.BookReadyEmail(order.ID, downloadURL)
	if err := w.mailer.SendEmail(order.UserEmail, subject, html); err != nil {
		log.Printf("Email sending error: %v", err)
		metrics.EmailFailures.WithLabelValues("book_ready").Inc()
		return
	}
	metrics.EmailsSent.WithLabelValues("book_ready").Inc()
}

// fetchSource resolves a client-supplied image reference, either an inline
// data URL or a previously uploaded public URL, into raw bytes.
func (w *BookWorker) fetchSource(ref string) ([]byte, string, error) {
	if strings.HasPrefix(ref, "data:") {
		rest := strings.TrimPrefix(ref, "data:")
		semi := strings.Index(rest, ";base64,")
		if semi < 0 {
			return nil, "", fmt.Errorf("unsupported data url encoding")
		}
		mimeType := rest[:semi]
		data, err := base64.StdEncoding.DecodeString(rest[semi+len(";base64,"):])
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode data url: %w", err)
		}
		return data, mimeType, nil
	}

	resp, err := w.httpClient.Get(ref)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}
