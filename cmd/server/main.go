// @title           Blank Space Backend API
// @version         1.0.0
// @description     Backend API for turning customer photos into printable coloring books. Handles line-art previews, photo uploads, tiered checkout via Stripe, order recording, payment webhooks, and email capture.

// @contact.name   API Support
// @contact.email  hello@blankspace.app

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"blankspace-backend/docs"
	"blankspace-backend/internal/config"
	"blankspace-backend/internal/database"
	"blankspace-backend/internal/handlers"
	"blankspace-backend/internal/middleware"
	"blankspace-backend/internal/openai"
	"blankspace-backend/internal/resend"
	"blankspace-backend/internal/stripe"
	"blankspace-backend/internal/supabase"
	"blankspace-backend/internal/worker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		if baseURL, err := url.Parse(cfg.BaseURL); err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	// Provider clients. Absence of a credential leaves the client nil and
	// the matching demo flag set; handlers branch on the flag.
	var stripeClient *stripe.Client
	if cfg.DemoPayments {
		log.Println("Warning: STRIPE_SECRET_KEY not set. Payment endpoints run in demo mode.")
	} else {
		stripeClient = stripe.NewClient(cfg.StripeAPIBaseURL, cfg.StripeSecretKey)
	}

	var generator *openai.Client
	if cfg.DemoGeneration {
		log.Println("Warning: OPENAI_API_KEY not set. Previews are unavailable and generation runs in demo mode.")
	} else {
		generator = openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)
	}

	mailer := resend.NewClient(cfg.ResendBaseURL, cfg.ResendAPIKey, cfg.EmailFrom)
	if cfg.DemoEmail {
		log.Println("Warning: RESEND_API_KEY not set. Emails are logged and dropped.")
	}

	var storageClient *supabase.StorageClient
	if cfg.DemoStorage {
		log.Println("Warning: Supabase storage not configured. Uploads return placeholder URLs.")
	} else {
		storageClient, err = supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
		if err != nil {
			log.Fatalf("Failed to initialize storage client: %v", err)
		}
	}

	var dbClient *supabase.DatabaseClient
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set. Order and subscriber endpoints will be limited.")
	} else {
		dbClient, err = supabase.NewDatabaseClient(cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: Failed to initialize database client: %v", err)
			dbClient = nil
		} else {
			defer dbClient.Close()

			migrator, err := database.NewMigrator(cfg.DatabaseURL)
			if err != nil {
				log.Printf("Warning: Failed to initialize migrator: %v", err)
			} else {
				defer migrator.Close()
				if err := migrator.Run(); err != nil {
					log.Printf("Warning: Migration failed: %v", err)
				} else {
					log.Println("Migrations completed successfully")
				}
			}
		}
	}

	// Handler wiring. Nil concrete clients must stay nil interfaces, so
	// assignment happens only when a client exists.
	var sessionCreator handlers.CheckoutSessionCreator
	var sessionRetriever handlers.CheckoutSessionRetriever
	if stripeClient != nil {
		sessionCreator = stripeClient
		sessionRetriever = stripeClient
	}

	var coloringGenerator handlers.ColoringGenerator
	if generator != nil {
		coloringGenerator = generator
	}

	var uploader handlers.FileUploader
	if storageClient != nil {
		uploader = storageClient
	}

	var orderStore handlers.OrderStore
	var webhookStore handlers.WebhookStore
	var subscriberStore handlers.SubscriberStore
	var orderLister handlers.OrderLister
	if dbClient != nil {
		orderStore = dbClient
		webhookStore = dbClient
		subscriberStore = dbClient
		orderLister = dbClient
	}

	previewHandler := handlers.NewPreviewHandler(coloringGenerator)
	uploadHandler := handlers.NewUploadHandler(cfg, uploader)
	checkoutHandler := handlers.NewCheckoutHandler(cfg, sessionCreator)
	ordersHandler := handlers.NewOrdersHandler(cfg, sessionRetriever, orderStore, mailer)
	webhookHandler := handlers.NewWebhookHandler(cfg, webhookStore)
	subscribeHandler := handlers.NewSubscribeHandler(cfg, subscriberStore, mailer)
	adminHandler := handlers.NewAdminHandler(orderLister)

	// Background generation worker
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if dbClient != nil {
		var workerGenerator worker.Generator
		if generator != nil {
			workerGenerator = generator
		}
		var workerStorage worker.Uploader
		if storageClient != nil {
			workerStorage = storageClient
		}
		bookWorker := worker.NewBookWorker(cfg, dbClient, workerGenerator, workerStorage, mailer)
		go bookWorker.Start(ctx)
	} else {
		log.Println("Warning: Book worker disabled without a database.")
	}

	// Setup router
	router := gin.Default()

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.POST("/preview", previewHandler.Preview)
	api.POST("/upload", uploadHandler.Upload)
	api.POST("/create-checkout-session", checkoutHandler.CreateSession)
	api.POST("/orders", ordersHandler.Create)
	api.GET("/orders/:order_id", ordersHandler.GetStatus)
	api.POST("/webhook/stripe", webhookHandler.HandleWebhook)
	api.POST("/subscribe", subscribeHandler.Subscribe)

	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.GET("/orders", adminHandler.ListOrders)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
