package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/resume-relevance/internal/config"
	"alfredoptarigan/resume-relevance/internal/handlers"
	"alfredoptarigan/resume-relevance/internal/repositories"
	"alfredoptarigan/resume-relevance/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	if math.Abs(cfg.Relevance.HardWeight+cfg.Relevance.SemanticWeight-1.0) > 1e-9 {
		log.Fatalf("❌ HARD_WEIGHT and SEMANTIC_WEIGHT must sum to 1, got %v + %v",
			cfg.Relevance.HardWeight, cfg.Relevance.SemanticWeight)
	}

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	jobRepo := repositories.NewJobRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)
	evalRepo := repositories.NewEvaluationRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage and extraction
	uploads, err := services.NewUploadStore(cfg.Storage.UploadPath)
	if err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}
	extractor := services.NewDocumentExtractor()

	// Initialize Gemini and the embedding provider. Without an API key the
	// service degrades to a deterministic hash embedder and rule-based
	// feedback.
	var geminiService services.GeminiService
	var embedder services.Embedder
	if cfg.Gemini.APIKey != "" {
		geminiService, err = services.NewGeminiService(cfg.Gemini.APIKey)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
		}
		embedder = services.NewGeminiEmbedder(geminiService, cfg.Vector.Dimension)
		log.Println("✅ Gemini AI initialized successfully")
	} else {
		embedder = services.NewHashEmbedder(cfg.Vector.Dimension)
		log.Println("⚠️  GEMINI_API_KEY not set: using hash embeddings and rule-based feedback only")
	}

	// Initialize the similarity index
	var index services.VectorIndex
	switch cfg.Vector.Backend {
	case "qdrant":
		index, err = services.NewQdrantVectorIndex(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			cfg.Vector.Dimension,
		)
	default:
		index, err = services.NewFileVectorIndex(cfg.Vector.Path, cfg.Vector.Dimension)
	}
	if err != nil {
		log.Fatalf("❌ Failed to initialize similarity index: %v", err)
	}
	log.Printf("✅ Similarity index initialized (%s backend)\n", cfg.Vector.Backend)

	// Initialize evaluator
	evaluatorService := services.NewEvaluatorService(
		evalRepo,
		resumeRepo,
		jobRepo,
		services.NewSkillExtractor(),
		services.NewHardMatcher(),
		services.NewSemanticMatcher(embedder),
		services.NewFeedbackGenerator(geminiService, cfg.Worker.RetryMaxAttempts),
		index,
		services.Weights{
			Hard:     cfg.Relevance.HardWeight,
			Semantic: cfg.Relevance.SemanticWeight,
		},
	)
	log.Println("✅ Evaluator service initialized")

	// Initialize worker
	worker := services.NewWorker(
		evalRepo,
		evaluatorService,
		cfg.Worker.Concurrency,
	)

	ctx := context.Background()
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize handlers
	jobHandler := handlers.NewJobHandler(
		jobRepo,
		uploads,
		extractor,
		embedder,
		index,
		cfg.Storage.MaxFileSize,
	)
	resumeHandler := handlers.NewResumeHandler(
		resumeRepo,
		uploads,
		extractor,
		cfg.Storage.MaxFileSize,
	)
	evaluateHandler := handlers.NewEvaluationHandler(
		evalRepo,
		resumeRepo,
		jobRepo,
		evaluatorService,
		worker,
	)
	resultHandler := handlers.NewResultHandler(evalRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Relevance API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/jobs", jobHandler.HandleCreateJob)
	api.Get("/jobs", jobHandler.HandleListJobs)
	api.Get("/jobs/:id/evaluations", resultHandler.HandleListForJob)
	api.Get("/jobs/:id/similar", jobHandler.HandleSimilarResumes)
	api.Post("/resumes", resumeHandler.HandleUpload)
	api.Post("/evaluate", evaluateHandler.HandleEvaluate)
	api.Post("/evaluate/sync", evaluateHandler.HandleEvaluateSync)
	api.Get("/result/:id", resultHandler.HandleGetResult)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Relevance API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/jobs",
				"GET /api/v1/jobs",
				"GET /api/v1/jobs/:id/evaluations",
				"GET /api/v1/jobs/:id/similar",
				"POST /api/v1/resumes",
				"POST /api/v1/evaluate",
				"POST /api/v1/evaluate/sync",
				"GET /api/v1/result/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
