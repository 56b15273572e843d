package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"talentsift/resume-relevance/internal/config"
	"talentsift/resume-relevance/internal/handlers"
	"talentsift/resume-relevance/internal/matching"
	"talentsift/resume-relevance/internal/repositories"
	"talentsift/resume-relevance/internal/scoring"
	"talentsift/resume-relevance/internal/services"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Server.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}
	sugar.Info("database initialized")

	// Repositories
	jobRepo := repositories.NewJobRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)
	evalRepo := repositories.NewEvaluationRepository(db)
	batchRepo := repositories.NewBatchRepository(db)

	// Services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		sugar.Fatalw("failed to create upload directory", "error", err)
	}

	pdfParser := services.NewPDFParserService()
	extractor := services.NewAttributeExtractor()
	resumeParser := services.NewResumeParserService(pdfParser, extractor, resumeRepo, sugar)

	// The embedding oracle is optional: without a Gemini key the pipeline
	// falls back to term-frequency similarity.
	var embedder services.EmbeddingService
	if cfg.Gemini.APIKey != "" {
		embedder, err = services.NewEmbeddingService(cfg.Gemini.APIKey, cfg.Gemini.EmbedModel)
		if err != nil {
			sugar.Fatalw("failed to initialize embedding service", "error", err)
		}
		sugar.Infow("embedding service initialized", "model", cfg.Gemini.EmbedModel)
	} else {
		sugar.Warn("GEMINI_API_KEY not set, semantic scoring uses term-frequency fallback")
	}

	var vectorStore services.VectorStoreService
	if cfg.Qdrant.Enabled {
		vectorStore, err = services.NewVectorStoreService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
		)
		if err != nil {
			sugar.Fatalw("failed to initialize vector store", "error", err)
		}
		if err := vectorStore.InitCollection(); err != nil {
			sugar.Fatalw("failed to initialize vector collection", "error", err)
		}
		sugar.Infow("vector store initialized", "collection", cfg.Qdrant.Collection)
	} else {
		sugar.Info("vector store disabled, similar candidate search unavailable")
	}

	// Scoring pipeline
	matchCfg := matching.Config{
		Fallback: matching.NewTermFrequencyOracle(nil, 0),
	}
	if embedder != nil {
		matchCfg.Oracle = matching.NewEmbeddingOracle(embedder)
	}
	matcher := matching.NewEngine(matchCfg, sugar)
	scorer := scoring.NewEngine(matcher, scoring.Config{}, sugar)

	orchestrator := services.NewBatchOrchestrator(
		batchRepo,
		jobRepo,
		resumeRepo,
		evalRepo,
		resumeParser,
		scorer,
		embedder,
		vectorStore,
		cfg.Worker.Concurrency,
		sugar,
	)

	// Handlers
	jobHandler := handlers.NewJobHandler(jobRepo, embedder, vectorStore)
	uploadHandler := handlers.NewUploadHandler(resumeRepo, storageService, cfg.Storage.MaxFileSize)
	resumeHandler := handlers.NewResumeHandler(resumeRepo, resumeParser, embedder, vectorStore)
	evaluateHandler := handlers.NewEvaluationHandler(jobRepo, resumeRepo, batchRepo, orchestrator, sugar)
	resultHandler := handlers.NewResultHandler(evalRepo)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Relevance API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestLogger(sugar))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/jobs", jobHandler.HandleCreateJob)
	api.Get("/jobs", jobHandler.HandleListJobs)
	api.Get("/jobs/:id", jobHandler.HandleGetJob)
	api.Get("/jobs/:id/similar-candidates", jobHandler.HandleSimilarCandidates)

	api.Post("/resumes/upload", uploadHandler.HandleUpload)
	api.Get("/resumes/:id", resumeHandler.HandleGetResume)
	api.Post("/resumes/:id/parse", resumeHandler.HandleParseResume)
	api.Get("/resumes/:id/similar", resumeHandler.HandleSimilarCandidates)

	api.Post("/evaluate", evaluateHandler.HandleEvaluate)
	api.Get("/batches/:id/status", evaluateHandler.HandleBatchStatus)
	api.Post("/batches/:id/cancel", evaluateHandler.HandleCancelBatch)

	api.Get("/results/:job_id", resultHandler.HandleGetResults)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Relevance API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/jobs",
				"GET /api/v1/jobs",
				"GET /api/v1/jobs/:id",
				"GET /api/v1/jobs/:id/similar-candidates",
				"POST /api/v1/resumes/upload",
				"GET /api/v1/resumes/:id",
				"POST /api/v1/resumes/:id/parse",
				"GET /api/v1/resumes/:id/similar",
				"POST /api/v1/evaluate",
				"GET /api/v1/batches/:id/status",
				"POST /api/v1/batches/:id/cancel",
				"GET /api/v1/results/:job_id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		sugar.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			sugar.Errorw("server forced to shutdown", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	sugar.Infow("server starting", "addr", addr)

	if err := app.Listen(addr); err != nil {
		sugar.Fatalw("failed to start server", "error", err)
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func requestLogger(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Infow("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start),
		)
		return err
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
