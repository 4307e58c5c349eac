package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/Abraxas-365/sift/pkg/errx"
	"github.com/Abraxas-365/sift/pkg/logx"
	"github.com/Abraxas-365/sift/screening/job/jobapi"
)

func main() {
	// 1. Environment & Logger
	if err := godotenv.Load(); err != nil {
		logx.Debugf("No .env file loaded: %v", err)
	}
	logx.SetLevel(logx.LevelInfo)
	logx.Info("Starting Sift API Server...")

	// 2. Initialize Dependency Container
	container := NewContainer()
	defer container.DB.Close()
	defer container.Redis.Close()

	// 3. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "Sift Screening API",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
	})

	// 4. Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*", // Configure for production
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// 5. Health Check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"db":     container.DB.Ping() == nil,
			"redis":  container.Redis.Ping(c.Context()).Err() == nil,
		})
	})

	// 6. Register Routes

	// Jobs: /api/jobs
	jobapi.RegisterRoutes(app, container.JobHandlers, container.AuthMiddleware)

	// Resumes & ingestion: /api/resumes
	container.ResumeHandlers.RegisterRoutes(app, container.AuthMiddleware)

	// Rankings: /api/jobs/:id/rankings
	container.RankingHandlers.RegisterRoutes(app, container.AuthMiddleware)

	// 7. Start Background Workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	container.IngestWorker.Start(workerCtx)

	// 8. Start Server with Graceful Shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		logx.Infof("Server listening on port %s", port)
		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c
	logx.Info("Shutting down server...")
	stopWorkers()

	if err := app.Shutdown(); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("Server exited")
}

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	// Fiber errors (e.g. route not found)
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
			"code":  fiberErr.Code,
		})
	}

	// Structured application errors
	var appErr *errx.Error
	if errors.As(err, &appErr) {
		return c.Status(appErr.HTTPStatus).JSON(appErr)
	}

	// Default unknown error
	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    "INTERNAL",
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}
