package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/Abraxas-365/sift/internal/extract"
	"github.com/Abraxas-365/sift/internal/match"
	"github.com/Abraxas-365/sift/pkg/fsx"
	"github.com/Abraxas-365/sift/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/sift/pkg/iam/auth"
	"github.com/Abraxas-365/sift/pkg/iam/auth/authinfra"
	"github.com/Abraxas-365/sift/pkg/logx"
	"github.com/Abraxas-365/sift/screening/job/jobapi"
	"github.com/Abraxas-365/sift/screening/job/jobinfra"
	"github.com/Abraxas-365/sift/screening/job/jobsrv"
	"github.com/Abraxas-365/sift/screening/ranking/rankingapi"
	"github.com/Abraxas-365/sift/screening/ranking/rankinginfra"
	"github.com/Abraxas-365/sift/screening/ranking/rankingsrv"
	"github.com/Abraxas-365/sift/screening/resume/resumeapi"
	"github.com/Abraxas-365/sift/screening/resume/resumeinfra"
	"github.com/Abraxas-365/sift/screening/resume/resumesrv"
	"github.com/Abraxas-365/sift/screening/resume/worker"
)

// Container holds all application dependencies
type Container struct {
	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	S3Client   *s3.Client
	FileSystem fsx.FileSystem

	// Scoring engine
	Engine *match.Engine

	// Services
	JobService     *jobsrv.JobService
	ResumeService  *resumesrv.Service
	RankingService *rankingsrv.Service
	TokenService   auth.TokenService
	APIKeyService  *auth.APIKeyService

	// Workers
	IngestWorker *worker.IngestWorker

	// API Handlers
	JobHandlers     *jobapi.Handlers
	ResumeHandlers  *resumeapi.Handlers
	RankingHandlers *rankingapi.Handlers

	// Middleware
	AuthMiddleware *auth.UnifiedAuthMiddleware
}

// NewContainer initializes the dependency injection container
func NewContainer() *Container {
	c := &Container{}
	c.initInfrastructure()
	c.initEngine()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	// 1. Database Connection
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASS")
	dbName := os.Getenv("DB_NAME")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPass, dbName)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	c.DB = db

	// 2. Redis Connection
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASS"),
		DB:       0,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// 3. AWS S3 Configuration
	awsRegion := os.Getenv("AWS_REGION")
	awsBucket := os.Getenv("AWS_BUCKET")
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(awsRegion))
	if err != nil {
		logx.Fatalf("unable to load SDK config, %v", err)
	}
	c.S3Client = s3.NewFromConfig(cfg)
	c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, awsBucket, "uploads")
}

func (c *Container) initEngine() {
	cfg := match.DefaultConfig()
	cfg.Weights.Skills = envFloat("SCORE_WEIGHT_SKILLS", cfg.Weights.Skills)
	cfg.Weights.Experience = envFloat("SCORE_WEIGHT_EXPERIENCE", cfg.Weights.Experience)
	cfg.Weights.Education = envFloat("SCORE_WEIGHT_EDUCATION", cfg.Weights.Education)
	cfg.Weights.Semantic = envFloat("SCORE_WEIGHT_SEMANTIC", cfg.Weights.Semantic)
	cfg.RenormalizeWeights = os.Getenv("SCORE_RENORMALIZE_WEIGHTS") == "true"
	cfg.MaxParallel = envInt("SCORE_MAX_PARALLEL", 0)

	engine, warnings, err := match.New(cfg)
	if err != nil {
		logx.Fatalf("Invalid scoring configuration: %v", err)
	}
	for _, w := range warnings {
		logx.Warnf("Scoring configuration: %s", w)
	}
	c.Engine = engine
}

func (c *Container) initServices() {
	// --- Repositories ---
	jobRepo := jobinfra.NewPostgresJobRepository(c.DB)
	resumeRepo := resumeinfra.NewPostgresResumeRepository(c.DB)
	ingestRepo := resumeinfra.NewPostgresIngestRepository(c.DB)
	rankingRepo := rankinginfra.NewPostgresRankingRepository(c.DB)
	apiKeyRepo := authinfra.NewPostgresAPIKeyRepository(c.DB)

	queueName := os.Getenv("INGEST_QUEUE_NAME")
	if queueName == "" {
		queueName = "resume_ingest"
	}
	queue := resumeinfra.NewRedisQueue(c.Redis, queueName)

	// --- Extractors ---
	jobAnalyzer := extract.NewJobAnalyzer(nil)
	resumeExtractor := extract.NewResumeExtractor(nil)

	// --- Auth ---
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logx.Warn("JWT_SECRET is not set, using default (unsafe for production)")
		jwtSecret = "super-secret-key-please-change-me-in-production"
	}
	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "sift"
	}
	c.TokenService = auth.NewJWTService([]byte(jwtSecret), issuer, 24*time.Hour)
	c.APIKeyService = auth.NewAPIKeyService(apiKeyRepo)
	c.AuthMiddleware = auth.NewUnifiedAuthMiddleware(c.TokenService, c.APIKeyService)

	// --- Domain Services ---
	c.JobService = jobsrv.NewJobService(jobRepo, jobAnalyzer)
	c.ResumeService = resumesrv.NewService(resumeRepo, ingestRepo, resumeExtractor, c.FileSystem, queue)
	c.RankingService = rankingsrv.NewService(c.Engine, jobRepo, resumeRepo, rankingRepo)

	// --- Workers ---
	workers := envInt("INGEST_WORKERS", 3)
	c.IngestWorker = worker.NewIngestWorker(c.ResumeService, queue, workers)

	// --- Handlers ---
	c.JobHandlers = jobapi.NewHandlers(c.JobService)
	c.ResumeHandlers = resumeapi.NewHandlers(c.ResumeService, c.FileSystem)
	c.RankingHandlers = rankingapi.NewHandlers(c.RankingService)
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logx.Warnf("Invalid value for %s: %q, using %v", key, raw, fallback)
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logx.Warnf("Invalid value for %s: %q, using %v", key, raw, fallback)
		return fallback
	}
	return v
}
