package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lmsplatform/internal/application/usecase"
	"lmsplatform/internal/config"
	"lmsplatform/internal/infrastructure/cache"
	"lmsplatform/internal/infrastructure/classifier"
	"lmsplatform/internal/infrastructure/repository"
	"lmsplatform/internal/infrastructure/security"
	"lmsplatform/internal/infrastructure/storage"
	"lmsplatform/internal/logger"
	"lmsplatform/internal/middleware"
	grpc_handler "lmsplatform/internal/transport/grpc"
	handlers "lmsplatform/internal/transport/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logg.Sync()

	if cfg.LogMode == "production" || cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := repository.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logg.Fatal("failed to connect to DB", "driver", cfg.DBDriver, "error", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		logg.Fatal("failed to migrate DB", "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logg.Fatal("failed to get sql.DB", "error", err)
	}
	defer sqlDB.Close()

	// Redis is optional; the components backed by it become no-ops without a client.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logg.Fatal("failed to connect to Redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer rdb.Close()
	} else {
		logg.Warn("REDIS_ADDR is empty, running without Redis")
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	tokenCache := cache.NewTokenCache(rdb, cfg.RefreshTTL)
	courseCache := cache.NewCourseCache(rdb, cfg.CourseCacheTTL)
	hasher := security.NewPasswordHasher(cfg.BcryptCost)
	tokenManager := security.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	files := storage.NewLocalStorage(cfg.UploadDir)
	predictor := classifier.NewClient(cfg.ClassifierURL, cfg.ClassifierTimeout)

	authUseCase := usecase.NewAuthUseCase(userRepo, tokenCache, hasher, tokenManager, logg)
	userUseCase := usecase.NewUserUseCase(userRepo, hasher)
	courseUseCase := usecase.NewCourseUseCase(courseRepo, userRepo, courseCache, logg)
	lessonUseCase := usecase.NewLessonUseCase(courseRepo, lessonRepo, courseCache, files, logg)
	progressUseCase := usecase.NewProgressUseCase(lessonRepo, progressRepo, time.Now, logg)
	discussionUseCase := usecase.NewDiscussionUseCase(discussionRepo, reactionRepo, userRepo, logg)
	commentUseCase := usecase.NewCommentUseCase(commentRepo, discussionRepo, reactionRepo, userRepo, logg)
	submissionUseCase := usecase.NewSubmissionUseCase(submissionRepo, courseRepo, userRepo, time.Now, logg)
	classifierUseCase := usecase.NewClassifierUseCase(predictor, logg)

	router := handlers.NewRouter(handlers.Handlers{
		Auth:       handlers.NewAuthHandler(authUseCase, logg),
		User:       handlers.NewUserHandler(userUseCase, files, logg),
		Course:     handlers.NewCourseHandler(courseUseCase, files, logg),
		Lesson:     handlers.NewLessonHandler(lessonUseCase, logg),
		Progress:   handlers.NewProgressHandler(progressUseCase, logg),
		Forum:      handlers.NewForumHandler(discussionUseCase, commentUseCase, files, logg),
		Submission: handlers.NewSubmissionHandler(submissionUseCase, files, logg),
		Classifier: handlers.NewClassifierHandler(classifierUseCase, logg),
	}, handlers.RouterOptions{
		AllowedOrigins: cfg.Origins(),
		UploadDir:      cfg.UploadDir,
		Ping:           sqlDB.PingContext,
	}, authUseCase, middleware.NewRateLimiter(rdb), logg)

	srv := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info("HTTP server is running", "addr", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("failed to serve HTTP", "error", err)
		}
	}()

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()

	var healthServer *grpc_handler.HealthServer
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", cfg.GRPCPort)
		if err != nil {
			logg.Fatal("failed to listen", "addr", cfg.GRPCPort, "error", err)
		}
		healthServer = grpc_handler.NewHealthServer(logg)
		go func() {
			if err := healthServer.Serve(lis); err != nil {
				logg.Error("gRPC server stopped", "error", err)
			}
		}()
		go healthServer.Watch(watchCtx, sqlDB.PingContext, cfg.HealthCheckInterval)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logg.Info("shutting down server...")
	stopWatch()
	if healthServer != nil {
		healthServer.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logg.Error("HTTP shutdown failed", "error", err)
	}
}
