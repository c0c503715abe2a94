package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/meenakshirnair/Calcount/config"
	"github.com/meenakshirnair/Calcount/controllers"
	"github.com/meenakshirnair/Calcount/logger"
	"github.com/meenakshirnair/Calcount/routes"
	"github.com/meenakshirnair/Calcount/services"
)

func main() {
	// .env is a development convenience; deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	gin.SetMode(cfg.GinMode)

	db, err := config.OpenDB(cfg, log)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}

	ctx := context.Background()
	images, err := services.NewS3ImageStore(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.CDNBaseURL)
	if err != nil {
		log.Fatal("s3 client", zap.Error(err))
	}
	vision, err := services.NewVisionService(ctx, cfg.AWSRegion)
	if err != nil {
		log.Fatal("rekognition client", zap.Error(err))
	}

	loc := cfg.Location()
	entries := services.NewEntryService(db, loc)
	summaries := services.NewSummaryService(db, entries, loc)
	goals := services.NewGoalService(db)
	customFoods := services.NewCustomFoodService(db)
	auth := services.NewAuthService(db, cfg.JWTSecret)
	users := services.NewUserService(db)

	llm := services.NewLLMEstimator(cfg.LLMBaseURL, cfg.LLMToken, cfg.LLMModel)
	off := services.NewOpenFoodFactsClient(cfg.OpenFoodFactsURL)
	estimator := services.NewEstimator(llm, off)

	h := routes.Handlers{
		Auth:        controllers.NewAuthController(auth),
		User:        controllers.NewUserController(users),
		Entries:     controllers.NewEntryController(entries, summaries, estimator, images, vision, loc, log),
		Summaries:   controllers.NewSummaryController(summaries, goals, loc),
		Goals:       controllers.NewGoalController(goals),
		CustomFoods: controllers.NewCustomFoodController(customFoods),
		Food:        controllers.NewFoodController(estimator, log),
	}

	r := routes.SetupRouter(h, cfg.JWTSecret, cfg.AllowedOrigins, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
