package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), appConfig, appLogger)
	},
}

func serve(ctx context.Context, cfg Config, logger *slog.Logger) error {
	// 1) DB
	db, err := OpenDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := AutoMigrate(db); err != nil {
		return err
	}

	// 2) Seed (if empty)
	if err := seedIfEmpty(ctx, db, cfg.SeedFile, logger); err != nil {
		return err
	}

	// 3) Router
	store := NewGormStore(db)
	r := NewRouter(store, cfg, logger)

	// 4) Server
	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "page_size", cfg.PageSize, "origins", cfg.AllowedOrigins)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func seedIfEmpty(ctx context.Context, db *gorm.DB, path string, logger *slog.Logger) error {
	isEmpty, err := IsQuestionTableEmpty(db)
	if err != nil || !isEmpty {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		logger.Info("no seed file; running with empty DB", "path", path)
		return nil
	}
	if err := SeedFromJSON(ctx, NewGormStore(db), path); err != nil {
		return err
	}
	logger.Info("seeded database", "path", path)
	return nil
}

// NewRouter wires middleware and routes onto a fresh gin engine.
func NewRouter(store Store, cfg Config, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(RequestLogger(logger), gin.CustomRecovery(recoveryHandler))
	r.Use(cors.New(corsConfig(cfg)))
	r.NoRoute(notFoundHandler)
	r.NoMethod(methodNotAllowedHandler)

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	selector := NewQuizSelector(store, cfg.QuizSeed)

	r.GET("/categories", ListCategories(store))
	r.GET("/categories/:id/questions", CategoryQuestions(store, cfg.PageSize))

	r.GET("/questions", ListQuestions(store, cfg.PageSize))
	r.GET("/questions/:id", GetQuestion(store))
	r.DELETE("/questions/:id", DeleteQuestion(store))
	r.POST("/questions/new", CreateQuestion(store))
	r.POST("/questions/search", SearchQuestions(store, cfg.PageSize))

	r.POST("/quizzes/play", PlayQuiz(selector))

	return r
}

func corsConfig(cfg Config) cors.Config {
	cc := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if cfg.allowsAllOrigins() {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowedOrigins
	}
	return cc
}
