package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/auth"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/categories"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/config"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/database"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/logging"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/media"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/models"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/ratelimit"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/server"
)

// @title LuvWhisky API
// @version 1.0
// @description Whisky tasting-note blog with a single-admin editor.

// @BasePath /api

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name admin-session

const shutdownTimeout = 10 * time.Second

func main() {
	hashPassword := flag.Bool("hash-password", false, "read a password from stdin and print its bcrypt hash")
	flag.Parse()

	if *hashPassword {
		if err := printPasswordHash(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	for _, w := range cfg.Warnings() {
		logging.Warn().Msg(w)
	}

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	if err := database.Connect(cfg.Database.Path); err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to connect to database")
	}
	db := database.GetDB()

	if err := models.AutoMigrate(db); err != nil {
		logging.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logging.Info().Msg("Database migrations completed")

	if cfg.Database.SeedCategories {
		created, err := categories.NewService(db).SeedDefaults(context.Background())
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed categories")
		}
		if created > 0 {
			logging.Info().Int("created", created).Msg("Seeded default categories")
		}
	}

	store, uploadsDir, err := newMediaStore(cfg.Media)
	if err != nil {
		logging.Fatal().Err(err).Str("backend", cfg.Media.Backend).Msg("Failed to set up media storage")
	}

	sessions, err := auth.NewSessionManager(auth.SessionOptions{
		Secret:       []byte(cfg.Auth.SessionSecret),
		TTL:          cfg.Auth.SessionTTL,
		CookieName:   cfg.Auth.CookieName,
		SecureCookie: cfg.Server.IsProduction(),
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create session manager")
	}

	limiter := ratelimit.New(cfg.Auth.LoginRatePerMinute, time.Minute, cfg.Auth.LoginBurst)
	defer limiter.Stop()

	router := server.New(server.Options{
		DB:             db,
		Credential:     auth.NewCredential(cfg.Auth.AdminPassword),
		Sessions:       sessions,
		LoginLimiter:   limiter,
		Media:          store,
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
		UploadsDir:     uploadsDir,
		BaseURL:        cfg.Server.BaseURL,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logging.Info().
			Int("port", cfg.Server.Port).
			Str("environment", cfg.Server.Environment).
			Str("media_backend", cfg.Media.Backend).
			Msg("Starting LuvWhisky server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logging.Info().Str("signal", sig.String()).Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Server forced to shut down")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logging.Info().Msg("Server stopped")
}

// newMediaStore builds the configured store. For the local backend it also
// returns the directory to serve at /uploads.
func newMediaStore(cfg config.MediaConfig) (media.Store, string, error) {
	switch strings.ToLower(cfg.Backend) {
	case "s3":
		store, err := media.NewS3Store(media.S3Options{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
			PublicURL: cfg.S3.PublicURL,
		})
		return store, "", err
	default:
		store, err := media.NewLocalStore(cfg.LocalDir, cfg.PublicURL)
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil
	}
}

func printPasswordHash() error {
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("password cannot be empty")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	fmt.Println(hash)
	return nil
}
