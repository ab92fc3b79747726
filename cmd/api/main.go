package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"hscrcportal/api/internal/app"
	"hscrcportal/api/internal/archive"
	"hscrcportal/api/internal/config"
	"hscrcportal/api/internal/email"
	"hscrcportal/api/internal/export"
	"hscrcportal/api/internal/search"
	"hscrcportal/api/internal/session"
	"hscrcportal/api/internal/sheet"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	creds, err := app.LoadCredentials(cfg.HospitalCredsPath, cfg.StaffCredsPath)
	if err != nil {
		log.Fatalf("credentials failed: %v", err)
	}

	if strings.TrimSpace(cfg.RedisURL) == "" {
		log.Fatalf("REDIS_URL is required for session storage")
	}
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis url invalid: %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancel()
		log.Fatalf("redis connection failed: %v", err)
	}
	cancel()
	sessions := session.NewRedisStoreWithClient(redisClient, cfg.SessionTTL)

	var rowStore sheet.Store
	switch cfg.StoreBackend {
	case "csv":
		log.Printf("Using CSV row store at %s", cfg.CSVPath)
		rowStore = sheet.NewCSVStore(cfg.CSVPath)
	default:
		db, err := sheet.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer db.Close()
		if err := sheet.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("schema setup failed: %v", err)
		}
		rowStore = sheet.NewPostgresStore(db)
	}
	if cfg.CacheTTL > 0 {
		rowStore = sheet.NewCachedStore(rowStore, redisClient, cfg.CacheTTL)
	}

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, search.NewScan(rowStore))

	var archiveService *archive.Uploader
	archiveCfg := archive.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	}
	if archiveCfg.IsConfigured() {
		archiveService, err = archive.NewUploader(ctx, archiveCfg)
		if err != nil {
			log.Printf("WARNING: report archive disabled: %v", err)
			archiveService = nil
		}
	}

	emailService := email.NewService(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	})

	service := app.New(cfg, creds, rowStore, sessions, emailService, export.NewService(), searchService, uploaderOrNil(archiveService))
	if meiliClient != nil {
		service.ReindexAll(ctx)
	}

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("HSCRC survey API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// uploaderOrNil keeps a nil *archive.Uploader from becoming a non-nil
// interface value inside the service.
func uploaderOrNil(u *archive.Uploader) app.Archiver {
	if u == nil {
		return nil
	}
	return u
}
