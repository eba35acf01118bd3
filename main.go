package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Itish41/portfolio-cms/controller"
	"github.com/Itish41/portfolio-cms/initializers"
	"github.com/Itish41/portfolio-cms/middleware"
	"github.com/Itish41/portfolio-cms/realtime"
	services "github.com/Itish41/portfolio-cms/service"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := initializers.LoadEnv(); err != nil {
		log.Fatalf("[CRITICAL] Failed to load env: %s", err)
	}
	cfg, err := initializers.LoadConfig()
	if err != nil {
		log.Fatalf("[CRITICAL] Invalid configuration: %s", err)
	}
	initializers.SetupLogger(cfg.LogLevel)
	controller.ExposeErrors = cfg.ExposeErrors
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("[CRITICAL] Failed to initialize %s store: %s", cfg.StoreDriver, err)
	}
	defer st.close()

	media, uploadDir := newMediaStore(cfg)
	esClient, err := services.NewElasticsearchClient(cfg.ElasticsearchURL)
	if err != nil {
		log.Warnf("Elasticsearch disabled: %s", err)
		esClient = nil
	}
	search := services.NewSearchService(esClient, st.portfolio.Blogs)
	portfolio := services.NewPortfolio(st.portfolio, media, search)

	auth := services.NewAuthService(st.users, cfg.JWTSecret, cfg.JWTExpire)
	if err := auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("[CRITICAL] Failed to create admin account: %s", err)
	}

	hub := realtime.NewHub()
	go hub.Run(ctx)

	approvals := services.NewApprovalService(st.assignments, st.requests, st.standards, st.users,
		services.MultiNotifier{services.LogNotifier{}, hub})

	router := controller.NewRouter(controller.Deps{
		Portfolio:   portfolio,
		Auth:        auth,
		Standards:   services.NewStandardService(st.standards),
		Templates:   services.NewTemplateService(st.templates),
		Approvals:   approvals,
		Mail:        services.NewMailService(cfg.SMTP()),
		Hub:         hub,
		UploadDir:   uploadDir,
		CORSOrigins: cfg.CORSOrigins,
		GlobalLimit: middleware.GlobalRateLimiter,
		StrictLimit: middleware.StrictRateLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("Server running on port %s (%s store)", cfg.Port, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[CRITICAL] Server error: %s", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("Graceful shutdown failed: %s", err)
	}
}
