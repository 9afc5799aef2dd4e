package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/pdf_tools/internal/config"
	"github.com/Vovarama1992/pdf_tools/internal/delivery"
	"github.com/Vovarama1992/pdf_tools/internal/error_notificator"
	"github.com/Vovarama1992/pdf_tools/internal/infra"
	"github.com/Vovarama1992/pdf_tools/internal/pdf"
	"github.com/Vovarama1992/pdf_tools/internal/server"
	"github.com/Vovarama1992/pdf_tools/internal/uploads"
)

func main() {

	// =========================================================================
	// ENV / LOGGER
	// =========================================================================

	cfg := config.Load()

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// =========================================================================
	// INFRASTRUCTURE
	// =========================================================================

	engine := pdf.NewPdfcpuEngine()

	var pdfConverter pdf.PDFConverter
	switch cfg.Rasterizer {
	case "poppler":
		pdfConverter = pdf.NewPopplerPDFConverter()
	default:
		pdfConverter = pdf.NewFitzPDFConverter()
	}

	var store uploads.Store
	switch cfg.StorageBackend {
	case "s3":
		initCtx, initCancel := context.WithTimeout(ctx, 10*time.Second)
		s3Store, err := infra.NewS3Store(initCtx, cfg.S3, cfg.UploadDir)
		initCancel()
		if err != nil {
			log.Fatalf("failed to init s3: %v", err)
		}
		store = s3Store
	default:
		diskStore, err := uploads.NewDiskStore(cfg.UploadDir)
		if err != nil {
			log.Fatalf("failed to init upload dir: %v", err)
		}
		store = diskStore
	}

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	errInfra := error_notificator.NewInfra(zl, delivery.RequestIDFromContext)
	errService := error_notificator.NewService(errInfra)

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	pdfService := pdf.NewPDFService(pdfConverter, engine)
	uploadService := uploads.NewService(store)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()

	// HANDLERS
	pdfHandler := delivery.NewPDFHandler(pdfService, errService, zl, cfg.MaxUploadBytes, cfg.DefaultLockPassword)
	uploadHandler := delivery.NewUploadHandler(uploadService, errService, zl, cfg.MaxUploadBytes, cfg.PublicBaseURL)

	// ROUTES
	delivery.RegisterRoutes(
		r,
		pdfHandler,
		uploadHandler,
		cfg.CORSOrigins,
		cfg.RateLimitPerMinute,
	)

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	// =========================================================================
	// START SERVER
	// =========================================================================

	srv := server.NewHTTPServer(r, zl,
		server.WithAddress(":"+cfg.Port),
		server.WithTimeouts(5*time.Minute, 5*time.Minute, 2*time.Minute),
	)

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("rasterizer=%s storage=%s max_upload=%s", cfg.Rasterizer, cfg.StorageBackend, humanize.IBytes(uint64(cfg.MaxUploadBytes))),
		Service: "pdf_tools",
	})

	gfl := server.NewGracefulShutdown(ctx, cfg.ShutdownTimeout, zl)
	gfl.Go(srv.Start)
	gfl.MustClose(srv.Stop)

	if err := gfl.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
