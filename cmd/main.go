package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/go-utils/logger"

	"github.com/ncardozo/terapia/internal/audio"
	"github.com/ncardozo/terapia/internal/delivery"
	"github.com/ncardozo/terapia/internal/infra"
	"github.com/ncardozo/terapia/internal/patient"
	"github.com/ncardozo/terapia/internal/session"
	"github.com/ncardozo/terapia/internal/transcribe"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV INIT
	// =========================================================================

	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// STORAGE
	// =========================================================================

	registry, err := patient.NewFileRegistry(filepath.Join(dataDir, "patients.txt"))
	if err != nil {
		log.Fatalf("failed to open patient registry: %v", err)
	}

	var mirror session.ArtifactMirror
	if os.Getenv("S3_ENDPOINT") != "" {
		mirror, err = infra.NewS3Mirror()
		if err != nil {
			log.Fatalf("failed to init s3: %v", err)
		}
	}

	store := session.NewDirStore(filepath.Join(dataDir, "sessions"), mirror)

	// =========================================================================
	// TRANSCRIPTION
	// =========================================================================

	loader := transcribe.NewWhisperLoader()
	cache := transcribe.NewCache(loader)
	pipeline := transcribe.NewPipeline(cache)

	converter := audio.NewConverter()

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	patientService := patient.NewService(registry)
	sessionService := session.NewService(store, pipeline)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// HANDLERS
	patientHandler := delivery.NewPatientHandler(patientService, zl)
	sessionHandler := delivery.NewSessionHandler(sessionService, zl)
	transcribeHandler := delivery.NewTranscribeHandler(pipeline, zl)
	audioHandler := delivery.NewAudioHandler(converter, zl)

	// ROUTES
	delivery.RegisterRoutes(
		r,
		patientHandler,
		sessionHandler,
		transcribeHandler,
		audioHandler,
	)

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "terapia",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
