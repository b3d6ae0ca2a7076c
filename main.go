package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/greenexweb/kapturasync/config"
	"github.com/greenexweb/kapturasync/database"
	"github.com/greenexweb/kapturasync/engine"
	"github.com/greenexweb/kapturasync/handlers"
	"github.com/greenexweb/kapturasync/realtime"
	"github.com/greenexweb/kapturasync/repository"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		log.Fatalf("FATAL: Failed to create database directory: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	attendanceRepo := repository.NewAttendanceRepository(db, sqlDB)
	catalogRepo := repository.NewCatalogRepository(db)

	hub := realtime.NewHub()
	go hub.Run()

	window := time.Duration(cfg.DuplicateWindowHours) * time.Hour
	guard := engine.NewDuplicateGuard(attendanceRepo, window)
	captureService := engine.NewCaptureService(attendanceRepo, catalogRepo, guard, hub)

	syncTimeout := time.Duration(cfg.SyncTimeoutSeconds) * time.Second
	remote := engine.NewClient(cfg.APIBaseURL, syncTimeout)
	connectivity := engine.NewDialProbe(cfg.APIBaseURL, 3*time.Second)
	orchestrator := engine.NewOrchestrator(attendanceRepo, catalogRepo, remote, connectivity, hub)

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Remote authority: %s", cfg.APIBaseURL)
	log.Printf("Duplicate window: %dh", cfg.DuplicateWindowHours)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	attendanceHandler := &handlers.AttendanceHandler{Ledger: attendanceRepo, Capture: captureService}
	catalogHandler := &handlers.CatalogHandler{Catalog: catalogRepo}
	syncHandler := &handlers.SyncHandler{Orchestrator: orchestrator, Timeout: syncTimeout}

	r.Route("/api", func(r chi.Router) {
		r.Route("/attendances", func(r chi.Router) {
			r.Get("/pending", attendanceHandler.ListPending)
			r.Get("/pending/count", attendanceHandler.PendingCount)
			r.Delete("/", attendanceHandler.Purge)
		})

		r.Post("/captures", attendanceHandler.SubmitCapture)
		r.Post("/sync", syncHandler.RunSync)

		r.Get("/locacions", catalogHandler.ListLocations)
		r.Get("/personals", catalogHandler.ListPersons)
	})

	r.Get("/ws", hub.ServeWS)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * syncTimeout,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
