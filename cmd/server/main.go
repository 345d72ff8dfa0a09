package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/DealDesk-Platform/Document-Service/cmd/middleware"
	"github.com/DealDesk-Platform/Document-Service/internal/api"
	"github.com/DealDesk-Platform/Document-Service/internal/api/handlers/document"
	"github.com/DealDesk-Platform/Document-Service/internal/configuration"
	"github.com/DealDesk-Platform/Document-Service/internal/filestore"
	"github.com/DealDesk-Platform/Document-Service/internal/scanner"
	"github.com/DealDesk-Platform/Document-Service/internal/services"
	"github.com/DealDesk-Platform/Document-Service/internal/storage"
)

const serviceName = "document-service"

func main() {
	cfg := configuration.Load()

	if err := middleware.InitAuth(cfg.KeycloakUrl); err != nil {
		log.Fatalf("Failed to initialize OIDC auth: %v", err)
	}

	store := buildMetadataStore(cfg)
	files := buildFileStore(cfg)

	clam, err := scanner.NewClamAVScanner(cfg.CLAMAVURL)
	if err != nil {
		log.Fatalf("Failed to connect to ClamAV: %v", err)
	}

	var notifier services.Notifier = services.NoopNotifier{}
	if nats, err := services.ConnectNATS(cfg.NATSURL); err != nil {
		log.Printf("Warning: NATS unavailable, notifications disabled: %v", err)
	} else {
		notifier = nats
		defer nats.Close()
	}

	setupGracefulShutdown()

	if cfg.DDTrace {
		tracer.Start(tracer.WithService(serviceName))
		defer tracer.Stop()
	}

	r := gin.Default()
	if cfg.DDTrace {
		r.Use(gintrace.Middleware(serviceName))
	}

	docs := document.New(store, files, clam, notifier)
	api.RegisterRoutes(r, docs, middleware.RequireAuth())

	log.Printf("Server starting on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func buildMetadataStore(cfg *configuration.Config) storage.Store {
	if !cfg.Database.Enabled {
		log.Println("Warning: database disabled, using in-memory metadata store")
		return storage.NewMemoryStore()
	}

	store, err := storage.NewPostgresStore(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	return store
}

func buildFileStore(cfg *configuration.Config) filestore.FileStore {
	switch cfg.Upload.Backend {
	case "minio":
		files, err := filestore.NewMinioStore(
			cfg.MinIO.Endpoint,
			cfg.MinIO.AccessKey,
			cfg.MinIO.SecretKey,
			cfg.MinIO.BucketName,
			cfg.MinIO.UseSSL,
		)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO storage: %v", err)
		}
		return files
	default:
		files, err := filestore.NewLocalStore(cfg.Upload.Root)
		if err != nil {
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		return files
	}
}

func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Shutting down gracefully...")
		os.Exit(0)
	}()
}
