package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/superyhee/strands-deepsearch-agent/pkg/config"
	"github.com/superyhee/strands-deepsearch-agent/pkg/database"
	"github.com/superyhee/strands-deepsearch-agent/pkg/embeddings"
	"github.com/superyhee/strands-deepsearch-agent/pkg/memory"
	"github.com/superyhee/strands-deepsearch-agent/pkg/research"
	"github.com/superyhee/strands-deepsearch-agent/pkg/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx := context.Background()
	cfg := config.Load()

	console := slog.NewTextHandler(os.Stdout, nil)
	logger := slog.New(console)

	// The archive and research memory are optional; without DATABASE_URL
	// the server streams sessions without persisting them.
	var db *database.DB
	var mem *memory.Memory
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}

		logger = slog.New(server.NewTeeHandler(console, server.NewDBLogHandler(db, slog.LevelInfo)))

		if cfg.GoogleAPIKey != "" {
			if err := db.EnsureVectorExtension(ctx); err != nil {
				log.Fatalf("Failed to enable pgvector: %v", err)
			}
			if err := db.CreateEmbeddingsTable(ctx, cfg.CollectionName, embeddings.Dimensions); err != nil {
				log.Fatalf("Failed to create memory table: %v", err)
			}
			embedder, err := embeddings.NewGoogleEmbedder(ctx, cfg.EmbeddingModel, cfg.GoogleAPIKey)
			if err != nil {
				log.Fatalf("Failed to init embedder: %v", err)
			}
			store, err := memory.NewStore(db.Pool, cfg.CollectionName)
			if err != nil {
				log.Fatalf("Failed to init memory store: %v", err)
			}
			mem = memory.New(store, embedder, cfg.ChunkSize, cfg.ChunkOverlap, logger)
		} else {
			logger.Warn("research memory disabled, GOOGLE_API_KEY not set")
		}
	}

	var searcher research.MemorySearcher
	if mem != nil {
		searcher = mem
	}
	system, err := research.NewSystem(ctx, cfg, searcher, logger)
	if err != nil {
		log.Fatalf("Failed to init research system: %v", err)
	}

	svc := server.NewService(system, db, mem, logger)
	handler := server.NewHandler(svc)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	handler.RegisterRoutes(r)

	fmt.Printf("Server starting on port %s\n", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
