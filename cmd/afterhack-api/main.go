package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/afterhack/afterhack-api/internal/adapters/http"
	"github.com/afterhack/afterhack-api/internal/adapters/llm"
	firestorestore "github.com/afterhack/afterhack-api/internal/adapters/storage/firestore"
	memstore "github.com/afterhack/afterhack-api/internal/adapters/storage/memory"
	redisstore "github.com/afterhack/afterhack-api/internal/adapters/storage/redis"
	"github.com/afterhack/afterhack-api/internal/app/aisearch"
	"github.com/afterhack/afterhack-api/internal/app/chat"
	"github.com/afterhack/afterhack-api/internal/app/collab"
	"github.com/afterhack/afterhack-api/internal/app/profile"
	"github.com/afterhack/afterhack-api/internal/app/projects"
	"github.com/afterhack/afterhack-api/internal/config"
	"github.com/afterhack/afterhack-api/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Completion backend: OpenRouter in prod, Vertex on GCP, mock for dev
	var (
		completions domain.CompletionClient
		err         error
	)

	switch cfg.LLMBackend {
	case "mock":
		log.Println("[LLM] Using mock completion client")
		completions = llm.NewMockClient("This is a mock reply.")

	case "vertex":
		log.Printf("[LLM] Using Vertex AI (project=%s, location=%s)", cfg.GCPProjectID, cfg.GCPLocation)
		completions, err = llm.NewVertexClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.VertexModel)
		if err != nil {
			log.Fatalf("error initializing Vertex client: %v", err)
		}

	default:
		log.Printf("[LLM] Using OpenRouter (model=%s)", cfg.ModelName)
		completions, err = llm.NewOpenRouterClient(llm.OpenRouterConfig{
			APIKey:       cfg.OpenRouterKey,
			Endpoint:     cfg.OpenRouterURL,
			SiteURL:      cfg.SiteURL,
			SiteName:     cfg.SiteName,
			DefaultModel: cfg.ModelName,
			Timeout:      cfg.RequestTimeout,
		})
		if err != nil {
			log.Fatalf("error initializing OpenRouter client: %v", err)
		}
	}

	// Storage: Firestore or Memory
	var (
		userStore    domain.UserStore
		projectStore domain.ProjectStore
		requestStore domain.RequestStore
	)

	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
		defer fsStore.Close()

		// 1 store, implements 3 interfaces
		userStore = fsStore
		projectStore = fsStore
		requestStore = fsStore

	default:
		log.Println("[STORE] Using in-memory storage")
		userStore = memstore.NewUserStore()
		projectStore = memstore.NewProjectStore()
		requestStore = memstore.NewRequestStore()
	}

	// Chat transcripts: Redis when configured, otherwise in-memory
	var transcripts domain.TranscriptStore
	if cfg.RedisURL != "" {
		log.Println("[STORE] Using Redis transcript store")
		rdb, err := redisstore.NewTranscriptStore(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("error initializing Redis transcript store: %v", err)
		}
		defer rdb.Close()
		transcripts = rdb
	} else {
		transcripts = memstore.NewTranscriptStore()
	}

	handler := httpadapter.NewServer(
		aisearch.NewService(completions),
		chat.NewService(completions),
		transcripts,
		collab.NewService(requestStore, userStore, projectStore),
		projects.NewService(projectStore),
		profile.NewService(userStore),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("AfterHack API listening on port:", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
