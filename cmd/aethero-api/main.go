package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/aetheroos/aethero-core/internal/adapters/http"
	"github.com/aetheroos/aethero-core/internal/adapters/llm"
	"github.com/aetheroos/aethero-core/internal/adapters/memorylog"
	memstore "github.com/aetheroos/aethero-core/internal/adapters/storage/memory"
	sqlitestore "github.com/aetheroos/aethero-core/internal/adapters/storage/sqlite"
	"github.com/aetheroos/aethero-core/internal/app/cabinet"
	"github.com/aetheroos/aethero-core/internal/app/conversation"
	"github.com/aetheroos/aethero-core/internal/config"
	"github.com/aetheroos/aethero-core/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// LLM: mock or Gemini
	var (
		llmClient domain.LLMClient
		err       error
	)
	if cfg.UseMockLLM {
		log.Println("[LLM] Using MOCK LLM client")
		llmClient = llm.NewMockLLM()
	} else {
		log.Printf("[LLM] Using Gemini LLM client (model=%s)", cfg.ModelName)
		llmClient, err = llm.NewGeminiClient(ctx, cfg.ModelName, cfg.APIKeyEnv)
		if err != nil {
			log.Fatalf("error initializing Gemini LLM client: %v", err)
		}
	}

	// Storage: memory or embedded sqlite
	var threadStore domain.ThreadStore
	switch cfg.StorageBackend {
	case "sqlite":
		log.Printf("[STORE] Using sqlite storage (path=%s)", cfg.SQLitePath)
		store, err := sqlitestore.NewStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("error initializing sqlite store: %v", err)
		}
		defer store.Close()
		threadStore = store
	default:
		log.Println("[STORE] Using in-memory storage")
		threadStore = memstore.NewThreadStore()
	}

	// Cabinet: manifest file or built-in roster
	cab := cabinet.Default()
	if cfg.ManifestPath != "" {
		log.Printf("[CABINET] Loading manifest %s", cfg.ManifestPath)
		cab, err = cabinet.LoadManifest(cfg.ManifestPath)
		if err != nil {
			log.Fatalf("error loading ministerial manifest: %v", err)
		}
	}
	if store, ok := threadStore.(*sqlitestore.Store); ok {
		for _, m := range cab.Ministers() {
			if err := store.SaveMinister(ctx, &m); err != nil {
				log.Printf("warning: persisting minister %s: %v", m.Name, err)
			}
		}
	}

	// Memory log sink
	sink, err := memorylog.NewFileSink(cfg.LogDir, cfg.LogQueueSize)
	if err != nil {
		log.Fatalf("error initializing memory log sink: %v", err)
	}
	defer sink.Close()

	svc := conversation.NewService(llmClient, threadStore, sink, cab)
	handler := httpadapter.NewServer(svc, sink, cfg.StorageBackend)

	port := ":" + cfg.Port
	log.Println("Aethero API listening on port:", port)
	if err := http.ListenAndServe(port, handler); err != nil {
		log.Fatal(err)
	}
}
