package main

import (
	"context"
	"log"
	"os"

	"alfredoptarigan/resume-relevance/internal/config"
	"alfredoptarigan/resume-relevance/internal/repositories"
	"alfredoptarigan/resume-relevance/internal/services"
)

// Rebuilds the similarity index from every stored resume. Useful after
// changing the embedding provider or dimension, since persisted vectors are
// only comparable within one provider/dimension pair.
func main() {
	log.Println("🚀 Starting resume reindex...")

	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	resumeRepo := repositories.NewResumeRepository(db)

	var embedder services.Embedder
	if cfg.Gemini.APIKey != "" {
		geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini: %v", err)
		}
		embedder = services.NewGeminiEmbedder(geminiService, cfg.Vector.Dimension)
	} else {
		embedder = services.NewHashEmbedder(cfg.Vector.Dimension)
		log.Println("⚠️  GEMINI_API_KEY not set: reindexing with hash embeddings")
	}

	var index services.VectorIndex
	switch cfg.Vector.Backend {
	case "qdrant":
		index, err = services.NewQdrantVectorIndex(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			cfg.Vector.Dimension,
		)
	default:
		index, err = services.NewFileVectorIndex(cfg.Vector.Path, cfg.Vector.Dimension)
	}
	if err != nil {
		log.Fatalf("❌ Failed to initialize similarity index: %v", err)
	}

	resumes, err := resumeRepo.FindAll()
	if err != nil {
		log.Fatalf("❌ Failed to list resumes: %v", err)
	}

	ctx := context.Background()
	successCount := 0
	failCount := 0

	for _, resume := range resumes {
		vec, err := embedder.Embed(ctx, resume.RawText)
		if err != nil {
			log.Printf("❌ Failed to embed resume %s: %v", resume.ID, err)
			failCount++
			continue
		}

		meta := map[string]string{
			"resume_id": resume.ID.String(),
			"name":      resume.Name,
			"email":     resume.Email,
			"location":  resume.Location,
		}

		if err := index.Add(ctx, vec, meta); err != nil {
			log.Printf("❌ Failed to index resume %s: %v", resume.ID, err)
			failCount++
			continue
		}

		successCount++
		if successCount%25 == 0 {
			log.Printf("📊 Progress: %d/%d resumes indexed", successCount, len(resumes))
		}
	}

	log.Printf("📊 Reindex summary: %d indexed, %d failed", successCount, failCount)

	if failCount > 0 {
		os.Exit(1)
	}

	log.Println("✅ All resumes indexed successfully!")
}
