package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"alfredoptarigan/hr-console/internal/config"
	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/logger"
	"alfredoptarigan/hr-console/internal/models"
	"alfredoptarigan/hr-console/internal/observability"
	"alfredoptarigan/hr-console/internal/render"
	"alfredoptarigan/hr-console/internal/services"
)

func main() {
	dir := flag.String("dir", os.Getenv("BATCH_DIR"), "folder containing resumes")
	jdID := flag.String("jd", os.Getenv("BATCH_JD_ID"), "id of the job description to score against")
	flag.Parse()

	if *dir == "" || *jdID == "" {
		log.Fatalf("❌ Usage: batch_score -dir ./resumes -jd 1")
	}

	log.Println("🚀 Starting batch resume scoring...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	appLog := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	defer appLog.Sync()

	// Initialize services
	obs := observability.New("hr-console-batch")
	defer obs.Shutdown()

	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}
	client := services.NewBackendClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout, obs, appLog)
	scorer := services.NewBatchScorer(client, services.NewPreflightService(), cfg.Batch.Concurrency, appLog)

	paths, err := resumeFiles(*dir)
	if err != nil {
		log.Fatalf("❌ Failed to read %s: %v", *dir, err)
	}
	if len(paths) == 0 {
		log.Fatalf("❌ No resumes found in %s", *dir)
	}

	uploads := make([]*models.Upload, 0, len(paths))
	failCount := 0
	for _, path := range paths {
		upload, err := stage(storageService, path)
		if err != nil {
			log.Printf("   ❌ %s: %s", filepath.Base(path), apperrors.UserMessage(err))
			failCount++
			continue
		}
		uploads = append(uploads, upload)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("📄 Scoring %d resumes against JD %s", len(uploads), *jdID)
	results := scorer.Run(ctx, *jdID, uploads)
	for _, upload := range uploads {
		storageService.Discard(upload)
	}

	successCount := 0
	for _, res := range results {
		if res.Err != nil {
			log.Printf("   ❌ %s: %s", res.Upload.Filename, apperrors.UserMessage(res.Err))
			failCount++
			continue
		}

		var scores models.ResumeScores
		if res.Result.Scores != nil {
			scores = *res.Result.Scores
		}
		log.Printf("   ✅ %s: relevance %s, ats %s, readability %s",
			res.Upload.Filename,
			render.Scalar(scores.RelevanceScore),
			render.Scalar(scores.ATSScore),
			render.Scalar(scores.ReadabilityScore),
		)
		successCount++
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Batch Summary:")
	log.Printf("   ✅ Scored: %d resumes", successCount)
	log.Printf("   ❌ Failed: %d resumes", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some resumes could not be scored. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All resumes scored successfully!")
}

func resumeFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, allowed := range services.ResumePolicy.Extensions {
			if ext == allowed {
				paths = append(paths, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func stage(storage services.StorageService, path string) (*models.Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return storage.Stage(f, filepath.Base(path), "batch")
}
