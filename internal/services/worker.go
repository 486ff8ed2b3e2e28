package services

import (
	"context"
	"sync"

	"alfredoptarigan/hr-console/internal/logger"
	"alfredoptarigan/hr-console/internal/models"
)

// BatchResult is the outcome of scoring one resume in a batch.
type BatchResult struct {
	Upload *models.Upload
	Result *models.ResumeScoreResult
	Err    error
}

// BatchScorer scores many resumes against one job description with a fixed
// number of concurrent workers. Each file is submitted exactly once.
type BatchScorer interface {
	Run(ctx context.Context, jdID string, uploads []*models.Upload) []BatchResult
}

type batchScorer struct {
	client      BackendClient
	preflight   PreflightService
	concurrency int
	log         logger.Logger
}

type batchJob struct {
	index  int
	upload *models.Upload
}

func NewBatchScorer(
	client BackendClient,
	preflight PreflightService,
	concurrency int,
	log logger.Logger,
) BatchScorer {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &batchScorer{
		client:      client,
		preflight:   preflight,
		concurrency: concurrency,
		log:         log,
	}
}

// Run returns results in the order of uploads.
func (b *batchScorer) Run(ctx context.Context, jdID string, uploads []*models.Upload) []BatchResult {
	results := make([]BatchResult, len(uploads))
	jobQueue := make(chan batchJob)

	var wg sync.WaitGroup
	b.log.Info("starting batch scoring", map[string]interface{}{
		"jd_id":   jdID,
		"files":   len(uploads),
		"workers": b.concurrency,
	})

	for i := 0; i < b.concurrency; i++ {
		wg.Add(1)
		go b.processJobs(ctx, i+1, jdID, jobQueue, results, &wg)
	}

enqueue:
	for i, upload := range uploads {
		select {
		case jobQueue <- batchJob{index: i, upload: upload}:
		case <-ctx.Done():
			for j := i; j < len(uploads); j++ {
				results[j] = BatchResult{Upload: uploads[j], Err: ctx.Err()}
			}
			break enqueue
		}
	}
	close(jobQueue)
	wg.Wait()

	return results
}

func (b *batchScorer) processJobs(
	ctx context.Context,
	workerID int,
	jdID string,
	jobQueue <-chan batchJob,
	results []BatchResult,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	for job := range jobQueue {
		log := b.log.WithFields(map[string]interface{}{
			"worker": workerID,
			"file":   job.upload.Filename,
		})

		if err := b.preflight.Check(job.upload, ResumePolicy); err != nil {
			log.Warn("resume rejected before upload", map[string]interface{}{"error": err.Error()})
			results[job.index] = BatchResult{Upload: job.upload, Err: err}
			continue
		}

		result, err := b.client.ScoreResume(ctx, job.upload, jdID)
		if err != nil {
			log.Warn("resume scoring failed", map[string]interface{}{"error": err.Error()})
		} else {
			log.Info("resume scored", nil)
		}
		results[job.index] = BatchResult{Upload: job.upload, Result: result, Err: err}
	}
}
