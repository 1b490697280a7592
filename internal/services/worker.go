package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-relevance/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueEvaluation(evalID uuid.UUID)
}

type worker struct {
	evalRepo         repositories.EvaluationRepository
	evaluatorService EvaluatorService
	queue            chan uuid.UUID
	concurrency      int
	wg               sync.WaitGroup
	stopChan         chan struct{}
}

func NewWorker(
	evalRepo repositories.EvaluationRepository,
	evaluatorService EvaluatorService,
	concurrency int,
) Worker {
	return &worker{
		evalRepo:         evalRepo,
		evaluatorService: evaluatorService,
		queue:            make(chan uuid.UUID, 100),
		concurrency:      concurrency,
		stopChan:         make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processEvaluations(ctx, i+1)
	}

	// Pick up evaluations left queued across restarts.
	w.wg.Add(1)
	go w.pollPendingEvaluations(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueEvaluation implements Worker.
func (w *worker) EnqueueEvaluation(evalID uuid.UUID) {
	select {
	case w.queue <- evalID:
		log.Printf("📥 Evaluation %s enqueued\n", evalID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue evaluation %s\n", evalID)
	}
}

func (w *worker) processEvaluations(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case evalID := <-w.queue:
			log.Printf("👷 Worker #%d processing evaluation %s\n", workerID, evalID)
			if err := w.evaluatorService.EvaluateCandidate(ctx, evalID); err != nil {
				log.Printf("❌ Worker #%d failed to process evaluation %s: %v\n", workerID, evalID, err)
			}
		}
	}
}

func (w *worker) pollPendingEvaluations(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pending, err := w.evalRepo.FindPendingJobs(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending evaluations: %v\n", err)
				continue
			}

			if len(pending) > 0 {
				log.Printf("📋 Found %d pending evaluations\n", len(pending))
			}

			for _, eval := range pending {
				w.EnqueueEvaluation(eval.ID)
			}
		}
	}
}
