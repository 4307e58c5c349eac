package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Abraxas-365/sift/pkg/logx"
	"github.com/Abraxas-365/sift/screening/resume"
	"github.com/Abraxas-365/sift/screening/resume/resumesrv"
)

// IngestWorker consumes queued ingest jobs and runs them through the
// ingestion pipeline.
type IngestWorker struct {
	service *resumesrv.Service
	queue   resume.JobQueue
	workers int
}

func NewIngestWorker(service *resumesrv.Service, queue resume.JobQueue, workers int) *IngestWorker {
	return &IngestWorker{
		service: service,
		queue:   queue,
		workers: workers,
	}
}

func (w *IngestWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d ingest workers", w.workers)

	// Start delayed job mover
	go w.moveDelayedJobs(ctx)

	// Start worker pool
	for i := 0; i < w.workers; i++ {
		go w.processJobs(ctx, i)
	}
}

func (w *IngestWorker) processJobs(ctx context.Context, workerID int) {
	logx.Infof("Ingest worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			logx.Infof("Ingest worker %d stopping", workerID)
			return
		default:
			// Dequeue with a short timeout so shutdown is responsive
			data, err := w.queue.Dequeue(ctx, 5*time.Second)
			if err != nil {
				logx.Errorf("Ingest worker %d dequeue error: %v", workerID, err)
				continue
			}

			// Timeout with no jobs available
			if len(data) == 0 {
				continue
			}

			var job resume.IngestJob
			if err := json.Unmarshal(data, &job); err != nil {
				logx.Errorf("Ingest worker %d unmarshal error: %v (data: %s)", workerID, err, string(data))
				continue
			}

			logx.Infof("Ingest worker %d processing job: %s", workerID, job.ID)
			if err := w.service.ProcessIngestJob(ctx, &job); err != nil {
				logx.Errorf("Ingest worker %d job failed: %v", workerID, err)
			}
		}
	}
}

func (w *IngestWorker) moveDelayedJobs(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := w.queue.MoveDelayedToReady(ctx)
			if err != nil {
				logx.Errorf("Failed to move delayed ingest jobs: %v", err)
			} else if count > 0 {
				logx.Infof("Moved %d delayed ingest jobs to ready queue", count)
			}
		}
	}
}
