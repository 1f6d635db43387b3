package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"outreach-metrics-service/internal/model"
	"outreach-metrics-service/internal/repository"
)

// IngestWorker buffers ingested events and flushes them in batches.
type IngestWorker interface {
	Enqueue(event model.EmailEvent)
	Shutdown()
}

type batchIngestWorker struct {
	repo          repository.MetricsRepository
	eventQueue    chan model.EmailEvent
	batchSize     int
	flushInterval time.Duration
	wg            sync.WaitGroup
}

// NewBatchIngestWorker starts a background loop that flushes buffered
// events when the batch fills or the interval elapses, whichever first.
func NewBatchIngestWorker(repo repository.MetricsRepository, bufferSize, batchSize int, interval time.Duration) *batchIngestWorker {
	worker := &batchIngestWorker{
		repo:          repo,
		eventQueue:    make(chan model.EmailEvent, bufferSize),
		batchSize:     batchSize,
		flushInterval: interval,
	}
	worker.wg.Add(1)
	go worker.startLoop()
	return worker
}

// Enqueue blocks when the buffer is full rather than dropping events.
func (w *batchIngestWorker) Enqueue(event model.EmailEvent) {
	w.eventQueue <- event
}

// Shutdown drains the queue and waits for the final flush.
func (w *batchIngestWorker) Shutdown() {
	close(w.eventQueue)
	w.wg.Wait()
}

func (w *batchIngestWorker) startLoop() {
	defer w.wg.Done()

	var batch []model.EmailEvent
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.eventQueue:
			if !ok {
				if len(batch) > 0 {
					w.flush(batch)
				}
				return
			}

			batch = append(batch, event)
			if len(batch) >= w.batchSize {
				w.flush(batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = nil
			}
		}
	}
}

func (w *batchIngestWorker) flush(events []model.EmailEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.repo.CreateEventBatch(ctx, events); err != nil {
		slog.Error("ingest worker: batch insert failed", "count", len(events), "err", err)
		return
	}
	slog.Debug("ingest worker: batch flushed", "count", len(events))
}
