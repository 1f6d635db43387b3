package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"outreach-metrics-service/internal/model"
	"outreach-metrics-service/internal/testdata/mockrepository"
)

type IngestWorkerTestSuite struct {
	suite.Suite
	mockRepo *mockrepository.Repository
	worker   *batchIngestWorker
}

func TestIngestWorkerSuite(t *testing.T) {
	suite.Run(t, new(IngestWorkerTestSuite))
}

func (s *IngestWorkerTestSuite) SetupTest() {
	s.mockRepo = new(mockrepository.Repository)
}

func (s *IngestWorkerTestSuite) TestBatchSizeTrigger() {
	batchSize := 5
	flushInterval := 1 * time.Hour // long enough that only the size trigger fires

	var wg sync.WaitGroup
	wg.Add(1)

	s.mockRepo.On("CreateEventBatch", mock.Anything, mock.MatchedBy(func(events []model.EmailEvent) bool {
		return len(events) == batchSize
	})).Run(func(args mock.Arguments) {
		wg.Done()
	}).Return(nil)

	s.worker = NewBatchIngestWorker(s.mockRepo, 10, batchSize, flushInterval)
	defer s.worker.Shutdown()

	for i := 0; i < batchSize; i++ {
		s.worker.Enqueue(model.EmailEvent{WorkspaceID: "ws-1", EventType: model.EventSent})
	}

	s.waitForAsyncOp(&wg, "Batch Size Trigger")
}

func (s *IngestWorkerTestSuite) TestIntervalTrigger() {
	batchSize := 10
	flushInterval := 50 * time.Millisecond

	var wg sync.WaitGroup
	wg.Add(1)

	eventsToSend := 3
	s.mockRepo.On("CreateEventBatch", mock.Anything, mock.MatchedBy(func(events []model.EmailEvent) bool {
		return len(events) == eventsToSend
	})).Run(func(args mock.Arguments) {
		wg.Done()
	}).Return(nil)

	s.worker = NewBatchIngestWorker(s.mockRepo, 10, batchSize, flushInterval)
	defer s.worker.Shutdown()

	for i := 0; i < eventsToSend; i++ {
		s.worker.Enqueue(model.EmailEvent{WorkspaceID: "ws-1", EventType: model.EventDelivered})
	}

	s.waitForAsyncOp(&wg, "Interval Trigger")
}

func (s *IngestWorkerTestSuite) TestShutdownFlushesRemainder() {
	batchSize := 10
	flushInterval := 1 * time.Hour

	eventsToSend := 4
	s.mockRepo.On("CreateEventBatch", mock.Anything, mock.MatchedBy(func(events []model.EmailEvent) bool {
		return len(events) == eventsToSend
	})).Return(nil)

	s.worker = NewBatchIngestWorker(s.mockRepo, 10, batchSize, flushInterval)

	for i := 0; i < eventsToSend; i++ {
		s.worker.Enqueue(model.EmailEvent{WorkspaceID: "ws-1", EventType: model.EventSent})
	}

	// blocks until the queue is drained
	s.worker.Shutdown()

	s.mockRepo.AssertExpectations(s.T())
}

func (s *IngestWorkerTestSuite) TestInsertFailureDoesNotStopTheLoop() {
	var wg sync.WaitGroup
	wg.Add(1)

	s.mockRepo.On("CreateEventBatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { wg.Done() }).
		Return(context.DeadlineExceeded)

	s.worker = NewBatchIngestWorker(s.mockRepo, 10, 1, 1*time.Hour)
	defer s.worker.Shutdown()

	s.worker.Enqueue(model.EmailEvent{WorkspaceID: "ws-1", EventType: model.EventSent})

	s.waitForAsyncOp(&wg, "Insert Failure")
}

func (s *IngestWorkerTestSuite) waitForAsyncOp(wg *sync.WaitGroup, testName string) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.mockRepo.AssertExpectations(s.T())
	case <-time.After(1 * time.Second):
		s.T().Fatalf("%s timed out waiting for the worker", testName)
	}
}
