// Package reembed runs batch re-embed jobs: a background worker for
// refreshing a set of vouchers' vectors (e.g. after an embedding
// model version bump), pollable by job ID.
package reembed

import (
	"context"
	"sync"
	"time"

	"github.com/vnvoucher/discovery/app/models"
	"github.com/vnvoucher/discovery/internal/store"
	"go.uber.org/zap"
)

const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// JobStatus is the pollable state of one re-embed run.
type JobStatus struct {
	JobID              string  `json:"job_id"`
	Status             string  `json:"status"`
	Progress           float64 `json:"progress"`
	Processed          int     `json:"processed"`
	Total              int     `json:"total"`
	Failed             int     `json:"failed"`
	EstimatedRemaining int     `json:"estimated_remaining"`
	Message            string  `json:"message"`
}

// Job runs a batch re-embed over a fixed set of vouchers in the
// background, clearing their cached embeddings first so Store.Upsert
// recomputes every field from scratch.
type Job struct {
	store  *store.Store
	logger *zap.Logger

	mu       sync.Mutex
	statuses map[string]*JobStatus
}

func New(s *store.Store, logger *zap.Logger) *Job {
	return &Job{store: s, logger: logger, statuses: make(map[string]*JobStatus)}
}

// Start launches a re-embed run for vouchers under jobID and returns
// immediately; progress is available via Status. Each voucher has its
// embeddings cleared before being handed to Store.Upsert, so every
// field (and the combined vector) is recomputed rather than reused.
func (j *Job) Start(jobID string, vouchers []models.Voucher) {
	j.mu.Lock()
	j.statuses[jobID] = &JobStatus{JobID: jobID, Status: StatusPending, Total: len(vouchers)}
	j.mu.Unlock()

	go j.run(jobID, vouchers)
}

func (j *Job) run(jobID string, vouchers []models.Voucher) {
	j.setStatus(jobID, func(s *JobStatus) { s.Status = StatusRunning })

	start := time.Now()
	processed, failed := 0, 0

	for _, v := range vouchers {
		v.Embeddings = nil

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := j.store.Upsert(ctx, v)
		cancel()

		if err != nil {
			failed++
			j.logger.Warn("re-embed failed for voucher", zap.String("voucher_id", v.ID), zap.Error(err))
		}
		processed++

		elapsed := time.Since(start)
		perItem := elapsed / time.Duration(processed)
		remaining := perItem * time.Duration(len(vouchers)-processed)

		j.setStatus(jobID, func(s *JobStatus) {
			s.Processed = processed
			s.Failed = failed
			s.Progress = float64(processed) / float64(len(vouchers))
			s.EstimatedRemaining = int(remaining.Seconds())
		})
	}

	j.setStatus(jobID, func(s *JobStatus) {
		if failed > 0 {
			s.Status = StatusFailed
			s.Message = "một số voucher không thể re-embed"
		} else {
			s.Status = StatusDone
			s.Message = "hoàn thành"
		}
	})
}

func (j *Job) setStatus(jobID string, mutate func(*JobStatus)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if s, ok := j.statuses[jobID]; ok {
		mutate(s)
	}
}

// Status returns the current status of jobID, or false if unknown.
func (j *Job) Status(jobID string) (JobStatus, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	s, ok := j.statuses[jobID]
	if !ok {
		return JobStatus{}, false
	}
	return *s, true
}
