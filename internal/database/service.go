package database

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/resilience"
)

// Recorder persists assessments off the request path
type Recorder struct {
	repo    *Repository
	metrics *monitoring.Metrics
	logger  *monitoring.Logger
	retry   resilience.RetryConfig
	timeout time.Duration

	wg sync.WaitGroup
}

// NewRecorder creates a recorder. metrics and logger may be nil.
func NewRecorder(repo *Repository, metrics *monitoring.Metrics, logger *monitoring.Logger) *Recorder {
	retry := resilience.DefaultRetryConfig()
	retry.RetryableErrors = isBusy

	return &Recorder{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		retry:   retry,
		timeout: 10 * time.Second,
	}
}

// isBusy reports whether err is a transient sqlite lock conflict
func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}

// Record saves a synchronously, retrying on lock conflicts
func (r *Recorder) Record(ctx context.Context, a *Assessment) error {
	start := time.Now()
	err := resilience.RetryWithConfig(ctx, r.retry, func() error {
		return r.repo.SaveAssessment(ctx, a)
	})

	if r.metrics != nil {
		r.metrics.RecordAssessmentSave(err)
	}
	if r.logger != nil {
		r.logger.StorageLogger("save_assessment", a.ID, time.Since(start), err)
	}
	return err
}

// RecordAsync saves a in the background; failures are logged and counted only
func (r *Recorder) RecordAsync(a *Assessment) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		_ = r.Record(ctx, a)
	}()
}

// Wait blocks until every pending background save has finished
func (r *Recorder) Wait() {
	r.wg.Wait()
}
