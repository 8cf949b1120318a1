package reconciler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Photo-Storage/internal/usecase"
	"github.com/andreyxaxa/Photo-Storage/pkg/logger"
)

// Reconciler periodically re-enqueues generation requests for photos that are
// old enough and still have no thumbnail, covering uploads whose request never
// reached the queue.
type Reconciler struct {
	photo  usecase.PhotoUseCase
	logger logger.Interface

	interval     time.Duration
	minAge       time.Duration
	batchTimeout time.Duration
	batchSize    int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

func New(
	photo usecase.PhotoUseCase,
	l logger.Interface,
	interval time.Duration,
	minAge time.Duration,
	batchTimeout time.Duration,
	batchSize int,
) *Reconciler {
	return &Reconciler{
		photo:        photo,
		logger:       l,
		interval:     interval,
		minAge:       minAge,
		batchTimeout: batchTimeout,
		batchSize:    batchSize,
	}
}

func (r *Reconciler) Start(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return fmt.Errorf("Reconciler - Start - worker already started")
	}

	r.ctx, r.cancel = context.WithCancel(ctx)

	// воркер повторной постановки задач на превью
	r.worker(r.interval, func() {
		batchCtx, batchCancel := context.WithTimeout(r.ctx, r.batchTimeout)
		r.reconcileBatch(batchCtx)
		batchCancel()
	})

	return nil
}

func (r *Reconciler) reconcileBatch(ctx context.Context) {
	sent, err := r.photo.EnqueueMissingThumbnails(ctx, r.minAge, r.batchSize)
	if err != nil {
		r.logger.Error(err, "Reconciler - reconcileBatch - r.photo.EnqueueMissingThumbnails")
	}

	if sent > 0 {
		r.logger.Info("Reconciler - reconcileBatch - re-enqueued %d photos without thumbnail", sent)
	}
}

func (r *Reconciler) worker(interval time.Duration, task func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				task()
			}
		}
	}()
}

func (r *Reconciler) Shutdown(ctx context.Context) error {
	if !r.started.Load() {
		return nil
	}

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})

	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("Reconciler - Shutdown: %w", ctx.Err())
	}
}
