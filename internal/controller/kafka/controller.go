package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Photo-Storage/internal/infrastructure"
	"github.com/andreyxaxa/Photo-Storage/internal/usecase"
	"github.com/andreyxaxa/Photo-Storage/pkg/logger"
	"github.com/andreyxaxa/Photo-Storage/pkg/types/errs"
	"github.com/segmentio/kafka-go"
)

const _readErrorBackoff = time.Second

type ThumbnailController struct {
	thumb  usecase.ThumbnailUseCase
	queue  infrastructure.EventsQueue
	logger logger.Interface

	commitTimeout  time.Duration
	processTimeout time.Duration

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

func New(
	thumb usecase.ThumbnailUseCase,
	queue infrastructure.EventsQueue,
	l logger.Interface,
	commitTimeout time.Duration,
	processTimeout time.Duration,
	workers int,
) *ThumbnailController {
	if workers < 1 {
		workers = 1
	}

	return &ThumbnailController{
		thumb:          thumb,
		queue:          queue,
		logger:         l,
		commitTimeout:  commitTimeout,
		processTimeout: processTimeout,
		workers:        workers,
	}
}

func (c *ThumbnailController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("ThumbnailController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	// у каждого воркера свой канал: партиция всегда попадает к одному воркеру,
	// поэтому оффсеты внутри партиции коммитятся по порядку
	tasks := make([]chan kafka.Message, c.workers)
	for i := range tasks {
		tasks[i] = make(chan kafka.Message, 2)
	}

	// запускаем воркеры
	for i := range tasks {
		c.wg.Add(1)
		go c.worker(tasks[i])
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			for _, ch := range tasks {
				close(ch)
			}
		}()

		for {
			select {
			case <-c.ctx.Done():
				return
			default:
				// 1. читаем из кафки
				event, err := c.queue.ReadEvent(c.ctx)
				if err != nil {
					if c.ctx.Err() != nil {
						return
					}
					c.logger.Error(err, "ThumbnailController - Start - c.queue.ReadEvent")

					// не крутимся вхолостую, пока брокер недоступен
					select {
					case <-time.After(_readErrorBackoff):
					case <-c.ctx.Done():
						return
					}
					continue
				}

				// 2. отправляем в канал для воркеров
				select {
				case tasks[partitionWorker(event.Partition, c.workers)] <- event:
				case <-c.ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}

func (c *ThumbnailController) worker(tasks <-chan kafka.Message) {
	defer c.wg.Done()

	// читаем канал, пока не закроется
	for event := range tasks {
		// после остановки ничего не коммитим: иначе оффсет уйдёт дальше незавершённого сообщения
		if c.ctx.Err() != nil {
			continue
		}
		c.handleEvent(event)
	}
}

func partitionWorker(partition, workers int) int {
	if partition < 0 {
		partition = -partition
	}

	return partition % workers
}

// handleEvent runs one request through the pipeline and settles it on the queue.
// A panic counts as a transient failure.
func (c *ThumbnailController) handleEvent(event kafka.Message) {
	err := c.safeProcess(event)
	if err == nil || errs.IsPermanent(err) {
		if err != nil {
			c.logger.Warn("ThumbnailController - handleEvent - dropping key=%s: %v", string(event.Key), err)
		}

		// коммитим обработанное и безнадёжное
		commitCtx, commitCancel := context.WithTimeout(context.WithoutCancel(c.ctx), c.commitTimeout)
		ackErr := c.queue.Ack(commitCtx, event)
		commitCancel()
		if ackErr != nil {
			c.logger.Error(ackErr, "ThumbnailController - handleEvent - c.queue.Ack")
		}

		return
	}

	c.logger.Error(err, "ThumbnailController - handleEvent - redelivering key=%s", string(event.Key))

	// ждём и возвращаем в очередь; при остановке сообщение остаётся незакоммиченным
	nackErr := c.queue.Nack(c.ctx, event, err)
	if nackErr != nil && !errors.Is(nackErr, context.Canceled) {
		c.logger.Error(nackErr, "ThumbnailController - handleEvent - c.queue.Nack")
	}
}

func (c *ThumbnailController) safeProcess(event kafka.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ThumbnailController - process - panic: %v", r)
		}
	}()

	return c.process(event)
}

func (c *ThumbnailController) process(event kafka.Message) error {
	req, err := decodePayload(event.Value)
	if err != nil {
		return fmt.Errorf("ThumbnailController - process: %w", err)
	}

	processCtx, processCancel := context.WithTimeout(c.ctx, c.processTimeout)
	defer processCancel()

	err = c.thumb.Generate(processCtx, req)
	if err != nil {
		return fmt.Errorf("ThumbnailController - process - c.thumb.Generate: %w", err)
	}

	return nil
}

func (c *ThumbnailController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		err := c.queue.Close()
		if err != nil {
			c.logger.Error(err, "ThumbnailController - Shutdown - c.queue.Close")
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("ThumbnailController - Shutdown: %w", ctx.Err())
	}
}
