package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	notificationDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/notification"
)

var ErrQueueFull = errors.New("notification queue full")

const (
	deliveryTimeout = 30 * time.Second
	drainTimeout    = 5 * time.Second
)

type Worker struct {
	ID         int
	WorkerPool chan chan Job
	JobChannel chan Job
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Job, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, process func(Job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-ctx.Done():
				w.Logger.Debug("notification worker shutting down", "worker_id", w.ID)
				return
			}

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker delivering notification", "worker_id", w.ID, "notification_id", job.Notification.ID)
				process(job)
			case <-ctx.Done():
				w.Logger.Debug("notification worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type DispatcherConfig struct {
	MaxWorkers   int
	JobQueueSize int
}

// Dispatcher hands persisted notifications to their channel's sender on a
// fixed pool of workers.
type Dispatcher struct {
	senders  map[notificationDatamodel.Channel]Sender
	fallback Sender
	logger   *slog.Logger

	jobQueue   chan Job
	workerPool chan chan Job
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
	stopOnce   sync.Once
}

// NewDispatcher starts the pool. Channels without a sender fall back to a
// LogSender.
func NewDispatcher(cfg DispatcherConfig, senders map[notificationDatamodel.Channel]Sender, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	jobQueueSize := cfg.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	d := &Dispatcher{
		senders:    senders,
		fallback:   LogSender{Logger: logger},
		logger:     logger,
		jobQueue:   make(chan Job, jobQueueSize),
		workerPool: make(chan chan Job, maxWorkers),
		maxWorkers: maxWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
	d.start()
	return d
}

func (d *Dispatcher) start() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			NewWorker(i, d.workerPool, d.logger).Start(d.ctx, &d.wg, d.deliver)
		}

		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("notification worker pool started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case job := <-d.jobQueue:
			select {
			case jobChannel := <-d.workerPool:
				select {
				case jobChannel <- job:
				case <-d.ctx.Done():
					return
				}
			case <-d.ctx.Done():
				return
			}
		case <-d.ctx.Done():
			return
		}
	}
}

// Enqueue never blocks. A full queue drops the job with ErrQueueFull.
func (d *Dispatcher) Enqueue(job Job) error {
	if job.Notification == nil {
		return errors.New("notification job without notification")
	}
	select {
	case <-d.ctx.Done():
		return errors.New("notification dispatcher stopped")
	default:
	}

	select {
	case d.jobQueue <- job:
		return nil
	default:
		d.logger.Warn("notification queue full, dropping",
			"notification_id", job.Notification.ID,
			"queue_capacity", cap(d.jobQueue))
		return ErrQueueFull
	}
}

func (d *Dispatcher) deliver(job Job) {
	sender, ok := d.senders[job.Notification.Channel]
	if !ok || sender == nil {
		sender = d.fallback
	}

	ctx, cancel := context.WithTimeout(d.ctx, deliveryTimeout)
	defer cancel()

	if err := sender.Send(ctx, job); err != nil {
		d.logger.Error("notification delivery failed",
			"notification_id", job.Notification.ID,
			"channel", job.Notification.Channel,
			"error", err)
	}
}

// Shutdown gives queued jobs a short grace period, then stops the workers.
func (d *Dispatcher) Shutdown() {
	d.stopOnce.Do(func() {
		d.logger.Info("shutting down notification dispatcher", "pending", len(d.jobQueue))
		deadline := time.Now().Add(drainTimeout)
		for len(d.jobQueue) > 0 && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		d.cancel()
		d.wg.Wait()
		d.logger.Info("notification dispatcher shutdown complete")
	})
}
