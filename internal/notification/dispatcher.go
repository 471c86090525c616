package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"paintshop/internal/metrics"

	"golang.org/x/sync/errgroup"
)

// 非同期で実行する1件の仕事
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

type DispatcherConfig struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

// Dispatcher はリクエストから切り離して通知を送るワーカープール。
// キューが満杯・停止済みならEnqueueは待たずに捨てる。
type Dispatcher struct {
	cfg     DispatcherConfig
	queue   chan Task
	log     *slog.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	closed  bool
	started bool

	group  *errgroup.Group
	cancel context.CancelFunc
}

// DI（metricsはnil可）
func NewDispatcher(cfg DispatcherConfig, log *slog.Logger, m *metrics.Metrics) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 10 * time.Second
	}
	return &Dispatcher{
		cfg:     cfg,
		queue:   make(chan Task, cfg.QueueSize),
		log:     log,
		metrics: m,
	}
}

// Start はワーカーを起動する。ctxはタスク全体の親（リクエストのctxは渡さない）。
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true

	base, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	g := &errgroup.Group{}
	for i := 0; i < d.cfg.Workers; i++ {
		g.Go(func() error {
			for t := range d.queue {
				d.observeQueue()
				d.run(base, t)
			}
			return nil
		})
	}
	d.group = g

	d.log.Info("notification dispatcher started", "workers", d.cfg.Workers, "queue_size", d.cfg.QueueSize)
}

// 積めたらtrue。満杯・停止後はログを出してfalse。
func (d *Dispatcher) Enqueue(t Task) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(t, "dispatcher closed")
		return false
	}

	select {
	case d.queue <- t:
		d.observeQueue()
		return true
	default:
		d.drop(t, "queue full")
		return false
	}
}

// Shutdown は受付を止めて残りを流し切る。ctxが先に切れたら実行中のタスクも止める。
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- d.group.Wait() }()

	select {
	case err := <-done:
		d.cancel()
		d.log.Info("notification dispatcher drained")
		return err
	case <-ctx.Done():
		d.cancel()
		<-done
		return fmt.Errorf("notification drain: %w", ctx.Err())
	}
}

func (d *Dispatcher) run(base context.Context, t Task) {
	ctx, cancel := context.WithTimeout(base, d.cfg.TaskTimeout)
	defer cancel()

	start := time.Now()
	err := safeRun(ctx, t)
	if err != nil {
		d.log.Error("notification task failed", "task", t.Name, "duration_ms", time.Since(start).Milliseconds(), "err", err)
		d.count(t.Name, metrics.ResultFailed)
		return
	}

	d.log.Info("notification task done", "task", t.Name, "duration_ms", time.Since(start).Milliseconds())
	d.count(t.Name, metrics.ResultOK)
}

// panicしてもワーカーは落とさない
func safeRun(ctx context.Context, t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return t.Run(ctx)
}

func (d *Dispatcher) drop(t Task, reason string) {
	d.log.Warn("notification task dropped", "task", t.Name, "reason", reason)
	d.count(t.Name, metrics.ResultDropped)
}

func (d *Dispatcher) count(task, result string) {
	if d.metrics != nil {
		d.metrics.NotifyTasks.WithLabelValues(task, result).Inc()
	}
}

func (d *Dispatcher) observeQueue() {
	if d.metrics != nil {
		d.metrics.NotifyQueued.Set(float64(len(d.queue)))
	}
}
