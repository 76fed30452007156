package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrClosed    = errors.New("worker pool closed")
	ErrQueueFull = errors.New("worker pool queue full")
)

// QueueSize is how many tasks wait for a free worker before Submit rejects new ones.
const QueueSize = 256

// Pool runs tasks on a fixed number of goroutines.
type Pool struct {
	tasks   chan Task
	quit    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	timeout time.Duration
	log     *slog.Logger
}

// Task is a unit of work. Work is always called once the task is dequeued,
// even when Ctx is already done, so it can release what the submitter holds.
type Task struct {
	Ctx  context.Context
	Name string
	Work func(ctx context.Context) error
}

// NewPool starts maxWorkers goroutines. Each task gets at most timeout to
// finish; zero means no limit.
func NewPool(maxWorkers int, timeout time.Duration, log *slog.Logger) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	p := &Pool{
		tasks:   make(chan Task, QueueSize),
		quit:    make(chan struct{}),
		timeout: timeout,
		log:     log,
	}

	p.wg.Add(maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case task := <-p.tasks:
			p.run(task)
		}
	}
}

func (p *Pool) run(task Task) {
	ctx := task.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := task.Work(ctx); err != nil {
		p.log.Debug("task failed", "task", task.Name, "error", err)
	}
}

// Submit queues a task without blocking. It returns ErrQueueFull when every
// queue slot is taken and ErrClosed after Shutdown.
func (p *Pool) Submit(task Task) error {
	select {
	case <-p.quit:
		return ErrClosed
	default:
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops the workers and waits for running tasks. Queued tasks are dropped.
func (p *Pool) Shutdown() {
	p.once.Do(func() { close(p.quit) })
	p.wg.Wait()
}
