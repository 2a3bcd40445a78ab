package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"apt/src/interfaces"
	"apt/src/logger"
)

// -----------------------------------------------------------------------------
// Runner owns the periodic background tasks (ingestion, detection). The tasks
// fire on independent intervals and coordinate only through the store and the
// upstream API; the runner just manages their shared lifecycle.
// -----------------------------------------------------------------------------

type Runner struct {
	Tasks  map[string]interfaces.IPeriodicTask
	Logger *logger.Logger

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.Mutex
	running    bool
}

// -----------------------------------------------------------------------------

func NewRunner(log *logger.Logger) *Runner {
	return &Runner{
		Tasks:  make(map[string]interfaces.IPeriodicTask),
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

// Register adds a task. Must be called before StartAll.
func (r *Runner) Register(task interfaces.IPeriodicTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("cannot register %s: runner already started", task.Name())
	}

	name := task.Name()
	if _, exists := r.Tasks[name]; exists {
		return fmt.Errorf("task %s already registered", name)
	}

	r.Tasks[name] = task
	r.Logger.Info("Registered task: %s", name)
	return nil
}

// -----------------------------------------------------------------------------

// StartAll starts every registered task under one derived context.
func (r *Runner) StartAll(parentCtx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("runner already started")
	}

	r.ctx, r.cancelFunc = context.WithCancel(parentCtx)

	for name, task := range r.Tasks {
		if err := task.Start(r.ctx, &r.wg); err != nil {
			return fmt.Errorf("failed to start task %s: %w", name, err)
		}
	}

	r.running = true
	r.Logger.Info("Started %d background tasks", len(r.Tasks))
	return nil
}

// -----------------------------------------------------------------------------

// StopAll cancels the shared context and waits for every task to exit.
// In-flight cycles finish or are abandoned; none are retried.
func (r *Runner) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	r.cancelFunc()
	r.wg.Wait()
	r.running = false
	r.Logger.Info("All background tasks stopped")
}

// -----------------------------------------------------------------------------

// Names returns the registered task names, sorted.
func (r *Runner) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.Tasks))
	for name := range r.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
