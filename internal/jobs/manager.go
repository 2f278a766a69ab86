package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrAlreadyRunning is returned when a job is started while another runs.
var ErrAlreadyRunning = errors.New("a job is already running")

// ErrUnknownJob is returned for a job name that was never registered.
var ErrUnknownJob = errors.New("job not found")

// Task is the body of a job.
type Task func(ctx context.Context) (string, error)

// Status describes the last run of a job.
type Status struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"` // "idle", "running", "success", "failed"
	Message   string    `json:"message"`
	StartTime time.Time `json:"start_time,omitempty"`
	EndTime   time.Time `json:"end_time,omitempty"`
}

// Manager runs registered jobs one at a time, in the background, and keeps
// the status of their latest run.
type Manager struct {
	mu      sync.Mutex
	tasks   map[string]Task
	status  map[string]*Status
	running bool
	wg      sync.WaitGroup

	ctx    context.Context
	logger *zap.Logger
}

// NewManager creates a manager whose jobs run under ctx.
func NewManager(ctx context.Context, logger *zap.Logger) *Manager {
	return &Manager{
		tasks:  make(map[string]Task),
		status: make(map[string]*Status),
		ctx:    ctx,
		logger: logger,
	}
}

func (m *Manager) Register(id, name string, task Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[id] = task
	m.status[id] = &Status{ID: id, Name: name, Status: "idle"}
}

// RunJob starts the job in a new goroutine and returns immediately.
func (m *Manager) RunJob(id string) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	task, ok := m.tasks[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownJob, id)
	}

	m.running = true
	status := m.status[id]
	status.Status = "running"
	status.StartTime = time.Now()
	status.EndTime = time.Time{}
	status.Message = "Job started..."
	m.wg.Add(1)
	m.mu.Unlock()

	m.logger.Info("Starting job", zap.String("job", id))
	go func() {
		defer m.wg.Done()
		var (
			message string
			err     error
		)
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("job panicked: %v", r)
			}

			m.mu.Lock()
			status.EndTime = time.Now()
			if err != nil {
				status.Status = "failed"
				status.Message = err.Error()
			} else {
				status.Status = "success"
				status.Message = message
			}
			m.running = false
			m.mu.Unlock()

			if err != nil {
				m.logger.Error("Job failed", zap.String("job", id), zap.Error(err))
			} else {
				m.logger.Info("Finished job", zap.String("job", id), zap.String("result", message))
			}
		}()

		message, err = task(m.ctx)
	}()
	return nil
}

// Wait blocks until every started job has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// GetStatus returns a snapshot of every registered job, ordered by ID.
func (m *Manager) GetStatus() []Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	statuses := make([]Status, 0, len(m.status))
	for _, s := range m.status {
		statuses = append(statuses, *s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].ID < statuses[j].ID })
	return statuses
}
