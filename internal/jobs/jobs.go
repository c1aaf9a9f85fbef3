// Package jobs runs long operations in the background and tracks their
// progress, result and cancellation.
package jobs

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle stage of a job.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateCanceled  State = "canceled"
)

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCanceled
}

// ErrNotFound is returned for unknown job IDs.
var ErrNotFound = errors.New("job not found")

// Func is the work a job performs. It reports progress through report and
// must return promptly once ctx is canceled.
type Func func(ctx context.Context, report func(done, total int)) (any, error)

// Status is a point-in-time view of a job.
type Status struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	State      State      `json:"state"`
	Done       int        `json:"done"`
	Total      int        `json:"total"`
	Result     any        `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Job is a single background operation.
type Job struct {
	id      string
	kind    string
	created time.Time
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once

	mu       sync.Mutex
	state    State
	progress [2]int
	result   any
	err      error
	finished time.Time
}

// ID returns the job's identifier.
func (j *Job) ID() string { return j.id }

// Done returns a channel that is closed exactly once, when the job reaches a
// terminal state.
func (j *Job) Done() <-chan struct{} { return j.done }

// Cancel requests cancellation. It is safe to call more than once and after
// the job has finished.
func (j *Job) Cancel() { j.cancel() }

// Status returns the job's current status.
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()

	st := Status{
		ID:        j.id,
		Kind:      j.kind,
		State:     j.state,
		Done:      j.progress[0],
		Total:     j.progress[1],
		Result:    j.result,
		CreatedAt: j.created,
	}
	if j.err != nil {
		st.Error = j.err.Error()
	}
	if !j.finished.IsZero() {
		f := j.finished
		st.FinishedAt = &f
	}
	return st
}

// Wait blocks until the job finishes or ctx is done, and returns the
// job's result and error.
func (j *Job) Wait(ctx context.Context) (any, error) {
	select {
	case <-j.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.err
}

func (j *Job) report(done, total int) {
	j.mu.Lock()
	j.progress = [2]int{done, total}
	j.mu.Unlock()
}

func (j *Job) setRunning() {
	j.mu.Lock()
	j.state = StateRunning
	j.mu.Unlock()
}

func (j *Job) finish(ctx context.Context, result any, err error) {
	j.once.Do(func() {
		j.mu.Lock()
		switch {
		case err != nil && ctx.Err() != nil:
			j.state = StateCanceled
			j.err = ctx.Err()
		case err != nil:
			j.state = StateFailed
			j.err = err
		default:
			j.state = StateSucceeded
			j.result = result
		}
		j.finished = time.Now()
		j.mu.Unlock()
		close(j.done)
	})
}

// Manager starts and tracks jobs.
type Manager struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewManager returns a Manager. Jobs run under a context detached from the
// caller's so that they outlive the request that started them.
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{ctx: ctx, cancel: cancel, jobs: make(map[string]*Job)}
}

// Start runs fn in a new goroutine and returns its job.
func (m *Manager) Start(kind string, fn Func) *Job {
	ctx, cancel := context.WithCancel(m.ctx)
	j := &Job{
		id:      uuid.New().String(),
		kind:    kind,
		created: time.Now(),
		cancel:  cancel,
		done:    make(chan struct{}),
		state:   StatePending,
	}

	m.mu.Lock()
	m.jobs[j.id] = j
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		m.run(ctx, j, fn)
	}()
	return j
}

func (m *Manager) run(ctx context.Context, j *Job, fn Func) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("jobs: %s job %s panicked: %v", j.kind, j.id, r)
			j.finish(ctx, nil, errors.New("job panicked"))
		}
	}()

	if err := ctx.Err(); err != nil {
		j.finish(ctx, nil, err)
		return
	}
	j.setRunning()
	result, err := fn(ctx, j.report)
	if err != nil {
		log.Printf("jobs: %s job %s: %v", j.kind, j.id, err)
	}
	j.finish(ctx, result, err)
}

// Get returns the job with the given ID.
func (m *Manager) Get(id string) (*Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	return j, ok
}

// Cancel cancels the job with the given ID.
func (m *Manager) Cancel(id string) error {
	j, ok := m.Get(id)
	if !ok {
		return ErrNotFound
	}
	j.Cancel()
	return nil
}

// List returns the status of every job, newest first.
func (m *Manager) List() []Status {
	m.mu.RLock()
	out := make([]Status, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j.Status())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out
}

// Shutdown cancels every running job and waits for them to return.
func (m *Manager) Shutdown() {
	m.cancel()
	m.wg.Wait()
}
