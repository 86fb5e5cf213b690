// Package training drives a remote model training run and tracks it until it
// completes or fails.
//
// The monitor moves through Idle -> Starting -> Polling -> Completed|Failed.
// The backend's is_training/progress/error triple decides the terminal state:
// an error with is_training=false fails the run, progress 100 with
// is_training=false and no error completes it. Once the backend has reported
// is_training=true, is_training=false below 100 fails the run with the
// backend message. Before that the job is assumed not picked up yet.
package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/facedesk/internal/constants"
	"github.com/kozaktomas/facedesk/internal/facerec"
)

// State of the monitor.
type State string

// State constants.
const (
	StateIdle      State = "idle"
	StateStarting  State = "starting"
	StatePolling   State = "polling"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Messages shown for the monitor lifecycle.
const (
	MessageIdle      = "Ready to train"
	MessageStarting  = "Starting training..."
	MessageCompleted = "Training completed successfully!"
	MessageStopped   = "Training stopped before completion"
)

var (
	// ErrAlreadyRunning is returned by Start while a run is starting or polling.
	ErrAlreadyRunning = errors.New("training is already in progress")
	// ErrClosed is returned once the monitor has been closed.
	ErrClosed = errors.New("training monitor closed")
)

// Client is the subset of the backend API the monitor needs.
type Client interface {
	StartTraining(ctx context.Context) (*facerec.RetrainResponse, error)
	TrainingProgress(ctx context.Context) (*facerec.TrainingStatus, error)
	ModelStats(ctx context.Context) (*facerec.ModelStats, error)
}

// Snapshot is a copy of the monitor state.
type Snapshot struct {
	RunID           string              `json:"run_id,omitempty"`
	State           State               `json:"state"`
	Progress        int                 `json:"progress"`
	Message         string              `json:"message"`
	Error           string              `json:"error,omitempty"`
	CurrentEpoch    int                 `json:"current_epoch,omitempty"`
	TotalEpochs     int                 `json:"total_epochs,omitempty"`
	CurrentAccuracy float64             `json:"current_accuracy,omitempty"`
	BestAccuracy    float64             `json:"best_accuracy,omitempty"`
	Stats           *facerec.ModelStats `json:"stats,omitempty"`
	StatsError      string              `json:"stats_error,omitempty"`
	StartEnabled    bool                `json:"start_enabled"`
	StartedAt       time.Time           `json:"started_at,omitzero"`
	FinishedAt      time.Time           `json:"finished_at,omitzero"`
}

// Running reports whether a run is starting or polling.
func (s Snapshot) Running() bool {
	return s.State == StateStarting || s.State == StatePolling
}

// Terminal reports whether the last run has ended.
func (s Snapshot) Terminal() bool {
	return s.State == StateCompleted || s.State == StateFailed
}

// ticker abstracts time.Ticker so polling can be driven manually in tests.
type ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// run holds the handles of one training run.
type run struct {
	id       string
	cancel   context.CancelFunc
	finished chan struct{} // closed on the terminal transition
	exited   chan struct{} // closed when the polling goroutine returns
}

// Monitor starts training runs and polls their progress.
// It owns at most one polling goroutine at a time.
type Monitor struct {
	client Client
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	snap    Snapshot
	current *run
	closed  bool

	events    broadcaster
	newTicker func(time.Duration) ticker
	onFinish  func(Snapshot)
}

// NewMonitor creates an idle monitor.
func NewMonitor(client Client) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		client:    client,
		logger:    slog.Default(),
		ctx:       ctx,
		cancel:    cancel,
		snap:      Snapshot{State: StateIdle, Message: MessageIdle, StartEnabled: true},
		newTicker: newTimeTicker,
	}
}

// OnFinish registers a callback invoked once per run with its terminal snapshot.
func (m *Monitor) OnFinish(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onFinish = fn
}

// Snapshot returns a copy of the current state.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Subscribe returns a channel receiving every subsequent event and a function
// to stop the subscription. The channel is closed when the monitor closes.
func (m *Monitor) Subscribe() (<-chan Event, func()) {
	ch := m.events.add()
	return ch, func() { m.events.remove(ch) }
}

// Start begins a new training run. It returns ErrAlreadyRunning while a run
// is starting or polling, and the backend error when the run could not be
// started. On success the polling goroutine is running when Start returns.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.snap.Running() {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}

	r := &run{
		id:       uuid.NewString(),
		finished: make(chan struct{}),
		exited:   make(chan struct{}),
	}
	m.current = r
	m.snap = Snapshot{
		RunID:     r.id,
		State:     StateStarting,
		Message:   MessageStarting,
		Stats:     m.snap.Stats,
		StartedAt: time.Now(),
	}
	snap := m.snap
	m.mu.Unlock()

	m.logger.Info("starting training run", "run_id", r.id)
	m.events.send(Event{Type: EventProgress, Snapshot: snap})

	if _, err := m.client.StartTraining(ctx); err != nil {
		msg := facerec.ErrorMessage(err)
		m.finish(r, StateFailed, "Error: "+msg, msg, nil)
		// after finish, so Wait never sees exited without finished
		close(r.exited)
		return fmt.Errorf("could not start training: %w", err)
	}

	pollCtx, cancel := context.WithCancel(m.ctx)
	m.mu.Lock()
	if m.closed || m.current != r {
		m.mu.Unlock()
		cancel()
		close(r.exited)
		return ErrClosed
	}
	r.cancel = cancel
	m.snap.State = StatePolling
	snap = m.snap
	m.mu.Unlock()

	m.events.send(Event{Type: EventProgress, Snapshot: snap})
	go m.poll(pollCtx, r)
	return nil
}

// poll issues one status request per tick until the run reaches a terminal state.
func (m *Monitor) poll(ctx context.Context, r *run) {
	defer close(r.exited)

	t := m.newTicker(constants.PollInterval)
	defer t.Stop()

	// set once the backend reported is_training:true for this run
	picked := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
		}

		status, err := m.client.TrainingProgress(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			msg := facerec.ErrorMessage(err)
			m.finish(r, StateFailed, "Error checking training progress: "+msg, msg, nil)
			return
		}

		switch {
		case status.IsTraining:
			picked = true
			m.update(r, status)
		case status.Error != "":
			m.finish(r, StateFailed, "Error: "+status.Error, status.Error, status)
			return
		case status.Progress >= constants.ProgressComplete:
			m.complete(ctx, r, status)
			return
		case picked:
			// the job stopped short of 100 without an error field
			msg := status.Message
			if msg == "" {
				msg = MessageStopped
			}
			m.finish(r, StateFailed, msg, msg, status)
			return
		default:
			// backend has not picked the job up yet
			m.update(r, status)
		}
	}
}

// update records a non-terminal status.
func (m *Monitor) update(r *run, status *facerec.TrainingStatus) {
	m.mu.Lock()
	if m.current != r {
		m.mu.Unlock()
		return
	}
	applyStatus(&m.snap, status)
	if status.Message != "" {
		m.snap.Message = status.Message
	}
	snap := m.snap
	m.mu.Unlock()

	m.events.send(Event{Type: EventProgress, Snapshot: snap})
}

// complete fetches the model statistics once and finishes the run.
func (m *Monitor) complete(ctx context.Context, r *run, status *facerec.TrainingStatus) {
	stats, err := m.client.ModelStats(ctx)

	m.mu.Lock()
	if err != nil {
		m.snap.StatsError = facerec.ErrorMessage(err)
		m.logger.Warn("failed to refresh model stats", "run_id", r.id, "error", err)
	} else {
		m.snap.Stats = stats
		m.snap.StatsError = ""
	}
	m.mu.Unlock()

	m.finish(r, StateCompleted, MessageCompleted, "", status)
}

// finish performs the single terminal transition of a run.
func (m *Monitor) finish(r *run, state State, message, errMsg string, status *facerec.TrainingStatus) {
	m.mu.Lock()
	if m.current != r || m.snap.Terminal() {
		m.mu.Unlock()
		return
	}
	if status != nil {
		applyStatus(&m.snap, status)
	}
	if state == StateCompleted {
		m.snap.Progress = constants.ProgressComplete
	}
	m.snap.State = state
	m.snap.Message = message
	m.snap.Error = errMsg
	m.snap.StartEnabled = true
	m.snap.FinishedAt = time.Now()
	if r.cancel != nil {
		r.cancel()
	}
	snap := m.snap
	onFinish := m.onFinish
	m.mu.Unlock()

	if state == StateFailed {
		m.logger.Error("training run failed", "run_id", r.id, "error", errMsg)
		m.events.send(Event{Type: EventFailed, Snapshot: snap})
	} else {
		m.logger.Info("training run completed", "run_id", r.id,
			"duration", snap.FinishedAt.Sub(snap.StartedAt).Round(time.Millisecond))
		m.events.send(Event{Type: EventCompleted, Snapshot: snap})
	}
	if onFinish != nil {
		onFinish(snap)
	}
	close(r.finished)
}

func applyStatus(s *Snapshot, status *facerec.TrainingStatus) {
	s.Progress = min(max(status.Progress, 0), constants.ProgressComplete)
	s.CurrentEpoch = status.CurrentEpoch
	s.TotalEpochs = status.TotalEpochs
	s.CurrentAccuracy = status.CurrentAccuracy
	s.BestAccuracy = status.BestAccuracy
}

// Wait blocks until the current run ends and returns its terminal snapshot.
// It returns immediately when no run is in progress.
func (m *Monitor) Wait(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	r := m.current
	running := m.snap.Running()
	m.mu.Unlock()

	if r == nil || !running {
		return m.Snapshot(), nil
	}

	select {
	case <-r.finished:
		return m.Snapshot(), nil
	case <-r.exited:
		// polling stopped without a terminal state: the monitor was closed
		select {
		case <-r.finished:
			return m.Snapshot(), nil
		default:
			return m.Snapshot(), ErrClosed
		}
	case <-ctx.Done():
		return m.Snapshot(), ctx.Err()
	}
}

// Close stops the polling goroutine, if any, and closes all subscriptions.
func (m *Monitor) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	var exited chan struct{}
	if r := m.current; r != nil && r.cancel != nil {
		exited = r.exited
	}
	m.mu.Unlock()

	m.cancel()
	if exited != nil {
		<-exited
	}
	m.events.closeAll()
}
