// Package upload owns the archive queue and drains it against the processing
// server one archive at a time.
package upload

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/moyoez/zipconsole/types"
)

var (
	ErrNoFiles        = errors.New("no files selected")
	ErrAlreadyRunning = errors.New("upload already running")
)

// Recorder observes upload attempts. metrics.UploadMetrics implements it.
type Recorder interface {
	StartItem()
	FinishItem(duration time.Duration, status types.OutcomeStatus)
	ObserveRejected(count int)
}

// Options configures a Controller. Every field is optional.
type Options struct {
	Notify      func(*types.Notification)
	OnChange    func(types.RunState)
	ItemTimeout time.Duration
	Recorder    Recorder
}

// Controller holds the queue, the outcomes of the current run and the run flag.
// All mutation goes through its methods; readers use Snapshot or Progress.
type Controller struct {
	opts Options

	mu           sync.Mutex
	runID        string
	running      bool
	currentIndex int
	queue        []types.QueueItem
	outcomes     []types.UploadOutcome
	dragActive   bool
}

func NewController(opts Options) *Controller {
	return &Controller{opts: opts}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() types.RunState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() types.RunState {
	return types.RunState{
		RunID:        c.runID,
		IsRunning:    c.running,
		CurrentIndex: c.currentIndex,
		Queue:        slices.Clone(c.queue),
		Outcomes:     slices.Clone(c.outcomes),
		DragActive:   c.dragActive,
	}
}

// Progress is the display projection of the current state.
func (c *Controller) Progress() types.ProgressView {
	return Project(c.Snapshot())
}

// SetItemTimeout changes the per-archive timeout used by runs started afterwards.
func (c *Controller) SetItemTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.ItemTimeout = d
}

// IsRunning reports whether a run is in progress.
func (c *Controller) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Controller) changed() {
	if c.opts.OnChange == nil {
		return
	}
	c.opts.OnChange(c.Snapshot())
}

func (c *Controller) notify(n *types.Notification) {
	if c.opts.Notify == nil || n == nil {
		return
	}
	c.opts.Notify(n)
}
