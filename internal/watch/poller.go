// Package watch polls the notification store for a recipient's unread
// notifications and reports the ones not seen before.
package watch

import (
	"context"
	"sync"
	"time"

	"github.com/nhle/sitehub-notify/internal/logx"
	"github.com/nhle/sitehub-notify/internal/model"
	"github.com/nhle/sitehub-notify/internal/store"
)

// PollState represents the current state of the poll loop.
type PollState int

const (
	PollIdle PollState = iota
	PollRunning
	PollError
)

// Status is a snapshot of the poller.
type Status struct {
	State    PollState
	LastPoll time.Time
	Error    error
}

// Result is emitted after each poll. New holds unread notifications that
// had not been reported before, oldest first.
type Result struct {
	New    []model.Notification
	Unread int
	Error  error
}

// fetchTimeout is the maximum time allowed for a single poll.
const fetchTimeout = 10 * time.Second

// defaultInterval is used when Options.Interval is not positive.
const defaultInterval = 30 * time.Second

// Options configures a Poller.
type Options struct {
	UserID   int64
	Interval time.Duration

	// Limit caps how many unread rows are read per poll.
	Limit int
	Log   logx.Logger
}

// Poller watches one recipient's unread notifications.
type Poller struct {
	store store.NotificationStore
	opts  Options

	resultCh  chan Result
	triggerCh chan struct{}
	stopCh    chan struct{}
	done      chan struct{}

	mu      sync.Mutex
	status  Status
	seen    map[string]bool
	running bool
	stopped bool
}

// New creates a Poller over s.
func New(s store.NotificationStore, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if opts.Log.IsZero() {
		opts.Log = logx.Nop()
	}
	opts.Log = opts.Log.With(logx.String("comp", "watch"), logx.Int64("user_id", opts.UserID))

	return &Poller{
		store:     s,
		opts:      opts,
		resultCh:  make(chan Result, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		seen:      make(map[string]bool),
	}
}

// Results delivers one Result per poll. A Result is dropped when the
// consumer falls behind; its entries are reported again by a later poll.
func (p *Poller) Results() <-chan Result { return p.resultCh }

// Start launches the poll loop. The first poll happens immediately. A
// loop ended by ctx may be started again; a stopped Poller cannot.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running || p.stopped {
		p.mu.Unlock()
		return
	}
	p.running = true
	done := make(chan struct{})
	p.done = done
	p.mu.Unlock()

	p.opts.Log.Debug("watch started", logx.Duration("interval", p.opts.Interval))
	go p.loop(ctx, done)
}

// Stop halts the poll loop and waits for it to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.stopped = true
	close(p.stopCh)
	done := p.done
	p.mu.Unlock()

	<-done
}

// Refresh requests an immediate poll.
func (p *Poller) Refresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A poll is already pending.
	}
}

// Status returns the current poll status.
func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.poll(ctx)
		case <-p.triggerCh:
			p.poll(ctx)
		}
	}
}

// poll reads the unread list once and emits the unseen entries. Entries
// count as seen only once their Result is delivered.
func (p *Poller) poll(parent context.Context) {
	p.setStatus(PollRunning, nil)

	ctx, cancel := context.WithTimeout(parent, fetchTimeout)
	defer cancel()

	list, err := p.store.GetNotifications(ctx, store.NotificationFilter{
		UserID:     p.opts.UserID,
		UnreadOnly: true,
		Limit:      p.opts.Limit,
	})
	if err != nil {
		p.setStatus(PollError, err)
		p.opts.Log.Warn("poll failed", logx.Err(err))
		p.sendResult(Result{Error: err})
		return
	}

	// The store returns newest first; report oldest first.
	var fresh []model.Notification
	p.mu.Lock()
	for i := len(list) - 1; i >= 0; i-- {
		if !p.seen[list[i].ID] {
			fresh = append(fresh, list[i])
		}
	}
	p.mu.Unlock()

	r := Result{New: fresh}
	r.Unread, r.Error = p.store.CountUnread(ctx, p.opts.UserID)
	if r.Error != nil {
		p.setStatus(PollError, r.Error)
		p.opts.Log.Warn("counting unread failed", logx.Err(r.Error))
	} else {
		p.setStatus(PollIdle, nil)
	}
	if len(fresh) > 0 {
		p.opts.Log.Debug("new notifications", logx.Int("count", len(fresh)))
	}

	delivered := p.sendResult(r)
	if !delivered {
		p.opts.Log.Debug("result dropped", logx.Int("count", len(fresh)))
	}

	// Keep only ids still unread so the set tracks the current list.
	p.mu.Lock()
	seen := make(map[string]bool, len(list))
	for _, n := range list {
		if delivered || p.seen[n.ID] {
			seen[n.ID] = true
		}
	}
	p.seen = seen
	p.mu.Unlock()
}

func (p *Poller) setStatus(state PollState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == PollIdle {
		p.status.LastPoll = time.Now()
	}
}

// sendResult sends a Result without blocking and reports whether it was
// queued.
func (p *Poller) sendResult(r Result) bool {
	select {
	case p.resultCh <- r:
		return true
	default:
		return false
	}
}
