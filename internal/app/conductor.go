package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/enlighten/internal/diag"
	"github.com/coreman2200/enlighten/internal/lighting"
	"github.com/coreman2200/enlighten/internal/playlist"
)

var (
	// ErrBusy is returned under the Reject policy while a job runs.
	ErrBusy   = errors.New("an effect is already running")
	ErrClosed = errors.New("conductor closed")
)

// Policy decides what a new job does to a running one.
type Policy string

const (
	Reject  Policy = "reject"
	Preempt Policy = "preempt"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case Reject, "":
		return Reject, nil
	case Preempt:
		return Preempt, nil
	}
	return "", fmt.Errorf("unknown dispatch policy %q", s)
}

// Status is a snapshot for the web panel.
type Status struct {
	Running    bool       `json:"running"`
	Job        string     `json:"job,omitempty"`
	Started    *time.Time `json:"started,omitempty"`
	LastJob    string     `json:"last_job,omitempty"`
	LastResult string     `json:"last_result,omitempty"` // ok | cancelled | error
	LastError  string     `json:"last_error,omitempty"`
	Jobs       uint64     `json:"jobs"`
	Policy     Policy     `json:"policy"`
}

type job struct {
	name    string
	started time.Time
	cancel  context.CancelFunc
	done    chan struct{}
}

// Conductor is the single writer around one engine: at most one job (an
// effect or a playlist) touches the strip at a time.
type Conductor struct {
	eng    *lighting.Engine
	policy Policy
	log    zerolog.Logger

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	cur    *job
	closed bool
	status Status
}

func NewConductor(eng *lighting.Engine, policy Policy, log zerolog.Logger) *Conductor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Conductor{
		eng:    eng,
		policy: policy,
		log:    log,
		base:   ctx,
		cancel: cancel,
		status: Status{Policy: policy},
	}
}

func (c *Conductor) Engine() *lighting.Engine { return c.eng }

// claim makes name the current job. Under Preempt a running job is cancelled
// and waited for first.
func (c *Conductor) claim(parent context.Context, name string) (*job, context.Context, error) {
	c.mu.Lock()
	for c.cur != nil && !c.closed {
		if c.policy != Preempt {
			busy := c.cur.name
			c.mu.Unlock()
			return nil, nil, fmt.Errorf("%w: %s", ErrBusy, busy)
		}
		old := c.cur
		c.log.Info().Str("job", old.name).Str("by", name).Msg("preempting")
		old.cancel()
		c.mu.Unlock()
		<-old.done
		c.mu.Lock()
	}
	defer c.mu.Unlock()
	if c.closed {
		return nil, nil, ErrClosed
	}
	ctx, cancel := context.WithCancel(parent)
	j := &job{name: name, started: time.Now(), cancel: cancel, done: make(chan struct{})}
	c.cur = j
	c.status.Running = true
	c.status.Job = name
	c.status.Started = &j.started
	c.log.Info().Str("job", name).Msg("job start")
	return j, ctx, nil
}

func (c *Conductor) finish(j *job, err error) {
	c.mu.Lock()
	if c.cur == j {
		c.cur = nil
	}
	c.status.Running = false
	c.status.Job = ""
	c.status.Started = nil
	c.status.LastJob = j.name
	c.status.LastError = ""
	c.status.Jobs++
	ev := c.log.Info()
	switch {
	case err == nil:
		c.status.LastResult = "ok"
	case errors.Is(err, context.Canceled):
		c.status.LastResult = "cancelled"
	default:
		c.status.LastResult = "error"
		c.status.LastError = err.Error()
		ev = c.log.Warn().Err(err)
	}
	ev.Str("job", j.name).Str("result", c.status.LastResult).Dur("took", time.Since(j.started)).Msg("job done")
	c.mu.Unlock()
	j.cancel()
	close(j.done)
}

// Do runs fn as a job and waits for it.
func (c *Conductor) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	j, jctx, err := c.claim(ctx, name)
	if err != nil {
		return err
	}
	err = fn(jctx)
	c.finish(j, err)
	return err
}

// Run plays one effect synchronously.
func (c *Conductor) Run(ctx context.Context, kind lighting.Kind, p lighting.Params) error {
	return c.Do(ctx, kind.String(), func(ctx context.Context) error {
		return c.eng.Run(ctx, kind, p)
	})
}

// Go starts fn as a background job. The claim happens before Go returns, so
// ErrBusy is reported to the caller.
func (c *Conductor) Go(name string, fn func(ctx context.Context) error) error {
	j, jctx, err := c.claim(c.base, name)
	if err != nil {
		return err
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.finish(j, fn(jctx))
	}()
	return nil
}

// Trigger starts an effect in the background.
func (c *Conductor) Trigger(kind lighting.Kind, p lighting.Params) error {
	p, err := lighting.Resolve(kind, p)
	if err != nil {
		return err
	}
	return c.Go(kind.String(), func(ctx context.Context) error {
		return c.eng.Run(ctx, kind, p)
	})
}

// Diagnose starts a wiring check in the background.
func (c *Conductor) Diagnose(plan diag.Plan) error {
	seq, err := plan.Sequence(c.eng.Strip().Len())
	if err != nil {
		return err
	}
	name := "diag " + string(plan.Kind)
	return c.Go(name, func(ctx context.Context) error {
		return c.eng.Play(ctx, name, seq)
	})
}

// Play starts a playlist in the background.
func (c *Conductor) Play(prog playlist.Program, hooks playlist.Hooks) error {
	if err := prog.Validate(); err != nil {
		return err
	}
	pl := playlist.NewPlayer(c.eng, hooks)
	pl.Log = c.log
	pl.Wait = c.eng.Hold
	return c.Go("playlist "+prog.String(), func(ctx context.Context) error {
		return pl.Play(ctx, prog)
	})
}

// Stop cancels the running job and waits for it to return. It reports
// whether there was one.
func (c *Conductor) Stop() bool {
	c.mu.Lock()
	j := c.cur
	c.mu.Unlock()
	if j == nil {
		return false
	}
	j.cancel()
	<-j.done
	return true
}

// Wait blocks until no job is running.
func (c *Conductor) Wait() {
	c.mu.Lock()
	j := c.cur
	c.mu.Unlock()
	if j != nil {
		<-j.done
	}
}

func (c *Conductor) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur != nil
}

func (c *Conductor) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Close cancels every job, waits for background ones and refuses new work.
func (c *Conductor) Close() {
	c.mu.Lock()
	c.closed = true
	j := c.cur
	c.mu.Unlock()
	c.cancel()
	if j != nil {
		j.cancel()
		<-j.done
	}
	c.wg.Wait()
}
