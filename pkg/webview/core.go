package webview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/bnema/nativeview/internal/bridge"
	"github.com/bnema/nativeview/internal/dispatch"
	"github.com/bnema/nativeview/internal/lifecycle"
	"github.com/bnema/nativeview/internal/logging"
	"github.com/bnema/nativeview/internal/sizing"
)

// core is the engine-independent part of every adapter: thread ownership,
// lifecycle, size policy, the script registry and the dispatch queue.
type core struct {
	ctx      context.Context
	logger   zerolog.Logger
	owner    uint64
	machine  *lifecycle.Machine
	policy   *sizing.Policy
	registry *bridge.Registry
	receiver *bridge.Receiver
	queue    *dispatch.Queue

	targetMu sync.Mutex
	target   string

	stopWatch func() bool
	stopped   atomic.Bool
}

// newCore binds the core to the calling goroutine. wake must arrange for
// drain to run on the UI thread and be callable from any goroutine.
func newCore(ctx context.Context, opts Options, ch bridge.Channel, component string, wake func()) *core {
	ctx = logging.WithComponent(ctx, component)
	c := &core{
		ctx:      ctx,
		logger:   *logging.FromContext(ctx),
		owner:    goroutineID(),
		machine:  lifecycle.New(opts.closeAction()),
		policy:   sizing.NewPolicy(),
		registry: bridge.NewRegistry(ch),
	}
	c.receiver = bridge.NewReceiver(ctx, opts.OnMessage)
	c.queue = dispatch.New(wake, dispatch.WithPanicHandler(func(p dispatch.PanicError) {
		c.logger.Error().Interface("panic", p.Value).Msg("dispatched function panicked")
	}))
	c.machine.OnTransition(func(from, to lifecycle.State) {
		c.logger.Debug().Stringer("from", from).Stringer("to", to).Msg("window state changed")
	})
	return c
}

// terminateWhenDone terminates through fn once ctx is cancelled.
func (c *core) terminateWhenDone(ctx context.Context, fn func()) {
	c.stopWatch = context.AfterFunc(ctx, fn)
}

func (c *core) onUIThread() bool {
	return goroutineID() == c.owner
}

// checkUI guards UI-only operations.
func (c *core) checkUI() error {
	if err := c.machine.Check(); err != nil {
		return err
	}
	if !c.onUIThread() {
		return ErrNotUIThread
	}
	return nil
}

// State reports the lifecycle state.
func (c *core) State() State {
	return c.machine.Current()
}

// Dispatch queues fn for the UI thread.
func (c *core) Dispatch(fn func()) error {
	if err := c.queue.Post(fn); err != nil {
		if errors.Is(err, dispatch.ErrClosed) {
			return ErrTerminated
		}
		return err
	}
	return nil
}

// drain runs the queued work; engines call it from their wake callback.
func (c *core) drain() {
	if n := c.queue.Drain(); n > 0 {
		c.logger.Trace().Int("count", n).Msg("drained dispatch queue")
	}
}

// onUI runs fn now when called on the UI thread, otherwise queues it. Errors
// from queued calls are logged.
func (c *core) onUI(op string, fn func() error) error {
	if c.machine.Terminated() {
		return ErrTerminated
	}
	if c.onUIThread() {
		return fn()
	}
	return c.Dispatch(func() {
		if err := fn(); err != nil && !errors.Is(err, ErrTerminated) {
			c.logger.Warn().Err(err).Str("op", op).Msg("dispatched call failed")
		}
	})
}

// setVisible moves the machine to Shown or Hidden and reports whether the
// native window must change.
func (c *core) setVisible(visible bool) (bool, error) {
	to := lifecycle.StateHidden
	if visible {
		to = lifecycle.StateShown
	}
	changed, err := c.machine.Transition(to)
	if err != nil {
		return false, err
	}
	return changed, nil
}

// applySize validates and records a size request.
func (c *core) applySize(width, height int, hint Hint) (sizing.Plan, error) {
	if err := c.checkUI(); err != nil {
		return sizing.Plan{}, err
	}
	plan, err := c.policy.Apply(width, height, hint)
	if err != nil {
		return sizing.Plan{}, err
	}
	c.logger.Debug().
		Int("width", width).
		Int("height", height).
		Stringer("hint", hint).
		Bool("resizable", plan.Resizable).
		Msg("size hint applied")
	return plan, nil
}

// addInit validates and registers a document-start script.
func (c *core) addInit(script string) error {
	if err := c.checkUI(); err != nil {
		return err
	}
	if _, err := c.registry.Add(script); err != nil {
		return fmt.Errorf("init script: %w", err)
	}
	return nil
}

// setTarget records the latest navigation request.
func (c *core) setTarget(url string) error {
	if err := c.checkUI(); err != nil {
		return err
	}
	if url == "" {
		return ErrEmptyURL
	}
	c.targetMu.Lock()
	c.target = url
	c.targetMu.Unlock()
	logging.FromContext(logging.WithURL(c.ctx, url)).Debug().Msg("navigate")
	return nil
}

// Target returns the last URL passed to Navigate.
func (c *core) Target() string {
	c.targetMu.Lock()
	defer c.targetMu.Unlock()
	return c.target
}

// deliver hands a message body from the engine to the host callback.
func (c *core) deliver(body string) {
	if c.machine.Terminated() {
		return
	}
	c.receiver.Receive(body)
}

// closeRequested applies the close policy and reports whether the native
// close must be cancelled because the window is hidden instead.
// A false result means the engine must terminate.
func (c *core) closeRequested() (hide bool) {
	state, err := c.machine.Close()
	if err != nil {
		return false
	}
	if state == lifecycle.StateHidden {
		c.logger.Debug().Msg("close requested, hiding window")
		return true
	}
	return false
}

// terminate moves to Terminated and drops pending dispatched work. It
// reports whether this call performed the teardown, which happens once even
// when a native close already moved the machine to Terminated.
func (c *core) terminate() bool {
	if _, err := c.machine.Transition(lifecycle.StateTerminated); err != nil {
		return false
	}
	if !c.stopped.CompareAndSwap(false, true) {
		return false
	}
	if c.stopWatch != nil {
		c.stopWatch()
	}
	if dropped := c.queue.Close(); dropped > 0 {
		c.logger.Debug().Int("dropped", dropped).Msg("discarded pending dispatched work")
	}
	received, repaired := c.receiver.Stats()
	c.logger.Debug().Uint64("messages", received).Uint64("repaired", repaired).Msg("terminated")
	return true
}
