// Package lifecycle ties the host element's connection lifecycle to the
// scheduler and event bridge. The state machine is
// Unattached -> Connected <-> Disconnected; there is no terminal state short
// of garbage collection of the instance.
package lifecycle

import (
	"context"
	"sync"

	"github.com/conneroisu/weld/internal/attrsync"
	"github.com/conneroisu/weld/internal/eventbridge"
	"github.com/conneroisu/weld/internal/logging"
	"github.com/conneroisu/weld/internal/propstore"
	"github.com/conneroisu/weld/internal/scheduler"
	"github.com/conneroisu/weld/internal/types"
)

// Controller is the per-instance lifecycle state machine.
type Controller struct {
	mutex  sync.Mutex
	state  types.LifecycleState
	store  *propstore.Store
	sched  *scheduler.Scheduler
	attrs  *attrsync.Bridge
	events *eventbridge.Bridge
	logger logging.Logger
}

// New creates a controller in the Unattached state. Prop writes before the
// first connection buffer into the store; the scheduler stays inert.
func New(store *propstore.Store, sched *scheduler.Scheduler, attrs *attrsync.Bridge, events *eventbridge.Bridge, logger logging.Logger) *Controller {
	return &Controller{
		state:  types.StateUnattached,
		store:  store,
		sched:  sched,
		attrs:  attrs,
		events: events,
		logger: logger,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() types.LifecycleState {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.state
}

// Connected handles DOM insertion: arms the scheduler, routes future store
// writes through it, and triggers the first mount (or a remount from live
// state after a disconnect, with no attribute re-read).
func (c *Controller) Connected() error {
	c.mutex.Lock()
	prev := c.state
	c.state = types.StateConnected
	c.mutex.Unlock()

	c.logger.Debug(context.Background(), "element connected", "from", prev.String())

	c.sched.Activate()
	c.store.SetOnChange(c.sched.ScheduleRender)
	c.sched.ScheduleRender()
	return nil
}

// Disconnected handles DOM removal: tears down the mount, suppresses any
// pending render, removes bridge-installed listeners, and retains the prop
// store for a later remount.
func (c *Controller) Disconnected() {
	c.mutex.Lock()
	c.state = types.StateDisconnected
	c.mutex.Unlock()

	c.store.SetOnChange(nil)
	if err := c.sched.Teardown(); err != nil {
		c.logger.Error(context.Background(), err, "teardown failed")
	}
	c.events.RemoveAll()
	c.logger.Debug(context.Background(), "element disconnected")
}

// AttributeChanged forwards an observed attribute mutation to the sync
// bridge. Mutations before first connection still land in the store; the
// inert scheduler simply drops the render request.
func (c *Controller) AttributeChanged(name string, value *string) {
	c.attrs.AttributeChanged(name, value)
}
