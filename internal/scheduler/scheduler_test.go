package scheduler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "github.com/conneroisu/weld/internal/errors"
	"github.com/conneroisu/weld/internal/eventbridge"
	"github.com/conneroisu/weld/internal/funcregistry"
	"github.com/conneroisu/weld/internal/host"
	"github.com/conneroisu/weld/internal/logging"
	"github.com/conneroisu/weld/internal/propstore"
	"github.com/conneroisu/weld/internal/resolver"
	"github.com/conneroisu/weld/internal/types"
)

// recordingComponent counts lifecycle calls and keeps the last prop bag.
type recordingComponent struct {
	mounts    int
	updates   int
	unmounts  int
	lastProps types.Props
	mountErr  error
	updateErr error
}

type recordingHandle struct{ id int }

func (c *recordingComponent) Mount(container types.Container, props types.Props) (types.Handle, error) {
	if c.mountErr != nil {
		return nil, c.mountErr
	}
	c.mounts++
	c.lastProps = props
	return &recordingHandle{id: c.mounts}, nil
}

func (c *recordingComponent) Update(h types.Handle, props types.Props) error {
	if c.updateErr != nil {
		return c.updateErr
	}
	c.updates++
	c.lastProps = props
	return nil
}

func (c *recordingComponent) Unmount(h types.Handle) error {
	c.unmounts++
	return nil
}

func newScheduler(t *testing.T, component *recordingComponent, events []string) (*Scheduler, *host.Document, *propstore.Store) {
	t.Helper()
	doc := host.NewDocument()
	el := doc.NewElement("x-widget")
	specs := []types.PropSpec{
		{Name: "name", AttributeName: "name", Kind: types.KindString},
		{Name: "count", AttributeName: "count", Kind: types.KindNumber},
		{Name: "onSave", AttributeName: "on-save", Kind: types.KindFunction},
	}
	store := propstore.NewStore(specs)
	bridge := eventbridge.New(el, eventbridge.DeriveAll(events))
	res := resolver.New("x-widget", funcregistry.NewRegistry(), werrors.NewDiagnosticCollector(), logging.Nop())
	return New("x-widget", doc, store, component, el.Container(), bridge, res, el, logging.Nop()), doc, store
}

func TestScheduleRender_InertWhileInactive(t *testing.T) {
	component := &recordingComponent{}
	sched, doc, _ := newScheduler(t, component, nil)

	sched.ScheduleRender()
	assert.Equal(t, 0, doc.Pending())
	require.NoError(t, doc.FlushTurn())
	assert.Equal(t, 0, component.mounts)
}

func TestScheduleRender_BatchesWithinTurn(t *testing.T) {
	component := &recordingComponent{}
	sched, doc, store := newScheduler(t, component, nil)
	sched.Activate()

	// A burst of mutations in one turn collapses into one mount
	require.NoError(t, store.Set("name", "a"))
	sched.ScheduleRender()
	require.NoError(t, store.Set("name", "b"))
	sched.ScheduleRender()
	require.NoError(t, store.Set("count", 3))
	sched.ScheduleRender()

	assert.Equal(t, 1, doc.Pending())
	require.NoError(t, doc.FlushTurn())
	assert.Equal(t, 1, component.mounts)

	// The single flush observed the final state of the burst
	assert.Equal(t, "b", component.lastProps["name"])
	assert.Equal(t, float64(3), component.lastProps["count"])
}

func TestScheduleRender_MountThenUpdate(t *testing.T) {
	component := &recordingComponent{}
	sched, doc, store := newScheduler(t, component, nil)
	sched.Activate()

	sched.ScheduleRender()
	require.NoError(t, doc.FlushTurn())
	require.Equal(t, 1, component.mounts)
	assert.True(t, sched.Mounted())

	require.NoError(t, store.Set("name", "next"))
	sched.ScheduleRender()
	require.NoError(t, doc.FlushTurn())
	assert.Equal(t, 1, component.mounts)
	assert.Equal(t, 1, component.updates)
}

func TestTeardown_CancelsPendingFlush(t *testing.T) {
	component := &recordingComponent{}
	sched, doc, _ := newScheduler(t, component, nil)
	sched.Activate()

	sched.ScheduleRender()
	require.True(t, sched.Pending())

	// Disconnect between scheduling and the flush suppresses the render
	require.NoError(t, sched.Teardown())
	require.NoError(t, doc.FlushTurn())
	assert.Equal(t, 0, component.mounts)
}

func TestTeardown_UnmountsOnce(t *testing.T) {
	component := &recordingComponent{}
	sched, doc, _ := newScheduler(t, component, nil)
	sched.Activate()
	sched.ScheduleRender()
	require.NoError(t, doc.FlushTurn())

	require.NoError(t, sched.Teardown())
	assert.Equal(t, 1, component.unmounts)
	assert.False(t, sched.Mounted())

	// Tearing down an unmounted scheduler is a no-op
	require.NoError(t, sched.Teardown())
	assert.Equal(t, 1, component.unmounts)
}

func TestReactivate_RemountsFromLiveState(t *testing.T) {
	component := &recordingComponent{}
	sched, doc, store := newScheduler(t, component, nil)
	sched.Activate()
	require.NoError(t, store.Set("name", "Ada"))
	sched.ScheduleRender()
	require.NoError(t, doc.FlushTurn())
	require.NoError(t, sched.Teardown())

	sched.Activate()
	sched.ScheduleRender()
	require.NoError(t, doc.FlushTurn())

	assert.Equal(t, 2, component.mounts)
	assert.Equal(t, "Ada", component.lastProps["name"])
}

func TestFlush_MountErrorWrapped(t *testing.T) {
	boom := errors.New("boom")
	component := &recordingComponent{mountErr: boom}
	sched, doc, _ := newScheduler(t, component, nil)
	sched.Activate()

	sched.ScheduleRender()
	err := doc.FlushTurn()
	require.Error(t, err)

	var re *werrors.RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, werrors.PhaseMount, re.Phase)
	assert.Equal(t, "x-widget", re.Tag)
	require.ErrorIs(t, err, boom)
	assert.False(t, sched.Mounted())
}

func TestFlush_UpdateErrorWrapped(t *testing.T) {
	component := &recordingComponent{}
	sched, doc, _ := newScheduler(t, component, nil)
	sched.Activate()
	sched.ScheduleRender()
	require.NoError(t, doc.FlushTurn())

	component.updateErr = errors.New("refused")
	sched.ScheduleRender()
	err := doc.FlushTurn()

	var re *werrors.RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, werrors.PhaseUpdate, re.Phase)
}

func TestBuildProps_CallableAndEventProps(t *testing.T) {
	component := &recordingComponent{}
	sched, doc, store := newScheduler(t, component, []string{"countChanged"})
	sched.Activate()

	require.NoError(t, store.Set("onSave", "handlers.save"))
	sched.ScheduleRender()
	require.NoError(t, doc.FlushTurn())

	// Function-kind props arrive as invokers, never raw keys
	_, isCallable := component.lastProps["onSave"].(types.Callable)
	assert.True(t, isCallable)

	// Declared events contribute their implicit callback props
	_, hasEventProp := component.lastProps["onCountChanged"].(types.Callable)
	assert.True(t, hasEventProp)
}
