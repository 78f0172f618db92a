package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvion/transitions/pkg/domain"
)

func newFlatEngine(t *testing.T, names ...string) *Engine {
	t.Helper()
	e := New()
	e.executor = &FlatExecutor{Engine: e}
	e.resolver = FlatResolver{}
	for _, name := range names {
		require.NoError(t, e.AddState(domain.NewState(name)))
	}
	return e
}

func TestEngine_AddState(t *testing.T) {
	e := New()
	require.NoError(t, e.AddState(domain.NewState("X")))
	assert.Error(t, e.AddState(domain.NewState("X")))

	assert.True(t, e.HasState("X"))
	assert.False(t, e.HasState("Y"))

	st, err := e.GetState("X")
	require.NoError(t, err)
	assert.Equal(t, "X", st.Name())

	_, err = e.GetState("Y")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestEngine_StateNamesIsSnapshot(t *testing.T) {
	e := newFlatEngine(t, "X")
	snapshot := e.StateNames()
	require.NoError(t, e.AddState(domain.NewState("Y")))

	assert.Equal(t, []string{"X"}, snapshot)
	assert.Equal(t, []string{"X", "Y"}, e.StateNames())
}

func TestEngine_FlatStrategies(t *testing.T) {
	e := newFlatEngine(t, "X", "Y")
	require.NoError(t, e.SetState("X"))

	var trace []string
	x, _ := e.GetState("X")
	y, _ := e.GetState("Y")
	x.OnExit = append(x.OnExit, func(*domain.EventData) { trace = append(trace, "exit X") })
	y.OnEnter = append(y.OnEnter, func(*domain.EventData) { trace = append(trace, "enter Y") })

	created := e.AddTransition("go", []string{"X"}, "Y", nil, nil, nil)
	assert.True(t, created)
	created = e.AddTransition("go", []string{"Y"}, "X", nil, nil, nil)
	assert.False(t, created)

	fired, err := e.Fire("go")
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Equal(t, []string{"exit X", "enter Y"}, trace)
	assert.Equal(t, "Y", e.Current().Name())
}

func TestEngine_FlatResolverDoesNotBubble(t *testing.T) {
	e := New()
	e.resolver = FlatResolver{}

	parent := domain.NewState("P")
	child := domain.NewState("leaf")
	child.Parent = parent
	parent.Children = []*domain.State{child}
	require.NoError(t, e.AddState(parent))
	require.NoError(t, e.AddState(child))
	require.NoError(t, e.AddState(domain.NewState("other")))

	e.AddTransition("go", []string{"P"}, "other", nil, nil, nil)
	require.NoError(t, e.SetState("P.leaf"))

	_, err := e.Fire("go")
	var invalid *domain.InvalidTriggerError
	assert.ErrorAs(t, err, &invalid)
}

func TestEngine_UnknownDestination(t *testing.T) {
	e := newFlatEngine(t, "X")
	require.NoError(t, e.SetState("X"))
	e.AddTransition("go", []string{"X"}, "ghost", nil, nil, nil)

	_, err := e.Fire("go")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestEngine_InvalidTriggerWithoutCurrent(t *testing.T) {
	e := newFlatEngine(t, "X")

	_, err := e.Fire("go")
	var invalid *domain.InvalidTriggerError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "", invalid.State)
}

func TestEngine_BusyGuard(t *testing.T) {
	e := newFlatEngine(t, "X", "Y")
	require.NoError(t, e.SetState("X"))

	var nested error
	before := []domain.Callback{func(*domain.EventData) {
		_, nested = e.Fire("go")
	}}
	e.AddTransition("go", []string{"X"}, "Y", nil, before, nil)

	fired, err := e.Fire("go")
	require.NoError(t, err)
	assert.True(t, fired)
	assert.ErrorIs(t, nested, domain.ErrMachineBusy)

	// The busy flag is released after the failed attempt.
	require.NoError(t, e.SetState("X"))
	_, err = e.Fire("go")
	assert.NoError(t, err)
}

func TestEngine_HookInstrumentation(t *testing.T) {
	var events []string
	e := New(WithLifecycleHooks(domain.LifecycleHooks{
		OnStateEnter: func(ev *domain.StateEvent) { events = append(events, "enter "+ev.Name) },
		OnStateExit:  func(ev *domain.StateEvent) { events = append(events, "exit "+ev.Name) },
		OnTransition: func(ev *domain.TransitionEvent) {
			events = append(events, "fired "+ev.Trigger)
			assert.GreaterOrEqual(t, ev.Duration.Nanoseconds(), int64(0))
		},
	}))
	e.executor = &FlatExecutor{Engine: e}
	e.resolver = FlatResolver{}

	require.NoError(t, e.AddState(domain.NewState("X")))
	require.NoError(t, e.AddState(domain.NewState("Y")))
	require.NoError(t, e.SetState("X"))
	e.AddTransition("go", []string{"X"}, "Y", nil, nil, nil)

	_, err := e.Fire("go")
	require.NoError(t, err)
	assert.Equal(t, []string{"exit X", "enter Y", "fired go"}, events)
}

func TestEngine_TransitionsForReturnsCopy(t *testing.T) {
	e := newFlatEngine(t, "X", "Y")
	e.AddTransition("go", []string{"X", "Y"}, "X", nil, nil, nil)

	ts := e.TransitionsFor("go")
	require.Len(t, ts, 2)
	assert.Equal(t, "X", ts[0].Source)
	assert.Equal(t, "Y", ts[1].Source)

	ts[0] = nil
	assert.NotNil(t, e.TransitionsFor("go")[0])

	assert.Nil(t, e.TransitionsFor("ghost"))
	assert.Equal(t, []string{"go"}, e.EventTriggers())
}
