package environment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samctl/internal/config"
)

// fakeDriver records launch/stop order and can fail selected components.
type fakeDriver struct {
	mu      sync.Mutex
	order   []string
	failing map[string]error
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{failing: make(map[string]error)}
}

func (d *fakeDriver) Launch(ctx context.Context, comp *config.Component) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.failing[comp.Name]; err != nil {
		return err
	}
	d.order = append(d.order, "launch:"+comp.Name)
	return nil
}

func (d *fakeDriver) Stop(ctx context.Context, comp *config.Component) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.failing[comp.Name]; err != nil {
		return err
	}
	d.order = append(d.order, "stop:"+comp.Name)
	return nil
}

func (d *fakeDriver) events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.order...)
}

func graph(components ...config.Component) config.Config {
	return config.Config{Name: "test", Components: components}
}

func container(name string, deps ...string) config.Component {
	return config.Component{
		Name:         name,
		Type:         config.TypeContainer,
		Image:        "img",
		Dependencies: deps,
	}
}

func newTestManager(cfg config.Config) (*Manager, *fakeDriver) {
	driver := newFakeDriver()
	m := NewManager(cfg,
		WithDriver(config.TypeContainer, driver),
		WithDriver(config.TypePod, driver),
		WithDriver(config.TypeProcess, driver),
	)
	return m, driver
}

func indexOf(events []string, event string) int {
	for i, e := range events {
		if e == event {
			return i
		}
	}
	return -1
}

func TestStartComponent_StartsDependenciesFirst(t *testing.T) {
	cfg := graph(
		container("db"),
		container("cache"),
		container("api", "db", "cache"),
		container("frontend", "api"),
	)
	m, driver := newTestManager(cfg)

	err := m.StartComponent(context.Background(), "frontend")
	require.NoError(t, err)

	events := driver.events()
	require.Len(t, events, 4)
	assert.Less(t, indexOf(events, "launch:db"), indexOf(events, "launch:api"))
	assert.Less(t, indexOf(events, "launch:cache"), indexOf(events, "launch:api"))
	assert.Less(t, indexOf(events, "launch:api"), indexOf(events, "launch:frontend"))

	for _, name := range []string{"db", "cache", "api", "frontend"} {
		assert.True(t, m.IsRunning(name))
	}
}

func TestStartComponent_Idempotent(t *testing.T) {
	cfg := graph(container("db"))
	m, driver := newTestManager(cfg)

	require.NoError(t, m.StartComponent(context.Background(), "db"))
	require.NoError(t, m.StartComponent(context.Background(), "db"))

	assert.Equal(t, []string{"launch:db"}, driver.events())
}

func TestStartComponent_UnknownName(t *testing.T) {
	m, _ := newTestManager(graph(container("db")))

	err := m.StartComponent(context.Background(), "ghost")
	assert.ErrorIs(t, err, config.ErrUnknownComponent)
}

func TestStartComponent_CycleError(t *testing.T) {
	// Validate would reject this graph; build it directly to exercise the
	// fixed-point loop's own cycle detection.
	cfg := graph(
		container("a", "b"),
		container("b", "a"),
		container("top", "a"),
	)
	m, _ := newTestManager(cfg)

	err := m.StartComponent(context.Background(), "top")
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []string{"a", "b"}, cycleErr.Remaining)
}

func TestStartComponent_LaunchFailureAborts(t *testing.T) {
	cfg := graph(
		container("db"),
		container("api", "db"),
		container("frontend", "api"),
	)
	m, driver := newTestManager(cfg)
	launchErr := errors.New("image pull failed")
	driver.failing["api"] = launchErr

	err := m.StartComponent(context.Background(), "frontend")
	require.ErrorIs(t, err, launchErr)

	// Already-started dependencies stay started, no rollback.
	assert.True(t, m.IsRunning("db"))
	assert.False(t, m.IsRunning("api"))
	assert.False(t, m.IsRunning("frontend"))
}

func TestStopComponent_StopsDependentsFirst(t *testing.T) {
	cfg := graph(
		container("db"),
		container("api", "db"),
		container("worker", "api"),
	)
	m, driver := newTestManager(cfg)
	require.NoError(t, m.StartComponent(context.Background(), "worker"))

	require.NoError(t, m.StopComponent(context.Background(), "db"))

	events := driver.events()
	assert.Less(t, indexOf(events, "stop:worker"), indexOf(events, "stop:api"))
	assert.Less(t, indexOf(events, "stop:api"), indexOf(events, "stop:db"))
	assert.Empty(t, m.Running())
}

func TestStopComponent_NotRunningIsNoop(t *testing.T) {
	cfg := graph(container("db"))
	m, driver := newTestManager(cfg)

	require.NoError(t, m.StopComponent(context.Background(), "db"))
	assert.Empty(t, driver.events())
}

func TestStartThenStopRestoresRunningSet(t *testing.T) {
	cfg := graph(container("db"))
	m, _ := newTestManager(cfg)

	require.NoError(t, m.StartComponent(context.Background(), "db"))
	require.True(t, m.IsRunning("db"))

	require.NoError(t, m.StopComponent(context.Background(), "db"))
	assert.False(t, m.IsRunning("db"))
}

func TestStartAll_OnlyDefaultsAndTheirDeps(t *testing.T) {
	base := container("base")
	app := container("app", "base")
	app.StartByDefault = true
	extra := container("extra")

	cfg := graph(base, app, extra)
	m, driver := newTestManager(cfg)

	require.NoError(t, m.StartAll(context.Background()))

	events := driver.events()
	assert.Less(t, indexOf(events, "launch:base"), indexOf(events, "launch:app"))
	assert.Equal(t, -1, indexOf(events, "launch:extra"))
}

func TestStopAll_SweepsPods(t *testing.T) {
	pod := config.Component{
		Name: "backend",
		Type: config.TypePod,
		Containers: []config.Container{
			{Name: "api", Image: "img"},
		},
	}
	cfg := graph(container("db"), pod)
	m, driver := newTestManager(cfg)
	require.NoError(t, m.StartComponent(context.Background(), "db"))

	require.NoError(t, m.StopAll(context.Background()))

	events := driver.events()
	assert.Contains(t, events, "stop:db")
	// The pod was never started but is still removed by the sweep.
	assert.Contains(t, events, "stop:backend")
}

func TestCycleErrorMessageNamesStuckComponents(t *testing.T) {
	err := &CycleError{Op: "start", Remaining: []string{"a", "b"}}
	assert.Contains(t, err.Error(), "a, b")
	assert.Contains(t, err.Error(), "start")
}

func TestDriverErrorIncludesOutput(t *testing.T) {
	wrapped := errors.New("exit status 125")
	err := &DriverError{Component: "db", Output: "no such image\n", Err: wrapped}
	assert.Contains(t, err.Error(), "db")
	assert.Contains(t, err.Error(), "no such image")
	assert.ErrorIs(t, err, wrapped)
}
