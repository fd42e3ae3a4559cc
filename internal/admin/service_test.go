package admin

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fedcatalog/source-admin/internal/config"
	"github.com/fedcatalog/source-admin/internal/plugin/mocks"
	"github.com/fedcatalog/source-admin/internal/registry"
)

const fileFactoryPID = "federated.source.file"

// lifecyclePlugin is a plugin mock that also implements plugin.Lifecycle
type lifecyclePlugin struct {
	*mocks.MockConfigurationAdminPlugin
	*mocks.MockLifecycle
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) summary() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = string(ev.Type) + " " + ev.Configuration.PID
	}
	return out
}

func archiveProps(path string) map[string]any {
	return map[string]any{"id": "archive", "file": map[string]any{"path": path}}
}

func TestService_CRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := New(registry.New())
	events := &eventRecorder{}
	svc.Subscribe(events.record)

	created, err := svc.Create(ctx, fileFactoryPID, archiveProps("/srv/archive"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.PID, fileFactoryPID+"."))
	assert.Equal(t, fileFactoryPID, created.FactoryPID)
	assert.Equal(t, OriginAPI, created.Origin)

	got, err := svc.Get(ctx, created.PID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	updated, err := svc.Update(ctx, created.PID, archiveProps("/srv/archive-2"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/archive-2", updated.Properties["file"].(map[string]any)["path"])

	plain, err := svc.Create(ctx, "org.example.logging", map[string]any{"level": "info"})
	require.NoError(t, err)

	list := svc.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, created.PID, list[0].PID)
	assert.Equal(t, plain.PID, list[1].PID)

	require.NoError(t, svc.Delete(ctx, created.PID))
	_, err = svc.Get(ctx, created.PID)
	assert.True(t, errors.Is(err, ErrConfigurationNotFound))

	assert.Equal(t, []string{
		"Created " + created.PID,
		"Updated " + created.PID,
		"Created " + plain.PID,
		"Deleted " + created.PID,
	}, events.summary())
}

func TestService_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := New(registry.New())

	_, err := svc.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrConfigurationNotFound))

	_, err = svc.Update(ctx, "missing", nil)
	assert.True(t, errors.Is(err, ErrConfigurationNotFound))

	assert.True(t, errors.Is(svc.Delete(ctx, "missing"), ErrConfigurationNotFound))

	_, err = svc.Create(ctx, "", map[string]any{})
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	_, err = svc.Create(ctx, fileFactoryPID, map[string]any{"id": "archive"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	created, err := svc.Create(ctx, fileFactoryPID, archiveProps("/srv/archive"))
	require.NoError(t, err)
	_, err = svc.Update(ctx, created.PID, map[string]any{"id": "archive", "http": map[string]any{"endpoint": "x"}})
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
}

func TestService_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := New(registry.New())

	props := archiveProps("/srv/archive")
	created, err := svc.Create(ctx, fileFactoryPID, props)
	require.NoError(t, err)

	props["file"].(map[string]any)["path"] = "/tmp/changed"
	created.Properties["id"] = "changed"

	got, err := svc.Get(ctx, created.PID)
	require.NoError(t, err)
	assert.Equal(t, "archive", got.Properties["id"])
	assert.Equal(t, "/srv/archive", got.Properties["file"].(map[string]any)["path"])
}

func TestService_View(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	reg := registry.New()
	svc := New(reg)

	created, err := svc.Create(ctx, fileFactoryPID, archiveProps("/srv/archive"))
	require.NoError(t, err)

	first := mocks.NewMockConfigurationAdminPlugin(ctrl)
	second := mocks.NewMockConfigurationAdminPlugin(ctrl)

	first.EXPECT().ConfigurationData(gomock.Any(), created.PID, created.Properties, reg).
		DoAndReturn(func(_ context.Context, _ string, existing map[string]any, _ registry.Lookup) map[string]any {
			existing["id"] = "mutated by plugin"
			return map[string]any{"available": false, "checkedBy": "first"}
		})
	second.EXPECT().ConfigurationData(gomock.Any(), created.PID, created.Properties, reg).
		Return(map[string]any{"available": true})

	require.NoError(t, svc.AddPlugin(ctx, first))
	require.NoError(t, svc.AddPlugin(ctx, second))

	view, err := svc.View(ctx, created.PID)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"available": true, "checkedBy": "first"}, view.Data)
	assert.Equal(t, "archive", view.Properties["id"])

	got, err := svc.Get(ctx, created.PID)
	require.NoError(t, err)
	assert.Equal(t, "archive", got.Properties["id"])

	_, err = svc.View(ctx, "missing")
	assert.True(t, errors.Is(err, ErrConfigurationNotFound))
}

func TestService_Views(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := New(registry.New())

	_, err := svc.Create(ctx, "org.example.b", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "org.example.a", nil)
	require.NoError(t, err)

	views := svc.Views(ctx)
	require.Len(t, views, 2)
	assert.True(t, strings.HasPrefix(views[0].PID, "org.example.a."))
	assert.NotNil(t, views[0].Data)
	assert.Empty(t, views[0].Data)
	assert.NotNil(t, views[0].Properties)
}

func TestService_PluginLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)

	p := lifecyclePlugin{
		MockConfigurationAdminPlugin: mocks.NewMockConfigurationAdminPlugin(ctrl),
		MockLifecycle:                mocks.NewMockLifecycle(ctrl),
	}
	failing := lifecyclePlugin{
		MockConfigurationAdminPlugin: mocks.NewMockConfigurationAdminPlugin(ctrl),
		MockLifecycle:                mocks.NewMockLifecycle(ctrl),
	}

	gomock.InOrder(
		p.MockLifecycle.EXPECT().Init(ctx).Return(nil),
		failing.MockLifecycle.EXPECT().Init(ctx).Return(errors.New("boom")),
		p.MockLifecycle.EXPECT().Destroy(ctx).Return(errors.New("teardown failed")),
	)

	svc := New(registry.New())
	require.NoError(t, svc.AddPlugin(ctx, p))

	err := svc.AddPlugin(ctx, failing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	assert.Error(t, svc.AddPlugin(ctx, nil))

	err = svc.Close(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teardown failed")

	require.NoError(t, svc.Close(ctx))
}

func TestService_Seed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := New(registry.New())
	events := &eventRecorder{}
	svc.Subscribe(events.record)

	apiCreated, err := svc.Create(ctx, "org.example.logging", map[string]any{"level": "debug"})
	require.NoError(t, err)

	cfg, err := config.ParseConfig([]byte(`
sources:
  - id: archive
    file: {path: /srv/archive}
  - id: remote
    pid: custom.remote
    http: {endpoint: https://ddf.example.com}
configurations:
  - pid: org.example.metrics
    properties: {interval: 30}
`))
	require.NoError(t, err)
	require.NoError(t, svc.Seed(ctx, cfg))

	assert.Equal(t, []string{
		"Created " + apiCreated.PID,
		"Created custom.remote",
		"Created federated.source.file.archive",
		"Created org.example.metrics",
	}, events.summary())

	archive, err := svc.Get(ctx, "federated.source.file.archive")
	require.NoError(t, err)
	assert.Equal(t, fileFactoryPID, archive.FactoryPID)
	assert.Equal(t, OriginFile, archive.Origin)
	assert.Equal(t, "archive", archive.Properties["id"])
	assert.Equal(t, "file", archive.Properties["type"])
	assert.NotContains(t, archive.Properties, "pid")

	remote, err := svc.Get(ctx, "custom.remote")
	require.NoError(t, err)
	assert.Equal(t, "federated.source.http", remote.FactoryPID)

	// seeding the same configuration again changes nothing
	require.NoError(t, svc.Seed(ctx, cfg))
	assert.Len(t, events.summary(), 4)

	reloaded, err := config.ParseConfig([]byte(`
sources:
  - id: archive
    file: {path: /srv/archive-v2}
`))
	require.NoError(t, err)
	require.NoError(t, svc.Seed(ctx, reloaded))

	assert.Equal(t, []string{
		"Deleted custom.remote",
		"Deleted org.example.metrics",
		"Updated federated.source.file.archive",
	}, events.summary()[4:])

	pids := make([]string, 0)
	for _, c := range svc.List(ctx) {
		pids = append(pids, c.PID)
	}
	assert.Equal(t, []string{"federated.source.file.archive", apiCreated.PID}, pids)

	require.NoError(t, svc.Seed(ctx, nil))
	assert.Equal(t, "Deleted federated.source.file.archive", events.summary()[7])
}

func TestService_SeedInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{name: "source without settings", cfg: &config.Config{
			Sources: []config.SourceConfig{{ID: "broken", Type: config.SourceTypeFile}},
		}},
		{name: "configuration without pid", cfg: &config.Config{
			Configurations: []config.ConfigurationEntry{{Properties: map[string]any{"a": 1}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := New(registry.New())
			events := &eventRecorder{}
			svc.Subscribe(events.record)

			err := svc.Seed(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration))
			assert.Empty(t, events.summary())
			assert.Empty(t, svc.List(context.Background()))
		})
	}
}

func TestService_ChangesDeliveredInOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := New(registry.New())

	created, err := svc.Create(ctx, fileFactoryPID, archiveProps("/srv/archive"))
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	svc.Subscribe(func(ev Event) {
		if ev.Type == EventUpdated {
			once.Do(func() {
				close(entered)
				<-release
			})
		}
	})
	events := &eventRecorder{}
	svc.Subscribe(events.record)

	updateDone := make(chan error, 1)
	go func() {
		_, err := svc.Update(ctx, created.PID, archiveProps("/srv/archive-2"))
		updateDone <- err
	}()
	<-entered

	var deleted sync.WaitGroup
	deleted.Add(1)
	go func() {
		defer deleted.Done()
		assert.NoError(t, svc.Delete(ctx, created.PID))
	}()

	// the delete waits for the update's listeners
	assert.Never(t, func() bool {
		_, err := svc.Get(ctx, created.PID)
		return err != nil
	}, 50*time.Millisecond, 5*time.Millisecond)

	close(release)
	require.NoError(t, <-updateDone)
	deleted.Wait()

	assert.Equal(t, []string{
		"Updated " + created.PID,
		"Deleted " + created.PID,
	}, events.summary())
}
