package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedcatalog/source-admin/internal/admin"
	"github.com/fedcatalog/source-admin/internal/registry"
	"github.com/fedcatalog/source-admin/internal/sources"
)

type recordingBinder struct {
	bindErr error
	calls   []string
}

func (b *recordingBinder) Bind(pid, _ string, _ map[string]any) (bool, error) {
	b.calls = append(b.calls, "bind "+pid)
	return true, b.bindErr
}

func (b *recordingBinder) Unbind(pid string) {
	b.calls = append(b.calls, "unbind "+pid)
}

func TestBindSources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		event   admin.EventType
		bindErr error
		want    []string
	}{
		{name: "created", event: admin.EventCreated, want: []string{"bind p"}},
		{name: "updated", event: admin.EventUpdated, want: []string{"bind p"}},
		{name: "deleted", event: admin.EventDeleted, want: []string{"unbind p"}},
		{name: "failed bind removes previous source", event: admin.EventUpdated,
			bindErr: errors.New("invalid properties"), want: []string{"bind p", "unbind p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := &recordingBinder{bindErr: tt.bindErr}
			bindSources(b)(admin.Event{
				Type:          tt.event,
				Configuration: admin.Configuration{PID: "p", FactoryPID: "federated.source.file"},
			})
			assert.Equal(t, tt.want, b.calls)
		})
	}
}

func TestBindSources_UpdateRacingDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := registry.New()
	svc := admin.New(reg)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	svc.Subscribe(func(ev admin.Event) {
		if ev.Type == admin.EventUpdated {
			once.Do(func() {
				close(entered)
				<-release
			})
		}
	})
	svc.Subscribe(bindSources(sources.NewBinder(reg, sources.NewFactory())))

	archive := t.TempDir()
	props := map[string]any{"id": "archive", "file": map[string]any{"path": archive}}
	created, err := svc.Create(ctx, "federated.source.file", props)
	require.NoError(t, err)

	updateDone := make(chan error, 1)
	go func() {
		_, err := svc.Update(ctx, created.PID, props)
		updateDone <- err
	}()
	<-entered

	deleteDone := make(chan error, 1)
	go func() {
		deleteDone <- svc.Delete(ctx, created.PID)
	}()

	close(release)
	require.NoError(t, <-updateDone)
	require.NoError(t, <-deleteDone)

	refs, err := reg.AllServiceReferences(sources.FederatedSourceInterface, "")
	require.NoError(t, err)
	assert.Empty(t, refs)
}
