package app

import (
	"log/slog"

	"github.com/fedcatalog/source-admin/internal/admin"
)

// sourceBinder is the part of sources.Binder driven by configuration events
type sourceBinder interface {
	Bind(pid, factoryPID string, props map[string]any) (bool, error)
	Unbind(pid string)
}

// bindSources returns a configuration admin listener that creates, replaces
// and removes federated sources as their configurations change.
// A configuration that fails to bind leaves no source registered.
func bindSources(b sourceBinder) func(admin.Event) {
	return func(ev admin.Event) {
		c := ev.Configuration
		switch ev.Type {
		case admin.EventCreated, admin.EventUpdated:
			if _, err := b.Bind(c.PID, c.FactoryPID, c.Properties); err != nil {
				slog.Error("Failed to bind source configuration",
					"pid", c.PID,
					"factory_pid", c.FactoryPID,
					"error", err)
				b.Unbind(c.PID)
			}
		case admin.EventDeleted:
			b.Unbind(c.PID)
		}
	}
}
