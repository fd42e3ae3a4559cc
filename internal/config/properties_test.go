package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceConfig_PropertiesRoundTrip(t *testing.T) {
	t.Parallel()

	src := &SourceConfig{
		ID:      "warehouse",
		PID:     "org.example.warehouse",
		Type:    SourceTypePostgres,
		Title:   "Warehouse",
		Version: "15.4",
		Postgres: &DatabaseConfig{
			Host:     "db.example.com",
			Port:     5432,
			User:     "reader",
			Database: "catalog",
		},
	}

	props, err := src.ToProperties()
	require.NoError(t, err)
	assert.Equal(t, "warehouse", props["id"])
	assert.NotContains(t, props, PropertyPID)

	postgres, ok := props["postgres"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "db.example.com", postgres["host"])

	decoded, err := SourceFromProperties(SourceTypePostgres, props)
	require.NoError(t, err)
	assert.Equal(t, "", decoded.PID)
	assert.Equal(t, src.Postgres, decoded.Postgres)
	assert.Equal(t, src.Title, decoded.Title)
}

func TestSourceFromProperties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    string
		props   map[string]any
		check   func(t *testing.T, src *SourceConfig)
		wantErr string
	}{
		{
			name: "json style properties",
			kind: SourceTypeHTTP,
			props: map[string]any{
				"id":   "remote",
				"http": map[string]any{"endpoint": "https://ddf.example.com", "pingPath": "/ping"},
			},
			check: func(t *testing.T, src *SourceConfig) {
				t.Helper()
				assert.Equal(t, SourceTypeHTTP, src.Type)
				assert.Equal(t, "/ping", src.HTTP.PingPath)
			},
		},
		{
			name: "numbers decoded from JSON",
			kind: SourceTypePostgres,
			props: map[string]any{
				"id": "warehouse",
				"postgres": map[string]any{
					"host": "db", "port": float64(5432), "user": "reader", "database": "catalog",
				},
			},
			check: func(t *testing.T, src *SourceConfig) {
				t.Helper()
				assert.Equal(t, 5432, src.Postgres.Port)
			},
		},
		{
			name:    "unknown kind",
			kind:    "ftp",
			props:   map[string]any{"id": "x"},
			wantErr: "unsupported source type 'ftp'",
		},
		{
			name:    "type mismatch",
			kind:    SourceTypeFile,
			props:   map[string]any{"id": "x", "type": "git", "file": map[string]any{"path": "/a"}},
			wantErr: "does not match factory type",
		},
		{
			name:    "missing block",
			kind:    SourceTypeFile,
			props:   map[string]any{"id": "x"},
			wantErr: "must be specified",
		},
		{
			name:    "wrong shape",
			kind:    SourceTypeFile,
			props:   map[string]any{"id": "x", "file": "not-a-map"},
			wantErr: "failed to decode properties",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := SourceFromProperties(tt.kind, tt.props)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, src)
		})
	}
}
