package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter_Match(t *testing.T) {
	t.Parallel()

	ref := ServiceReference{
		ID:         7,
		Interfaces: []string{"catalog.source.FederatedSource", "catalog.source.ConfiguredService"},
		Properties: map[string]string{
			PropServicePID: "federated.source.http.remote",
			"source.id":    "remote",
			"source.type":  "http",
			"title":        "Remote (primary)",
		},
	}

	tests := []struct {
		name   string
		filter string
		want   bool
	}{
		{name: "equality", filter: "(service.pid=federated.source.http.remote)", want: true},
		{name: "equality mismatch", filter: "(service.pid=other)", want: false},
		{name: "attribute is case insensitive", filter: "(SERVICE.PID=federated.source.http.remote)", want: true},
		{name: "value is case sensitive", filter: "(source.id=REMOTE)", want: false},
		{name: "presence", filter: "(source.type=*)", want: true},
		{name: "presence missing", filter: "(source.version=*)", want: false},
		{name: "prefix", filter: "(service.pid=federated.source.*)", want: true},
		{name: "infix", filter: "(service.pid=*.http.*)", want: true},
		{name: "suffix mismatch", filter: "(service.pid=*.git)", want: false},
		{name: "object class matches any interface", filter: "(objectClass=catalog.source.ConfiguredService)", want: true},
		{name: "and", filter: "(&(source.type=http)(source.id=remote))", want: true},
		{name: "and short circuits", filter: "(&(source.type=http)(source.id=other))", want: false},
		{name: "or", filter: "(|(source.type=git)(source.id=remote))", want: true},
		{name: "not", filter: "(!(source.type=git))", want: true},
		{name: "escaped parentheses", filter: `(title=Remote \(primary\))`, want: true},
		{name: "escaped star is literal", filter: `(title=Remote \*)`, want: false},
		{name: "whitespace between items", filter: " (& (source.type=http) (source.id=remote) ) ", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := ParseFilter(tt.filter)
			require.NoError(t, err)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.Match(ref))
		})
	}
}

func TestParseFilter_Empty(t *testing.T) {
	t.Parallel()

	for _, filter := range []string{"", "   "} {
		f, err := ParseFilter(filter)
		require.NoError(t, err)
		assert.Nil(t, f)
	}
}

func TestParseFilter_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		filter  string
		wantErr string
	}{
		{name: "missing parentheses", filter: "service.pid=a", wantErr: "expected '('"},
		{name: "unterminated", filter: "(service.pid=a", wantErr: "unterminated value"},
		{name: "missing operator", filter: "(service.pid)", wantErr: "expected '='"},
		{name: "missing operator at end", filter: "(&(a=b)(service.pid))", wantErr: "expected '='"},
		{name: "missing attribute", filter: "(=a)", wantErr: "missing attribute name"},
		{name: "approximate match", filter: "(service.pid~=a)", wantErr: "invalid character"},
		{name: "ordering match", filter: "(service.pid>=a)", wantErr: "invalid character"},
		{name: "empty and", filter: "(&)", wantErr: "empty filter list"},
		{name: "trailing characters", filter: "(a=b)(c=d)", wantErr: "unexpected trailing characters"},
		{name: "nested open paren in value", filter: "(a=(b)", wantErr: "unescaped '('"},
		{name: "dangling escape", filter: `(a=b\`, wantErr: "dangling escape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseFilter(tt.filter)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFilter))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFilter_String(t *testing.T) {
	t.Parallel()

	f, err := ParseFilter(`(&(service.pid=a\(b\))(|(x=*)(y=pre*)))`)
	require.NoError(t, err)
	assert.Equal(t, `(&(service.pid=a\(b\))(|(x=*)(y=pre*)))`, f.String())
}
