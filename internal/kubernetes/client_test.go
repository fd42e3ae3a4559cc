package kubernetes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/rest"
)

const testKubeconfig = `apiVersion: v1
kind: Config
clusters:
- name: test
  cluster:
    server: https://127.0.0.1:6443
contexts:
- name: test
  context:
    cluster: test
    user: test
current-context: test
users:
- name: test
  user:
    token: secret
`

func TestNewScheme(t *testing.T) {
	t.Parallel()

	scheme, err := NewScheme()
	require.NoError(t, err)
	assert.True(t, scheme.Recognizes(schema.GroupVersionKind{Version: "v1", Kind: "ConfigMap"}))

	gvks, _, err := scheme.ObjectKinds(&corev1.ConfigMap{})
	require.NoError(t, err)
	require.NotEmpty(t, gvks)
	assert.Equal(t, "ConfigMap", gvks[0].Kind)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opt     Option
		wantErr string
	}{
		{name: "empty kubeconfig", opt: WithKubeconfig(""), wantErr: "kubeconfig path is required"},
		{name: "nil rest config", opt: WithRESTConfig(nil), wantErr: "rest config is required"},
		{name: "kubeconfig", opt: WithKubeconfig("/tmp/kubeconfig")},
		{name: "rest config", opt: WithRESTConfig(&rest.Config{Host: "https://127.0.0.1:6443"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opt(&clientOptions{})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewClient_RESTConfig(t *testing.T) {
	t.Parallel()

	c, err := NewClient(WithRESTConfig(&rest.Config{Host: "https://127.0.0.1:6443"}))
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestNewClient_Kubeconfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "kubeconfig")
	require.NoError(t, os.WriteFile(path, []byte(testKubeconfig), 0o600))

	o := &clientOptions{}
	require.NoError(t, WithKubeconfig(path)(o))
	cfg, err := o.resolveRESTConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://127.0.0.1:6443", cfg.Host)
	assert.Equal(t, "secret", cfg.BearerToken)

	c, err := NewClient(WithKubeconfig(path))
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestNewClient_MissingKubeconfig(t *testing.T) {
	t.Parallel()

	_, err := NewClient(WithKubeconfig(filepath.Join(t.TempDir(), "missing")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load kubeconfig")
}
