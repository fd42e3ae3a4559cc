package sources

import (
	"context"
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/fedcatalog/source-admin/internal/config"
)

// ErrNoClusterClient is returned by ConfigMap sources when no Kubernetes client is configured
var ErrNoClusterClient = errors.New("kubernetes client not available")

// ConfigMapSource is a federated source published as a Kubernetes ConfigMap
type ConfigMapSource struct {
	baseSource
	client    client.Client
	namespace string
	name      string
	key       string
}

var _ Source = (*ConfigMapSource)(nil)

// NewConfigMapSource creates a ConfigMap source. A nil client is accepted; the
// source then reports itself unavailable.
func NewConfigMapSource(src *config.SourceConfig, k8sClient client.Client) (*ConfigMapSource, error) {
	if src.ConfigMap == nil {
		return nil, fmt.Errorf("configMap configuration is required for source type %s", config.SourceTypeConfigMap)
	}

	return &ConfigMapSource{
		baseSource: newBaseSource(src.ID, config.SourceTypeConfigMap, src.Title, src.Version),
		client:     k8sClient,
		namespace:  src.ConfigMap.Namespace,
		name:       src.ConfigMap.Name,
		key:        src.ConfigMap.Key,
	}, nil
}

// Check fetches the ConfigMap and, when a key is configured, looks it up
func (s *ConfigMapSource) Check(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("configmap source %s: %w", s.id, ErrNoClusterClient)
	}

	var cm corev1.ConfigMap
	key := types.NamespacedName{Namespace: s.namespace, Name: s.name}
	if err := s.client.Get(ctx, key, &cm); err != nil {
		return fmt.Errorf("configmap source %s: failed to get ConfigMap %s: %w", s.id, key, err)
	}

	if s.key == "" {
		return nil
	}
	if _, ok := cm.Data[s.key]; ok {
		return nil
	}
	if _, ok := cm.BinaryData[s.key]; ok {
		return nil
	}
	return fmt.Errorf("configmap source %s: key %s not found in ConfigMap %s", s.id, s.key, key)
}

// IsAvailable reports whether the ConfigMap exists
func (s *ConfigMapSource) IsAvailable(ctx context.Context) bool {
	return s.Check(ctx) == nil
}
