package kubernetes

import (
	"fmt"
	"log/slog"

	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

type clientOptions struct {
	kubeconfig string
	restConfig *rest.Config
}

// Option configures NewClient
type Option func(*clientOptions) error

// WithKubeconfig loads the cluster connection from the kubeconfig file at path
func WithKubeconfig(path string) Option {
	return func(o *clientOptions) error {
		if path == "" {
			return fmt.Errorf("kubeconfig path is required")
		}
		o.kubeconfig = path
		return nil
	}
}

// WithRESTConfig uses cfg instead of discovering the cluster connection
func WithRESTConfig(cfg *rest.Config) Option {
	return func(o *clientOptions) error {
		if cfg == nil {
			return fmt.Errorf("rest config is required")
		}
		o.restConfig = cfg
		return nil
	}
}

// NewScheme returns a scheme with the built-in Kubernetes types registered
func NewScheme() (*runtime.Scheme, error) {
	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		return nil, fmt.Errorf("failed to add client-go scheme: %w", err)
	}
	return scheme, nil
}

// NewClient creates a controller-runtime client. Without options the
// connection is discovered the way kubectl does: the --kubeconfig flag,
// the in-cluster service account, $KUBECONFIG, then ~/.kube/config.
func NewClient(opts ...Option) (client.Client, error) {
	o := &clientOptions{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	restConfig, err := o.resolveRESTConfig()
	if err != nil {
		return nil, err
	}

	scheme, err := NewScheme()
	if err != nil {
		return nil, err
	}

	c, err := client.New(restConfig, client.Options{Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	slog.Debug("Kubernetes client created", "host", restConfig.Host)
	return c, nil
}

func (o *clientOptions) resolveRESTConfig() (*rest.Config, error) {
	switch {
	case o.restConfig != nil:
		return o.restConfig, nil
	case o.kubeconfig != "":
		cfg, err := clientcmd.BuildConfigFromFlags("", o.kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to load kubeconfig %s: %w", o.kubeconfig, err)
		}
		return cfg, nil
	default:
		cfg, err := ctrl.GetConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to discover kubernetes config: %w", err)
		}
		return cfg, nil
	}
}
