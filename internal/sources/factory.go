package sources

import (
	"fmt"

	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/fedcatalog/source-admin/internal/config"
	git2 "github.com/fedcatalog/source-admin/internal/git"
	"github.com/fedcatalog/source-admin/internal/httpclient"
)

//go:generate mockgen -destination=mocks/mock_source_factory.go -package=mocks -source=factory.go SourceFactory

// SourceFactory creates sources from configuration admin properties
type SourceFactory interface {
	// Create builds a source of the given kind; props follow the YAML schema of a source entry
	Create(kind string, props map[string]any) (Source, error)
}

// Factory is the default SourceFactory
type Factory struct {
	httpClient httpclient.Client
	gitClient  git2.Client
	k8sClient  client.Client
}

var _ SourceFactory = (*Factory)(nil)

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithHTTPClient sets the client used by HTTP sources
func WithHTTPClient(c httpclient.Client) FactoryOption {
	return func(f *Factory) {
		f.httpClient = c
	}
}

// WithGitClient sets the client used by Git sources
func WithGitClient(c git2.Client) FactoryOption {
	return func(f *Factory) {
		f.gitClient = c
	}
}

// WithKubernetesClient sets the client used by ConfigMap sources
func WithKubernetesClient(c client.Client) FactoryOption {
	return func(f *Factory) {
		f.k8sClient = c
	}
}

// NewFactory creates a source factory with default HTTP and Git clients
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		httpClient: httpclient.NewDefaultClient(0),
		gitClient:  git2.NewDefaultGitClient(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create decodes and validates props, then builds the source
func (f *Factory) Create(kind string, props map[string]any) (Source, error) {
	src, err := config.SourceFromProperties(kind, props)
	if err != nil {
		return nil, fmt.Errorf("invalid %s source properties: %w", kind, err)
	}
	return f.CreateFromConfig(src)
}

// CreateFromConfig builds a source from a validated source configuration
func (f *Factory) CreateFromConfig(src *config.SourceConfig) (Source, error) {
	switch src.Type {
	case config.SourceTypeHTTP:
		return NewHTTPSource(src, f.httpClient)
	case config.SourceTypeGit:
		return NewGitSource(src, f.gitClient)
	case config.SourceTypeFile:
		return NewFileSource(src)
	case config.SourceTypePostgres:
		return NewPostgresSource(src)
	case config.SourceTypeConfigMap:
		return NewConfigMapSource(src, f.k8sClient)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", src.Type)
	}
}
