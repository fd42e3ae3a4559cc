package sources

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fedcatalog/source-admin/internal/config"
	"github.com/fedcatalog/source-admin/internal/httpclient"
)

// HTTPSource is a federated source reached over HTTP(S)
type HTTPSource struct {
	baseSource
	client  httpclient.Client
	pingURL string
}

var _ Source = (*HTTPSource)(nil)

// NewHTTPSource creates an HTTP source from a validated source configuration
func NewHTTPSource(src *config.SourceConfig, client httpclient.Client) (*HTTPSource, error) {
	if src.HTTP == nil {
		return nil, fmt.Errorf("http configuration is required for source type %s", config.SourceTypeHTTP)
	}
	if client == nil {
		return nil, fmt.Errorf("http client cannot be nil")
	}

	pingURL := src.HTTP.Endpoint
	if src.HTTP.PingPath != "" {
		var err error
		pingURL, err = url.JoinPath(src.HTTP.Endpoint, src.HTTP.PingPath)
		if err != nil {
			return nil, fmt.Errorf("invalid ping path: %w", err)
		}
	}

	return &HTTPSource{
		baseSource: newBaseSource(src.ID, config.SourceTypeHTTP, src.Title, src.Version),
		client:     client,
		pingURL:    pingURL,
	}, nil
}

// Check sends a GET to the endpoint, joined with the ping path when set
func (s *HTTPSource) Check(ctx context.Context) error {
	if _, err := s.client.Get(ctx, s.pingURL); err != nil {
		return fmt.Errorf("http source %s: %w", s.id, err)
	}
	return nil
}

// IsAvailable reports whether the endpoint answered with a 2xx status
func (s *HTTPSource) IsAvailable(ctx context.Context) bool {
	return s.Check(ctx) == nil
}
