// Package helpers provides utilities for the source admin integration tests.
package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/onsi/gomega"

	"github.com/fedcatalog/source-admin/internal/admin"
	adminapp "github.com/fedcatalog/source-admin/internal/app"
	"github.com/fedcatalog/source-admin/internal/catalog"
	"github.com/fedcatalog/source-admin/internal/config"
)

// ServerTestHelper manages the source admin server lifecycle for testing
type ServerTestHelper struct {
	ctx        context.Context
	configPath string
	baseURL    string
	address    string
	httpClient *http.Client
	app        *adminapp.SourceAdminApp
}

// NewServerTestHelper creates a helper for the configuration file at configPath
// listening on a free local port
func NewServerTestHelper(ctx context.Context, configPath string) (*ServerTestHelper, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to find a free port: %w", err)
	}
	address := listener.Addr().String()
	if err := listener.Close(); err != nil {
		return nil, err
	}

	return &ServerTestHelper{
		ctx:        ctx,
		configPath: configPath,
		address:    address,
		baseURL:    "http://" + address,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// StartServer builds the application and starts it in the background
func (s *ServerTestHelper) StartServer() error {
	manager, err := config.NewManager(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := adminapp.NewSourceAdminApp(s.ctx,
		adminapp.WithConfigManager(manager),
		adminapp.WithAddress(s.address),
	)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}
	s.app = app

	go func() {
		if err := app.Start(); err != nil {
			// The test fails when it tries to connect
			fmt.Fprintf(os.Stderr, "Server start failed: %v\n", err)
		}
	}()

	return nil
}

// StopServer gracefully stops the server
func (s *ServerTestHelper) StopServer() error {
	if s.app != nil {
		return s.app.Stop(5 * time.Second)
	}
	return nil
}

// WaitForServerReady waits until path answers 200
func (s *ServerTestHelper) WaitForServerReady(path string, timeout time.Duration) {
	gomega.Eventually(func() (int, error) {
		resp, err := s.httpClient.Get(s.baseURL + path)
		if err != nil {
			return 0, err
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		return resp.StatusCode, nil
	}, timeout, 100*time.Millisecond).Should(gomega.Equal(http.StatusOK), "%s should answer 200", path)
}

// GetView fetches the admin view of pid
func (s *ServerTestHelper) GetView(pid string) (admin.ConfigurationView, int, error) {
	var view admin.ConfigurationView
	status, err := s.doJSON(http.MethodGet, "/admin/v1/configurations/"+pid, nil, &view)
	return view, status, err
}

// CreateConfiguration posts a factory configuration
func (s *ServerTestHelper) CreateConfiguration(factoryPID string, props map[string]any) (admin.ConfigurationView, int, error) {
	var view admin.ConfigurationView
	body := map[string]any{"factoryPid": factoryPID, "properties": props}
	status, err := s.doJSON(http.MethodPost, "/admin/v1/configurations", body, &view)
	return view, status, err
}

// DeleteConfiguration deletes configuration pid
func (s *ServerTestHelper) DeleteConfiguration(pid string) (int, error) {
	return s.doJSON(http.MethodDelete, "/admin/v1/configurations/"+pid, nil, nil)
}

// GetSources fetches the enterprise source descriptors
func (s *ServerTestHelper) GetSources() (*catalog.SourceInfoResponse, int, error) {
	var resp catalog.SourceInfoResponse
	status, err := s.doJSON(http.MethodGet, "/catalog/v1/sources?enterprise=true", nil, &resp)
	return &resp, status, err
}

// RefreshSources forces a catalog poll
func (s *ServerTestHelper) RefreshSources() (*catalog.SourceInfoResponse, int, error) {
	var resp catalog.SourceInfoResponse
	status, err := s.doJSON(http.MethodPost, "/catalog/v1/sources/refresh", nil, &resp)
	return &resp, status, err
}

func (s *ServerTestHelper) doJSON(method, path string, body, out any) (int, error) {
	var reader bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reader).Encode(body); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequestWithContext(s.ctx, method, s.baseURL+path, &reader)
	if err != nil {
		return 0, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if out != nil && resp.StatusCode < http.StatusBadRequest {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// WriteConfigYAML writes content to config.yaml in dir and returns its path
func WriteConfigYAML(dir, content string) string {
	path := filepath.Join(dir, "config.yaml")
	gomega.Expect(os.WriteFile(path, []byte(content), 0o600)).To(gomega.Succeed())
	return path
}
