package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/fedcatalog/source-admin/internal/api/catalog/v1"
	"github.com/fedcatalog/source-admin/internal/catalog"
)

type fakeCatalog struct {
	requests   []catalog.SourceInfoRequest
	refreshed  int
	infoErr    error
	refreshErr error
}

func (f *fakeCatalog) SourceInfo(_ context.Context, req *catalog.SourceInfoRequest) (*catalog.SourceInfoResponse, error) {
	f.requests = append(f.requests, *req)
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	if !req.Enterprise && len(req.SourceIDs) == 0 {
		return &catalog.SourceInfoResponse{}, nil
	}
	return &catalog.SourceInfoResponse{Descriptors: []catalog.SourceDescriptor{
		{SourceID: "local", Type: catalog.LocalSourceType, Available: true},
		{SourceID: "remote", Type: "http", Available: false, Message: "connection refused"},
	}}, nil
}

func (f *fakeCatalog) Refresh(_ context.Context) error {
	f.refreshed++
	return f.refreshErr
}

func TestListSources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		query       string
		wantStatus  int
		wantRequest *catalog.SourceInfoRequest
		wantCount   int
	}{
		{name: "default", query: "", wantStatus: http.StatusOK,
			wantRequest: &catalog.SourceInfoRequest{}, wantCount: 0},
		{name: "enterprise", query: "?enterprise=true", wantStatus: http.StatusOK,
			wantRequest: &catalog.SourceInfoRequest{Enterprise: true}, wantCount: 2},
		{name: "repeated and comma separated ids", query: "?id=a&id=b,%20c,", wantStatus: http.StatusOK,
			wantRequest: &catalog.SourceInfoRequest{SourceIDs: []string{"a", "b", "c"}}, wantCount: 2},
		{name: "invalid enterprise", query: "?enterprise=maybe", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &fakeCatalog{}
			rr := httptest.NewRecorder()
			v1.Router(c).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sources"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantRequest == nil {
				assert.Empty(t, c.requests)
				return
			}
			require.Len(t, c.requests, 1)
			assert.Equal(t, *tt.wantRequest, c.requests[0])

			var resp catalog.SourceInfoResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Len(t, resp.Descriptors, tt.wantCount)
			assert.NotNil(t, resp.Descriptors)
		})
	}
}

func TestListSources_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "unavailable", err: catalog.ErrSourceUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "internal error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			v1.Router(&fakeCatalog{infoErr: tt.err}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sources", nil))
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestRefreshSources(t *testing.T) {
	t.Parallel()

	c := &fakeCatalog{}
	rr := httptest.NewRecorder()
	v1.Router(c).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sources/refresh", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, c.refreshed)
	require.Len(t, c.requests, 1)
	assert.True(t, c.requests[0].Enterprise)

	var resp catalog.SourceInfoResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Descriptors, 2)
	assert.Equal(t, "connection refused", resp.Descriptors[1].Message)

	stopped := &fakeCatalog{refreshErr: catalog.ErrSourceUnavailable}
	rr = httptest.NewRecorder()
	v1.Router(stopped).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sources/refresh", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Empty(t, stopped.requests)
}
