// Package catalog implements the catalog framework that tracks the
// availability of registered federated sources and answers source-info
// requests for the local catalog and the enterprise.
package catalog

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -destination=mocks/mock_framework.go -package=mocks -source=types.go Framework

// ErrSourceUnavailable is returned when source information cannot be produced,
// either because the framework has not completed a poll yet or because a
// requested source is not known.
var ErrSourceUnavailable = errors.New("source unavailable")

// SourceInfoRequest selects the sources to describe
type SourceInfoRequest struct {
	// Enterprise requests the local catalog and every federated source
	Enterprise bool `json:"enterprise"`

	// SourceIDs restricts the response to the given sources
	SourceIDs []string `json:"sourceIds,omitempty"`
}

// SourceDescriptor describes a single source and its last known availability
type SourceDescriptor struct {
	SourceID    string     `json:"sourceId"`
	Title       string     `json:"title,omitempty"`
	Version     string     `json:"version,omitempty"`
	Type        string     `json:"type,omitempty"`
	Available   bool       `json:"available"`
	LastChecked *time.Time `json:"lastChecked,omitempty"`
	Message     string     `json:"message,omitempty"`
}

// SourceInfoResponse holds the descriptors matching a SourceInfoRequest
type SourceInfoResponse struct {
	Descriptors []SourceDescriptor `json:"descriptors"`
}

// Framework answers source-info requests
type Framework interface {
	// SourceInfo returns descriptors for the requested sources.
	// It returns ErrSourceUnavailable when the information is not available.
	SourceInfo(ctx context.Context, req *SourceInfoRequest) (*SourceInfoResponse, error)
}
