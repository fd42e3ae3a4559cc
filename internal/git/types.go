package git

import "errors"

// ErrReferenceNotFound is returned when the requested branch is not advertised by the remote
var ErrReferenceNotFound = errors.New("reference not found")

// ListConfig contains configuration for listing a remote repository
type ListConfig struct {
	// URL is the repository URL; local paths are accepted
	URL string

	// Branch is the branch that must exist on the remote. When empty the
	// remote only needs to advertise at least one reference.
	Branch string

	// Auth contains optional HTTP Basic authentication credentials
	Auth *AuthConfig
}

// AuthConfig contains authentication credentials for Git operations
type AuthConfig struct {
	Username string
	Password string
}

// ResolvedRef describes the reference resolved from the remote listing
type ResolvedRef struct {
	// Reference is the full reference name, e.g. refs/heads/main
	Reference string

	// Hash is the commit the reference points at
	Hash string
}
