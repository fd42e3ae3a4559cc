// Package integration provides integration tests for the federated source admin server.
// They run the complete application with real sources and exercise the admin
// and catalog APIs over HTTP.
package integration
