// Package kubernetes builds the controller-runtime client used by ConfigMap
// sources to read their catalog entries from a cluster.
package kubernetes
