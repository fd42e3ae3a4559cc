// Package sources provides the federated sources published to the service
// registry and the binder that keeps them in step with the configuration admin.
//
// Every source implements FederatedSource and ConfiguredService so that
// configuration admin plugins can match a configuration PID to a live source
// and ask it whether it is reachable.
//
// Architecture:
//   - Source: FederatedSource + ConfiguredService + Describer + Checker
//   - Factory: builds a Source from configuration admin properties
//   - Binder: registers, re-registers and unregisters sources as configurations change
//
// Current implementations:
//   - HTTPSource: available when the endpoint answers a HEAD or GET request
//   - GitSource: available when the remote advertises the configured branch
//   - FileSource: available when a local file or directory can be read
//   - PostgresSource: available when a connection can be opened and pinged
//   - ConfigMapSource: available when a Kubernetes ConfigMap (and optional key) exists
package sources
