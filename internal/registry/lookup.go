package registry

//go:generate mockgen -destination=mocks/mock_lookup.go -package=mocks -source=lookup.go Lookup

// Lookup is the read side of the service registry handed to configuration
// admin plugins.
type Lookup interface {
	// AllServiceReferences returns the references registered under iface
	// (every interface when iface is empty) whose properties match filter.
	// An empty filter matches every service. A malformed filter yields
	// ErrInvalidFilter.
	AllServiceReferences(iface, filter string) ([]ServiceReference, error)

	// Service returns the service object behind ref, or nil if it has been
	// unregistered.
	Service(ref ServiceReference) any
}
