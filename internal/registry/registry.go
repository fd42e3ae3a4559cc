// Package registry implements the in-process service registry that federated
// sources are published to and that configuration admin plugins query.
package registry

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
)

const (
	// PropServiceID is the registry-assigned identifier of a service
	PropServiceID = "service.id"

	// PropObjectClass lists the interfaces a service is registered under
	PropObjectClass = "objectClass"

	// PropServicePID is the configuration PID a service was created from
	PropServicePID = "service.pid"
)

// ServiceReference identifies a registered service and carries its properties
type ServiceReference struct {
	ID         int64             `json:"id"`
	Interfaces []string          `json:"interfaces"`
	Properties map[string]string `json:"properties"`
}

// Property returns the value of a service property, matching keys case-insensitively
func (r ServiceReference) Property(key string) string {
	if v, ok := r.Properties[key]; ok {
		return v
	}
	for k, v := range r.Properties {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// EventType describes a change in the registry
type EventType string

const (
	// EventRegistered is emitted after a service has been registered
	EventRegistered EventType = "Registered"

	// EventUnregistered is emitted after a service has been unregistered
	EventUnregistered EventType = "Unregistered"
)

// Event is delivered to registry subscribers
type Event struct {
	Type      EventType
	Reference ServiceReference
}

type entry struct {
	ref     ServiceReference
	service any
}

// Registry is a concurrency-safe service registry
type Registry struct {
	mu       sync.RWMutex
	nextID   int64
	services map[int64]*entry

	listenersMu sync.RWMutex
	listeners   []func(Event)
}

var _ Lookup = (*Registry)(nil)

// New creates an empty registry
func New() *Registry {
	return &Registry{
		services: make(map[int64]*entry),
	}
}

// Register publishes svc under the given interface names.
// The registry adds the service.id and objectClass properties.
func (r *Registry) Register(interfaces []string, svc any, props map[string]string) (*Registration, error) {
	if len(interfaces) == 0 {
		return nil, fmt.Errorf("at least one interface name is required")
	}
	if slices.Contains(interfaces, "") {
		return nil, fmt.Errorf("interface names cannot be empty")
	}
	if svc == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	properties := make(map[string]string, len(props)+2)
	maps.Copy(properties, props)

	r.mu.Lock()
	r.nextID++
	id := r.nextID
	properties[PropServiceID] = strconv.FormatInt(id, 10)
	properties[PropObjectClass] = strings.Join(interfaces, ",")
	ref := ServiceReference{
		ID:         id,
		Interfaces: slices.Clone(interfaces),
		Properties: properties,
	}
	r.services[id] = &entry{ref: ref, service: svc}
	r.mu.Unlock()

	r.notify(Event{Type: EventRegistered, Reference: ref})

	return &Registration{registry: r, ref: ref}, nil
}

// AllServiceReferences returns matching references ordered by service id.
// It returns nil when nothing matches.
func (r *Registry) AllServiceReferences(iface, filter string) ([]ServiceReference, error) {
	f, err := ParseFilter(filter)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var refs []ServiceReference
	for _, e := range r.services {
		if iface != "" && !slices.Contains(e.ref.Interfaces, iface) {
			continue
		}
		if f != nil && !f.Match(e.ref) {
			continue
		}
		refs = append(refs, e.ref)
	}

	slices.SortFunc(refs, func(a, b ServiceReference) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return refs, nil
}

// Service returns the service behind ref, or nil if it is no longer registered
func (r *Registry) Service(ref ServiceReference) any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.services[ref.ID]; ok {
		return e.service
	}
	return nil
}

// Subscribe registers a callback for registry events.
// Callbacks run synchronously after the registry lock has been released.
func (r *Registry) Subscribe(fn func(Event)) {
	r.listenersMu.Lock()
	defer r.listenersMu.Unlock()
	r.listeners = append(r.listeners, fn)
}

func (r *Registry) unregister(id int64) {
	r.mu.Lock()
	e, ok := r.services[id]
	if ok {
		delete(r.services, id)
	}
	r.mu.Unlock()

	if ok {
		r.notify(Event{Type: EventUnregistered, Reference: e.ref})
	}
}

func (r *Registry) notify(ev Event) {
	r.listenersMu.RLock()
	listeners := slices.Clone(r.listeners)
	r.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// Registration is the handle returned by Register
type Registration struct {
	registry *Registry
	ref      ServiceReference
	once     sync.Once
}

// Reference returns the reference of the registered service
func (r *Registration) Reference() ServiceReference {
	return r.ref
}

// Unregister removes the service from the registry. It is safe to call more than once.
func (r *Registration) Unregister() {
	r.once.Do(func() {
		r.registry.unregister(r.ref.ID)
	})
}
