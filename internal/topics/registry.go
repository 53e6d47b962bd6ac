// Package topics maps logical channel names to consensus topic ids.
package topics

import (
	"sort"
	"sync"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/model"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/errors"
)

// Standard channel names used by the AfriHealth services.
const (
	Consent = "consent"
	Billing = "billing"
	Claims  = "claims"
)

// Registry is an explicit, injected mapping of channel names to topic ids.
// Registration happens at startup; lookups dominate afterwards.
type Registry struct {
	mu     sync.RWMutex
	topics map[string]model.TopicID
}

func NewRegistry() *Registry {
	return &Registry{
		topics: make(map[string]model.TopicID),
	}
}

// FromConfig builds a registry from a name → topic id map.
func FromConfig(topics map[string]string) (*Registry, error) {
	r := NewRegistry()
	for name, id := range topics {
		if err := r.Register(name, model.TopicID(id)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register stores a name → id mapping. Re-registering the same pair is a
// no-op; binding a name to a different id is an error.
func (r *Registry) Register(name string, id model.TopicID) error {
	if name == "" || id == "" {
		return errors.NewValidationError("topic name and id are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.topics[name]; ok {
		if existing == id {
			return nil
		}
		return errors.NewAlreadyExistsError("topic").
			WithContext("name", name).
			WithContext("registered_id", existing.String())
	}

	r.topics[name] = id
	return nil
}

// Resolve returns the topic for a channel name.
func (r *Registry) Resolve(name string) (model.Topic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.topics[name]
	if !ok {
		return model.Topic{}, errors.NewNotFoundError("topic").
			WithContext("name", name)
	}
	return model.Topic{Name: name, ID: id}, nil
}

// List returns all registered topics sorted by name.
func (r *Registry) List() []model.Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]model.Topic, 0, len(r.topics))
	for name, id := range r.topics {
		list = append(list, model.Topic{Name: name, ID: id})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
