// Package registry holds the adapter factories and validates step
// configuration against their schemas.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/autofy/autofy/pkg/protocol"
)

type Registry struct {
	logger           *slog.Logger
	actionFactories  map[string]protocol.ActionFactory
	triggerFactories map[string]protocol.TriggerFactory
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:           log,
		actionFactories:  make(map[string]protocol.ActionFactory),
		triggerFactories: make(map[string]protocol.TriggerFactory),
	}
}

func (r *Registry) RegisterAction(actionFactory protocol.ActionFactory) {
	r.actionFactories[actionFactory.ID()] = actionFactory
}

func (r *Registry) RegisterTrigger(triggerFactory protocol.TriggerFactory) {
	r.triggerFactories[triggerFactory.ID()] = triggerFactory
}

// CreateAction validates config against the factory's schema and builds
// an action bound to the owner.
func (r *Registry) CreateAction(adapterID, userID string, config map[string]any) (protocol.Action, error) {
	factory, ok := r.actionFactories[adapterID]
	if !ok {
		return nil, fmt.Errorf("action '%s' not registered", adapterID)
	}

	if err := validateConfiguration(factory.Schema(), config); err != nil {
		return nil, fmt.Errorf("invalid configuration for action '%s': %w", adapterID, err)
	}

	return factory.Create(userID, config)
}

// CreateTrigger validates config against the factory's schema and builds
// a trigger bound to the owner.
func (r *Registry) CreateTrigger(adapterID, userID string, config map[string]any) (protocol.Trigger, error) {
	factory, ok := r.triggerFactories[adapterID]
	if !ok {
		return nil, fmt.Errorf("trigger '%s' not registered", adapterID)
	}

	if err := validateConfiguration(factory.Schema(), config); err != nil {
		return nil, fmt.Errorf("invalid configuration for trigger '%s': %w", adapterID, err)
	}

	return factory.Create(userID, config)
}

// AvailableActions returns the registered action identifiers, sorted.
func (r *Registry) AvailableActions() []string {
	ids := make([]string, 0, len(r.actionFactories))
	for id := range r.actionFactories {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// AvailableTriggers returns the registered trigger identifiers, sorted.
func (r *Registry) AvailableTriggers() []string {
	ids := make([]string, 0, len(r.triggerFactories))
	for id := range r.triggerFactories {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
