package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/peopleops/intake/pkg/domain"
)

// Registry implements ports.ConfigRegistry over a fixed in-memory set of
// wizard configs. Configs are validated on Add, never after.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]*domain.WizardConfig
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		configs: make(map[string]*domain.WizardConfig),
	}
}

// Add validates and registers a config under its wizard ID.
func (r *Registry) Add(cfg *domain.WizardConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.configs[cfg.WizardID]; exists {
		return fmt.Errorf("wizard %q already registered", cfg.WizardID)
	}
	r.configs[cfg.WizardID] = cfg
	return nil
}

// Get resolves a wizard ID to its validated config.
func (r *Registry) Get(ctx context.Context, wizardID string) (*domain.WizardConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[wizardID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownWizard, wizardID)
	}
	return cfg, nil
}

// List returns the registered wizard IDs, sorted.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.configs))
	for id := range r.configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
