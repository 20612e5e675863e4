package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peopleops/intake/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Registry implements ports.ConfigRegistry over a directory of YAML
// wizard definitions (one wizard per file). Every file is parsed and
// structurally validated once at construction; a single invalid config
// fails the whole load so a skewed deployment never serves a mix of good
// and bad wizards.
type Registry struct {
	configs map[string]*domain.WizardConfig
}

// NewRegistry loads every *.yaml / *.yml file under dir.
func NewRegistry(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory %q: %w", dir, err)
	}

	configs := make(map[string]*domain.WizardConfig)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		cfg, err := loadConfigFile(path)
		if err != nil {
			return nil, err
		}

		if _, exists := configs[cfg.WizardID]; exists {
			return nil, fmt.Errorf("duplicate wizard %q in %q", cfg.WizardID, path)
		}
		configs[cfg.WizardID] = cfg
	}

	if len(configs) == 0 {
		return nil, fmt.Errorf("no wizard configs found in %q", dir)
	}

	return &Registry{configs: configs}, nil
}

func loadConfigFile(path string) (*domain.WizardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	var cfg domain.WizardConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// Get resolves a wizard ID to its validated config.
func (r *Registry) Get(ctx context.Context, wizardID string) (*domain.WizardConfig, error) {
	cfg, ok := r.configs[wizardID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownWizard, wizardID)
	}
	return cfg, nil
}

// List returns the loaded wizard IDs, sorted.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(r.configs))
	for id := range r.configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
