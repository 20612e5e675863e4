package ports

import (
	"context"

	"github.com/peopleops/intake/pkg/domain"
)

// ConfigRegistry resolves wizard identifiers to validated configs.
//
// Implementations must validate structurally (domain.WizardConfig.Validate)
// before handing a config out, and must return domain.ErrUnknownWizard for
// identifiers they cannot resolve. Returned configs are read-only and may
// be shared across sessions.
type ConfigRegistry interface {
	// Get resolves a wizard ID to its validated config.
	Get(ctx context.Context, wizardID string) (*domain.WizardConfig, error)

	// List returns the IDs of all known wizards.
	List(ctx context.Context) ([]string, error)
}
