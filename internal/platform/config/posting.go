package config

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// LoadPostingConfig returns the built-in posting rules, overlaid with the YAML
// file at path when path is not empty. Maps in the file replace the matching
// built-in entries key by key; a chart_of_accounts list replaces the built-in chart.
func LoadPostingConfig(path string) (domain.PostingConfig, error) {
	cfg := domain.DefaultPostingConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return domain.PostingConfig{}, fmt.Errorf("reading posting policy %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return domain.PostingConfig{}, fmt.Errorf("%w: parsing posting policy %s: %w", apperrors.ErrValidation, path, err)
		}
	}
	cfg.Normalize()
	if err := ValidatePostingConfig(cfg); err != nil {
		return domain.PostingConfig{}, err
	}
	return cfg, nil
}

// ValidatePostingConfig checks field constraints and that every required
// logical account key, payment method and category resolves to a code of the
// starter chart.
func ValidatePostingConfig(cfg domain.PostingConfig) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("%w: posting policy: %w", apperrors.ErrValidation, err)
	}

	chart := make(map[string]bool, len(cfg.ChartOfAccounts))
	for _, seed := range cfg.ChartOfAccounts {
		if chart[seed.Code] {
			return apperrors.NewValidationError("posting policy: account code %s appears twice in the chart", seed.Code)
		}
		chart[seed.Code] = true
	}

	for _, key := range domain.RequiredAccountKeys {
		code, ok := cfg.AccountCode(key)
		if !ok {
			return apperrors.NewValidationError("posting policy: no account code for %q", key)
		}
		if len(chart) > 0 && !chart[code] {
			return apperrors.NewValidationError("posting policy: %q maps to %s, which is not in the chart", key, code)
		}
	}

	for _, method := range slices.Sorted(maps.Keys(cfg.PaymentMethodAccounts)) {
		code, ok := cfg.PaymentAccountCode(method)
		if !ok {
			return apperrors.NewValidationError("posting policy: payment method %q has no account", method)
		}
		if len(chart) > 0 && !chart[code] {
			return apperrors.NewValidationError("posting policy: payment method %q maps to %s, which is not in the chart", method, code)
		}
	}
	for _, category := range slices.Sorted(maps.Keys(cfg.CategoryAccounts)) {
		code := cfg.CategoryAccounts[category]
		if len(chart) > 0 && !chart[code] {
			return apperrors.NewValidationError("posting policy: category %q maps to %s, which is not in the chart", category, code)
		}
	}
	return nil
}
