package dataprocessing

import (
	"context"
	"log/slog"

	"oppcli/internal/config"
	apperrors "oppcli/internal/errors"
	"oppcli/internal/infrastructure"
	"oppcli/pkg/contracts/domain"
)

// Normalizer converts every amount into the reporting currency using the
// fixed rate table from configuration. A currency code missing from the
// table fails loudly for that record; it is excluded and counted rather
// than converted with a silent default.
type Normalizer struct {
	cfg    config.CurrencyConfig
	logger *slog.Logger
}

// NormalizeStats summarizes the normalizer's record disposition.
type NormalizeStats struct {
	Input            int `json:"input"`
	Output           int `json:"output"`
	ExcludedCurrency int `json:"excluded_currency"`
}

// NewNormalizer creates a new currency normalizer
func NewNormalizer(cfg config.CurrencyConfig, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{cfg: cfg, logger: logger}
}

// Normalize fills AmountMXN for every record, plus the USD and EUR
// convenience columns carried on the base sheet. The conversion is exact:
// amount times the configured rate.
func (n *Normalizer) Normalize(ctx context.Context, records []domain.Opportunity) ([]domain.Opportunity, NormalizeStats) {
	stats := NormalizeStats{Input: len(records)}

	out := make([]domain.Opportunity, 0, len(records))
	for _, record := range records {
		rate, ok := n.cfg.Rates[record.Currency]
		if !ok {
			stats.ExcludedCurrency++
			err := apperrors.NewCurrencyError(record.Currency).
				WithContext("opportunity_id", record.OpportunityID)
			infrastructure.WithError(n.logger, err).WarnContext(ctx, "record excluded: unknown currency code",
				slog.String("opportunity_id", record.OpportunityID),
				slog.String("currency", record.Currency))
			continue
		}

		record.AmountMXN = record.Amount * rate
		record.AmountUSD = record.AmountMXN / n.cfg.USDDivisor
		record.AmountEUR = record.AmountMXN / n.cfg.EURDivisor
		out = append(out, record)
	}

	stats.Output = len(out)
	n.logger.InfoContext(ctx, "currency normalization complete",
		slog.String("reporting_currency", n.cfg.Reporting),
		slog.Int("input", stats.Input),
		slog.Int("output", stats.Output),
		slog.Int("excluded_currency", stats.ExcludedCurrency))

	return out, stats
}
