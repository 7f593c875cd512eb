package dataprocessing

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oppcli/internal/config"
	"oppcli/pkg/contracts/domain"
)

func TestNormalizer_Normalize_ExactRates(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default().Currency
	normalizer := NewNormalizer(cfg, slog.Default())

	// Every supported code converts by exact multiplication with its rate.
	for code, rate := range cfg.Rates {
		t.Run(code, func(t *testing.T) {
			records := []domain.Opportunity{{
				OpportunityID: "OP-1",
				Currency:      code,
				Amount:        137.5,
			}}

			out, stats := normalizer.Normalize(ctx, records)

			require.Len(t, out, 1)
			assert.Equal(t, 137.5*rate, out[0].AmountMXN)
			assert.Equal(t, out[0].AmountMXN/cfg.USDDivisor, out[0].AmountUSD)
			assert.Equal(t, out[0].AmountMXN/cfg.EURDivisor, out[0].AmountEUR)
			assert.Zero(t, stats.ExcludedCurrency)
		})
	}
}

func TestNormalizer_Normalize_UnknownCurrencyExcluded(t *testing.T) {
	ctx := context.Background()
	normalizer := NewNormalizer(config.Default().Currency, slog.Default())

	records := []domain.Opportunity{
		{OpportunityID: "OP-1", Currency: "MXN", Amount: 100},
		{OpportunityID: "OP-2", Currency: "XYZ", Amount: 100},
		{OpportunityID: "OP-3", Currency: "", Amount: 100},
	}

	out, stats := normalizer.Normalize(ctx, records)

	require.Len(t, out, 1)
	assert.Equal(t, "OP-1", out[0].OpportunityID)
	assert.Equal(t, 2, stats.ExcludedCurrency)
	assert.Equal(t, 3, stats.Input)
	assert.Equal(t, 1, stats.Output)
}

func TestNormalizer_Normalize_UnknownCurrencyLogsTypedError(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	normalizer := NewNormalizer(config.Default().Currency, logger)

	records := []domain.Opportunity{{OpportunityID: "OP-9", Currency: "XYZ", Amount: 100}}

	_, stats := normalizer.Normalize(ctx, records)

	require.Equal(t, 1, stats.ExcludedCurrency)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.Split(buf.Bytes(), []byte("\n"))[0], &entry))
	assert.Equal(t, "record excluded: unknown currency code", entry["msg"])
	assert.Contains(t, entry["error"], "[CURRENCY]")
	assert.Contains(t, entry["error"], "XYZ")
}

func TestNormalizer_Normalize_ZeroAmount(t *testing.T) {
	ctx := context.Background()
	normalizer := NewNormalizer(config.Default().Currency, slog.Default())

	records := []domain.Opportunity{{OpportunityID: "OP-1", Currency: "GBP", Amount: 0}}

	out, _ := normalizer.Normalize(ctx, records)

	require.Len(t, out, 1)
	assert.Zero(t, out[0].AmountMXN)
	assert.Zero(t, out[0].AmountUSD)
	assert.Zero(t, out[0].AmountEUR)
}
