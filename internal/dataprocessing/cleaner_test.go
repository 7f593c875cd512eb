package dataprocessing

import (
	"context"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oppcli/internal/config"
	"oppcli/pkg/contracts/domain"
)

func testCleaner() *Cleaner {
	return NewCleaner(config.Default().Cleaning, slog.Default())
}

func rawRecord(mutate func(*domain.RawOpportunity)) domain.RawOpportunity {
	raw := domain.RawOpportunity{
		OpportunityID: "OP-1",
		CompanyID:     "EMP-1",
		OwnerID:       "PROP-1",
		Zone:          "Zona 1",
		Amount:        "1000",
		Currency:      "MXN",
		CloseDate:     "15/03/2023 10:30",
		Participants:  "2",
	}
	if mutate != nil {
		mutate(&raw)
	}
	return raw
}

func TestCleaner_Clean_NumericCoercion(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		amount       string
		wantAmount   float64
		wantExcluded int
	}{
		{"plain number", "1500", 1500, 0},
		{"decimal", "1500.75", 1500.75, 0},
		{"thousands separator", "1,500", 1500, 0},
		{"words", "ten thousand", 10000, 0},
		{"empty imputed as zero", "", 0, 0},
		{"negative made non-negative", "-250", 250, 0},
		{"garbage excluded", "n/a", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raws := []domain.RawOpportunity{rawRecord(func(r *domain.RawOpportunity) {
				r.Amount = tt.amount
			})}

			records, stats := testCleaner().Clean(ctx, raws)

			assert.Equal(t, tt.wantExcluded, stats.ExcludedAmount)
			if tt.wantExcluded == 0 {
				require.Len(t, records, 1)
				assert.Equal(t, tt.wantAmount, records[0].Amount)
				assert.GreaterOrEqual(t, records[0].Amount, 0.0)
			} else {
				assert.Empty(t, records)
			}
		})
	}
}

func TestCleaner_Clean_CategoricalNormalization(t *testing.T) {
	ctx := context.Background()

	raws := []domain.RawOpportunity{rawRecord(func(r *domain.RawOpportunity) {
		r.Zone = "  zona  4 "
		r.Currency = " usd "
	})}

	records, _ := testCleaner().Clean(ctx, raws)

	require.Len(t, records, 1)
	assert.Equal(t, "Zona 4", records[0].Zone)
	assert.Equal(t, "USD", records[0].Currency)
}

func TestCleaner_Clean_MissingZoneImputed(t *testing.T) {
	ctx := context.Background()

	raws := []domain.RawOpportunity{rawRecord(func(r *domain.RawOpportunity) {
		r.Zone = "   "
	})}

	records, stats := testCleaner().Clean(ctx, raws)

	require.Len(t, records, 1)
	assert.Equal(t, "Zona 6", records[0].Zone)
	assert.Equal(t, 1, stats.ImputedZones)
}

func TestCleaner_Clean_Participants(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"number", "5", 5},
		{"missing marker", "Sin datos", 0},
		{"missing marker case insensitive", "sin datos", 0},
		{"empty", "", 0},
		{"garbage", "many", 0},
		{"negative", "-2", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raws := []domain.RawOpportunity{rawRecord(func(r *domain.RawOpportunity) {
				r.Participants = tt.value
			})}

			records, _ := testCleaner().Clean(ctx, raws)

			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].Participants)
		})
	}
}

func TestCleaner_Clean_Duplicates(t *testing.T) {
	ctx := context.Background()

	raws := []domain.RawOpportunity{
		rawRecord(nil),
		rawRecord(nil),
		// Same row up to whitespace and casing still counts as a duplicate.
		rawRecord(func(r *domain.RawOpportunity) {
			r.Zone = " zona 1"
			r.Currency = "mxn"
		}),
		rawRecord(func(r *domain.RawOpportunity) { r.OpportunityID = "OP-2" }),
	}

	records, stats := testCleaner().Clean(ctx, raws)

	assert.Len(t, records, 2)
	assert.Equal(t, 2, stats.Duplicates)
}

func TestCleaner_Clean_YearResolution(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		closeDate    string
		closeYear    string
		wantYear     int
		wantExcluded bool
	}{
		{"from close date", "15/03/2023 10:30", "", 2023, false},
		{"date without time", "01/11/2024", "", 2024, false},
		{"from year column", "", "2024", 2024, false},
		{"year column out of range", "", "2021", 0, true},
		{"date out of range", "15/03/2020 10:30", "", 0, true},
		{"nothing to derive from", "", "", 0, true},
		{"unparseable date falls back to year", "soon", "2023", 2023, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raws := []domain.RawOpportunity{rawRecord(func(r *domain.RawOpportunity) {
				r.CloseDate = tt.closeDate
				r.CloseYear = tt.closeYear
			})}

			records, stats := testCleaner().Clean(ctx, raws)

			if tt.wantExcluded {
				assert.Empty(t, records)
				assert.Equal(t, 1, stats.ExcludedYear)
				return
			}
			require.Len(t, records, 1)
			assert.Equal(t, tt.wantYear, records[0].CloseYear)
		})
	}
}

// rawFrom converts a cleaned record back to its raw form, used to verify
// that cleaning is idempotent.
func rawFrom(o domain.Opportunity) domain.RawOpportunity {
	closeDate := ""
	if !o.CloseDate.IsZero() {
		closeDate = o.CloseDate.Format(config.CloseDateLayout)
	}
	return domain.RawOpportunity{
		OpportunityID: o.OpportunityID,
		CompanyID:     o.CompanyID,
		OwnerID:       o.OwnerID,
		Zone:          o.Zone,
		Amount:        strconv.FormatFloat(o.Amount, 'f', -1, 64),
		Currency:      o.Currency,
		CloseDate:     closeDate,
		CloseYear:     strconv.Itoa(o.CloseYear),
		Participants:  strconv.Itoa(o.Participants),
	}
}

func TestCleaner_Clean_Idempotent(t *testing.T) {
	ctx := context.Background()
	cleaner := testCleaner()

	raws := []domain.RawOpportunity{
		rawRecord(nil),
		rawRecord(func(r *domain.RawOpportunity) {
			r.OpportunityID = "OP-2"
			r.Amount = "ten thousand"
			r.Zone = " zona  2"
		}),
		rawRecord(func(r *domain.RawOpportunity) {
			r.OpportunityID = "OP-3"
			r.Amount = ""
			r.Participants = "Sin datos"
		}),
		rawRecord(nil), // duplicate
	}

	first, firstStats := cleaner.Clean(ctx, raws)
	require.NotEmpty(t, first)
	assert.Equal(t, 1, firstStats.Duplicates)

	// Re-cleaning the cleaner's own output changes nothing.
	roundTripped := make([]domain.RawOpportunity, len(first))
	for i, o := range first {
		roundTripped[i] = rawFrom(o)
	}

	second, secondStats := cleaner.Clean(ctx, roundTripped)

	assert.Equal(t, first, second)
	assert.Zero(t, secondStats.Duplicates)
	assert.Zero(t, secondStats.Excluded())
	assert.Zero(t, secondStats.ImputedZones)
}
