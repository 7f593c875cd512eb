package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"oppcli/pkg/contracts/domain"
)

// Aggregator computes per-dimension totals over the enriched records. It
// reads records only; grouping is by exact string equality on the dimension
// value, which the cleaner already normalized.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Totals sums the normalized amount per (dimension value, year). Output is
// sorted by value then year so runs are diffable.
func (a *Aggregator) Totals(ctx context.Context, records []domain.Opportunity, dim domain.Dimension) []domain.GroupTotal {
	type key struct {
		value string
		year  int
	}

	sums := make(map[key]float64)
	for _, r := range records {
		sums[key{dim.ValueOf(r), r.CloseYear}] += r.AmountMXN
	}

	totals := make([]domain.GroupTotal, 0, len(sums))
	for k, amount := range sums {
		totals = append(totals, domain.GroupTotal{
			Dimension: dim,
			Value:     k.value,
			Year:      k.year,
			Amount:    amount,
		})
	}

	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Value != totals[j].Value {
			return totals[i].Value < totals[j].Value
		}
		return totals[i].Year < totals[j].Year
	})

	a.logger.DebugContext(ctx, "group totals computed",
		slog.String("dimension", string(dim)),
		slog.Int("groups", len(totals)))

	return totals
}

// Density computes revenue density per dimension value: total normalized
// amount, opportunity count and amount per opportunity. On the owner
// dimension each owner is additionally ranked into a revenue tercile.
// Output is sorted by total descending, value ascending on ties.
func (a *Aggregator) Density(ctx context.Context, records []domain.Opportunity, dim domain.Dimension) []domain.DensityRow {
	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range records {
		value := dim.ValueOf(r)
		totals[value] += r.AmountMXN
		counts[value]++
	}

	rows := make([]domain.DensityRow, 0, len(totals))
	for value, total := range totals {
		rows = append(rows, domain.DensityRow{
			Value:   value,
			Total:   total,
			Count:   counts[value],
			Density: total / float64(counts[value]),
		})
	}

	if dim == domain.DimensionOwner {
		assignTerciles(rows)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Value < rows[j].Value
	})

	a.logger.DebugContext(ctx, "density rows computed",
		slog.String("dimension", string(dim)),
		slog.Int("groups", len(rows)))

	return rows
}

// assignTerciles labels each row with its revenue tercile: rows are ranked
// by total ascending and split into three equal-frequency groups, lowest
// third "Bajo", top third "Top". Ties rank by value so labels are stable.
func assignTerciles(rows []domain.DensityRow) {
	if len(rows) == 0 {
		return
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if rows[i].Total != rows[j].Total {
			return rows[i].Total < rows[j].Total
		}
		return rows[i].Value < rows[j].Value
	})

	labels := []string{domain.TercileLow, domain.TercileMid, domain.TercileTop}
	for rank, idx := range order {
		rows[idx].Tercile = labels[rank*3/len(rows)]
	}
}
