package dataprocessing

import (
	"sort"

	"oppcli/internal/config"
	"oppcli/pkg/contracts/domain"
)

// GrowthFromTotals computes year-over-year growth rows from one dimension's
// group totals. A dimension value absent in a year is treated as present
// with a zero total, so every distinct value yields exactly one row.
func GrowthFromTotals(totals []domain.GroupTotal) []domain.GrowthRow {
	type amounts struct {
		from, to float64
	}

	byValue := make(map[string]amounts)
	for _, t := range totals {
		a := byValue[t.Value]
		switch t.Year {
		case config.YearFrom:
			a.from += t.Amount
		case config.YearTo:
			a.to += t.Amount
		}
		byValue[t.Value] = a
	}

	rows := make([]domain.GrowthRow, 0, len(byValue))
	for value, a := range byValue {
		rows = append(rows, domain.GrowthRow{
			Value:      value,
			Amount2023: a.from,
			Amount2024: a.to,
			Growth:     ComputeGrowth(a.from, a.to),
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Value < rows[j].Value })

	return rows
}

// ComputeGrowth applies the growth policy to a pair of year totals:
//
//   - base > 0: standard percent change, may be negative
//   - base = 0 and current > 0: undefined, reported as a sentinel rather
//     than an infinite or huge float
//   - both zero: 0%
func ComputeGrowth(base, current float64) domain.Growth {
	if base == 0 {
		if current > 0 {
			return domain.GrowthUndefined
		}
		return domain.GrowthOf(0)
	}
	return domain.GrowthOf((current - base) / base * 100)
}
