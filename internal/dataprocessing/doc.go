// Package dataprocessing implements the opportunity transform pipeline:
// CSV loading, cleaning, currency normalization, derived-column generation,
// per-dimension aggregation and year-over-year growth calculation.
//
// The pipeline is a single-pass batch: every stage consumes the previous
// stage's complete in-memory output. Records are only ever dropped for
// exact duplication, an unparseable amount, an undeterminable fiscal year
// or an unknown currency code, and every drop is counted in the run
// summary.
package dataprocessing
