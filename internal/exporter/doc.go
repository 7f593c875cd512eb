// Package exporter persists the pipeline output.
//
// WorkbookWriter writes the multi-sheet .xlsx artifact consumed by the
// dashboard tool: the enriched base table plus per-dimension growth and
// density sheets. CSVWriter writes the companion CSV copy of the base
// table.
//
// Both writers create their output directory on demand, keep file handles
// scoped to a single call, and fail without leaving partial artifacts.
package exporter
