package dataprocessing

import (
	"context"
	"log/slog"

	"oppcli/internal/config"
	"oppcli/internal/infrastructure"
	"oppcli/pkg/contracts/domain"
)

// Pipeline composes the transform stages in order: load, clean, normalize,
// generate columns, then aggregate and compute growth once per dimension.
// Each stage consumes the previous stage's complete output; there is no
// streaming and no shared state between stages.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger

	loader     *Loader
	cleaner    *Cleaner
	normalizer *Normalizer
	generator  *ColumnGenerator
	aggregator *Aggregator
}

// Result carries everything the writer needs plus the run summary.
type Result struct {
	Records []domain.Opportunity
	Growth  map[domain.Dimension][]domain.GrowthRow
	Density map[domain.Dimension][]domain.DensityRow
	Summary RunSummary
}

// RunSummary is the post-run accounting of record disposition. A run either
// fails entirely or succeeds with these counts reported.
type RunSummary struct {
	Loaded    int            `json:"loaded"`
	Kept      int            `json:"kept"`
	Clean     CleanStats     `json:"clean"`
	Normalize NormalizeStats `json:"normalize"`
}

// ExcludedTotal returns the number of records lost across all stages.
func (s RunSummary) ExcludedTotal() int {
	return s.Clean.Excluded() + s.Normalize.ExcludedCurrency
}

// New creates a pipeline with all stages wired from the given configuration.
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		loader:     NewLoader(infrastructure.WithComponent(logger, "loader")),
		cleaner:    NewCleaner(cfg.Cleaning, infrastructure.WithComponent(logger, "cleaner")),
		normalizer: NewNormalizer(cfg.Currency, infrastructure.WithComponent(logger, "normalizer")),
		generator:  NewColumnGenerator(cfg.Buckets, cfg.KeyZones, infrastructure.WithComponent(logger, "columns")),
		aggregator: NewAggregator(infrastructure.WithComponent(logger, "aggregator")),
	}
}

// Run executes the whole pipeline over the input file. Schema and I/O
// errors abort with an error; per-record problems are recovered and land in
// the summary.
func (p *Pipeline) Run(ctx context.Context, inputPath string) (*Result, error) {
	raws, err := p.loader.Load(inputPath)
	if err != nil {
		return nil, err
	}

	records, cleanStats := p.cleaner.Clean(ctx, raws)
	records, normStats := p.normalizer.Normalize(ctx, records)
	records = p.generator.Generate(ctx, records)

	result := &Result{
		Records: records,
		Growth:  make(map[domain.Dimension][]domain.GrowthRow, len(domain.Dimensions)),
		Density: make(map[domain.Dimension][]domain.DensityRow, len(domain.Dimensions)),
		Summary: RunSummary{
			Loaded:    len(raws),
			Kept:      len(records),
			Clean:     cleanStats,
			Normalize: normStats,
		},
	}

	for _, dim := range domain.Dimensions {
		totals := p.aggregator.Totals(ctx, records, dim)
		result.Growth[dim] = GrowthFromTotals(totals)
		result.Density[dim] = p.aggregator.Density(ctx, records, dim)
	}

	p.logger.InfoContext(ctx, "pipeline complete",
		slog.Int("loaded", result.Summary.Loaded),
		slog.Int("kept", result.Summary.Kept),
		slog.Int("excluded", result.Summary.ExcludedTotal()))

	return result, nil
}
