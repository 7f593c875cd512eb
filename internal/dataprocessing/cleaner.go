package dataprocessing

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"oppcli/internal/config"
	"oppcli/pkg/contracts/domain"
)

// Cleaner repairs and normalizes raw records: numeric coercion of amounts
// (including amounts written out as words), null imputation, categorical
// trimming and casing, and exact-duplicate removal. It is a pure
// transformation over its input and idempotent over its own output.
type Cleaner struct {
	cfg    config.CleaningConfig
	caser  cases.Caser
	logger *slog.Logger
}

// CleanStats summarizes what the cleaner changed or dropped. Excluded
// records are the only data loss and are always counted, never silent.
type CleanStats struct {
	Input               int `json:"input"`
	Output              int `json:"output"`
	ExcludedAmount      int `json:"excluded_amount"`
	ExcludedYear        int `json:"excluded_year"`
	ImputedAmounts      int `json:"imputed_amounts"`
	ImputedZones        int `json:"imputed_zones"`
	ImputedParticipants int `json:"imputed_participants"`
	Duplicates          int `json:"duplicates"`
}

// Excluded returns the total number of records dropped by the cleaner.
func (s CleanStats) Excluded() int {
	return s.ExcludedAmount + s.ExcludedYear
}

// NewCleaner creates a new cleaner with the given imputation policy
func NewCleaner(cfg config.CleaningConfig, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		cfg:    cfg,
		caser:  cases.Title(language.Spanish),
		logger: logger,
	}
}

// Clean converts raw rows into typed records. Records with an amount that
// cannot be coerced to a number, or whose fiscal year cannot be determined
// or is outside the covered range, are excluded and counted.
func (c *Cleaner) Clean(ctx context.Context, raws []domain.RawOpportunity) ([]domain.Opportunity, CleanStats) {
	stats := CleanStats{Input: len(raws)}

	seen := make(map[domain.RawOpportunity]struct{}, len(raws))
	records := make([]domain.Opportunity, 0, len(raws))

	for i, raw := range raws {
		cleaned := c.normalizeFields(raw, &stats)

		if _, dup := seen[cleaned]; dup {
			stats.Duplicates++
			continue
		}
		seen[cleaned] = struct{}{}

		amount, ok := c.coerceAmount(cleaned.Amount, &stats)
		if !ok {
			stats.ExcludedAmount++
			c.logger.WarnContext(ctx, "record excluded: unparseable amount",
				slog.Int("row", i+1),
				slog.String("opportunity_id", cleaned.OpportunityID),
				slog.String("amount", raw.Amount))
			continue
		}
		if amount < 0 {
			amount = -amount
		}

		closeDate, year, ok := c.resolveYear(cleaned)
		if !ok {
			stats.ExcludedYear++
			c.logger.WarnContext(ctx, "record excluded: fiscal year undeterminable or out of range",
				slog.Int("row", i+1),
				slog.String("opportunity_id", cleaned.OpportunityID),
				slog.String("close_date", raw.CloseDate),
				slog.String("close_year", raw.CloseYear))
			continue
		}

		records = append(records, domain.Opportunity{
			OpportunityID: cleaned.OpportunityID,
			CompanyID:     cleaned.CompanyID,
			OwnerID:       cleaned.OwnerID,
			Zone:          cleaned.Zone,
			Currency:      cleaned.Currency,
			Amount:        amount,
			CloseDate:     closeDate,
			CloseYear:     year,
			Participants:  c.coerceParticipants(cleaned.Participants, &stats),
		})
	}

	stats.Output = len(records)
	c.logger.InfoContext(ctx, "cleaning complete",
		slog.Int("input", stats.Input),
		slog.Int("output", stats.Output),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("excluded_amount", stats.ExcludedAmount),
		slog.Int("excluded_year", stats.ExcludedYear))

	return records, stats
}

// normalizeFields trims every field and canonicalizes the categorical ones.
// Duplicate detection runs on the normalized row, so rows differing only in
// whitespace or casing collapse together.
func (c *Cleaner) normalizeFields(raw domain.RawOpportunity, stats *CleanStats) domain.RawOpportunity {
	out := domain.RawOpportunity{
		OpportunityID: strings.TrimSpace(raw.OpportunityID),
		CompanyID:     strings.TrimSpace(raw.CompanyID),
		OwnerID:       strings.TrimSpace(raw.OwnerID),
		Zone:          c.caser.String(collapseSpaces(raw.Zone)),
		Amount:        strings.TrimSpace(raw.Amount),
		Currency:      strings.ToUpper(strings.TrimSpace(raw.Currency)),
		CloseDate:     strings.TrimSpace(raw.CloseDate),
		CloseYear:     strings.TrimSpace(raw.CloseYear),
		Participants:  strings.TrimSpace(raw.Participants),
	}

	if out.Zone == "" {
		out.Zone = c.cfg.DefaultZone
		stats.ImputedZones++
	}

	return out
}

// coerceAmount turns the raw amount into a float. Empty values are imputed
// as zero; amounts written out in words are converted; anything else that
// fails numeric parsing makes the record unusable.
func (c *Cleaner) coerceAmount(s string, stats *CleanStats) (float64, bool) {
	if s == "" {
		stats.ImputedAmounts++
		return 0, true
	}

	numeric := strings.ReplaceAll(s, ",", "")
	if v, err := strconv.ParseFloat(numeric, 64); err == nil {
		return v, true
	}

	if v, ok := wordsToNumber(s); ok {
		return v, true
	}

	return 0, false
}

// coerceParticipants parses the participant count. The CRM uses a literal
// "Sin datos" marker for missing counts; that and anything unparseable is
// imputed as zero.
func (c *Cleaner) coerceParticipants(s string, stats *CleanStats) int {
	if s == "" || strings.EqualFold(s, config.MissingParticipantsMarker) {
		stats.ImputedParticipants++
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		stats.ImputedParticipants++
		return 0
	}
	return v
}

// resolveYear determines the fiscal year from the close date, falling back
// to the explicit year column. Years outside the covered range are rejected.
func (c *Cleaner) resolveYear(raw domain.RawOpportunity) (time.Time, int, bool) {
	if raw.CloseDate != "" {
		for _, layout := range []string{config.CloseDateLayout, "02/01/2006"} {
			if t, err := time.Parse(layout, raw.CloseDate); err == nil {
				if t.Year() < config.YearFrom || t.Year() > config.YearTo {
					return time.Time{}, 0, false
				}
				return t, t.Year(), true
			}
		}
	}

	if raw.CloseYear != "" {
		if year, err := strconv.Atoi(raw.CloseYear); err == nil {
			if year < config.YearFrom || year > config.YearTo {
				return time.Time{}, 0, false
			}
			return time.Time{}, year, true
		}
	}

	return time.Time{}, 0, false
}

// collapseSpaces trims and folds runs of internal whitespace into single
// spaces, so "Zona  1 " and "Zona 1" compare equal.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
