package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"oppcli/internal/config"
	"oppcli/pkg/contracts/domain"
)

// ColumnGenerator derives the synthetic and categorical columns on each
// record: folios, the amount-range bucket, the decision-table
// classification, the key-zone rating and the close-date split. It never
// adds or removes records.
type ColumnGenerator struct {
	buckets  config.BucketsConfig
	keyZones int
	logger   *slog.Logger
}

// NewColumnGenerator creates a new column generator
func NewColumnGenerator(buckets config.BucketsConfig, keyZones int, logger *slog.Logger) *ColumnGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ColumnGenerator{buckets: buckets, keyZones: keyZones, logger: logger}
}

// ParticipantBand buckets the participant count for the classification
// decision table.
type ParticipantBand string

const (
	BandNone  ParticipantBand = "none"
	BandSmall ParticipantBand = "small" // 1-3 participants
	BandLarge ParticipantBand = "large" // 4 or more
)

// classificationTable is the fixed decision rule over amount bucket and
// participant band. It is applied by lookup, never re-derived from a
// formula, so the labels reproduce the agreed table exactly.
var classificationTable = map[domain.AmountRange]map[ParticipantBand]string{
	domain.AmountRangeBajo: {
		BandNone: "Inactiva", BandSmall: "Rutinaria", BandLarge: "Rutinaria",
	},
	domain.AmountRangeMedio: {
		BandNone: "Inactiva", BandSmall: "Rutinaria", BandLarge: "Prometedora",
	},
	domain.AmountRangeAlto: {
		BandNone: "EnRiesgo", BandSmall: "Prometedora", BandLarge: "Estrategica",
	},
	domain.AmountRangeMuyAlto: {
		BandNone: "EnRiesgo", BandSmall: "Estrategica", BandLarge: "Estrategica",
	},
}

// Generate derives all columns in place and returns the enriched records.
// Folio numbering follows first appearance of each source identifier, so a
// given input always produces the same folios.
func (g *ColumnGenerator) Generate(ctx context.Context, records []domain.Opportunity) []domain.Opportunity {
	opportunityFolios := make(map[string]string)
	companyFolios := make(map[string]string)
	ownerFolios := make(map[string]string)

	keyZones := g.topZones(records)

	for i := range records {
		r := &records[i]

		r.FolioOpportunity = folioFor(opportunityFolios, "Oportunidad", r.OpportunityID)
		r.FolioCompany = folioFor(companyFolios, "Empresa", r.CompanyID)
		r.FolioOwner = folioFor(ownerFolios, "Propietario", r.OwnerID)

		r.AmountRange = g.Bucket(r.AmountMXN)
		r.Classification = Classify(r.AmountRange, r.Participants)

		if _, ok := keyZones[r.Zone]; ok {
			r.ZoneRating = domain.ZoneRatingKey
		} else {
			r.ZoneRating = domain.ZoneRatingOther
		}

		if !r.CloseDate.IsZero() {
			r.CloseMonth = int(r.CloseDate.Month())
			r.CloseQuarter = (r.CloseMonth-1)/3 + 1
		}
	}

	g.logger.InfoContext(ctx, "derived columns generated",
		slog.Int("records", len(records)),
		slog.Int("opportunities", len(opportunityFolios)),
		slog.Int("companies", len(companyFolios)),
		slog.Int("owners", len(ownerFolios)))

	return records
}

// Bucket returns the amount-range label for a normalized amount. Bounds are
// closed below and open above; a value exactly at a threshold lands in the
// upper bucket, and the top bucket has no upper bound.
func (g *ColumnGenerator) Bucket(amountMXN float64) domain.AmountRange {
	switch {
	case amountMXN >= g.buckets.MuyAlto:
		return domain.AmountRangeMuyAlto
	case amountMXN >= g.buckets.Alto:
		return domain.AmountRangeAlto
	case amountMXN >= g.buckets.Medio:
		return domain.AmountRangeMedio
	default:
		return domain.AmountRangeBajo
	}
}

// Classify looks up the classification for a bucket and participant count.
func Classify(bucket domain.AmountRange, participants int) string {
	return classificationTable[bucket][bandFor(participants)]
}

// bandFor maps a participant count to its decision-table band.
func bandFor(participants int) ParticipantBand {
	switch {
	case participants <= 0:
		return BandNone
	case participants <= 3:
		return BandSmall
	default:
		return BandLarge
	}
}

// folioFor returns the folio already assigned to id, or assigns the next
// one in first-appearance order.
func folioFor(assigned map[string]string, prefix, id string) string {
	if folio, ok := assigned[id]; ok {
		return folio
	}
	folio := fmt.Sprintf("%s %d", prefix, len(assigned)+1)
	assigned[id] = folio
	return folio
}

// topZones returns the set of the top keyZones zones by total normalized
// amount. Ties break lexicographically so the rating is stable across runs.
func (g *ColumnGenerator) topZones(records []domain.Opportunity) map[string]struct{} {
	totals := make(map[string]float64)
	for _, r := range records {
		totals[r.Zone] += r.AmountMXN
	}

	zones := make([]string, 0, len(totals))
	for zone := range totals {
		zones = append(zones, zone)
	}
	sort.Slice(zones, func(i, j int) bool {
		if totals[zones[i]] != totals[zones[j]] {
			return totals[zones[i]] > totals[zones[j]]
		}
		return zones[i] < zones[j]
	})

	if len(zones) > g.keyZones {
		zones = zones[:g.keyZones]
	}

	top := make(map[string]struct{}, len(zones))
	for _, zone := range zones {
		top[zone] = struct{}{}
	}
	return top
}
