package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"oppcli/internal/config"
	apperrors "oppcli/internal/errors"
	"oppcli/pkg/contracts/domain"
)

// Loader reads the raw opportunity export into memory. The file handle is
// scoped to the Load call; nothing is held open across stages.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the CSV file at path and returns one raw record per data row.
// The header row is mapped by name, so column order does not matter and
// extra columns are ignored. A missing required column is a fatal schema
// error returned before any row is read.
func (l *Loader) Load(path string) ([]domain.RawOpportunity, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("cannot open input file %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, cells are mapped by header index

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewSchemaError("input file is empty", nil)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("cannot read header row", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	l.logger.Info("input schema mapped",
		slog.String("path", path),
		slog.Int("columns", len(columns)))

	cell := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var records []domain.RawOpportunity
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("cannot read data row", err)
		}

		records = append(records, domain.RawOpportunity{
			OpportunityID: cell(row, config.ColOpportunityID),
			CompanyID:     cell(row, config.ColCompanyID),
			OwnerID:       cell(row, config.ColOwnerID),
			Zone:          cell(row, config.ColZone),
			Amount:        cell(row, config.ColAmount),
			Currency:      cell(row, config.ColCurrency),
			CloseDate:     cell(row, config.ColCloseDate),
			CloseYear:     cell(row, config.ColCloseYear),
			Participants:  cell(row, config.ColParticipants),
		})
	}

	l.logger.Info("input loaded",
		slog.String("path", path),
		slog.Int("rows", len(records)))

	return records, nil
}

// mapColumns builds a header-name to index map and verifies the required
// column set. The year can come from either an explicit year column or the
// close date, so those two are checked as a pair.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" {
			continue
		}
		if _, exists := columns[name]; !exists {
			columns[name] = i
		}
	}

	var missing []string
	for _, required := range config.RequiredColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}

	_, hasYear := columns[config.ColCloseYear]
	_, hasDate := columns[config.ColCloseDate]
	if !hasYear && !hasDate {
		missing = append(missing, config.ColCloseDate)
	}

	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("required columns missing from input: %s", strings.Join(missing, ", ")), nil)
	}

	return columns, nil
}
