package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "oppcli/internal/errors"
	"oppcli/pkg/contracts/domain"
)

// CSVWriter exports the enriched base table as a companion CSV, so the data
// survives tools that mangle Excel formats.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteBase writes all enriched records to a CSV file at path. A UTF-8 BOM
// is prepended so Excel opens the file correctly.
func (w *CSVWriter) WriteBase(path string, records []domain.Opportunity) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("cannot create output directory %s", dir), err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("cannot create CSV file %s", path), err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return apperrors.NewStorageError("cannot write BOM", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := make([]string, len(baseHeader))
	for i, h := range baseHeader {
		header[i] = h.(string)
	}
	if err := writer.Write(header); err != nil {
		return apperrors.NewStorageError("cannot write CSV header", err)
	}

	for i, r := range records {
		closeDate := ""
		if !r.CloseDate.IsZero() {
			closeDate = r.CloseDate.Format("2006-01-02")
		}
		row := []string{
			r.OpportunityID, r.FolioOpportunity,
			r.CompanyID, r.FolioCompany,
			r.OwnerID, r.FolioOwner,
			r.Zone, string(r.ZoneRating), r.Currency,
			formatFloat(r.Amount), formatFloat(r.AmountMXN), formatFloat(r.AmountUSD),
			formatFloat(r.AmountEUR), string(r.AmountRange),
			r.Classification,
			closeDate, formatInt(r.CloseYear), formatInt(r.CloseMonth),
			formatInt(r.CloseQuarter), formatInt(r.Participants),
		}
		if err := writer.Write(row); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("cannot write CSV record %d", i+1), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("CSV flush failed", err)
	}

	w.logger.Info("base CSV written",
		slog.String("path", path),
		slog.Int("records", len(records)))

	return nil
}

// BasePathFor derives the companion CSV path from the workbook path.
func BasePathFor(workbookPath string) string {
	ext := filepath.Ext(workbookPath)
	return workbookPath[:len(workbookPath)-len(ext)] + ".csv"
}
