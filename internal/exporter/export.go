package exporter

import (
	"log/slog"
	"os"

	"oppcli/pkg/contracts/domain"
)

// WriteOutputs writes the workbook and its companion CSV. A run either
// produces both artifacts or neither: if the CSV export fails after the
// workbook was saved, the workbook is removed again. Returns the companion
// CSV path on success.
func WriteOutputs(logger *slog.Logger, workbookPath string, records []domain.Opportunity,
	growth map[domain.Dimension][]domain.GrowthRow,
	density map[domain.Dimension][]domain.DensityRow) (string, error) {

	workbook := NewWorkbookWriter(logger)
	if err := workbook.Write(workbookPath, records, growth, density); err != nil {
		return "", err
	}

	csvPath := BasePathFor(workbookPath)
	csvWriter := NewCSVWriter(logger)
	if err := csvWriter.WriteBase(csvPath, records); err != nil {
		os.Remove(workbookPath)
		os.Remove(csvPath)
		return "", err
	}

	return csvPath, nil
}
