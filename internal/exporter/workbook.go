package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"oppcli/internal/config"
	apperrors "oppcli/internal/errors"
	"oppcli/pkg/contracts/domain"
)

// WorkbookWriter builds the output .xlsx workbook: the enriched base table
// plus one growth sheet and one density sheet per dimension. The workbook
// is assembled fully in memory and saved in one step through a temp file,
// so a failed run leaves no partial artifact behind.
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a new workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// growthSheetNames maps each dimension to its workbook sheet. The names are
// a contract with the dashboard tool and must not change.
var growthSheetNames = map[domain.Dimension]string{
	domain.DimensionZone:    config.SheetGrowthZones,
	domain.DimensionCompany: config.SheetGrowthCompany,
	domain.DimensionOwner:   config.SheetGrowthOwners,
}

var densitySheetNames = map[domain.Dimension]string{
	domain.DimensionZone:    config.SheetDensityZones,
	domain.DimensionCompany: config.SheetDensityCompany,
	domain.DimensionOwner:   config.SheetDensityOwners,
}

// baseHeader is the column order of the base sheet, matching the layout the
// dashboard expects.
var baseHeader = []interface{}{
	"IdOportunidad", "FolioOportunidad",
	"IdEmpresa", "FolioEmpresa",
	"IdPropietario", "FolioPropietario",
	"Zona", "ClasificacionZona", "TipoDivisaAjuste",
	"Importe", "Importe_MXN", "Importe_USD", "Importe_EUR", "RangoImporte",
	"Clasificacion",
	"FechaCierre", "AnoCierre", "MesCierre", "TrimestreCierre", "Participantes",
}

// Write saves the full workbook to path.
func (w *WorkbookWriter) Write(path string, records []domain.Opportunity,
	growth map[domain.Dimension][]domain.GrowthRow,
	density map[domain.Dimension][]domain.DensityRow) error {

	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeBaseSheet(f, records); err != nil {
		return err
	}

	for _, dim := range domain.Dimensions {
		if err := w.writeGrowthSheet(f, growthSheetNames[dim], growth[dim]); err != nil {
			return err
		}
	}
	for _, dim := range domain.Dimensions {
		withTercile := dim == domain.DimensionOwner
		if err := w.writeDensitySheet(f, densitySheetNames[dim], density[dim], withTercile); err != nil {
			return err
		}
	}

	if err := w.save(f, path); err != nil {
		return err
	}

	w.logger.Info("workbook written",
		slog.String("path", path),
		slog.Int("records", len(records)),
		slog.Int("sheets", 1+len(growth)+len(density)))

	return nil
}

// writeBaseSheet renders every enriched record with all derived columns.
func (w *WorkbookWriter) writeBaseSheet(f *excelize.File, records []domain.Opportunity) error {
	// The workbook's initial sheet becomes the base sheet.
	if err := f.SetSheetName(f.GetSheetName(0), config.SheetBase); err != nil {
		return apperrors.NewStorageError("cannot name base sheet", err)
	}

	if err := f.SetSheetRow(config.SheetBase, "A1", &baseHeader); err != nil {
		return apperrors.NewStorageError("cannot write base sheet header", err)
	}

	for i, r := range records {
		closeDate := ""
		if !r.CloseDate.IsZero() {
			closeDate = r.CloseDate.Format("2006-01-02")
		}
		row := []interface{}{
			r.OpportunityID, r.FolioOpportunity,
			r.CompanyID, r.FolioCompany,
			r.OwnerID, r.FolioOwner,
			r.Zone, string(r.ZoneRating), r.Currency,
			r.Amount, r.AmountMXN, r.AmountUSD, r.AmountEUR, string(r.AmountRange),
			r.Classification,
			closeDate, r.CloseYear, r.CloseMonth, r.CloseQuarter, r.Participants,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(config.SheetBase, cell, &row); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("cannot write base sheet row %d", i+2), err)
		}
	}

	return w.applyAmountFormat(f, config.SheetBase, "J", "M", len(records))
}

// writeGrowthSheet renders one dimension's growth rows. Undefined growth is
// rendered as the literal sentinel, never as a number.
func (w *WorkbookWriter) writeGrowthSheet(f *excelize.File, sheet string, rows []domain.GrowthRow) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("cannot create sheet %s", sheet), err)
	}

	header := []interface{}{"Valor", "Importe_2023", "Importe_2024", "Crecimiento_%"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("cannot write header of sheet %s", sheet), err)
	}

	for i, row := range rows {
		var growthCell interface{}
		if row.Growth.Undefined {
			growthCell = row.Growth.String()
		} else {
			growthCell = row.Growth.Percent
		}
		values := []interface{}{row.Value, row.Amount2023, row.Amount2024, growthCell}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("cannot write row %d of sheet %s", i+2, sheet), err)
		}
	}

	return w.applyAmountFormat(f, sheet, "B", "C", len(rows))
}

// writeDensitySheet renders one dimension's revenue-density rows. The owner
// sheet carries an extra Clasificacion column with the revenue tercile.
func (w *WorkbookWriter) writeDensitySheet(f *excelize.File, sheet string, rows []domain.DensityRow, withTercile bool) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("cannot create sheet %s", sheet), err)
	}

	header := []interface{}{"Valor", "IngresoTotal", "Oportunidades", "DensidadIngreso"}
	if withTercile {
		header = append(header, "Clasificacion")
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("cannot write header of sheet %s", sheet), err)
	}

	for i, row := range rows {
		values := []interface{}{row.Value, row.Total, row.Count, row.Density}
		if withTercile {
			values = append(values, row.Tercile)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("cannot write row %d of sheet %s", i+2, sheet), err)
		}
	}

	return w.applyAmountFormat(f, sheet, "B", "B", len(rows))
}

// applyAmountFormat puts a #,##0.00 number format on the amount columns of
// the data rows.
func (w *WorkbookWriter) applyAmountFormat(f *excelize.File, sheet, fromCol, toCol string, dataRows int) error {
	if dataRows == 0 {
		return nil
	}

	styleID, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return apperrors.NewStorageError("cannot create number style", err)
	}

	from := fmt.Sprintf("%s2", fromCol)
	to := fmt.Sprintf("%s%d", toCol, dataRows+1)
	if err := f.SetCellStyle(sheet, from, to, styleID); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("cannot style %s!%s:%s", sheet, from, to), err)
	}
	return nil
}

// save writes the workbook through a temp file in the destination directory
// and renames it into place. The temp name keeps the .xlsx extension because
// excelize refuses to save under any other suffix.
func (w *WorkbookWriter) save(f *excelize.File, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("cannot create output directory %s", dir), err)
	}

	tmp := filepath.Join(dir, ".tmp-"+filepath.Base(path))
	if err := f.SaveAs(tmp); err != nil {
		os.Remove(tmp)
		return apperrors.NewStorageError(fmt.Sprintf("cannot save workbook to %s", path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return apperrors.NewStorageError(fmt.Sprintf("cannot move workbook into place at %s", path), err)
	}
	return nil
}
