package config

// Application constants - all hardcoded values for the opportunity pipeline
const (
	// Application Info
	AppName    = "Opportunity Pipeline"
	AppVersion = "1.0.0"

	// Input CSV column headers (as exported by the CRM)
	ColOpportunityID = "IdOportunidad"
	ColCompanyID     = "IdEmpresa"
	ColOwnerID       = "IdPropietario"
	ColZone          = "Zona"
	ColAmount        = "Importe"
	ColCurrency      = "TipoDivisaAjuste"
	ColCloseDate     = "FechaCierre"
	ColCloseYear     = "AnoCierre"
	ColParticipants  = "Participantes"

	// Close date layout in the source export (day first, 24h clock)
	CloseDateLayout = "02/01/2006 15:04"

	// Marker the CRM export uses for missing participant counts
	MissingParticipantsMarker = "Sin datos"

	// Output workbook sheet names (contract with the dashboard tool)
	SheetBase           = "Datos"
	SheetGrowthZones    = "Crecimiento_Zonas"
	SheetGrowthCompany  = "Crecimiento_Empresas"
	SheetGrowthOwners   = "Crecimiento_Propietarios"
	SheetDensityZones   = "Densidad_Zonas"
	SheetDensityCompany = "Densidad_Empresas"
	SheetDensityOwners  = "Densidad_Propietarios"

	// Fiscal years covered by the export
	YearFrom = 2023
	YearTo   = 2024
)

// RequiredColumns are the headers that must be present in the input CSV.
// The close year is derivable from the close date, so either column
// satisfies the year requirement (checked separately by the loader).
var RequiredColumns = []string{
	ColOpportunityID,
	ColCompanyID,
	ColOwnerID,
	ColZone,
	ColAmount,
	ColCurrency,
	ColParticipants,
}
