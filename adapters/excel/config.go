package excel

// Source labels attached to sheets so merge provenance survives into logs.
const (
	SourceBaseValues  = "base_values"
	SourceFreightCalc = "freight_calc"
	SourceQuotation   = "quotation"
)

// Base-values workbook layout.
const (
	sheetTrip          = "VIAGEM"
	sheetOutboundRatio = "RELAÇÃO % FRETE IDA"
	labelBusinessDays  = "DIAS ÚTEIS:"

	// Quotations assume a 24-business-day month when the trip sheet omits it.
	defaultBusinessDays = 24
)

// costSheets are the per-category cost sheets of the base-values workbook,
// each a metric × vehicle grid that gets unpivoted into prefixed columns.
var costSheets = []string{
	"PATRIMÔNIO + CAPITAL",
	"TAXAS E IMPOSTOS",
	"LICENÇAS E CERTIFICAÇÕES",
	"GERENCIAMENTO DE RISCO",
	"SEGURO - FROTA",
	"MANUTENÇÃO+PNEUS",
	"MÃO DE OBRA + %",
	"COMBUSTÍVEL",
}

var costSheetPrefix = map[string]string{
	"PATRIMÔNIO + CAPITAL":     "asset_",
	"TAXAS E IMPOSTOS":         "taxes_",
	"LICENÇAS E CERTIFICAÇÕES": "licenses_",
	"GERENCIAMENTO DE RISCO":   "risk_",
	"SEGURO - FROTA":           "insurance_",
	"MANUTENÇÃO+PNEUS":         "maintenance_",
	"MÃO DE OBRA + %":          "labor_",
	"COMBUSTÍVEL":              "fuel_",
}

// Freight-calculation workbook layout. One sheet per vehicle with fixed
// column positions (0-based): row 0 is labels, data starts at row 1.
const (
	fcIdxMonthly         = 4
	fcIdxPerKM           = 5
	fcIdxDaily           = 6
	fcIdxKMStart         = 9
	fcIdxKMEnd           = 10
	fcIdxKMTotal         = 11
	fcIdxDeliveryFreight = 18
	fcIdxReturnFreight   = 19
	fcIdxTripFreight     = 20

	sheetFreightGeneral = "FRETE PESO - GERAL"
)

// Quotation workbook layout.
const (
	sheetQuote        = "COTAÇÃO"
	sheetQuoteBase    = "BASE"
	sheetFreightQuote = "FRETE_PESO"
)

// quoteBaseSkipRows are merchandise-category rows mixed into the BASE sheet
// that are not vehicles.
var quoteBaseSkipRows = map[string]struct{}{
	"MERCADORIAS":     {},
	"CARGA GERAL":     {},
	"PRODUTO QUÍMICO": {},
	"MEDICAMENTOS":    {},
	"ALIMENTOS":       {},
}
