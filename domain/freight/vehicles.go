package freight

import "strings"

// VehicleType is the canonical fleet vehicle name used as part of the join
// key across all three workbooks.
type VehicleType = string

// CanonicalVehicles is the fleet catalogue the workbooks quote against.
// Workbook headers and sheet names spell these inconsistently; everything
// is normalized to this list at load time.
var CanonicalVehicles = []VehicleType{
	"FIORINO - CARGA SECA",
	"VAN - CARGA SECA",
	"LEVE - CARGA SECA",
	"TOCO - CARGA SECA",
	"TRUCK - CARGA SECA",
	"CARRETA 5 EIXOS - CARGA SECA",
	"CARRETA 6 EIXOS - CARGA SECA",
	"VAN - REFRIGERADA",
	"LEVE - REFRIGERADO",
	"TOCO - REFRIGERADO",
	"TRUCK - REFRIGERADO",
	"CARRETA 5 EIXOS - REFRIGERADA",
	"CARRETA 6 EIXOS - REFRIGERADA",
}

// vehicleAliases maps abbreviated spellings seen in sheet names and column
// headers to canonical vehicle names.
var vehicleAliases = map[string]VehicleType{
	"FIORINO":       "FIORINO - CARGA SECA",
	"FIORINO CS":    "FIORINO - CARGA SECA",
	"FIORINO_CS":    "FIORINO - CARGA SECA",
	"FIORINO_CS_AG": "FIORINO - CARGA SECA",
	"VAN_CS":        "VAN - CARGA SECA",
	"VAN CS":        "VAN - CARGA SECA",
	"LEVE_CS":       "LEVE - CARGA SECA",
	"LEVE CS":       "LEVE - CARGA SECA",
	"TOCO_CS":       "TOCO - CARGA SECA",
	"TOCO CS":       "TOCO - CARGA SECA",
	"TRUCK_CS":      "TRUCK - CARGA SECA",
	"TRUCK CS":      "TRUCK - CARGA SECA",
	"CTA5_CS":       "CARRETA 5 EIXOS - CARGA SECA",
	"CARRETA 5":     "CARRETA 5 EIXOS - CARGA SECA",
	"CTA6_CS":       "CARRETA 6 EIXOS - CARGA SECA",
	"CARRETA 6":     "CARRETA 6 EIXOS - CARGA SECA",
	"VAN_CR":        "VAN - REFRIGERADA",
	"VAN CR":        "VAN - REFRIGERADA",
	"LEVE_CR":       "LEVE - REFRIGERADO",
	"LEVE CR":       "LEVE - REFRIGERADO",
	"TOCO_CR":       "TOCO - REFRIGERADO",
	"TOCO CR":       "TOCO - REFRIGERADO",
	"TRUCK_CR":      "TRUCK - REFRIGERADO",
	"TRUCK CR":      "TRUCK - REFRIGERADO",
	"CTA5_CR":       "CARRETA 5 EIXOS - REFRIGERADA",
	"CTA6_CR":       "CARRETA 6 EIXOS - REFRIGERADA",
}

var canonicalSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(CanonicalVehicles))
	for _, v := range CanonicalVehicles {
		set[v] = struct{}{}
	}
	return set
}()

// IsCanonicalVehicle reports whether name is already a canonical vehicle.
func IsCanonicalVehicle(name string) bool {
	_, ok := canonicalSet[strings.TrimSpace(name)]
	return ok
}

// NormalizeVehicle maps a raw workbook spelling to its canonical vehicle
// name. The second return is false when the name matches no known vehicle.
func NormalizeVehicle(raw string) (VehicleType, bool) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if name == "" {
		return "", false
	}
	if _, ok := canonicalSet[name]; ok {
		return name, true
	}
	if v, ok := vehicleAliases[name]; ok {
		return v, true
	}
	// Collapse separators: "CTA5 - CS" and "CTA5-CS" mean the same sheet.
	collapsed := strings.ReplaceAll(strings.ReplaceAll(name, " - ", "_"), "-", "_")
	collapsed = strings.ReplaceAll(collapsed, " ", "_")
	if v, ok := vehicleAliases[collapsed]; ok {
		return v, true
	}
	return "", false
}
