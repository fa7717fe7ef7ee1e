package service

import "github.com/prostho-cdss-server/internal/domain"

// implantHardStops are the systemic flags that categorically block implant
// placement. Process-wide immutable reference data.
var implantHardStops = map[string]struct{}{
	"uncontrolled_diabetes":      {},
	"recent_head_neck_radiation": {},
	"high_risk_antiresorptives":  {},
}

// ComputeImplantCapabilities derives whether implant placement is systemically
// permitted for the patient. When blocked, the E1 contraindication reason is
// recorded and subsequently attached to every rejected implant option.
func ComputeImplantCapabilities(risk domain.PatientRisk) domain.Capabilities {
	for _, flag := range risk.SystemicFlags {
		if _, stop := implantHardStops[flag]; stop {
			return domain.Capabilities{
				ImplantsAllowed: false,
				Why:             []domain.RuleID{domain.RuleImplantContraindication},
			}
		}
	}
	return domain.Capabilities{ImplantsAllowed: true, Why: []domain.RuleID{}}
}
