// Package ontology exposes the static human-readable vocabulary of the
// planning engine: labels and tooltips for families, kinds, rules, options
// and case plans, plus the UI tokens the frontend maps severities onto. The
// ids mirror the engine's output ids exactly; the engine itself never reads
// this package.
package ontology

import (
	"time"

	"github.com/prostho-cdss-server/internal/domain"
	"github.com/prostho-cdss-server/internal/service"
)

// Meta identifies the ontology document and the engine it describes.
type Meta struct {
	Version        string `json:"version"`
	UpdatedAt      string `json:"updated_at"`
	EngineVersion  string `json:"engine_version"`
	RulesetVersion string `json:"ruleset_version"`
	Locale         string `json:"locale"`
}

// FamilyInfo labels one restoration family.
type FamilyInfo struct {
	Label       string `json:"label"`
	Short       string `json:"short"`
	Description string `json:"description"`
}

// KindInfo labels one restoration kind.
type KindInfo struct {
	Label       string `json:"label"`
	Short       string `json:"short"`
	Description string `json:"description"`
}

// Labels groups the display names for the engine's closed enumerations.
type Labels struct {
	Arch     map[string]string            `json:"arch"`
	SpanType map[domain.SpanType]string   `json:"span_type"`
	Families map[domain.Family]FamilyInfo `json:"families"`
	Kinds    map[domain.Kind]KindInfo     `json:"kinds"`
}

// RuleInfo explains one rule id to a clinician. Short is omitted for
// absolute rules, matching the upstream document.
type RuleInfo struct {
	Short       string `json:"short,omitempty"`
	Label       string `json:"label"`
	Explanation string `json:"explanation"`
	Severity    string `json:"severity"`
}

// OptionInfo labels one option kind and carries its display-name template.
type OptionInfo struct {
	Label        string `json:"label"`
	Short        string `json:"short"`
	Description  string `json:"description"`
	NameTemplate string `json:"nameTemplate"`
}

// PlanInfo labels one whole-case plan strategy.
type PlanInfo struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// UI carries presentation hints: severity-to-token mapping and legend text.
type UI struct {
	SeverityTokens map[string]string `json:"severityTokens"`
	Legend         map[string]string `json:"legend"`
}

// Document is the complete ontology payload served to clients.
type Document struct {
	Meta     Meta                       `json:"meta"`
	Labels   Labels                     `json:"labels"`
	Rules    map[domain.RuleID]RuleInfo `json:"rules"`
	Options  map[domain.Kind]OptionInfo `json:"options"`
	Plans    map[string]PlanInfo        `json:"plans"`
	UI       UI                         `json:"ui"`
	Glossary map[string]string          `json:"glossary"`
}

// Get returns the ontology document with a fresh timestamp.
func Get() Document {
	return Document{
		Meta: Meta{
			Version:        "1.0.0",
			UpdatedAt:      time.Now().UTC().Format(time.RFC3339),
			EngineVersion:  service.EngineVersion,
			RulesetVersion: service.RulesetVersion,
			Locale:         "en",
		},
		Labels: Labels{
			Arch: map[string]string{
				"maxilla":  "Maxilla",
				"mandible": "Mandible",
			},
			SpanType: map[domain.SpanType]string{
				domain.Bounded:         "Bounded span",
				domain.DistalExtension: "Distal-extension span",
			},
			Families: map[domain.Family]FamilyInfo{
				domain.FamilyFixed:     {Label: "Fixed Restorations", Short: "Fixed", Description: "Tooth-supported restorations (e.g., bridges, cantilevers)."},
				domain.FamilyImplant:   {Label: "Implant Restorations", Short: "Implant", Description: "Implant-supported single crowns or bridges."},
				domain.FamilyRemovable: {Label: "Removable Prosthesis", Short: "RPD", Description: "Removable partial denture solutions."},
			},
			Kinds: map[domain.Kind]KindInfo{
				domain.KindFDP:           {Label: "Fixed Dental Prosthesis (Bridge)", Short: "FDP", Description: "Bridge supported by mesial and distal abutments."},
				domain.KindRBB:           {Label: "Resin-Bonded Bridge", Short: "RBB", Description: "Adhesive bridge for select single anterior spans with sound enamel neighbors."},
				domain.KindCantilever:    {Label: "Cantilever FDP", Short: "CL", Description: "Single-abutment anterior design in controlled occlusion."},
				domain.KindImplantSingle: {Label: "Single-Tooth Implant", Short: "IMP-Single", Description: "One implant replacing a single missing tooth."},
				domain.KindImplantFDP:    {Label: "Implant-Supported Bridge", Short: "IMP-FDP", Description: "Multi-unit implant-supported restoration."},
				domain.KindRPD:           {Label: "Removable Partial Denture", Short: "RPD", Description: "Removable option; design depends on Kennedy Class."},
			},
		},
		Rules: map[domain.RuleID]RuleInfo{
			domain.RuleCompromisedAbutment:  {Short: "Abutment mobility", Label: "Abutment mobility ≥ 2", Explanation: "One or more abutments show mobility ≥ Miller Class 2, reducing prognosis.", Severity: "moderate"},
			domain.RuleUnfavorableCrownRoot: {Short: "Poor CRR", Label: "Crown–root ratio < 1:1", Explanation: "Abutment crown–root ratio below 1:1 lowers support.", Severity: "moderate"},
			domain.RuleOcclusionRisk:        {Short: "Heavy occlusion", Label: "Heavy occlusal scheme", Explanation: "Heavy occlusal contacts increase mechanical load.", Severity: "mild-moderate"},
			domain.RuleCariesOrHygieneRisk:  {Short: "Caries/hygiene risk", Label: "Caries or hygiene risk", Explanation: "Moderate/high caries risk or poor hygiene may shorten lifespan.", Severity: "moderate"},
			domain.RuleParafunction:         {Short: "Parafunction", Label: "Parafunction present", Explanation: "Moderate/severe parafunction (e.g., bruxism) increases stress.", Severity: "moderate-high"},
			domain.RuleRPDComplexDesign:     {Short: "Complex RPD", Label: "RPD complexity (Kennedy I/II + mods)", Explanation: "Kennedy I/II with modifications likely requires a more complex design.", Severity: "mild"},

			domain.RuleImplantContraindication:   {Label: "Implant contraindicated", Explanation: "Systemic factors or patient risk prevent implant placement.", Severity: "contraindication"},
			domain.RuleNoPosteriorAbutment:       {Label: "Posterior abutment missing", Explanation: "Required mesial/distal abutment absent for FDP.", Severity: "contraindication"},
			domain.RuleRBBAdjacentToothMissing:   {Label: "RBB neighbor missing", Explanation: "Both adjacent teeth must be present for RBB.", Severity: "contraindication"},
			domain.RuleRBBEnamelNotOK:            {Label: "Enamel unsuitable", Explanation: "Adjacent teeth must have intact enamel for bonding.", Severity: "contraindication"},
			domain.RuleRBBHeavyOcclusion:         {Label: "Heavy occlusion", Explanation: "Heavy occlusion excludes RBB due to shear stress risk.", Severity: "contraindication"},
			domain.RuleRBBParafunction:           {Label: "Parafunction", Explanation: "Moderate/severe parafunction excludes RBB.", Severity: "contraindication"},
			domain.RuleRBBHighCaries:             {Label: "High caries risk", Explanation: "High caries risk contraindicates RBB.", Severity: "contraindication"},
			domain.RuleCLNotAllowedPontic:        {Label: "Pontic not allowed", Explanation: "Cantilever allowed only for specific anterior teeth.", Severity: "contraindication"},
			domain.RuleCLCrossMidline:            {Label: "Crosses midline", Explanation: "Cantilever cannot cross the midline.", Severity: "contraindication"},
			domain.RuleCLRequiredAbutmentMissing: {Label: "Required abutment missing", Explanation: "The designated abutment tooth for this pontic is missing.", Severity: "contraindication"},
			domain.RuleCLAbutmentHealthFail:      {Label: "Abutment health inadequate", Explanation: "Mobility/CRR thresholds not met for cantilever.", Severity: "contraindication"},
		},
		Options: map[domain.Kind]OptionInfo{
			domain.KindFDP:           {Label: "Fixed Dental Prosthesis (Bridge)", Short: "FDP", Description: "Bridge using adjacent abutments.", NameTemplate: "FDP for {span_id} (length {length})"},
			domain.KindRBB:           {Label: "Resin-Bonded Bridge", Short: "RBB", Description: "Adhesive bridge for selected anterior gaps.", NameTemplate: "RBB at {pontic_tooth}"},
			domain.KindCantilever:    {Label: "Cantilever FDP", Short: "CL", Description: "Single-abutment anterior FDP.", NameTemplate: "Cantilever at {pontic_tooth} (abutment {required_abutment})"},
			domain.KindImplantSingle: {Label: "Single-Tooth Implant", Short: "IMP-Single", Description: "Implant replacing a single missing tooth.", NameTemplate: "Single implant at {pontic_tooth}"},
			domain.KindImplantFDP:    {Label: "Implant-Supported Bridge", Short: "IMP-FDP", Description: "Implant-supported multi-unit restoration.", NameTemplate: "Implant FDP for {span_id} (length {length})"},
			domain.KindRPD:           {Label: "Removable Partial Denture", Short: "RPD", Description: "Removable prosthesis per Kennedy Class.", NameTemplate: "RPD for {span_id}"},
		},
		Plans: map[string]PlanInfo{
			domain.PlanUnifiedRPD:                     {Label: "Unified RPD", Description: "One or more RPDs designed to restore all missing spans across the treated arch(es)."},
			domain.PlanUnifiedFDP:                     {Label: "Unified FDP", Description: "Conventional fixed bridges on all spans that permit FDP."},
			domain.PlanImplantConversionThenFixed:     {Label: "Implant Conversion → Fixed", Description: "Convert distal extensions with implants, then use fixed where feasible."},
			domain.PlanMixedFDPRPD:                    {Label: "Mixed Fixed + RPD", Description: "Combine fixed solutions for some spans with an RPD for remaining gaps."},
			domain.PlanPierResolutionImplantPlusFixed: {Label: "Pier Resolution (Implant + Fixed)", Description: "Use an implant near short bounded spans with piers, then fixed elsewhere."},
			domain.PlanImplantOnEligibleSingles:       {Label: "Implants on Eligible Singles", Description: "Prefer implants for single-tooth spans where clinically allowed."},
		},
		UI: UI{
			SeverityTokens: map[string]string{
				"info":             "token-info",
				"mild":             "token-mild",
				"mild-moderate":    "token-mild",
				"moderate":         "token-moderate",
				"moderate-high":    "token-high",
				"high":             "token-high",
				"contraindication": "token-critical",
			},
			Legend: map[string]string{
				"score_hint": "Penalty score: fewer badges = better rank.",
			},
		},
		Glossary: map[string]string{
			"bounded_span":     "Missing tooth/teeth with abutments on both sides.",
			"distal_extension": "Missing teeth with no distal abutment (Kennedy I/II).",
			"pier_abutment":    "A lone tooth separating two bounded spans.",
		},
	}
}
