// Package intake supports client-side case assembly: the selectable option
// lists for each clinical field, the form-state key conventions, abutment
// collection from detected spans, and permissive serialization of collected
// form state into a case payload. Everything here is pure; strict validation
// happens later at the engine's trust boundary.
package intake

import (
	"fmt"

	"github.com/prostho-cdss-server/internal/domain"
)

// Option is one selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Selectable option lists for the closed clinical enumerations. Order is the
// display order.
var (
	StatusOptions = []Option{
		{Value: "present_sound", Label: "Sound"},
		{Value: "present_operated", Label: "Heavily restored / Operated"},
		{Value: "present_carious", Label: "Carious"},
		{Value: "present_implant", Label: "Implant"},
	}

	MobilityOptions = []Option{
		{Value: "0", Label: "Mob. 0"},
		{Value: "1", Label: "Mob. 1"},
		{Value: "2", Label: "Mob. 2"},
		{Value: "3", Label: "Mob. 3"},
	}

	CrownRootRatioOptions = []Option{
		{Value: ">=1:1", Label: "≥1:1"},
		{Value: "≈1:1", Label: "≈1:1"},
		{Value: "<1:1", Label: "<1:1"},
	}

	CariesOptions = []Option{
		{Value: "low", Label: "Low"},
		{Value: "moderate", Label: "Moderate"},
		{Value: "high", Label: "High"},
	}

	OcclusionOptions = []Option{
		{Value: "Favorable", Label: "Favorable"},
		{Value: "Heavy", Label: "Heavy"},
		{Value: "Parafunction", Label: "Parafunction"},
	}

	ParafunctionOptions = []Option{
		{Value: "none", Label: "None"},
		{Value: "mild", Label: "Mild"},
		{Value: "moderate", Label: "Moderate"},
		{Value: "severe", Label: "Severe"},
	}

	OpposingOptions = []Option{
		{Value: "natural", Label: "Natural"},
		{Value: "complete_denture", Label: "Complete denture"},
		{Value: "implant_supported", Label: "Implant-supported"},
		{Value: "mixed", Label: "Mixed"},
	}

	SystemicOptions = []Option{
		{Value: "uncontrolled_diabetes", Label: "Uncontrolled diabetes"},
		{Value: "recent_head_neck_radiation", Label: "Recent head/neck radiation"},
		{Value: "high_risk_antiresorptives", Label: "High-risk antiresorptives"},
		{Value: "poor_hygiene", Label: "Poor hygiene"},
		{Value: "smoker", Label: "Smoker"},
		{Value: "periodontal_disease", Label: "Periodontal disease"},
	}
)

// Defaults are the pre-selected values used when a form field was never
// touched.
type Defaults struct {
	Status       string   `json:"status"`
	Mobility     string   `json:"mobility"`
	CrownRoot    string   `json:"crr"`
	Enamel       bool     `json:"enamel"`
	Caries       string   `json:"caries"`
	Occlusion    string   `json:"occlusion"`
	Parafunction string   `json:"parafunction"`
	Opposing     string   `json:"opposing"`
	Systemic     []string `json:"systemic"`
}

// DefaultValues returns the standard low-risk defaults.
func DefaultValues() Defaults {
	return Defaults{
		Status:       "present_sound",
		Mobility:     "0",
		CrownRoot:    ">=1:1",
		Enamel:       true,
		Caries:       "low",
		Occlusion:    "Favorable",
		Parafunction: "none",
		Opposing:     "natural",
		Systemic:     []string{},
	}
}

// GatherAbutmentTeeth collects the unique abutment-related teeth from a span
// set: structural abutments, outside neighbors and piers, de-duplicated
// preserving first occurrence. These are the teeth a case form must collect
// health records for.
func GatherAbutmentTeeth(spans domain.SpanSet) []string {
	var collected []string
	appendRef := func(t domain.ToothRef) {
		if t.IsSet() {
			collected = append(collected, string(t))
		}
	}

	for _, archSpans := range [][]domain.Span{spans.Maxilla, spans.Mandible} {
		for _, s := range archSpans {
			appendRef(s.Abutments.Mesial)
			appendRef(s.Abutments.Distal)
			appendRef(s.OutsideAbutments.Left)
			appendRef(s.OutsideAbutments.Right)
			collected = append(collected, s.PierAbutments...)
		}
	}

	seen := make(map[string]struct{}, len(collected))
	out := make([]string, 0, len(collected))
	for _, t := range collected {
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// AbutmentKeys returns the form-state key names for one tooth's health
// fields.
func AbutmentKeys(tooth string) map[string]string {
	prefix := "abut_" + tooth
	return map[string]string{
		"status":   prefix + "_status",
		"mobility": prefix + "_mob",
		"crr":      prefix + "_crr",
		"enamel":   prefix + "_enamel",
	}
}

// RiskKeys returns the form-state key names for the patient risk fields.
// Systemic flags are individual toggles under the returned prefix.
func RiskKeys() map[string]string {
	return map[string]string{
		"caries":          "risk_caries",
		"occlusion":       "risk_occl",
		"parafunction":    "risk_para",
		"opposing":        "risk_opp",
		"systemic_prefix": "risk_systemic",
	}
}

// SerializeCasePayload assembles a case payload from collected form state,
// falling back to defaults for untouched fields. It is deliberately
// permissive: the engine's normalization rejects anything invalid.
func SerializeCasePayload(missing []string, spans domain.SpanSet, state map[string]any, abutmentTeeth []string) domain.CasePayload {
	defaults := DefaultValues()
	rk := RiskKeys()

	systemic := []string{}
	for _, opt := range SystemicOptions {
		key := fmt.Sprintf("%s_%s", rk["systemic_prefix"], opt.Value)
		if boolFromState(state, key, false) {
			systemic = append(systemic, opt.Value)
		}
	}

	risk := domain.PatientRisk{
		CariesRisk:        domain.CariesRisk(stringFromState(state, rk["caries"], defaults.Caries)),
		OcclusalScheme:    domain.OcclusalScheme(stringFromState(state, rk["occlusion"], defaults.Occlusion)),
		Parafunction:      domain.ParafunctionLevel(stringFromState(state, rk["parafunction"], defaults.Parafunction)),
		OpposingDentition: domain.OpposingDentition(stringFromState(state, rk["opposing"], defaults.Opposing)),
		SystemicFlags:     systemic,
	}

	health := make([]domain.AbutmentHealth, 0, len(abutmentTeeth))
	for _, tooth := range abutmentTeeth {
		ak := AbutmentKeys(tooth)
		health = append(health, domain.AbutmentHealth{
			Tooth:          tooth,
			Status:         domain.ToothStatus(stringFromState(state, ak["status"], defaults.Status)),
			MobilityMiller: domain.MillerMobility(stringFromState(state, ak["mobility"], defaults.Mobility)),
			CrownRootRatio: domain.CrownRootRatio(stringFromState(state, ak["crr"], defaults.CrownRoot)),
			EnamelOKForRBB: boolFromState(state, ak["enamel"], defaults.Enamel),
		})
	}

	return domain.CasePayload{
		Missing:        append([]string(nil), missing...),
		Spans:          spans,
		PatientRisk:    risk,
		AbutmentHealth: health,
	}
}

func stringFromState(state map[string]any, key, fallback string) string {
	if v, ok := state[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

func boolFromState(state map[string]any, key string, fallback bool) bool {
	if v, ok := state[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}
