package domain

import (
	"encoding/json"

	"github.com/prostho-cdss-server/pkg/fdi"
)

// ToothRef is an optional FDI tooth code. The empty value serializes to JSON
// null so the wire format matches the external contract for absent abutments.
type ToothRef string

// IsSet reports whether the reference names a tooth.
func (t ToothRef) IsSet() bool {
	return t != ""
}

// MarshalJSON emits null for an unset reference.
func (t ToothRef) MarshalJSON() ([]byte, error) {
	if t == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

// UnmarshalJSON maps JSON null to the unset reference.
func (t *ToothRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ToothRef(s)
	return nil
}

// SpanAbutments are the structural abutments of a span relative to the
// midline: mesial is nearer the midline, distal farther away.
type SpanAbutments struct {
	Mesial ToothRef `json:"mesial"`
	Distal ToothRef `json:"distal"`
}

// OutsideAbutments are the immediate neighbors of a span's endpoints, viewer
// perspective, regardless of midline orientation.
type OutsideAbutments struct {
	Left  ToothRef `json:"left"`
	Right ToothRef `json:"right"`
}

// Span is one maximal contiguous run of missing teeth within an arch, with
// inferred abutments, classification, and pier detection.
type Span struct {
	SpanID           string           `json:"span_id"`
	Arch             fdi.Arch         `json:"arch"`
	MissingTeeth     []string         `json:"missing_teeth"`
	Abutments        SpanAbutments    `json:"abutments"`
	OutsideAbutments OutsideAbutments `json:"outside_abutments"`
	SpanType         SpanType         `json:"span_type"`
	CrossMidline     bool             `json:"cross_midline"`
	PierAbutments    []string         `json:"pier_abutments"`
}

// SpanSet holds the detected spans of both arches in canonical order.
type SpanSet struct {
	Maxilla  []Span `json:"maxilla"`
	Mandible []Span `json:"mandible"`
}

// NormalizedSpan is a Span after case normalization, with the derived length
// and single-tooth pontic site attached. It is the span context consumed by
// every evaluator.
type NormalizedSpan struct {
	Span
	Length      int      `json:"length"`
	PonticTooth ToothRef `json:"pontic_tooth"`
}

// NormalizedSpanSet holds normalized spans per arch. Linear traversal order
// is maxilla then mandible, each in canonical arch order; plan composition
// depends on this determinism.
type NormalizedSpanSet struct {
	Maxilla  []NormalizedSpan `json:"maxilla"`
	Mandible []NormalizedSpan `json:"mandible"`
}

// ForArch returns the normalized spans of one arch.
func (s *NormalizedSpanSet) ForArch(arch fdi.Arch) []NormalizedSpan {
	if arch == fdi.Maxilla {
		return s.Maxilla
	}
	return s.Mandible
}

// All returns every span in deterministic linear order.
func (s *NormalizedSpanSet) All() []NormalizedSpan {
	out := make([]NormalizedSpan, 0, len(s.Maxilla)+len(s.Mandible))
	out = append(out, s.Maxilla...)
	out = append(out, s.Mandible...)
	return out
}

// AbutmentHealth is one tooth's recorded periodontal and restorative status.
type AbutmentHealth struct {
	Tooth          string         `json:"tooth"`
	Status         ToothStatus    `json:"status"`
	MobilityMiller MillerMobility `json:"mobility_miller"`
	CrownRootRatio CrownRootRatio `json:"crown_root_ratio"`
	EnamelOKForRBB bool           `json:"enamel_ok_for_rbb"`
}

// PatientRisk is the whole-patient risk profile applied to every span.
type PatientRisk struct {
	CariesRisk        CariesRisk        `json:"caries_risk"`
	OcclusalScheme    OcclusalScheme    `json:"occlusal_scheme"`
	Parafunction      ParafunctionLevel `json:"parafunction"`
	OpposingDentition OpposingDentition `json:"opposing_dentition"`
	SystemicFlags     []string          `json:"systemic_flags"`
}

// Capabilities records whether implant placement is systemically permitted.
type Capabilities struct {
	ImplantsAllowed bool     `json:"implants_allowed"`
	Why             []RuleID `json:"why"`
}

// CasePayload is the external case submission: spans plus patient risk and
// abutment health records. Spans are normally derived from the missing list
// by the span detector before normalization.
type CasePayload struct {
	Missing        []string         `json:"missing"`
	Spans          SpanSet          `json:"spans"`
	PatientRisk    PatientRisk      `json:"patient_risk"`
	AbutmentHealth []AbutmentHealth `json:"abutment_health"`
}

// NormalizedPayload is the validated, internally-typed form of a case used by
// every downstream pipeline stage.
type NormalizedPayload struct {
	Missing        []string          `json:"missing"`
	Spans          NormalizedSpanSet `json:"spans"`
	PatientRisk    PatientRisk       `json:"patient_risk"`
	AbutmentHealth []AbutmentHealth  `json:"abutment_health"`
}

// RuleHits carries the rule annotations of an option card. Absolute hits are
// exclusionary; relative hits are ranking penalties.
type RuleHits struct {
	Absolute []RuleID `json:"absolute"`
	Relative []RuleID `json:"relative"`
}

// OptionCard is a candidate restoration for one span. RankScore is attached
// by the scorer only, always on a copy; evaluators must leave it nil.
type OptionCard struct {
	OptionID  string         `json:"option_id"`
	Family    Family         `json:"family"`
	Kind      Kind           `json:"kind"`
	SpanID    string         `json:"span_id"`
	Arch      fdi.Arch       `json:"arch"`
	SpanType  SpanType       `json:"span_type"`
	Length    int            `json:"length"`
	RuleHits  RuleHits       `json:"rule_hits"`
	Meta      map[string]any `json:"meta"`
	RankScore *int           `json:"rank_score,omitempty"`
}

// Clone returns a value copy of the card with its own rule-hit slices and
// meta map, so scoring never mutates an evaluator's output.
func (c OptionCard) Clone() OptionCard {
	out := c
	out.RuleHits.Absolute = append([]RuleID(nil), c.RuleHits.Absolute...)
	out.RuleHits.Relative = append([]RuleID(nil), c.RuleHits.Relative...)
	if c.Meta != nil {
		meta := make(map[string]any, len(c.Meta))
		for k, v := range c.Meta {
			meta[k] = v
		}
		out.Meta = meta
	}
	if c.RankScore != nil {
		score := *c.RankScore
		out.RankScore = &score
	}
	return out
}

// DiscardedOption records why an option was excluded before scoring.
type DiscardedOption struct {
	OptionID string   `json:"option_id"`
	SpanID   string   `json:"span_id"`
	Absolute []RuleID `json:"absolute"`
}

// ArchSummary is the per-arch Kennedy classification result.
type ArchSummary struct {
	KennedyClass  KennedyClass `json:"kennedy_class"`
	Modifications int          `json:"modifications"`
}

// CasePlan is one whole-case strategy outcome: exactly one selected option
// per span, with the summed rank score of the selections.
type CasePlan struct {
	PlanID       string            `json:"plan_id"`
	Selected     map[string]string `json:"selected"`
	TotalScore   int               `json:"total_score"`
	PlanRuleHits RuleHits          `json:"plan_rule_hits"`
}

// Provenance documents how an engine result was produced.
type Provenance struct {
	EngineVersion     string            `json:"engine_version"`
	RulesetVersion    string            `json:"ruleset_version"`
	Capabilities      Capabilities      `json:"capabilities"`
	DiscardedAbsolute []DiscardedOption `json:"discarded_absolute"`
}

// EngineResult is the full output of a plan computation.
type EngineResult struct {
	ArchSummaries         map[fdi.Arch]ArchSummary `json:"arch_summaries"`
	SpanOptions           map[string][]OptionCard  `json:"span_options"`
	CasePlans             []CasePlan               `json:"case_plans"`
	Provenance            Provenance               `json:"provenance"`
	ScoringPolicy         string                   `json:"scoring_policy"`
	RelativeRulesSnapshot []RuleID                 `json:"relative_rules_snapshot"`
}
