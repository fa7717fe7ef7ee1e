package service

import (
	"fmt"

	"github.com/prostho-cdss-server/internal/domain"
	"github.com/prostho-cdss-server/pkg/fdi"
)

// requiredCantileverAbutment maps each allowed cantilever pontic to the one
// tooth that must carry it: laterals hang off the adjacent canine, centrals
// off the paired central of the same arch. Process-wide immutable table.
var requiredCantileverAbutment = map[string]string{
	"12": "13", "22": "23", "32": "33", "42": "43",
	"11": "21", "21": "11", "31": "41", "41": "31",
}

// archKennedy carries the arch-level Kennedy result into the RPD evaluator.
type archKennedy struct {
	class         domain.KennedyClass
	modifications int
}

// evalInput bundles everything an evaluator may consult. Evaluators are pure:
// they read the input and return zero or more candidate cards, never mutating
// shared state.
type evalInput struct {
	span    *domain.NormalizedSpan
	risk    domain.PatientRisk
	caps    domain.Capabilities
	health  map[string]domain.AbutmentHealth
	kennedy *archKennedy
}

type optionEvaluator func(in evalInput) []domain.OptionCard

// optionEvaluators is the fixed evaluation order. Discard provenance follows
// this order, so it must stay stable.
var optionEvaluators = []optionEvaluator{
	evalFDP,
	evalRPD,
	evalImplantSingle,
	evalImplantFDP,
	evalRBB,
	evalCantilever,
}

func newCard(span *domain.NormalizedSpan, optionID string, family domain.Family, kind domain.Kind, length int) domain.OptionCard {
	return domain.OptionCard{
		OptionID: optionID,
		Family:   family,
		Kind:     kind,
		SpanID:   span.SpanID,
		Arch:     span.Arch,
		SpanType: span.SpanType,
		Length:   length,
		RuleHits: domain.RuleHits{Absolute: []domain.RuleID{}, Relative: []domain.RuleID{}},
		Meta:     map[string]any{},
	}
}

func addAbsolute(card *domain.OptionCard, rule domain.RuleID) {
	card.RuleHits.Absolute = append(card.RuleHits.Absolute, rule)
}

func addRelative(card *domain.OptionCard, rule domain.RuleID) {
	card.RuleHits.Relative = append(card.RuleHits.Relative, rule)
}

func occlusionIsHeavy(risk domain.PatientRisk) bool {
	return risk.OcclusalScheme == domain.OcclusionHeavy
}

func parafunctionModOrSevere(risk domain.PatientRisk) bool {
	return risk.Parafunction == domain.ParafunctionModerate || risk.Parafunction == domain.ParafunctionSevere
}

// cariesOrHygieneRisky flags moderate/high caries risk or a poor-hygiene
// systemic flag.
func cariesOrHygieneRisky(risk domain.PatientRisk) bool {
	if risk.CariesRisk == domain.CariesModerate || risk.CariesRisk == domain.CariesHigh {
		return true
	}
	for _, flag := range risk.SystemicFlags {
		if flag == "poor_hygiene" {
			return true
		}
	}
	return false
}

func mobilityGE2(h domain.AbutmentHealth, ok bool) bool {
	return ok && (h.MobilityMiller == domain.Mobility2 || h.MobilityMiller == domain.Mobility3)
}

func crownRootBad(h domain.AbutmentHealth, ok bool) bool {
	return ok && h.CrownRootRatio == domain.CRRPoor
}

// evalFDP proposes a conventional fixed bridge. Hard gate: both mesial and
// distal abutments must exist. Soft penalties cover compromised abutments,
// heavy occlusion, caries/hygiene risk and parafunction.
func evalFDP(in evalInput) []domain.OptionCard {
	span := in.span
	mesial := span.Abutments.Mesial
	distal := span.Abutments.Distal

	card := newCard(span, "FIX_FDP_"+span.SpanID, domain.FamilyFixed, domain.KindFDP, span.Length)
	card.Meta["abutments"] = domain.SpanAbutments{Mesial: mesial, Distal: distal}

	if !mesial.IsSet() || !distal.IsSet() {
		addAbsolute(&card, domain.RuleNoPosteriorAbutment)
		return []domain.OptionCard{card}
	}

	hm, okM := in.health[string(mesial)]
	hd, okD := in.health[string(distal)]
	if mobilityGE2(hm, okM) || mobilityGE2(hd, okD) {
		addRelative(&card, domain.RuleCompromisedAbutment)
	}
	if crownRootBad(hm, okM) || crownRootBad(hd, okD) {
		addRelative(&card, domain.RuleUnfavorableCrownRoot)
	}

	if occlusionIsHeavy(in.risk) {
		addRelative(&card, domain.RuleOcclusionRisk)
	}
	if cariesOrHygieneRisky(in.risk) {
		addRelative(&card, domain.RuleCariesOrHygieneRisk)
	}
	if parafunctionModOrSevere(in.risk) {
		addRelative(&card, domain.RuleParafunction)
	}

	// A pier next to the span calls for a non-rigid connector in the bridge
	// design; recorded for the report, not penalized.
	if len(span.PierAbutments) > 0 {
		card.Meta["modifiers"] = []string{"NonRigidConnector"}
	}

	return []domain.OptionCard{card}
}

// evalRPD always proposes a removable partial denture. Kennedy Class I/II
// arches with modifications get a design-complexity penalty.
func evalRPD(in evalInput) []domain.OptionCard {
	span := in.span
	card := newCard(span, fmt.Sprintf("RPD_%s_%s", span.Arch, span.SpanID), domain.FamilyRemovable, domain.KindRPD, span.Length)

	if in.kennedy != nil {
		card.Meta["kennedy_class"] = in.kennedy.class
		card.Meta["modifications"] = in.kennedy.modifications
		complexClass := in.kennedy.class == domain.KennedyI || in.kennedy.class == domain.KennedyII
		if complexClass && in.kennedy.modifications >= 1 {
			addRelative(&card, domain.RuleRPDComplexDesign)
		}
	} else {
		card.Meta["kennedy_class"] = nil
		card.Meta["modifications"] = nil
	}

	return []domain.OptionCard{card}
}

// evalImplantSingle proposes a single implant for single-tooth spans.
func evalImplantSingle(in evalInput) []domain.OptionCard {
	span := in.span
	if span.Length != 1 {
		return nil
	}

	card := newCard(span, fmt.Sprintf("IMP_SINGLE_%s_%s", span.SpanID, span.PonticTooth), domain.FamilyImplant, domain.KindImplantSingle, 1)
	card.Meta["site"] = span.PonticTooth

	if !in.caps.ImplantsAllowed {
		addAbsolute(&card, domain.RuleImplantContraindication)
		return []domain.OptionCard{card}
	}

	if occlusionIsHeavy(in.risk) {
		addRelative(&card, domain.RuleOcclusionRisk)
	}
	if parafunctionModOrSevere(in.risk) {
		addRelative(&card, domain.RuleParafunction)
	}
	if cariesOrHygieneRisky(in.risk) {
		addRelative(&card, domain.RuleCariesOrHygieneRisk)
	}

	return []domain.OptionCard{card}
}

// evalImplantFDP proposes an implant-supported bridge for spans of two or
// more teeth.
func evalImplantFDP(in evalInput) []domain.OptionCard {
	span := in.span
	if span.Length < 2 {
		return nil
	}

	card := newCard(span, fmt.Sprintf("IMP_FDP_%s_len%d", span.SpanID, span.Length), domain.FamilyImplant, domain.KindImplantFDP, span.Length)

	if !in.caps.ImplantsAllowed {
		addAbsolute(&card, domain.RuleImplantContraindication)
		return []domain.OptionCard{card}
	}

	if occlusionIsHeavy(in.risk) {
		addRelative(&card, domain.RuleOcclusionRisk)
	}
	if parafunctionModOrSevere(in.risk) {
		addRelative(&card, domain.RuleParafunction)
	}
	if cariesOrHygieneRisky(in.risk) {
		addRelative(&card, domain.RuleCariesOrHygieneRisk)
	}

	return []domain.OptionCard{card}
}

// evalRBB proposes a resin-bonded bridge for single anterior gaps. The gates
// are checked in a fixed sequence and the first failure wins; eligibility is
// binary, with no relative penalties.
func evalRBB(in evalInput) []domain.OptionCard {
	span := in.span
	if span.Length != 1 {
		return nil
	}
	pontic := span.PonticTooth
	if !pontic.IsSet() || !fdi.IsAnterior(string(pontic)) {
		return nil
	}

	mesial := span.Abutments.Mesial
	distal := span.Abutments.Distal

	card := newCard(span, fmt.Sprintf("FIX_RBB_%s_%s", span.SpanID, pontic), domain.FamilyFixed, domain.KindRBB, 1)
	card.Meta["pontic"] = pontic
	card.Meta["abutments"] = domain.SpanAbutments{Mesial: mesial, Distal: distal}

	if !mesial.IsSet() || !distal.IsSet() {
		addAbsolute(&card, domain.RuleRBBAdjacentToothMissing)
		return []domain.OptionCard{card}
	}

	hm, okM := in.health[string(mesial)]
	hd, okD := in.health[string(distal)]
	if !okM || !okD || !hm.EnamelOKForRBB || !hd.EnamelOKForRBB {
		addAbsolute(&card, domain.RuleRBBEnamelNotOK)
		return []domain.OptionCard{card}
	}

	if occlusionIsHeavy(in.risk) {
		addAbsolute(&card, domain.RuleRBBHeavyOcclusion)
		return []domain.OptionCard{card}
	}
	if parafunctionModOrSevere(in.risk) {
		addAbsolute(&card, domain.RuleRBBParafunction)
		return []domain.OptionCard{card}
	}
	if in.risk.CariesRisk == domain.CariesHigh {
		addAbsolute(&card, domain.RuleRBBHighCaries)
		return []domain.OptionCard{card}
	}

	return []domain.OptionCard{card}
}

// evalCantilever proposes a single-abutment fixed design for the fixed
// allowed-pair table of anterior sites. Gates run in a strict sequence:
// allowed pontic, not cross-midline, required abutment present, abutment
// health adequate.
func evalCantilever(in evalInput) []domain.OptionCard {
	span := in.span
	if span.Length != 1 {
		return nil
	}
	pontic := span.PonticTooth
	if !pontic.IsSet() {
		return nil
	}

	requiredAbutment, allowed := requiredCantileverAbutment[string(pontic)]

	card := newCard(span, fmt.Sprintf("FIX_CL_%s_%s", span.SpanID, pontic), domain.FamilyFixed, domain.KindCantilever, 1)
	card.Meta["pontic"] = pontic
	if allowed {
		card.Meta["required_abutment"] = requiredAbutment
	} else {
		card.Meta["required_abutment"] = nil
	}

	if !allowed {
		addAbsolute(&card, domain.RuleCLNotAllowedPontic)
		return []domain.OptionCard{card}
	}

	if span.CrossMidline {
		addAbsolute(&card, domain.RuleCLCrossMidline)
		return []domain.OptionCard{card}
	}

	if containsTooth(span.MissingTeeth, requiredAbutment) {
		addAbsolute(&card, domain.RuleCLRequiredAbutmentMissing)
		return []domain.OptionCard{card}
	}

	if !AbutmentOKForCantilever(in.health, requiredAbutment) {
		addAbsolute(&card, domain.RuleCLAbutmentHealthFail)
		return []domain.OptionCard{card}
	}

	if occlusionIsHeavy(in.risk) {
		addRelative(&card, domain.RuleOcclusionRisk)
	}
	if parafunctionModOrSevere(in.risk) {
		addRelative(&card, domain.RuleParafunction)
	}

	card.Meta["abutment"] = requiredAbutment
	return []domain.OptionCard{card}
}
