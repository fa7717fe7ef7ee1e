// Package domain contains the core business entities and closed enumerations
// for prosthodontic treatment planning: edentulous spans, abutment health,
// patient risk, restoration option cards and whole-case plans.
//
// All enumerations serialize to the exact string identifiers used at the
// external interface; those strings are a cross-service contract mirrored by
// the ontology lookup service and must stay stable.
package domain

import "errors"

// SpanType classifies an edentulous span by its support situation.
type SpanType string

const (
	Bounded         SpanType = "BOUNDED"
	DistalExtension SpanType = "DISTAL_EXTENSION"
)

// Family groups restoration kinds by support strategy.
type Family string

const (
	FamilyFixed     Family = "fixed"
	FamilyRemovable Family = "removable"
	FamilyImplant   Family = "implant"
)

// Kind is the concrete restoration type an option card proposes.
type Kind string

const (
	KindFDP           Kind = "fdp"
	KindCantilever    Kind = "cantilever"
	KindRBB           Kind = "rbb"
	KindImplantSingle Kind = "implant_single"
	KindImplantFDP    Kind = "implant_fdp"
	KindRPD           Kind = "rpd"
)

// CariesRisk is the patient's caries risk category.
type CariesRisk string

const (
	CariesLow      CariesRisk = "low"
	CariesModerate CariesRisk = "moderate"
	CariesHigh     CariesRisk = "high"
)

// OcclusalScheme describes the patient's occlusal loading pattern.
type OcclusalScheme string

const (
	OcclusionFavorable    OcclusalScheme = "Favorable"
	OcclusionHeavy        OcclusalScheme = "Heavy"
	OcclusionParafunction OcclusalScheme = "Parafunction"
)

// ParafunctionLevel grades parafunctional habits such as bruxism.
type ParafunctionLevel string

const (
	ParafunctionNone     ParafunctionLevel = "none"
	ParafunctionMild     ParafunctionLevel = "mild"
	ParafunctionModerate ParafunctionLevel = "moderate"
	ParafunctionSevere   ParafunctionLevel = "severe"
)

// OpposingDentition describes what the restored arch occludes against.
type OpposingDentition string

const (
	OpposingNatural          OpposingDentition = "natural"
	OpposingCompleteDenture  OpposingDentition = "complete_denture"
	OpposingImplantSupported OpposingDentition = "implant_supported"
	OpposingMixed            OpposingDentition = "mixed"
)

// ToothStatus is the clinical status of a recorded abutment tooth.
type ToothStatus string

const (
	StatusSound    ToothStatus = "present_sound"
	StatusOperated ToothStatus = "present_operated"
	StatusCarious  ToothStatus = "present_carious"
	StatusImplant  ToothStatus = "present_implant"
)

// MillerMobility is the Miller mobility class of a tooth (0 to 3).
type MillerMobility string

const (
	Mobility0 MillerMobility = "0"
	Mobility1 MillerMobility = "1"
	Mobility2 MillerMobility = "2"
	Mobility3 MillerMobility = "3"
)

// CrownRootRatio buckets the crown-root ratio of an abutment tooth.
type CrownRootRatio string

const (
	CRRFavorable CrownRootRatio = ">=1:1"
	CRREqual     CrownRootRatio = "≈1:1"
	CRRPoor      CrownRootRatio = "<1:1"
)

// KennedyClass is the Kennedy classification of a partially edentulous arch.
type KennedyClass string

const (
	KennedyI   KennedyClass = "Class I"
	KennedyII  KennedyClass = "Class II"
	KennedyIII KennedyClass = "Class III"
	KennedyIV  KennedyClass = "Class IV"
)

// RuleID identifies a clinical rule. Absolute rules exclude an option
// outright; relative rules add a ranking penalty.
type RuleID string

// Relative (penalty) rules.
const (
	RuleCompromisedAbutment  RuleID = "B1_CompromisedAbutment"
	RuleUnfavorableCrownRoot RuleID = "B4_UnfavorableCrownRoot"
	RuleOcclusionRisk        RuleID = "C2_OcclusionRisk"
	RuleCariesOrHygieneRisk  RuleID = "E3_CariesOrHygieneRisk"
	RuleParafunction         RuleID = "E4_Parafunction"
	RuleRPDComplexDesign     RuleID = "RPD_ComplexDesign"
)

// Absolute (exclusionary) rules.
const (
	RuleImplantContraindication RuleID = "E1_ImplantContraindication"
	RuleNoPosteriorAbutment     RuleID = "D1_NoPosteriorAbutment"

	RuleRBBAdjacentToothMissing RuleID = "C5_RBBPrereqMissing_AdjacentToothMissing"
	RuleRBBEnamelNotOK          RuleID = "C5_RBBPrereqMissing_EnamelNotOK"
	RuleRBBHeavyOcclusion       RuleID = "C5_RBBPrereqMissing_HeavyOcclusion"
	RuleRBBParafunction         RuleID = "C5_RBBPrereqMissing_Parafunction"
	RuleRBBHighCaries           RuleID = "C5_RBBPrereqMissing_HighCaries"

	RuleCLNotAllowedPontic        RuleID = "C4a_CL_NotAllowedPontic"
	RuleCLCrossMidline            RuleID = "C4a_CL_CrossMidline"
	RuleCLRequiredAbutmentMissing RuleID = "C4a_CL_RequiredAbutmentMissing"
	RuleCLAbutmentHealthFail      RuleID = "C4a_CL_AbutmentHealthFail"
)

// Plan identifiers emitted by the plan composer. The ontology service
// mirrors these string-for-string.
const (
	PlanUnifiedRPD                     = "Plan_UnifiedRPD"
	PlanUnifiedFDP                     = "Plan_UnifiedFDP"
	PlanImplantConversionThenFixed     = "Plan_ImplantConversionThenFixed"
	PlanMixedFDPRPD                    = "Plan_Mixed_FDP_RPD"
	PlanPierResolutionImplantPlusFixed = "Plan_PierResolution_ImplantPlusFixed"
	PlanImplantOnEligibleSingles       = "Plan_ImplantOnEligibleSingles"
)

// Validation errors shared across constructors.
var (
	ErrInvalidSpanType       = errors.New("invalid span type")
	ErrInvalidFamily         = errors.New("invalid option family")
	ErrInvalidKind           = errors.New("invalid option kind")
	ErrInvalidCariesRisk     = errors.New("invalid caries_risk")
	ErrInvalidOcclusalScheme = errors.New("invalid occlusal_scheme")
	ErrInvalidParafunction   = errors.New("invalid parafunction")
	ErrInvalidOpposing       = errors.New("invalid opposing_dentition")
)

// IsValid reports whether the span type is one of the two supported values.
func (s SpanType) IsValid() bool {
	return s == Bounded || s == DistalExtension
}

// IsValid reports whether the family is within the closed enumeration.
func (f Family) IsValid() bool {
	switch f {
	case FamilyFixed, FamilyRemovable, FamilyImplant:
		return true
	default:
		return false
	}
}

// IsValid reports whether the kind is within the closed enumeration.
func (k Kind) IsValid() bool {
	switch k {
	case KindFDP, KindCantilever, KindRBB, KindImplantSingle, KindImplantFDP, KindRPD:
		return true
	default:
		return false
	}
}

// IsValid reports whether the caries risk category is recognized.
func (c CariesRisk) IsValid() bool {
	switch c {
	case CariesLow, CariesModerate, CariesHigh:
		return true
	default:
		return false
	}
}

// IsValid reports whether the occlusal scheme is recognized.
func (o OcclusalScheme) IsValid() bool {
	switch o {
	case OcclusionFavorable, OcclusionHeavy, OcclusionParafunction:
		return true
	default:
		return false
	}
}

// IsValid reports whether the parafunction level is recognized.
func (p ParafunctionLevel) IsValid() bool {
	switch p {
	case ParafunctionNone, ParafunctionMild, ParafunctionModerate, ParafunctionSevere:
		return true
	default:
		return false
	}
}

// IsValid reports whether the opposing dentition value is recognized.
func (o OpposingDentition) IsValid() bool {
	switch o {
	case OpposingNatural, OpposingCompleteDenture, OpposingImplantSupported, OpposingMixed:
		return true
	default:
		return false
	}
}

// IsValid reports whether the tooth status is recognized.
func (t ToothStatus) IsValid() bool {
	switch t {
	case StatusSound, StatusOperated, StatusCarious, StatusImplant:
		return true
	default:
		return false
	}
}

// IsValid reports whether the mobility grade is a Miller class 0-3.
func (m MillerMobility) IsValid() bool {
	switch m {
	case Mobility0, Mobility1, Mobility2, Mobility3:
		return true
	default:
		return false
	}
}

// IsValid reports whether the crown-root ratio bucket is recognized.
func (c CrownRootRatio) IsValid() bool {
	switch c {
	case CRRFavorable, CRREqual, CRRPoor:
		return true
	default:
		return false
	}
}
