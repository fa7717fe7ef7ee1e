package service

import (
	"github.com/sirupsen/logrus"

	"github.com/prostho-cdss-server/internal/domain"
	"github.com/prostho-cdss-server/pkg/fdi"
)

// Version identifiers stamped into every result's provenance block.
const (
	EngineVersion  = "0.2.3"
	RulesetVersion = "mvp-2025-09-06"
)

// Engine runs the full treatment-planning pipeline for one case. It is
// stateless and safe for concurrent use; every Run works on its own data.
type Engine struct {
	logger *logrus.Logger
}

// NewEngine creates a planning engine with the given logger.
func NewEngine(logger *logrus.Logger) *Engine {
	return &Engine{logger: logger}
}

// AnalyzeSpans runs span detection alone, for the pre-submission analysis
// endpoint.
func (e *Engine) AnalyzeSpans(missingTeeth []string) (domain.SpanSet, error) {
	spans, err := DetectSpans(missingTeeth)
	if err != nil {
		return domain.SpanSet{}, err
	}
	e.logger.WithFields(logrus.Fields{
		"missing_count":  len(missingTeeth),
		"maxilla_spans":  len(spans.Maxilla),
		"mandible_spans": len(spans.Mandible),
	}).Debug("Span analysis complete")
	return spans, nil
}

// Run executes the pipeline: normalize the payload, derive capabilities and
// per-arch Kennedy classes, evaluate and rank options for every span, then
// compose whole-case plans. Input faults surface as InputError; internal
// contract breaches as InvariantError.
func (e *Engine) Run(payload domain.CasePayload) (*domain.EngineResult, error) {
	normalized, err := NormalizeCasePayload(payload)
	if err != nil {
		return nil, err
	}

	healthMap := BuildAbutmentHealthMap(normalized.AbutmentHealth)
	capabilities := ComputeImplantCapabilities(normalized.PatientRisk)

	archSummaries := make(map[fdi.Arch]domain.ArchSummary, 2)
	archKennedyMap := make(map[fdi.Arch]*archKennedy, 2)
	for _, arch := range []fdi.Arch{fdi.Maxilla, fdi.Mandible} {
		archSpans := normalized.Spans.ForArch(arch)
		if len(archSpans) == 0 {
			continue
		}
		klass, mods, err := KennedyClassForArch(archSpans)
		if err != nil {
			return nil, err
		}
		archSummaries[arch] = domain.ArchSummary{KennedyClass: klass, Modifications: mods}
		archKennedyMap[arch] = &archKennedy{class: klass, modifications: mods}
	}

	spanOptions := make(map[string][]domain.OptionCard)
	discarded := make([]domain.DiscardedOption, 0)

	linear := normalized.Spans.All()
	for i := range linear {
		span := &linear[i]
		in := evalInput{
			span:    span,
			risk:    normalized.PatientRisk,
			caps:    capabilities,
			health:  healthMap,
			kennedy: archKennedyMap[span.Arch],
		}

		var raw []domain.OptionCard
		for _, evaluate := range optionEvaluators {
			raw = append(raw, evaluate(in)...)
		}

		kept, dropped, err := prepareCardsForScoring(raw, span)
		if err != nil {
			return nil, err
		}
		discarded = append(discarded, dropped...)

		ordered, err := SortOptions(kept, span)
		if err != nil {
			return nil, err
		}
		spanOptions[span.SpanID] = ordered
	}

	casePlans := ComposeCasePlans(spanOptions, capabilities, normalized)

	e.logger.WithFields(logrus.Fields{
		"spans":            len(linear),
		"plans":            len(casePlans),
		"discarded":        len(discarded),
		"implants_allowed": capabilities.ImplantsAllowed,
	}).Info("Case plan computation complete")

	return &domain.EngineResult{
		ArchSummaries: archSummaries,
		SpanOptions:   spanOptions,
		CasePlans:     casePlans,
		Provenance: domain.Provenance{
			EngineVersion:     EngineVersion,
			RulesetVersion:    RulesetVersion,
			Capabilities:      capabilities,
			DiscardedAbsolute: discarded,
		},
		ScoringPolicy:         ScoringPolicyID,
		RelativeRulesSnapshot: RelativeRulesSnapshot(),
	}, nil
}
