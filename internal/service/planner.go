package service

import (
	"sort"

	"github.com/prostho-cdss-server/internal/domain"
)

// planContext is the read-only material a strategy works from: the case's
// spans in deterministic linear order, their ranked option lists, and the
// patient's implant capabilities.
type planContext struct {
	spanOrder []string
	spans     map[string]*domain.NormalizedSpan
	options   map[string][]domain.OptionCard
	caps      domain.Capabilities
}

// chooser picks one option for a span under a strategy, or nil when the
// strategy cannot serve that span.
type chooser func(span *domain.NormalizedSpan, cards []domain.OptionCard) *domain.OptionCard

// strategy is one named whole-case selection rule. This is a small closed set
// evaluated in fixed order, not an extension point.
type strategy struct {
	planID    string
	applies   func(pc *planContext) bool
	choose    chooser
	postCheck func(pc *planContext, selected map[string]string) bool
}

// selectTop returns the first (best-ranked) card matching the predicate, or
// the first card outright when the predicate is nil.
func selectTop(cards []domain.OptionCard, pred func(domain.OptionCard) bool) *domain.OptionCard {
	for i := range cards {
		if pred == nil || pred(cards[i]) {
			return &cards[i]
		}
	}
	return nil
}

func isFamily(f domain.Family) func(domain.OptionCard) bool {
	return func(c domain.OptionCard) bool { return c.Family == f }
}

func isRPD(c domain.OptionCard) bool {
	return c.Family == domain.FamilyRemovable && c.Kind == domain.KindRPD
}

func isFDP(c domain.OptionCard) bool {
	return c.Family == domain.FamilyFixed && c.Kind == domain.KindFDP
}

// caseStrategies is the fixed, ordered strategy set of the plan composer.
var caseStrategies = []strategy{
	{
		planID: domain.PlanUnifiedRPD,
		choose: func(span *domain.NormalizedSpan, cards []domain.OptionCard) *domain.OptionCard {
			return selectTop(cards, isRPD)
		},
	},
	{
		planID: domain.PlanUnifiedFDP,
		choose: func(span *domain.NormalizedSpan, cards []domain.OptionCard) *domain.OptionCard {
			return selectTop(cards, isFDP)
		},
	},
	{
		planID:  domain.PlanImplantConversionThenFixed,
		applies: implantConversionApplies,
		choose: func(span *domain.NormalizedSpan, cards []domain.OptionCard) *domain.OptionCard {
			if span.SpanType == domain.DistalExtension {
				return selectTop(cards, isFamily(domain.FamilyImplant))
			}
			if pick := selectTop(cards, isFamily(domain.FamilyFixed)); pick != nil {
				return pick
			}
			return selectTop(cards, isFamily(domain.FamilyImplant))
		},
	},
	{
		// Deliberately proposes an RPD + fixed combination even when implants
		// are available: RPD on distal extensions, fixed bridges on bounded
		// spans. Implants are never selected here.
		planID: domain.PlanMixedFDPRPD,
		choose: func(span *domain.NormalizedSpan, cards []domain.OptionCard) *domain.OptionCard {
			if span.SpanType == domain.DistalExtension {
				if pick := selectTop(cards, isRPD); pick != nil {
					return pick
				}
				return selectTop(cards, isFamily(domain.FamilyFixed))
			}
			if pick := selectTop(cards, isFamily(domain.FamilyFixed)); pick != nil {
				return pick
			}
			return selectTop(cards, isRPD)
		},
		postCheck: mixedSelectionIsTrulyMixed,
	},
	{
		planID:  domain.PlanPierResolutionImplantPlusFixed,
		applies: pierResolutionApplies,
		choose: func(span *domain.NormalizedSpan, cards []domain.OptionCard) *domain.OptionCard {
			if isPierShortBounded(span) {
				if pick := selectTop(cards, isFamily(domain.FamilyImplant)); pick != nil {
					return pick
				}
			}
			if pick := selectTop(cards, isFamily(domain.FamilyFixed)); pick != nil {
				return pick
			}
			if pick := selectTop(cards, isFamily(domain.FamilyImplant)); pick != nil {
				return pick
			}
			return selectTop(cards, nil)
		},
	},
	{
		planID:  domain.PlanImplantOnEligibleSingles,
		applies: implantSinglesApplies,
		choose: func(span *domain.NormalizedSpan, cards []domain.OptionCard) *domain.OptionCard {
			if span.Length == 1 {
				if pick := selectTop(cards, isFamily(domain.FamilyImplant)); pick != nil {
					return pick
				}
			}
			if pick := selectTop(cards, isFamily(domain.FamilyFixed)); pick != nil {
				return pick
			}
			if pick := selectTop(cards, isFamily(domain.FamilyImplant)); pick != nil {
				return pick
			}
			return selectTop(cards, nil)
		},
	},
}

func isPierShortBounded(span *domain.NormalizedSpan) bool {
	return len(span.PierAbutments) > 0 && span.SpanType == domain.Bounded && span.Length == 1
}

// implantConversionApplies gates the distal-extension conversion strategy:
// implants permitted, at least one DE span, and every DE span must actually
// have an implant option or the whole plan is abandoned.
func implantConversionApplies(pc *planContext) bool {
	if !pc.caps.ImplantsAllowed {
		return false
	}
	hasDE := false
	for _, sid := range pc.spanOrder {
		if pc.spans[sid].SpanType != domain.DistalExtension {
			continue
		}
		hasDE = true
		if selectTop(pc.options[sid], isFamily(domain.FamilyImplant)) == nil {
			return false
		}
	}
	return hasDE
}

func pierResolutionApplies(pc *planContext) bool {
	if !pc.caps.ImplantsAllowed {
		return false
	}
	hasPier := false
	hasImplantablePierShortSpan := false
	for _, sid := range pc.spanOrder {
		span := pc.spans[sid]
		if len(span.PierAbutments) > 0 {
			hasPier = true
		}
		if isPierShortBounded(span) && selectTop(pc.options[sid], isFamily(domain.FamilyImplant)) != nil {
			hasImplantablePierShortSpan = true
		}
	}
	return hasPier && hasImplantablePierShortSpan
}

func implantSinglesApplies(pc *planContext) bool {
	if !pc.caps.ImplantsAllowed {
		return false
	}
	for _, sid := range pc.spanOrder {
		if pc.spans[sid].Length == 1 && selectTop(pc.options[sid], isFamily(domain.FamilyImplant)) != nil {
			return true
		}
	}
	return false
}

// mixedSelectionIsTrulyMixed keeps the Mixed plan honest: it is emitted only
// when the final selection actually contains both a removable and a fixed
// choice. A span may land on its non-preferred family to satisfy this; that
// bias is intentional and must not be "optimized" away.
func mixedSelectionIsTrulyMixed(pc *planContext, selected map[string]string) bool {
	hasRemovable, hasFixed := false, false
	for sid, optionID := range selected {
		for _, c := range pc.options[sid] {
			if c.OptionID != optionID {
				continue
			}
			switch c.Family {
			case domain.FamilyRemovable:
				hasRemovable = true
			case domain.FamilyFixed:
				hasFixed = true
			}
			break
		}
	}
	return hasRemovable && hasFixed
}

// ComposeCasePlans applies every strategy to the case. A strategy yields a
// plan only if it chooses an option for every span (all-or-nothing); plans
// are returned sorted ascending by (total_score, plan_id).
func ComposeCasePlans(spanOptions map[string][]domain.OptionCard, capabilities domain.Capabilities, normalized *domain.NormalizedPayload) []domain.CasePlan {
	linear := normalized.Spans.All()
	pc := &planContext{
		spanOrder: make([]string, 0, len(linear)),
		spans:     make(map[string]*domain.NormalizedSpan, len(linear)),
		options:   spanOptions,
		caps:      capabilities,
	}
	for i := range linear {
		pc.spanOrder = append(pc.spanOrder, linear[i].SpanID)
		pc.spans[linear[i].SpanID] = &linear[i]
	}

	var plans []domain.CasePlan
	for _, strat := range caseStrategies {
		if strat.applies != nil && !strat.applies(pc) {
			continue
		}

		total := 0
		selected := make(map[string]string, len(pc.spanOrder))
		complete := true
		for _, sid := range pc.spanOrder {
			choice := strat.choose(pc.spans[sid], pc.options[sid])
			if choice == nil {
				complete = false
				break
			}
			if choice.RankScore != nil {
				total += *choice.RankScore
			}
			selected[sid] = choice.OptionID
		}
		if !complete {
			continue
		}
		if strat.postCheck != nil && !strat.postCheck(pc, selected) {
			continue
		}

		plans = append(plans, domain.CasePlan{
			PlanID:       strat.planID,
			Selected:     selected,
			TotalScore:   total,
			PlanRuleHits: domain.RuleHits{Absolute: []domain.RuleID{}, Relative: []domain.RuleID{}},
		})
	}

	sort.Slice(plans, func(i, j int) bool {
		if plans[i].TotalScore != plans[j].TotalScore {
			return plans[i].TotalScore < plans[j].TotalScore
		}
		return plans[i].PlanID < plans[j].PlanID
	})
	return plans
}
