package service

import (
	"sort"

	"github.com/prostho-cdss-server/internal/domain"
)

// ScoringPolicyID identifies the active scoring policy in engine output.
const ScoringPolicyID = "MVP_relative_only_v1"

// relativeRules is the recognized relative-rule catalog. Each distinct
// recognized id present on a card contributes +1 to its rank score;
// unrecognized ids are ignored, which guards scoring against evaluator drift.
var relativeRules = map[domain.RuleID]struct{}{
	domain.RuleCompromisedAbutment:  {},
	domain.RuleUnfavorableCrownRoot: {},
	domain.RuleOcclusionRisk:        {},
	domain.RuleCariesOrHygieneRisk:  {},
	domain.RuleParafunction:         {},
	domain.RuleRPDComplexDesign:     {},
}

// RelativeRulesSnapshot returns the recognized relative rule ids, sorted.
func RelativeRulesSnapshot() []domain.RuleID {
	out := make([]domain.RuleID, 0, len(relativeRules))
	for r := range relativeRules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// applyRelativePenalties counts the distinct recognized relative rule ids.
func applyRelativePenalties(ruleIDs []domain.RuleID) int {
	seen := make(map[domain.RuleID]struct{}, len(ruleIDs))
	score := 0
	for _, r := range ruleIDs {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		if _, recognized := relativeRules[r]; recognized {
			score++
		}
	}
	return score
}

// familyBias is the secondary ordering key: fixed preferred over implant over
// removable on bounded spans. On distal-extension spans no family is
// preferred, so every family collapses to the neutral middle value.
func familyBias(spanType domain.SpanType, family domain.Family) int {
	if spanType == domain.DistalExtension {
		return 1
	}
	switch family {
	case domain.FamilyFixed:
		return 0
	case domain.FamilyImplant:
		return 1
	default: // removable
		return 2
	}
}

// SortOptions attaches rank_score to a copy of each card and returns a new
// slice ordered by (rank_score, family bias, length, option_id). The inputs
// are never mutated, keeping evaluator output reusable.
//
// A card carrying an absolute hit, or whose span type disagrees with its
// span context, must never reach this stage; either is a fatal invariant
// violation of the upstream filter.
func SortOptions(options []domain.OptionCard, span *domain.NormalizedSpan) ([]domain.OptionCard, error) {
	scored := make([]domain.OptionCard, 0, len(options))
	for _, card := range options {
		if len(card.RuleHits.Absolute) > 0 {
			return nil, domain.NewInvariantError("absolute-hit card %s passed to scorer; filter absolutes upstream", card.OptionID)
		}
		if card.SpanType != span.SpanType {
			return nil, domain.NewInvariantError("card %s span_type %q does not match span context %q",
				card.OptionID, string(card.SpanType), string(span.SpanType))
		}

		c := card.Clone()
		score := applyRelativePenalties(c.RuleHits.Relative)
		c.RankScore = &score
		scored = append(scored, c)
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if *a.RankScore != *b.RankScore {
			return *a.RankScore < *b.RankScore
		}
		ba, bb := familyBias(span.SpanType, a.Family), familyBias(span.SpanType, b.Family)
		if ba != bb {
			return ba < bb
		}
		if a.Length != b.Length {
			return a.Length < b.Length
		}
		return a.OptionID < b.OptionID
	})
	return scored, nil
}
