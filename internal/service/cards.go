package service

import "github.com/prostho-cdss-server/internal/domain"

// validateOptionCard normalizes one evaluator-produced card against its span
// context. Identity fields must be present, enums must be within their closed
// sets, and the span identity is overwritten from the context so a card can
// never drift from the span it was produced for. Relative hits are
// de-duplicated preserving order; absolute hits are kept verbatim. Any
// pre-attached rank score is stripped: scoring is the scorer's job alone.
//
// Violations here are pipeline defects (evaluators are internal), so they
// surface as invariant errors rather than input errors.
func validateOptionCard(card domain.OptionCard, span *domain.NormalizedSpan) (domain.OptionCard, error) {
	out := card.Clone()

	if out.OptionID == "" {
		return out, domain.NewInvariantError("option card for span %s missing option_id", span.SpanID)
	}
	if out.SpanID == "" {
		return out, domain.NewInvariantError("option card %s missing span_id", out.OptionID)
	}
	if !out.Family.IsValid() {
		return out, domain.NewInvariantError("option card %s: invalid family %q", out.OptionID, string(out.Family))
	}
	if !out.Kind.IsValid() {
		return out, domain.NewInvariantError("option card %s: invalid kind %q", out.OptionID, string(out.Kind))
	}

	// Span identity always comes from the context.
	out.Arch = span.Arch
	out.SpanType = span.SpanType

	if out.Length == 0 {
		out.Length = span.Length
	}
	if out.Length < 0 {
		return out, domain.NewInvariantError("option card %s: negative length %d", out.OptionID, out.Length)
	}

	if out.RuleHits.Absolute == nil {
		out.RuleHits.Absolute = []domain.RuleID{}
	}
	out.RuleHits.Relative = dedupeRules(out.RuleHits.Relative)

	if out.Meta == nil {
		out.Meta = map[string]any{}
	}

	out.RankScore = nil
	return out, nil
}

func dedupeRules(rules []domain.RuleID) []domain.RuleID {
	seen := make(map[domain.RuleID]struct{}, len(rules))
	out := make([]domain.RuleID, 0, len(rules))
	for _, r := range rules {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// prepareCardsForScoring validates every raw card for a span and filters out
// absolute-hit cards, recording why each was discarded. Only the survivors
// are eligible for scoring and plan selection.
func prepareCardsForScoring(cards []domain.OptionCard, span *domain.NormalizedSpan) ([]domain.OptionCard, []domain.DiscardedOption, error) {
	kept := make([]domain.OptionCard, 0, len(cards))
	var discarded []domain.DiscardedOption

	for _, c := range cards {
		oc, err := validateOptionCard(c, span)
		if err != nil {
			return nil, nil, err
		}
		if len(oc.RuleHits.Absolute) > 0 {
			discarded = append(discarded, domain.DiscardedOption{
				OptionID: oc.OptionID,
				SpanID:   oc.SpanID,
				Absolute: oc.RuleHits.Absolute,
			})
			continue
		}
		kept = append(kept, oc)
	}
	return kept, discarded, nil
}
