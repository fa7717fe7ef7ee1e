package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prostho-cdss-server/internal/domain"
)

func rankedCard(span *domain.NormalizedSpan, id string, family domain.Family, kind domain.Kind, score int) domain.OptionCard {
	return domain.OptionCard{
		OptionID:  id,
		Family:    family,
		Kind:      kind,
		SpanID:    span.SpanID,
		Arch:      span.Arch,
		SpanType:  span.SpanType,
		Length:    span.Length,
		RuleHits:  domain.RuleHits{Absolute: []domain.RuleID{}, Relative: []domain.RuleID{}},
		Meta:      map[string]any{},
		RankScore: &score,
	}
}

func allowImplants() domain.Capabilities {
	return domain.Capabilities{ImplantsAllowed: true, Why: []domain.RuleID{}}
}

func blockImplants() domain.Capabilities {
	return domain.Capabilities{ImplantsAllowed: false, Why: []domain.RuleID{domain.RuleImplantContraindication}}
}

func planIDs(plans []domain.CasePlan) []string {
	ids := make([]string, 0, len(plans))
	for _, p := range plans {
		ids = append(ids, p.PlanID)
	}
	return ids
}

func TestComposeCasePlans_SingleBoundedSpan(t *testing.T) {
	normalized := normalizedCase(t, []string{"16", "15"}, lowRisk(), nil)
	span := &normalized.Spans.Maxilla[0]

	options := map[string][]domain.OptionCard{
		span.SpanID: {
			rankedCard(span, "FIX_FDP_Mx-1", domain.FamilyFixed, domain.KindFDP, 0),
			rankedCard(span, "IMP_FDP_Mx-1_len2", domain.FamilyImplant, domain.KindImplantFDP, 0),
			rankedCard(span, "RPD_maxilla_Mx-1", domain.FamilyRemovable, domain.KindRPD, 1),
		},
	}

	plans := ComposeCasePlans(options, allowImplants(), normalized)

	// The Mixed plan needs both families in the final selection; a lone
	// bounded span resolves to fixed only, so it is withheld.
	require.Equal(t, []string{domain.PlanUnifiedFDP, domain.PlanUnifiedRPD}, planIDs(plans))

	assert.Equal(t, 0, plans[0].TotalScore)
	assert.Equal(t, map[string]string{"Mx-1": "FIX_FDP_Mx-1"}, plans[0].Selected)
	assert.Equal(t, 1, plans[1].TotalScore)
	assert.Equal(t, map[string]string{"Mx-1": "RPD_maxilla_Mx-1"}, plans[1].Selected)
}

func TestComposeCasePlans_DistalExtensionConversion(t *testing.T) {
	normalized := normalizedCase(t, []string{"36", "37", "38"}, lowRisk(), nil)
	span := &normalized.Spans.Mandible[0]
	require.Equal(t, domain.DistalExtension, span.SpanType)

	options := map[string][]domain.OptionCard{
		span.SpanID: {
			rankedCard(span, "IMP_FDP_Md-1_len3", domain.FamilyImplant, domain.KindImplantFDP, 0),
			rankedCard(span, "RPD_mandible_Md-1", domain.FamilyRemovable, domain.KindRPD, 0),
		},
	}

	plans := ComposeCasePlans(options, allowImplants(), normalized)
	require.Equal(t, []string{domain.PlanImplantConversionThenFixed, domain.PlanUnifiedRPD}, planIDs(plans))
	assert.Equal(t, "IMP_FDP_Md-1_len3", plans[0].Selected["Md-1"])

	t.Run("Withheld when implants are contraindicated", func(t *testing.T) {
		plans := ComposeCasePlans(options, blockImplants(), normalized)
		assert.Equal(t, []string{domain.PlanUnifiedRPD}, planIDs(plans))
	})
}

func TestComposeCasePlans_MixedNeedsBothFamilies(t *testing.T) {
	normalized := normalizedCase(t, []string{"16", "15", "36", "37", "38"}, lowRisk(), nil)
	bounded := &normalized.Spans.Maxilla[0]
	de := &normalized.Spans.Mandible[0]

	options := map[string][]domain.OptionCard{
		bounded.SpanID: {
			rankedCard(bounded, "FIX_FDP_Mx-1", domain.FamilyFixed, domain.KindFDP, 0),
			rankedCard(bounded, "RPD_maxilla_Mx-1", domain.FamilyRemovable, domain.KindRPD, 0),
		},
		de.SpanID: {
			rankedCard(de, "RPD_mandible_Md-1", domain.FamilyRemovable, domain.KindRPD, 0),
		},
	}

	plans := ComposeCasePlans(options, blockImplants(), normalized)
	ids := planIDs(plans)
	require.Contains(t, ids, domain.PlanMixedFDPRPD)

	for _, p := range plans {
		if p.PlanID != domain.PlanMixedFDPRPD {
			continue
		}
		assert.Equal(t, "FIX_FDP_Mx-1", p.Selected["Mx-1"])
		assert.Equal(t, "RPD_mandible_Md-1", p.Selected["Md-1"])
	}

	// UnifiedFDP cannot cover the distal extension, so it is absent.
	assert.NotContains(t, ids, domain.PlanUnifiedFDP)
}

func TestComposeCasePlans_ImplantOnEligibleSingles(t *testing.T) {
	normalized := normalizedCase(t, []string{"36"}, lowRisk(), nil)
	span := &normalized.Spans.Mandible[0]

	options := map[string][]domain.OptionCard{
		span.SpanID: {
			rankedCard(span, "FIX_FDP_Md-1", domain.FamilyFixed, domain.KindFDP, 0),
			rankedCard(span, "IMP_SINGLE_Md-1_36", domain.FamilyImplant, domain.KindImplantSingle, 0),
			rankedCard(span, "RPD_mandible_Md-1", domain.FamilyRemovable, domain.KindRPD, 0),
		},
	}

	plans := ComposeCasePlans(options, allowImplants(), normalized)
	ids := planIDs(plans)
	require.Contains(t, ids, domain.PlanImplantOnEligibleSingles)

	for _, p := range plans {
		if p.PlanID == domain.PlanImplantOnEligibleSingles {
			assert.Equal(t, "IMP_SINGLE_Md-1_36", p.Selected["Md-1"])
		}
	}
}

func TestComposeCasePlans_PierResolution(t *testing.T) {
	normalized := normalizedCase(t, []string{"16", "14"}, lowRisk(), nil)
	first := &normalized.Spans.Maxilla[0]
	second := &normalized.Spans.Maxilla[1]
	require.NotEmpty(t, first.PierAbutments)

	options := map[string][]domain.OptionCard{
		first.SpanID: {
			rankedCard(first, "FIX_FDP_Mx-1", domain.FamilyFixed, domain.KindFDP, 0),
			rankedCard(first, "IMP_SINGLE_Mx-1_16", domain.FamilyImplant, domain.KindImplantSingle, 0),
		},
		second.SpanID: {
			rankedCard(second, "FIX_FDP_Mx-2", domain.FamilyFixed, domain.KindFDP, 0),
			rankedCard(second, "IMP_SINGLE_Mx-2_14", domain.FamilyImplant, domain.KindImplantSingle, 0),
		},
	}

	plans := ComposeCasePlans(options, allowImplants(), normalized)
	ids := planIDs(plans)
	require.Contains(t, ids, domain.PlanPierResolutionImplantPlusFixed)

	for _, p := range plans {
		if p.PlanID == domain.PlanPierResolutionImplantPlusFixed {
			// Short bounded spans at a pier resolve to implants.
			assert.Equal(t, "IMP_SINGLE_Mx-1_16", p.Selected["Mx-1"])
			assert.Equal(t, "IMP_SINGLE_Mx-2_14", p.Selected["Mx-2"])
		}
	}
}

func TestComposeCasePlans_SortedByScoreThenID(t *testing.T) {
	normalized := normalizedCase(t, []string{"16", "15"}, lowRisk(), nil)
	span := &normalized.Spans.Maxilla[0]

	options := map[string][]domain.OptionCard{
		span.SpanID: {
			rankedCard(span, "FIX_FDP_Mx-1", domain.FamilyFixed, domain.KindFDP, 2),
			rankedCard(span, "RPD_maxilla_Mx-1", domain.FamilyRemovable, domain.KindRPD, 1),
		},
	}

	plans := ComposeCasePlans(options, blockImplants(), normalized)
	require.Equal(t, []string{domain.PlanUnifiedRPD, domain.PlanUnifiedFDP}, planIDs(plans))
	assert.Equal(t, 1, plans[0].TotalScore)
	assert.Equal(t, 2, plans[1].TotalScore)
}

func TestComposeCasePlans_AllOrNothing(t *testing.T) {
	normalized := normalizedCase(t, []string{"16", "15"}, lowRisk(), nil)
	span := &normalized.Spans.Maxilla[0]

	// Strategy abandoned when any span lacks a usable option.
	options := map[string][]domain.OptionCard{span.SpanID: {}}
	plans := ComposeCasePlans(options, blockImplants(), normalized)
	assert.Empty(t, plans)
}
