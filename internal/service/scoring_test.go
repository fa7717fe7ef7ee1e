package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prostho-cdss-server/internal/domain"
)

func TestApplyRelativePenalties(t *testing.T) {
	tests := []struct {
		name  string
		rules []domain.RuleID
		score int
	}{
		{name: "No rules", rules: nil, score: 0},
		{name: "One recognized", rules: []domain.RuleID{domain.RuleOcclusionRisk}, score: 1},
		{
			name:  "Duplicates count once",
			rules: []domain.RuleID{domain.RuleOcclusionRisk, domain.RuleOcclusionRisk, domain.RuleParafunction},
			score: 2,
		},
		{
			name:  "Unrecognized ids are ignored",
			rules: []domain.RuleID{"Z9_FutureRule", domain.RuleCariesOrHygieneRisk},
			score: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.score, applyRelativePenalties(tt.rules))
		})
	}
}

func TestRelativeRulesSnapshot(t *testing.T) {
	snap := RelativeRulesSnapshot()
	assert.Equal(t, []domain.RuleID{
		domain.RuleCompromisedAbutment,
		domain.RuleUnfavorableCrownRoot,
		domain.RuleOcclusionRisk,
		domain.RuleCariesOrHygieneRisk,
		domain.RuleParafunction,
		domain.RuleRPDComplexDesign,
	}, snap)
}

func TestSortOptions(t *testing.T) {
	span := testSpan(t)

	mkCard := func(id string, family domain.Family, kind domain.Kind, length int, relative ...domain.RuleID) domain.OptionCard {
		return domain.OptionCard{
			OptionID: id,
			Family:   family,
			Kind:     kind,
			SpanID:   span.SpanID,
			Arch:     span.Arch,
			SpanType: span.SpanType,
			Length:   length,
			RuleHits: domain.RuleHits{Absolute: []domain.RuleID{}, Relative: relative},
			Meta:     map[string]any{},
		}
	}

	t.Run("Orders by score then family bias then length then id", func(t *testing.T) {
		cards := []domain.OptionCard{
			mkCard("RPD_maxilla_Mx-1", domain.FamilyRemovable, domain.KindRPD, 2),
			mkCard("IMP_FDP_Mx-1_len2", domain.FamilyImplant, domain.KindImplantFDP, 2),
			mkCard("FIX_FDP_Mx-1", domain.FamilyFixed, domain.KindFDP, 2, domain.RuleOcclusionRisk),
		}

		sorted, err := SortOptions(cards, span)
		require.NoError(t, err)
		require.Len(t, sorted, 3)

		// Zero-penalty cards lead; among them the implant outranks the
		// removable on a bounded span.
		assert.Equal(t, "IMP_FDP_Mx-1_len2", sorted[0].OptionID)
		assert.Equal(t, "RPD_maxilla_Mx-1", sorted[1].OptionID)
		assert.Equal(t, "FIX_FDP_Mx-1", sorted[2].OptionID)

		require.NotNil(t, sorted[0].RankScore)
		assert.Equal(t, 0, *sorted[0].RankScore)
		require.NotNil(t, sorted[2].RankScore)
		assert.Equal(t, 1, *sorted[2].RankScore)
	})

	t.Run("Inputs are not mutated", func(t *testing.T) {
		cards := []domain.OptionCard{mkCard("FIX_FDP_Mx-1", domain.FamilyFixed, domain.KindFDP, 2)}

		_, err := SortOptions(cards, span)
		require.NoError(t, err)
		assert.Nil(t, cards[0].RankScore)
	})

	t.Run("Absolute hit at the scorer is an invariant violation", func(t *testing.T) {
		card := mkCard("IMP_FDP_Mx-1_len2", domain.FamilyImplant, domain.KindImplantFDP, 2)
		card.RuleHits.Absolute = []domain.RuleID{domain.RuleImplantContraindication}

		_, err := SortOptions([]domain.OptionCard{card}, span)
		require.Error(t, err)
		assert.True(t, domain.IsInvariantError(err))
	})

	t.Run("Span type mismatch is an invariant violation", func(t *testing.T) {
		card := mkCard("FIX_FDP_Mx-1", domain.FamilyFixed, domain.KindFDP, 2)
		card.SpanType = domain.DistalExtension

		_, err := SortOptions([]domain.OptionCard{card}, span)
		require.Error(t, err)
		assert.True(t, domain.IsInvariantError(err))
	})
}

func TestFamilyBias(t *testing.T) {
	// Bounded spans prefer fixed, then implant, then removable.
	assert.Equal(t, 0, familyBias(domain.Bounded, domain.FamilyFixed))
	assert.Equal(t, 1, familyBias(domain.Bounded, domain.FamilyImplant))
	assert.Equal(t, 2, familyBias(domain.Bounded, domain.FamilyRemovable))

	// Distal extensions have no family preference.
	assert.Equal(t, 1, familyBias(domain.DistalExtension, domain.FamilyFixed))
	assert.Equal(t, 1, familyBias(domain.DistalExtension, domain.FamilyImplant))
	assert.Equal(t, 1, familyBias(domain.DistalExtension, domain.FamilyRemovable))
}
