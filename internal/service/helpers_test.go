package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prostho-cdss-server/internal/domain"
)

// lowRisk is the benign whole-patient profile used as a baseline in tests.
func lowRisk() domain.PatientRisk {
	return domain.PatientRisk{
		CariesRisk:        domain.CariesLow,
		OcclusalScheme:    domain.OcclusionFavorable,
		Parafunction:      domain.ParafunctionNone,
		OpposingDentition: domain.OpposingNatural,
		SystemicFlags:     []string{},
	}
}

// soundTooth builds a healthy abutment record.
func soundTooth(tooth string) domain.AbutmentHealth {
	return domain.AbutmentHealth{
		Tooth:          tooth,
		Status:         domain.StatusSound,
		MobilityMiller: domain.Mobility0,
		CrownRootRatio: domain.CRRFavorable,
		EnamelOKForRBB: true,
	}
}

// normalizedCase runs detection plus normalization for a missing list.
func normalizedCase(t *testing.T, missing []string, risk domain.PatientRisk, health []domain.AbutmentHealth) *domain.NormalizedPayload {
	t.Helper()

	spans, err := DetectSpans(missing)
	require.NoError(t, err)

	if health == nil {
		health = []domain.AbutmentHealth{}
	}
	normalized, err := NormalizeCasePayload(domain.CasePayload{
		Missing:        missing,
		Spans:          spans,
		PatientRisk:    risk,
		AbutmentHealth: health,
	})
	require.NoError(t, err)
	return normalized
}
