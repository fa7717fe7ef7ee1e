package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prostho-cdss-server/internal/domain"
)

func TestNormalizeCasePayload_DerivesLengthAndPontic(t *testing.T) {
	spans, err := DetectSpans([]string{"16", "25", "26"})
	require.NoError(t, err)

	normalized, err := NormalizeCasePayload(domain.CasePayload{
		Missing:        []string{"16", "25", "26"},
		Spans:          spans,
		PatientRisk:    lowRisk(),
		AbutmentHealth: []domain.AbutmentHealth{},
	})
	require.NoError(t, err)

	require.Len(t, normalized.Spans.Maxilla, 2)
	single := normalized.Spans.Maxilla[0]
	assert.Equal(t, 1, single.Length)
	assert.Equal(t, domain.ToothRef("16"), single.PonticTooth)

	double := normalized.Spans.Maxilla[1]
	assert.Equal(t, 2, double.Length)
	assert.False(t, double.PonticTooth.IsSet())
}

func TestNormalizeCasePayload_RejectsInvalidRisk(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.PatientRisk)
	}{
		{name: "Bad caries risk", mutate: func(r *domain.PatientRisk) { r.CariesRisk = "extreme" }},
		{name: "Bad occlusal scheme", mutate: func(r *domain.PatientRisk) { r.OcclusalScheme = "heavy" }},
		{name: "Bad parafunction", mutate: func(r *domain.PatientRisk) { r.Parafunction = "sometimes" }},
		{name: "Bad opposing dentition", mutate: func(r *domain.PatientRisk) { r.OpposingDentition = "dentures" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk := lowRisk()
			tt.mutate(&risk)

			_, err := NormalizeCasePayload(domain.CasePayload{
				PatientRisk:    risk,
				AbutmentHealth: []domain.AbutmentHealth{},
			})
			require.Error(t, err)
			assert.True(t, domain.IsInputError(err))
		})
	}
}

func TestNormalizeCasePayload_RequiresAbutmentHealthList(t *testing.T) {
	_, err := NormalizeCasePayload(domain.CasePayload{PatientRisk: lowRisk()})
	require.Error(t, err)
	assert.True(t, domain.IsInputError(err))
	assert.Contains(t, err.Error(), "abutment_health")
}

func TestNormalizeCasePayload_RejectsInvalidHealthRecord(t *testing.T) {
	bad := soundTooth("14")
	bad.MobilityMiller = "4"

	_, err := NormalizeCasePayload(domain.CasePayload{
		PatientRisk:    lowRisk(),
		AbutmentHealth: []domain.AbutmentHealth{bad},
	})
	require.Error(t, err)
	assert.True(t, domain.IsInputError(err))
	assert.Contains(t, err.Error(), "mobility_miller")
}

func TestNormalizeCasePayload_RejectsMalformedSpans(t *testing.T) {
	payload := domain.CasePayload{
		PatientRisk:    lowRisk(),
		AbutmentHealth: []domain.AbutmentHealth{},
		Spans: domain.SpanSet{
			Maxilla: []domain.Span{{SpanID: "Mx-1", MissingTeeth: []string{"16"}, SpanType: "OPEN"}},
		},
	}
	_, err := NormalizeCasePayload(payload)
	require.Error(t, err)
	assert.True(t, domain.IsInputError(err))
	assert.Contains(t, err.Error(), "span_type")
}
