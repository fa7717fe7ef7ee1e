package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prostho-cdss-server/internal/domain"
	"github.com/prostho-cdss-server/pkg/fdi"
)

func TestDetectSpans_BoundedPosterior(t *testing.T) {
	spans, err := DetectSpans([]string{"16", "15"})
	require.NoError(t, err)

	require.Len(t, spans.Maxilla, 1)
	assert.Empty(t, spans.Mandible)

	s := spans.Maxilla[0]
	assert.Equal(t, "Mx-1", s.SpanID)
	assert.Equal(t, fdi.Maxilla, s.Arch)
	assert.Equal(t, []string{"16", "15"}, s.MissingTeeth)
	assert.Equal(t, domain.ToothRef("14"), s.Abutments.Mesial)
	assert.Equal(t, domain.ToothRef("17"), s.Abutments.Distal)
	assert.Equal(t, domain.ToothRef("14"), s.OutsideAbutments.Left)
	assert.Equal(t, domain.ToothRef("17"), s.OutsideAbutments.Right)
	assert.Equal(t, domain.Bounded, s.SpanType)
	assert.False(t, s.CrossMidline)
	assert.Empty(t, s.PierAbutments)
}

func TestDetectSpans_DistalExtension(t *testing.T) {
	spans, err := DetectSpans([]string{"18", "17", "16"})
	require.NoError(t, err)

	require.Len(t, spans.Maxilla, 1)
	s := spans.Maxilla[0]
	assert.Equal(t, []string{"18", "17", "16"}, s.MissingTeeth)
	assert.Equal(t, domain.ToothRef("15"), s.Abutments.Mesial)
	assert.False(t, s.Abutments.Distal.IsSet())
	assert.Equal(t, domain.DistalExtension, s.SpanType)
}

func TestDetectSpans_CrossMidline(t *testing.T) {
	spans, err := DetectSpans([]string{"22", "21", "11", "12"})
	require.NoError(t, err)

	require.Len(t, spans.Maxilla, 1)
	s := spans.Maxilla[0]
	assert.Equal(t, []string{"12", "11", "21", "22"}, s.MissingTeeth)
	assert.True(t, s.CrossMidline)
	// Both centrals missing: no mesial/distal assignment, outside neighbors
	// carry the bounded classification.
	assert.False(t, s.Abutments.Mesial.IsSet())
	assert.False(t, s.Abutments.Distal.IsSet())
	assert.Equal(t, domain.ToothRef("13"), s.OutsideAbutments.Right)
	assert.Equal(t, domain.ToothRef("23"), s.OutsideAbutments.Left)
	assert.Equal(t, domain.Bounded, s.SpanType)
}

func TestDetectSpans_PierAbutment(t *testing.T) {
	spans, err := DetectSpans([]string{"16", "14"})
	require.NoError(t, err)

	require.Len(t, spans.Maxilla, 2)
	for _, s := range spans.Maxilla {
		assert.Equal(t, []string{"15"}, s.PierAbutments)
		assert.Equal(t, domain.Bounded, s.SpanType)
	}

	assert.Equal(t, []string{"16"}, spans.Maxilla[0].MissingTeeth)
	assert.Equal(t, []string{"14"}, spans.Maxilla[1].MissingTeeth)
	assert.Equal(t, "Mx-1", spans.Maxilla[0].SpanID)
	assert.Equal(t, "Mx-2", spans.Maxilla[1].SpanID)
}

func TestDetectSpans_EntirelyLeftSide(t *testing.T) {
	spans, err := DetectSpans([]string{"25", "26"})
	require.NoError(t, err)

	require.Len(t, spans.Maxilla, 1)
	s := spans.Maxilla[0]
	// On the left side the mesial neighbor is the viewer-right one.
	assert.Equal(t, domain.ToothRef("24"), s.Abutments.Mesial)
	assert.Equal(t, domain.ToothRef("27"), s.Abutments.Distal)
}

func TestDetectSpans_BothArches(t *testing.T) {
	spans, err := DetectSpans([]string{"16", "36", "46"})
	require.NoError(t, err)

	assert.Len(t, spans.Maxilla, 1)
	require.Len(t, spans.Mandible, 2)
	assert.Equal(t, "Md-1", spans.Mandible[0].SpanID)
	assert.Equal(t, []string{"46"}, spans.Mandible[0].MissingTeeth)
	assert.Equal(t, "Md-2", spans.Mandible[1].SpanID)
	assert.Equal(t, []string{"36"}, spans.Mandible[1].MissingTeeth)
}

func TestDetectSpans_InputNormalization(t *testing.T) {
	spans, err := DetectSpans([]string{" 16 ", "16", "", "15"})
	require.NoError(t, err)
	require.Len(t, spans.Maxilla, 1)
	assert.Equal(t, []string{"16", "15"}, spans.Maxilla[0].MissingTeeth)
}

func TestDetectSpans_InvalidCodes(t *testing.T) {
	_, err := DetectSpans([]string{"16", "99", "xx"})
	require.Error(t, err)
	assert.True(t, domain.IsInputError(err))
	assert.Contains(t, err.Error(), "invalid tooth codes")
	assert.Contains(t, err.Error(), "99")
	assert.Contains(t, err.Error(), "xx")
}

func TestDetectSpans_Empty(t *testing.T) {
	spans, err := DetectSpans(nil)
	require.NoError(t, err)
	assert.Empty(t, spans.Maxilla)
	assert.Empty(t, spans.Mandible)
}

func TestDetectSpans_AbutmentMustBePresent(t *testing.T) {
	// 18 remains present, so the 17-15 run is bounded distally by it.
	spans, err := DetectSpans([]string{"17", "16", "15"})
	require.NoError(t, err)
	require.Len(t, spans.Maxilla, 1)
	s := spans.Maxilla[0]
	assert.Equal(t, domain.ToothRef("14"), s.Abutments.Mesial)
	assert.Equal(t, domain.ToothRef("18"), s.Abutments.Distal)
	assert.Equal(t, domain.Bounded, s.SpanType)
}
