package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prostho-cdss-server/internal/domain"
)

func TestBuildAbutmentHealthMap(t *testing.T) {
	first := soundTooth("14")
	second := soundTooth("14")
	second.MobilityMiller = domain.Mobility2

	m := BuildAbutmentHealthMap([]domain.AbutmentHealth{first, {Tooth: "17"}, second, {Tooth: ""}})

	require.Len(t, m, 2)
	// Last record per tooth wins.
	assert.Equal(t, domain.Mobility2, m["14"].MobilityMiller)
	assert.Contains(t, m, "17")
}

func TestAbutmentOKForCantilever(t *testing.T) {
	tests := []struct {
		name     string
		mobility domain.MillerMobility
		crr      domain.CrownRootRatio
		ok       bool
	}{
		{name: "Sound abutment", mobility: domain.Mobility0, crr: domain.CRRFavorable, ok: true},
		{name: "Mobility one with equal ratio", mobility: domain.Mobility1, crr: domain.CRREqual, ok: true},
		{name: "Mobility two", mobility: domain.Mobility2, crr: domain.CRRFavorable, ok: false},
		{name: "Poor crown root ratio", mobility: domain.Mobility0, crr: domain.CRRPoor, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := soundTooth("13")
			h.MobilityMiller = tt.mobility
			h.CrownRootRatio = tt.crr
			m := map[string]domain.AbutmentHealth{"13": h}
			assert.Equal(t, tt.ok, AbutmentOKForCantilever(m, "13"))
		})
	}

	t.Run("Missing record is never adequate", func(t *testing.T) {
		assert.False(t, AbutmentOKForCantilever(map[string]domain.AbutmentHealth{}, "13"))
	})
}

func TestKennedyClassForArch(t *testing.T) {
	tests := []struct {
		name    string
		missing []string
		class   domain.KennedyClass
		mods    int
	}{
		{
			name:    "Bilateral distal extension is Class I",
			missing: []string{"37", "38", "47", "48"},
			class:   domain.KennedyI,
			mods:    0,
		},
		{
			name:    "Unilateral distal extension is Class II",
			missing: []string{"37", "38"},
			class:   domain.KennedyII,
			mods:    0,
		},
		{
			name:    "Distal extension with bounded span counts modifications",
			missing: []string{"37", "38", "45"},
			class:   domain.KennedyII,
			mods:    1,
		},
		{
			name:    "Single midline-crossing bounded span is Class IV",
			missing: []string{"42", "41", "31", "32"},
			class:   domain.KennedyIV,
			mods:    0,
		},
		{
			name:    "Single bounded span is Class III",
			missing: []string{"36"},
			class:   domain.KennedyIII,
			mods:    0,
		},
		{
			name:    "Two bounded spans are Class III with one modification",
			missing: []string{"36", "45"},
			class:   domain.KennedyIII,
			mods:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized := normalizedCase(t, tt.missing, lowRisk(), nil)
			class, mods, err := KennedyClassForArch(normalized.Spans.Mandible)
			require.NoError(t, err)
			assert.Equal(t, tt.class, class)
			assert.Equal(t, tt.mods, mods)
		})
	}

	t.Run("Empty arch is a pipeline defect", func(t *testing.T) {
		_, _, err := KennedyClassForArch(nil)
		require.Error(t, err)
		assert.True(t, domain.IsInvariantError(err))
	})
}
