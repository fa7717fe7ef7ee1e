package service

import (
	"github.com/prostho-cdss-server/internal/domain"
	"github.com/prostho-cdss-server/pkg/fdi"
)

// BuildAbutmentHealthMap converts a list of abutment health records into a
// lookup keyed by FDI tooth code. The last record per tooth wins.
func BuildAbutmentHealthMap(records []domain.AbutmentHealth) map[string]domain.AbutmentHealth {
	out := make(map[string]domain.AbutmentHealth, len(records))
	for _, rec := range records {
		if rec.Tooth == "" {
			continue
		}
		out[rec.Tooth] = rec
	}
	return out
}

// AbutmentOKForCantilever reports whether a tooth's recorded health is
// adequate to carry a cantilever pontic: mobility Miller 0-1 and crown-root
// ratio at least roughly 1:1. A missing health record is never adequate.
func AbutmentOKForCantilever(healthMap map[string]domain.AbutmentHealth, tooth string) bool {
	h, ok := healthMap[tooth]
	if !ok {
		return false
	}
	mobOK := h.MobilityMiller == domain.Mobility0 || h.MobilityMiller == domain.Mobility1
	crrOK := h.CrownRootRatio == domain.CRRFavorable || h.CrownRootRatio == domain.CRREqual
	return mobOK && crrOK
}

// KennedyClassForArch determines the Kennedy class and modification count for
// one arch. The arch's span list must be non-empty; an empty call is a
// pipeline defect, not user input.
//
// Distal-extension spans on both sides give Class I, on one side Class II,
// with bounded spans counted as modifications. Without distal extensions, a
// single midline-crossing bounded span is Class IV; everything else is
// Class III with count(bounded)-1 modifications.
func KennedyClassForArch(spans []domain.NormalizedSpan) (domain.KennedyClass, int, error) {
	if len(spans) == 0 {
		return "", 0, domain.NewInvariantError("kennedy classification requested for empty arch")
	}

	var bounded, distal []domain.NormalizedSpan
	for _, s := range spans {
		if s.SpanType == domain.Bounded {
			bounded = append(bounded, s)
		} else {
			distal = append(distal, s)
		}
	}

	if len(distal) > 0 {
		sides := sidesTouched(distal)
		klass := domain.KennedyII
		if sides[fdi.Right] && sides[fdi.Left] {
			klass = domain.KennedyI
		}
		return klass, len(bounded), nil
	}

	if len(bounded) == 1 && bounded[0].CrossMidline {
		return domain.KennedyIV, 0, nil
	}

	mods := len(bounded) - 1
	if mods < 0 {
		mods = 0
	}
	return domain.KennedyIII, mods, nil
}

// sidesTouched collects the patient sides covered by the spans' missing
// teeth, derived from each tooth's quadrant.
func sidesTouched(spans []domain.NormalizedSpan) map[fdi.Side]bool {
	sides := make(map[fdi.Side]bool, 2)
	for _, s := range spans {
		for _, t := range s.MissingTeeth {
			if side, err := fdi.SideOf(t); err == nil {
				sides[side] = true
			}
		}
	}
	return sides
}
