// Package service implements the deterministic treatment-planning pipeline:
// span detection, case normalization, rule evaluation, option scoring and
// whole-case plan composition. Every component is a pure function of its
// inputs; the Engine only adds logging around them.
package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/prostho-cdss-server/internal/domain"
	"github.com/prostho-cdss-server/pkg/fdi"
)

// DetectSpans validates a missing-tooth list and computes, per arch, the
// maximal contiguous spans with inferred abutments, outside neighbors,
// span-type classification, cross-midline flag and pier abutments.
func DetectSpans(missingTeeth []string) (domain.SpanSet, error) {
	clean, err := normalizeMissing(missingTeeth)
	if err != nil {
		return domain.SpanSet{}, err
	}

	var out domain.SpanSet
	for _, arch := range []fdi.Arch{fdi.Maxilla, fdi.Mandible} {
		spans := detectArchSpans(arch, clean)
		if arch == fdi.Maxilla {
			out.Maxilla = spans
		} else {
			out.Mandible = spans
		}
	}
	return out, nil
}

// normalizeMissing trims, drops empties, de-duplicates preserving first
// occurrence, and rejects any code outside the 32-code universe.
func normalizeMissing(missingTeeth []string) ([]string, error) {
	seen := make(map[string]struct{}, len(missingTeeth))
	unique := make([]string, 0, len(missingTeeth))
	for _, raw := range missingTeeth {
		t := strings.TrimSpace(raw)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}

	var invalid []string
	for _, t := range unique {
		if !fdi.IsValidTooth(t) {
			invalid = append(invalid, t)
		}
	}
	if len(invalid) > 0 {
		return nil, domain.NewInputError("invalid tooth codes: %s", strings.Join(invalid, ", "))
	}
	return unique, nil
}

func detectArchSpans(arch fdi.Arch, missing []string) []domain.Span {
	order := fdi.Order(arch)

	missingInArch := make([]string, 0, len(missing))
	missingSet := make(map[string]struct{})
	for _, t := range missing {
		if a, _ := fdi.ArchOf(t); a == arch {
			missingInArch = append(missingInArch, t)
			missingSet[t] = struct{}{}
		}
	}
	sort.Slice(missingInArch, func(i, j int) bool {
		a, _ := fdi.IndexOf(arch, missingInArch[i])
		b, _ := fdi.IndexOf(arch, missingInArch[j])
		return a < b
	})

	present := make(map[string]struct{}, len(order))
	for _, t := range order {
		if _, gone := missingSet[t]; !gone {
			present[t] = struct{}{}
		}
	}

	runs := consecutiveRuns(arch, missingInArch)
	spans := make([]domain.Span, 0, len(runs))
	for i, run := range runs {
		mesial, distal, outLeft, outRight, crossMidline := inferAbutments(arch, run)

		// Keep only abutments that are actually present teeth.
		mesial = presentOrNone(mesial, present)
		distal = presentOrNone(distal, present)
		outLeft = presentOrNone(outLeft, present)
		outRight = presentOrNone(outRight, present)

		spans = append(spans, domain.Span{
			SpanID:           spanID(arch, i+1),
			Arch:             arch,
			MissingTeeth:     run,
			Abutments:        domain.SpanAbutments{Mesial: mesial, Distal: distal},
			OutsideAbutments: domain.OutsideAbutments{Left: outLeft, Right: outRight},
			SpanType:         classifySpanType(mesial, distal, outLeft, outRight, crossMidline),
			CrossMidline:     crossMidline,
			PierAbutments:    piersTouchingRun(arch, run, missingSet, present),
		})
	}
	return spans
}

func spanID(arch fdi.Arch, index int) string {
	prefix := "Md"
	if arch == fdi.Maxilla {
		prefix = "Mx"
	}
	return prefix + "-" + strconv.Itoa(index)
}

// consecutiveRuns splits the sorted per-arch missing list into maximal runs of
// positionally-adjacent teeth.
func consecutiveRuns(arch fdi.Arch, sortedMissing []string) [][]string {
	if len(sortedMissing) == 0 {
		return nil
	}
	var runs [][]string
	current := []string{sortedMissing[0]}
	for i := 1; i < len(sortedMissing); i++ {
		prev, _ := fdi.IndexOf(arch, sortedMissing[i-1])
		curr, _ := fdi.IndexOf(arch, sortedMissing[i])
		if curr == prev+1 {
			current = append(current, sortedMissing[i])
			continue
		}
		runs = append(runs, current)
		current = []string{sortedMissing[i]}
	}
	runs = append(runs, current)
	return runs
}

// inferAbutments computes the outside neighbors of a run and assigns
// mesial/distal relative to the midline pivot. A run containing both centrals
// crosses the midline and gets no mesial/distal abutments.
func inferAbutments(arch fdi.Arch, run []string) (mesial, distal, outLeft, outRight domain.ToothRef, crossMidline bool) {
	order := fdi.Order(arch)
	firstIdx, _ := fdi.IndexOf(arch, run[0])
	lastIdx, _ := fdi.IndexOf(arch, run[len(run)-1])

	predIdx := firstIdx - 1
	succIdx := lastIdx + 1
	// Canonical order runs right-to-left, so the predecessor is the viewer's
	// right neighbor and the successor the viewer's left neighbor.
	if predIdx >= 0 {
		outRight = domain.ToothRef(order[predIdx])
	}
	if succIdx < len(order) {
		outLeft = domain.ToothRef(order[succIdx])
	}

	rightCentral, leftCentral := fdi.Centrals(arch)
	pivot := fdi.PivotIndex(arch)
	if containsTooth(run, rightCentral) && containsTooth(run, leftCentral) {
		return "", "", outLeft, outRight, true
	}

	switch {
	case lastIdx <= pivot: // entirely on the viewer-right side of the seam
		mesial, distal = outLeft, outRight
	case firstIdx >= pivot+1: // entirely on the viewer-left side
		mesial, distal = outRight, outLeft
	default:
		// Touches the seam without both centrals; treat the neighbor nearer
		// the seam as mesial. Unreachable for contiguous runs, kept for parity
		// with the classifier this replaces.
		mesial, distal = outLeft, outRight
		if seamDistance(pivot, succIdx) < seamDistance(pivot, predIdx) {
			mesial, distal = outRight, outLeft
		}
	}
	return mesial, distal, outLeft, outRight, false
}

func seamDistance(pivot, idx int) float64 {
	d := float64(pivot) + 0.5 - float64(idx)
	if d < 0 {
		return -d
	}
	return d
}

func containsTooth(run []string, tooth string) bool {
	for _, t := range run {
		if t == tooth {
			return true
		}
	}
	return false
}

func presentOrNone(t domain.ToothRef, present map[string]struct{}) domain.ToothRef {
	if !t.IsSet() {
		return ""
	}
	if _, ok := present[string(t)]; !ok {
		return ""
	}
	return t
}

func classifySpanType(mesial, distal, outLeft, outRight domain.ToothRef, crossMidline bool) domain.SpanType {
	if mesial.IsSet() && distal.IsSet() {
		return domain.Bounded
	}
	if crossMidline && outLeft.IsSet() && outRight.IsSet() {
		return domain.Bounded
	}
	return domain.DistalExtension
}

// piersTouchingRun returns the run's immediate outside neighbors that are
// true pier abutments: present teeth with a missing neighbor in both the
// mesial and distal direction.
func piersTouchingRun(arch fdi.Arch, run []string, missingSet, present map[string]struct{}) []string {
	order := fdi.Order(arch)
	firstIdx, _ := fdi.IndexOf(arch, run[0])
	lastIdx, _ := fdi.IndexOf(arch, run[len(run)-1])

	var candidates []string
	if i := firstIdx - 1; i >= 0 {
		candidates = append(candidates, order[i])
	}
	if i := lastIdx + 1; i < len(order) {
		candidates = append(candidates, order[i])
	}

	seen := make(map[string]struct{}, 2)
	piers := make([]string, 0, 2)
	for _, tooth := range candidates {
		if _, ok := present[tooth]; !ok {
			continue
		}
		idx, _ := fdi.IndexOf(arch, tooth)
		step, _ := fdi.MesialStep(tooth)
		if !missingAt(order, missingSet, idx+step) || !missingAt(order, missingSet, idx-step) {
			continue
		}
		if _, dup := seen[tooth]; dup {
			continue
		}
		seen[tooth] = struct{}{}
		piers = append(piers, tooth)
	}
	return piers
}

func missingAt(order []string, missingSet map[string]struct{}, idx int) bool {
	if idx < 0 || idx >= len(order) {
		return false
	}
	_, ok := missingSet[order[idx]]
	return ok
}
