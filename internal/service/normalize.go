package service

import (
	"github.com/prostho-cdss-server/internal/domain"
	"github.com/prostho-cdss-server/pkg/fdi"
)

// NormalizeCasePayload validates an external case payload and reshapes it
// into the internal typed form used by every downstream component. This is
// the single trust boundary for external input: any structural or enum
// violation fails fast with an InputError, never a silent default.
func NormalizeCasePayload(payload domain.CasePayload) (*domain.NormalizedPayload, error) {
	if err := validatePatientRisk(payload.PatientRisk); err != nil {
		return nil, err
	}
	if payload.AbutmentHealth == nil {
		return nil, domain.NewInputError("abutment_health list is required")
	}
	for _, rec := range payload.AbutmentHealth {
		if err := validateAbutmentHealth(rec); err != nil {
			return nil, err
		}
	}

	normalized := &domain.NormalizedPayload{
		Missing:        append([]string(nil), payload.Missing...),
		PatientRisk:    payload.PatientRisk,
		AbutmentHealth: payload.AbutmentHealth,
	}

	maxilla, err := normalizeArchSpans(fdi.Maxilla, payload.Spans.Maxilla)
	if err != nil {
		return nil, err
	}
	mandible, err := normalizeArchSpans(fdi.Mandible, payload.Spans.Mandible)
	if err != nil {
		return nil, err
	}
	normalized.Spans = domain.NormalizedSpanSet{Maxilla: maxilla, Mandible: mandible}
	return normalized, nil
}

func validatePatientRisk(risk domain.PatientRisk) error {
	if !risk.CariesRisk.IsValid() {
		return domain.NewInputError("invalid caries_risk: %q", string(risk.CariesRisk))
	}
	if !risk.OcclusalScheme.IsValid() {
		return domain.NewInputError("invalid occlusal_scheme: %q", string(risk.OcclusalScheme))
	}
	if !risk.Parafunction.IsValid() {
		return domain.NewInputError("invalid parafunction: %q", string(risk.Parafunction))
	}
	if !risk.OpposingDentition.IsValid() {
		return domain.NewInputError("invalid opposing_dentition: %q", string(risk.OpposingDentition))
	}
	return nil
}

func validateAbutmentHealth(rec domain.AbutmentHealth) error {
	if rec.Tooth == "" {
		return domain.NewInputError("abutment_health record missing tooth")
	}
	if !rec.Status.IsValid() {
		return domain.NewInputError("abutment_health %s: invalid status %q", rec.Tooth, string(rec.Status))
	}
	if !rec.MobilityMiller.IsValid() {
		return domain.NewInputError("abutment_health %s: invalid mobility_miller %q", rec.Tooth, string(rec.MobilityMiller))
	}
	if !rec.CrownRootRatio.IsValid() {
		return domain.NewInputError("abutment_health %s: invalid crown_root_ratio %q", rec.Tooth, string(rec.CrownRootRatio))
	}
	return nil
}

func normalizeArchSpans(arch fdi.Arch, spans []domain.Span) ([]domain.NormalizedSpan, error) {
	out := make([]domain.NormalizedSpan, 0, len(spans))
	for _, rec := range spans {
		if len(rec.MissingTeeth) == 0 {
			return nil, domain.NewInputError("%s: span missing_teeth required", arch)
		}
		if !rec.SpanType.IsValid() {
			return nil, domain.NewInputError("%s: invalid span_type %q", arch, string(rec.SpanType))
		}
		if rec.SpanID == "" {
			return nil, domain.NewInputError("%s: span_id required", arch)
		}

		length := len(rec.MissingTeeth)
		var pontic domain.ToothRef
		if length == 1 {
			pontic = domain.ToothRef(rec.MissingTeeth[0])
		}

		span := rec
		span.Arch = arch
		out = append(out, domain.NormalizedSpan{
			Span:        span,
			Length:      length,
			PonticTooth: pontic,
		})
	}
	return out, nil
}
