// Package fdi models the Federation Dentaire Internationale (FDI) two-digit
// tooth notation for the 32-tooth adult permanent dentition, including the
// canonical per-arch tooth ordering used for span detection.
//
// Codes are quadrant digit (1-4) + position digit (1-8). Each arch is listed
// right-to-left from the viewer perspective: maxilla 18..11 then 21..28,
// mandible 48..41 then 31..38. The midline seam sits between the two central
// incisors of the arch.
package fdi

import "fmt"

// Arch identifies one of the two dental arches.
type Arch string

const (
	Maxilla  Arch = "maxilla"
	Mandible Arch = "mandible"
)

// IsValid reports whether the arch is one of the two supported arches.
func (a Arch) IsValid() bool {
	return a == Maxilla || a == Mandible
}

// String returns the wire representation of the arch.
func (a Arch) String() string {
	return string(a)
}

// Side is the patient-perspective side of the mouth derived from the quadrant.
type Side string

const (
	Right Side = "R"
	Left  Side = "L"
)

// Canonical arch orderings, right-to-left per arch (viewer perspective).
var (
	upperOrder = []string{
		"18", "17", "16", "15", "14", "13", "12", "11",
		"21", "22", "23", "24", "25", "26", "27", "28",
	}
	lowerOrder = []string{
		"48", "47", "46", "45", "44", "43", "42", "41",
		"31", "32", "33", "34", "35", "36", "37", "38",
	}
)

// anterior covers centrals, laterals and canines in both arches (12 codes).
var anterior = map[string]struct{}{
	"11": {}, "21": {}, "31": {}, "41": {},
	"12": {}, "22": {}, "32": {}, "42": {},
	"13": {}, "23": {}, "33": {}, "43": {},
}

var (
	validTeeth = buildValidSet()
	upperIndex = buildIndex(upperOrder)
	lowerIndex = buildIndex(lowerOrder)
)

func buildValidSet() map[string]struct{} {
	set := make(map[string]struct{}, len(upperOrder)+len(lowerOrder))
	for _, t := range upperOrder {
		set[t] = struct{}{}
	}
	for _, t := range lowerOrder {
		set[t] = struct{}{}
	}
	return set
}

func buildIndex(order []string) map[string]int {
	idx := make(map[string]int, len(order))
	for i, t := range order {
		idx[t] = i
	}
	return idx
}

// Order returns the canonical tooth ordering for an arch. The returned slice
// is shared reference data and must not be modified.
func Order(a Arch) []string {
	if a == Maxilla {
		return upperOrder
	}
	return lowerOrder
}

// IsValidTooth reports whether code is one of the 32 adult FDI codes.
func IsValidTooth(code string) bool {
	_, ok := validTeeth[code]
	return ok
}

// IsAnterior reports whether the tooth is a central, lateral or canine.
func IsAnterior(code string) bool {
	_, ok := anterior[code]
	return ok
}

// Quadrant returns the FDI quadrant digit (1-4) of a valid tooth code.
func Quadrant(code string) (int, error) {
	if !IsValidTooth(code) {
		return 0, fmt.Errorf("invalid FDI tooth code: %q", code)
	}
	return int(code[0] - '0'), nil
}

// ArchOf returns the arch a valid tooth code belongs to.
func ArchOf(code string) (Arch, error) {
	q, err := Quadrant(code)
	if err != nil {
		return "", err
	}
	if q == 1 || q == 2 {
		return Maxilla, nil
	}
	return Mandible, nil
}

// SideOf returns the patient-perspective side of a valid tooth code.
// Quadrants 1 and 4 are the right side, 2 and 3 the left.
func SideOf(code string) (Side, error) {
	q, err := Quadrant(code)
	if err != nil {
		return "", err
	}
	if q == 1 || q == 4 {
		return Right, nil
	}
	return Left, nil
}

// IndexOf returns the position of a tooth in its arch's canonical order.
func IndexOf(a Arch, code string) (int, bool) {
	if a == Maxilla {
		i, ok := upperIndex[code]
		return i, ok
	}
	i, ok := lowerIndex[code]
	return i, ok
}

// PivotIndex returns the canonical index of the right central incisor
// (11 or 41). The midline seam lies between this index and the next.
func PivotIndex(a Arch) int {
	if a == Maxilla {
		return upperIndex["11"]
	}
	return lowerIndex["41"]
}

// Centrals returns the arch's two central incisors as (right, left).
func Centrals(a Arch) (string, string) {
	if a == Maxilla {
		return "11", "21"
	}
	return "41", "31"
}

// MesialStep returns the canonical-index step toward the midline for the
// tooth's quadrant: +1 for quadrants 1/4, -1 for quadrants 2/3.
func MesialStep(code string) (int, error) {
	q, err := Quadrant(code)
	if err != nil {
		return 0, err
	}
	if q == 1 || q == 4 {
		return 1, nil
	}
	return -1, nil
}

// PairedCentral returns the other central incisor of the same arch, or ""
// when the tooth is not a central.
func PairedCentral(code string) string {
	switch code {
	case "11":
		return "21"
	case "21":
		return "11"
	case "31":
		return "41"
	case "41":
		return "31"
	}
	return ""
}
