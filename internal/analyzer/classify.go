package analyzer

import "github.com/polydup/polydup/internal/constants"

// CloneType labels a comparison result per spec.md §4.4; it is a display
// layer over the similarity score, never an input to the APTED/TSED core.
type CloneType int

const (
	CloneTypeNone CloneType = iota
	CloneType1
	CloneType2
	CloneType3
	CloneType4
)

func (c CloneType) String() string {
	if name, ok := constants.CloneTypeNames[int(c)]; ok {
		return name
	}
	return "none"
}

// ClassifyThresholds holds the four descending cutoffs a similarity score is
// compared against. Validate enforces Type1 > Type2 > Type3 > Type4.
type ClassifyThresholds struct {
	Type1, Type2, Type3, Type4 float64
}

// DefaultClassifyThresholds returns the thresholds from internal/constants.
func DefaultClassifyThresholds() ClassifyThresholds {
	return ClassifyThresholds{
		Type1: constants.DefaultType1CloneThreshold,
		Type2: constants.DefaultType2CloneThreshold,
		Type3: constants.DefaultType3CloneThreshold,
		Type4: constants.DefaultType4CloneThreshold,
	}
}

// Classify maps a TSED similarity score to the highest clone type it meets,
// or CloneTypeNone if it falls below Type4.
func Classify(similarity float64, t ClassifyThresholds) CloneType {
	switch {
	case similarity >= t.Type1:
		return CloneType1
	case similarity >= t.Type2:
		return CloneType2
	case similarity >= t.Type3:
		return CloneType3
	case similarity >= t.Type4:
		return CloneType4
	default:
		return CloneTypeNone
	}
}
