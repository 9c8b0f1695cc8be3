package model

// Confidence is the internal three-level citation confidence scale.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ConfidenceFromGramps maps the Gramps 0-4 integer confidence to the
// internal scale: >=3 high, ==2 medium, <=1 low.
func ConfidenceFromGramps(n int) Confidence {
	switch {
	case n >= 3:
		return ConfidenceHigh
	case n == 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// GrampsConfidence maps the internal scale back to a representative Gramps
// integer: high 4, medium 2, low 1.
func GrampsConfidence(c Confidence) int {
	switch c {
	case ConfidenceHigh:
		return 4
	case ConfidenceMedium:
		return 2
	default:
		return 1
	}
}
