package finding

import "fmt"

// Weights maps each STRIDE category to its base severity on a 0-10 scale.
// A finding's score is the category weight multiplied by the subject's
// confidence, which yields a total ordering for prioritization without
// judgment calls at report time.
type Weights map[Category]float64

// DefaultWeights returns the default per-category base severities.
// Elevation of privilege and tampering are weighted highest; repudiation
// lowest.
func DefaultWeights() Weights {
	return Weights{
		CategoryElevationOfPrivilege:  9.5,
		CategoryTampering:             8.5,
		CategorySpoofing:              7.5,
		CategoryInformationDisclosure: 7.0,
		CategoryDenialOfService:       6.0,
		CategoryRepudiation:           4.0,
	}
}

// Validate checks that every STRIDE category has a positive weight.
func (w Weights) Validate() error {
	for _, c := range AllCategories() {
		weight, ok := w[c]
		if !ok {
			return fmt.Errorf("missing severity weight for category %s", c)
		}
		if weight <= 0 {
			return fmt.Errorf("severity weight for category %s must be positive, got %f", c, weight)
		}
	}
	return nil
}

// Score computes the severity score for a category at the given subject
// confidence. Unknown categories score 0.
func (w Weights) Score(c Category, confidence float64) float64 {
	return w[c] * confidence
}

// Label is the human-readable severity bucket used in rendered reports.
type Label string

const (
	LabelCritical Label = "Critical"
	LabelHigh     Label = "High"
	LabelMedium   Label = "Medium"
	LabelLow      Label = "Low"
)

// LabelForScore buckets a numeric severity score into a report label.
func LabelForScore(score float64) Label {
	switch {
	case score >= 8.0:
		return LabelCritical
	case score >= 6.0:
		return LabelHigh
	case score >= 3.0:
		return LabelMedium
	default:
		return LabelLow
	}
}

// AllLabels returns all severity labels from most to least severe.
func AllLabels() []Label {
	return []Label{LabelCritical, LabelHigh, LabelMedium, LabelLow}
}
