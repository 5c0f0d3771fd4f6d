package analysis

import "math"

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// thresholds splits a score into the three risk categories.
// Scores equal to a bound fall into the higher category.
type thresholds struct {
	low, moderate float64
}

func (t thresholds) classify(score float64) Prediction {
	switch {
	case score < t.low:
		return LowRisk
	case score < t.moderate:
		return ModerateRisk
	default:
		return HighRisk
	}
}

// confidenceCurve is min(ceiling, base + |score-center|*slope)
type confidenceCurve struct {
	base, center, slope, ceiling float64
}

func (c confidenceCurve) at(score float64) float64 {
	return math.Min(c.ceiling, c.base+math.Abs(score-c.center)*c.slope)
}

func toPercentage(score float64) int {
	return int(math.Round(score * 100))
}

func dot(v NormalizedFeatureVector, weights [FeatureCount]float64) float64 {
	s := 0.0
	for i, w := range weights {
		s += v[i] * w
	}
	return s
}

// rule adds weight to a score when the feature at index exceeds the cutoff
type rule struct {
	index  int
	cutoff float64
	weight float64
}

func sumRules(v NormalizedFeatureVector, rules []rule) float64 {
	s := 0.0
	for _, r := range rules {
		if v[r.index] > r.cutoff {
			s += r.weight
		}
	}
	return s
}

// profile bundles the constants an algorithm reports with
type profile struct {
	name       string
	accuracy   float64
	thresholds thresholds
	confidence confidenceCurve
}

func (p profile) result(score float64) AlgorithmResult {
	return AlgorithmResult{
		Algorithm:           p.name,
		Prediction:          p.thresholds.classify(score),
		Confidence:          p.confidence.at(score),
		Accuracy:            p.accuracy,
		AddictionPercentage: toPercentage(score),
	}
}
