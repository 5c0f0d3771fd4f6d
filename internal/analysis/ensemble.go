package analysis

import "math"

// EnsembleName labels the combined verdict
const EnsembleName = "Ensemble (5 Models)"

// ensemble categories are expressed on the 0-100 percentage scale
var ensembleThresholds = thresholds{low: 30, moderate: 65}

// Aggregate averages algorithm results into one verdict
func Aggregate(results []AlgorithmResult) EnsembleResult {
	if len(results) == 0 {
		return EnsembleResult{Algorithm: EnsembleName, Prediction: LowRisk}
	}

	var percentage, accuracy, confidence float64
	for _, r := range results {
		percentage += float64(r.AddictionPercentage)
		accuracy += r.Accuracy
		confidence += r.Confidence
	}
	n := float64(len(results))
	percentage /= n

	return EnsembleResult{
		Algorithm:           EnsembleName,
		Prediction:          ensembleThresholds.classify(percentage),
		Confidence:          confidence / n,
		Accuracy:            accuracy / n,
		AddictionPercentage: int(math.Round(percentage)),
	}
}
