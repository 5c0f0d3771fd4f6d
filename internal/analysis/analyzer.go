package analysis

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/types"
)

// Analyzer orchestrates the full prediction pipeline
type Analyzer struct {
	algorithms []Algorithm
}

// NewAnalyzer creates an analyzer with the five built-in algorithms.
// src feeds the weighted random classifier and must be safe for concurrent use.
func NewAnalyzer(src RandSource) *Analyzer {
	return &Analyzer{
		algorithms: []Algorithm{
			RuleTree{},
			ForestAverage{},
			MarginClassifier{},
			LinearClassifier{},
			NewWeightedRandomClassifier(src),
		},
	}
}

// Algorithms returns the algorithm set in evaluation order
func (a *Analyzer) Algorithms() []Algorithm {
	return append([]Algorithm(nil), a.algorithms...)
}

// Analyze encodes a questionnaire strictly and scores it
func (a *Analyzer) Analyze(ctx context.Context, req *types.PredictRequest) (Report, error) {
	fv, err := EncodeAnswers(req)
	if err != nil {
		return Report{}, err
	}
	return a.Evaluate(ctx, Normalize(fv))
}

// AnalyzeLenient scores a questionnaire with defaults for missing answers
func (a *Analyzer) AnalyzeLenient(ctx context.Context, req *types.PredictRequest) (Report, error) {
	return a.Evaluate(ctx, Normalize(EncodeAnswersLenient(req)))
}

// Evaluate runs every algorithm concurrently and aggregates once all have finished
func (a *Analyzer) Evaluate(ctx context.Context, v NormalizedFeatureVector) (Report, error) {
	return a.EvaluateWith(ctx, v, nil)
}

// Reusable returns the results of deterministic algorithms, which may be replayed for the same vector
func (a *Analyzer) Reusable(report Report) []AlgorithmResult {
	out := make([]AlgorithmResult, 0, len(report.Results))
	for i, algo := range a.algorithms {
		if i < len(report.Results) && !isStochastic(algo) {
			out = append(out, report.Results[i])
		}
	}
	return out
}

// EvaluateWith scores v like Evaluate but takes deterministic results from known,
// matched by algorithm name. Stochastic algorithms always run.
func (a *Analyzer) EvaluateWith(ctx context.Context, v NormalizedFeatureVector, known []AlgorithmResult) (Report, error) {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Report{}, errors.NewValidationError(fmt.Sprintf("feature %d is not a finite number", i))
		}
	}

	replay := make(map[string]AlgorithmResult, len(known))
	for _, r := range known {
		replay[r.Algorithm] = r
	}

	results := make([]AlgorithmResult, len(a.algorithms))
	g, _ := errgroup.WithContext(ctx)
	for i, algo := range a.algorithms {
		if r, ok := replay[algo.Name()]; ok && !isStochastic(algo) {
			results[i] = r
			continue
		}
		g.Go(func() error {
			res := algo.Score(v)
			if math.IsNaN(res.Confidence) {
				return errors.NewInternalError("scoring produced an invalid confidence", fmt.Errorf("algorithm %s", algo.Name()))
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	return Report{
		Results:        results,
		EnsembleResult: Aggregate(results),
	}, nil
}
