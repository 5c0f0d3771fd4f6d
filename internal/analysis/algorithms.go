package analysis

// Algorithm scores a normalized feature vector
type Algorithm interface {
	Name() string
	Score(v NormalizedFeatureVector) AlgorithmResult
}

// Stochastic is implemented by algorithms whose result is not a pure function of the input
type Stochastic interface {
	Stochastic() bool
}

func isStochastic(a Algorithm) bool {
	s, ok := a.(Stochastic)
	return ok && s.Stochastic()
}

// RuleTree adds fixed increments for each behavioral indicator that fires
type RuleTree struct{}

var ruleTreeProfile = profile{
	name:       "Decision Tree",
	accuracy:   0.87,
	thresholds: thresholds{low: 0.3, moderate: 0.6},
	confidence: confidenceCurve{base: 0.70, center: 0.5, slope: 0.5, ceiling: 0.95},
}

var ruleTreeRules = []rule{
	{IdxWorryAboutLosing, 0.5, 0.15},
	{IdxBathroom, 0.5, 0.10},
	{IdxSocialGatherings, 0.5, 0.10},
	{IdxCheckWithoutNotification, 0.5, 0.15},
	{IdxBeforeSleepAfterWaking, 0.5, 0.10},
	{IdxPanicIfLeft, 0.5, 0.15},
	{IdxGameHours, 0.6, 0.10},
	{IdxCannotLiveWithout, 0.5, 0.10},
	{IdxSelfReportedAddiction, 0.5, 0.05},
}

func (RuleTree) Name() string { return ruleTreeProfile.name }

func (RuleTree) Score(v NormalizedFeatureVector) AlgorithmResult {
	return ruleTreeProfile.result(sumRules(v, ruleTreeRules))
}

// ForestAverage averages three independent rule trees
type ForestAverage struct{}

var forestProfile = profile{
	name:       "Random Forest",
	accuracy:   0.91,
	thresholds: thresholds{low: 0.25, moderate: 0.55},
	confidence: confidenceCurve{base: 0.75, center: 0.4, slope: 0.4, ceiling: 0.96},
}

var forestTrees = [][]rule{
	{
		{IdxBathroom, 0.5, 0.20},
		{IdxSocialGatherings, 0.5, 0.15},
		{IdxCheckWithoutNotification, 0.6, 0.25},
		{IdxPanicIfLeft, 0.5, 0.20},
		{IdxCannotLiveWithout, 0.5, 0.20},
	},
	{
		{IdxWorryAboutLosing, 0.5, 0.25},
		{IdxBeforeSleepAfterWaking, 0.5, 0.15},
		{IdxNextToWhileSleeping, 0.5, 0.15},
		{IdxAwkwardSituations, 0.5, 0.20},
		{IdxGameHours, 0.4, 0.25},
	},
	{
		{IdxSocialGatherings, 0.5, 0.30},
		{IdxWatchingTvEating, 0.5, 0.20},
		{IdxWithSomeone, 0.5, 0.20},
		{IdxDuringClass, 0.5, 0.30},
	},
}

func (ForestAverage) Name() string { return forestProfile.name }

func (ForestAverage) Score(v NormalizedFeatureVector) AlgorithmResult {
	total := 0.0
	for _, tree := range forestTrees {
		total += sumRules(v, tree)
	}
	return forestProfile.result(total / float64(len(forestTrees)))
}

// MarginClassifier squashes a weighted sum through a steep sigmoid centered at 0.5
type MarginClassifier struct{}

var marginProfile = profile{
	name:       "SVM",
	accuracy:   0.89,
	thresholds: thresholds{low: 0.35, moderate: 0.65},
	confidence: confidenceCurve{base: 0.72, center: 0.5, slope: 0.42, ceiling: 0.93},
}

var marginWeights = [FeatureCount]float64{
	0.05, 0.03, 0.04, 0.03, 0.02, 0.04, 0.12, 0.08, 0.09, 0.15,
	0.07, 0.06, 0.05, 0.08, 0.06, 0.13, 0.04, 0.08, 0.09, 0.04,
}

const (
	marginCenter    = 0.5
	marginSteepness = 5
)

func (MarginClassifier) Name() string { return marginProfile.name }

func (MarginClassifier) Score(v NormalizedFeatureVector) AlgorithmResult {
	p := sigmoid(marginSteepness * (dot(v, marginWeights) - marginCenter))
	return marginProfile.result(p)
}

// LinearClassifier is a fixed-coefficient logistic regression
type LinearClassifier struct{}

var linearProfile = profile{
	name:       "Logistic Regression",
	accuracy:   0.85,
	thresholds: thresholds{low: 0.33, moderate: 0.67},
	confidence: confidenceCurve{base: 0.73, center: 0.5, slope: 0.4, ceiling: 0.94},
}

// battery lasting a day is the only protective answer
var linearCoefficients = [FeatureCount]float64{
	0.08, 0.02, 0.05, 0.03, -0.02, 0.06, 0.18, 0.12, 0.14, 0.22,
	0.10, 0.09, 0.07, 0.11, 0.08, 0.19, 0.06, 0.13, 0.16, 0.09,
}

const linearIntercept = -2.1

func (LinearClassifier) Name() string { return linearProfile.name }

func (LinearClassifier) Score(v NormalizedFeatureVector) AlgorithmResult {
	return linearProfile.result(sigmoid(linearIntercept + dot(v, linearCoefficients)))
}

// WeightedRandomClassifier weights every feature with a fresh draw in [0.05, 0.15).
// Output varies between calls unless the source is deterministic.
type WeightedRandomClassifier struct {
	src RandSource
}

var weightedRandomProfile = profile{
	name:       "Neural Network",
	accuracy:   0.92,
	thresholds: thresholds{low: 0.3, moderate: 0.7},
	confidence: confidenceCurve{base: 0.76, center: 0.5, slope: 0.38, ceiling: 0.95},
}

const (
	randomWeightBase   = 0.05
	randomWeightSpread = 0.1
)

// NewWeightedRandomClassifier creates the classifier drawing weights from src
func NewWeightedRandomClassifier(src RandSource) WeightedRandomClassifier {
	return WeightedRandomClassifier{src: src}
}

func (WeightedRandomClassifier) Name() string { return weightedRandomProfile.name }

func (WeightedRandomClassifier) Stochastic() bool { return true }

func (w WeightedRandomClassifier) Score(v NormalizedFeatureVector) AlgorithmResult {
	s := 0.0
	for _, x := range v {
		s += x * (randomWeightBase + w.src.Float64()*randomWeightSpread)
	}
	return weightedRandomProfile.result(sigmoid(s))
}
