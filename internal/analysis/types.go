package analysis

// FeatureCount is the fixed length of every feature vector
const FeatureCount = 20

// Feature vector positions
const (
	IdxAge = iota
	IdxGender
	IdxClassNotes
	IdxBuyBooks
	IdxBatteryLastsDay
	IdxRunForCharger
	IdxWorryAboutLosing
	IdxBathroom
	IdxSocialGatherings
	IdxCheckWithoutNotification
	IdxBeforeSleepAfterWaking
	IdxNextToWhileSleeping
	IdxDuringClass
	IdxAwkwardSituations
	IdxWatchingTvEating
	IdxPanicIfLeft
	IdxWithSomeone
	IdxGameHours
	IdxCannotLiveWithout
	IdxSelfReportedAddiction
)

// FeatureVector holds encoded answers before normalization
type FeatureVector [FeatureCount]float64

// NormalizedFeatureVector holds encoded answers with age and game hours rescaled
type NormalizedFeatureVector [FeatureCount]float64

// Prediction is a risk category
type Prediction string

const (
	LowRisk      Prediction = "Low Risk"
	ModerateRisk Prediction = "Moderate Risk"
	HighRisk     Prediction = "High Risk"
)

// AlgorithmResult is the verdict of a single scoring algorithm
type AlgorithmResult struct {
	Algorithm           string     `json:"algorithm"`
	Prediction          Prediction `json:"prediction"`
	Confidence          float64    `json:"confidence"`
	Accuracy            float64    `json:"accuracy"`
	AddictionPercentage int        `json:"addictionPercentage"`
}

// EnsembleResult combines every algorithm verdict
type EnsembleResult struct {
	Algorithm           string     `json:"algorithm"`
	Prediction          Prediction `json:"prediction"`
	Confidence          float64    `json:"confidence"`
	Accuracy            float64    `json:"accuracy"`
	AddictionPercentage int        `json:"addictionPercentage"`
}

// Report is the full response of one prediction
type Report struct {
	Results        []AlgorithmResult `json:"results"`
	EnsembleResult EnsembleResult    `json:"ensembleResult"`
}
