package analysis

import (
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/types"
)

var frequencyScores = map[string]float64{
	types.FrequencyNever:     0,
	types.FrequencyRarely:    0.33,
	types.FrequencySometimes: 0.66,
	types.FrequencyOften:     1,
}

// lenient defaults
const (
	defaultAge       = 25
	defaultGameHours = 0
)

func frequencyScore(frequency string) float64 {
	return frequencyScores[frequency]
}

func yesNo(answer string) float64 {
	if answer == types.AnswerYes {
		return 1
	}
	return 0
}

func inverted(answer string) float64 {
	if answer == types.AnswerYes {
		return 0
	}
	return 1
}

func male(gender string) float64 {
	if gender == types.GenderMale {
		return 1
	}
	return 0
}

// answerField ties a JSON field name to its position and encoding
type answerField struct {
	name   string
	index  int
	value  func(r *types.PredictRequest) *string
	encode func(string) float64
}

var answerFields = []answerField{
	{"gender", IdxGender, func(r *types.PredictRequest) *string { return r.Gender }, male},
	{"usePhoneForClassNotes", IdxClassNotes, func(r *types.PredictRequest) *string { return r.UsePhoneForClassNotes }, yesNo},
	{"buyBooksFromPhone", IdxBuyBooks, func(r *types.PredictRequest) *string { return r.BuyBooksFromPhone }, yesNo},
	{"batteryLastsDay", IdxBatteryLastsDay, func(r *types.PredictRequest) *string { return r.BatteryLastsDay }, yesNo},
	{"runForCharger", IdxRunForCharger, func(r *types.PredictRequest) *string { return r.RunForCharger }, yesNo},
	{"worryAboutLosingPhone", IdxWorryAboutLosing, func(r *types.PredictRequest) *string { return r.WorryAboutLosingPhone }, yesNo},
	{"takePhoneToBathroom", IdxBathroom, func(r *types.PredictRequest) *string { return r.TakePhoneToBathroom }, yesNo},
	{"usePhoneInSocialGatherings", IdxSocialGatherings, func(r *types.PredictRequest) *string { return r.UsePhoneInSocialGatherings }, yesNo},
	{"checkPhoneWithoutNotification", IdxCheckWithoutNotification, func(r *types.PredictRequest) *string { return r.CheckPhoneWithoutNotification }, frequencyScore},
	{"checkPhoneBeforeSleepAfterWaking", IdxBeforeSleepAfterWaking, func(r *types.PredictRequest) *string { return r.CheckPhoneBeforeSleepAfterWaking }, yesNo},
	{"keepPhoneNextToWhileSleeping", IdxNextToWhileSleeping, func(r *types.PredictRequest) *string { return r.KeepPhoneNextToWhileSleeping }, yesNo},
	{"checkEmailsCallsTextsDuringClass", IdxDuringClass, func(r *types.PredictRequest) *string { return r.CheckEmailsCallsTextsDuringClass }, yesNo},
	{"relyOnPhoneInAwkwardSituations", IdxAwkwardSituations, func(r *types.PredictRequest) *string { return r.RelyOnPhoneInAwkwardSituations }, yesNo},
	{"onPhoneWhileWatchingTvEating", IdxWatchingTvEating, func(r *types.PredictRequest) *string { return r.OnPhoneWhileWatchingTvEating }, yesNo},
	{"panicAttackIfPhoneLeftElsewhere", IdxPanicIfLeft, func(r *types.PredictRequest) *string { return r.PanicAttackIfPhoneLeftElsewhere }, yesNo},
	{"checkPhoneWithSomeone", IdxWithSomeone, func(r *types.PredictRequest) *string { return r.CheckPhoneWithSomeone }, yesNo},
	{"liveADayWithoutPhone", IdxCannotLiveWithout, func(r *types.PredictRequest) *string { return r.LiveADayWithoutPhone }, inverted},
	{"addictedToPhone", IdxSelfReportedAddiction, func(r *types.PredictRequest) *string { return r.AddictedToPhone }, yesNo},
}

// MissingFields lists the JSON names of absent answers in feature vector order
func MissingFields(req *types.PredictRequest) []string {
	missing := []string{}
	if req.Age == nil {
		missing = append(missing, "age")
	}
	for _, f := range answerFields {
		if f.index > IdxGameHours {
			break
		}
		if f.value(req) == nil {
			missing = append(missing, f.name)
		}
	}
	if req.PhoneUseForPlayingGames == nil {
		missing = append(missing, "phoneUseForPlayingGames")
	}
	for _, f := range answerFields {
		if f.index > IdxGameHours && f.value(req) == nil {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// EncodeAnswers converts a questionnaire into a feature vector.
// It fails with a validation error when any answer is missing.
func EncodeAnswers(req *types.PredictRequest) (FeatureVector, error) {
	if req == nil {
		return FeatureVector{}, errors.NewValidationError("request body is required")
	}
	if missing := MissingFields(req); len(missing) > 0 {
		return FeatureVector{}, errors.NewMissingFieldsError(missing)
	}

	var fv FeatureVector
	fv[IdxAge] = float64(*req.Age)
	fv[IdxGameHours] = *req.PhoneUseForPlayingGames
	for _, f := range answerFields {
		fv[f.index] = f.encode(*f.value(req))
	}
	return fv, nil
}

// EncodeAnswersLenient converts a questionnaire substituting defaults for missing answers
func EncodeAnswersLenient(req *types.PredictRequest) FeatureVector {
	if req == nil {
		req = &types.PredictRequest{}
	}

	var fv FeatureVector
	fv[IdxAge] = defaultAge
	if req.Age != nil {
		fv[IdxAge] = float64(*req.Age)
	}
	fv[IdxGameHours] = defaultGameHours
	if req.PhoneUseForPlayingGames != nil {
		fv[IdxGameHours] = *req.PhoneUseForPlayingGames
	}
	for _, f := range answerFields {
		answer := ""
		if v := f.value(req); v != nil {
			answer = *v
		}
		fv[f.index] = f.encode(answer)
	}
	return fv
}

// Normalize rescales age to (age-18)/47 and game hours to hours/5.
// Values outside [0,1] are kept as is.
func Normalize(fv FeatureVector) NormalizedFeatureVector {
	nv := NormalizedFeatureVector(fv)
	nv[IdxAge] = (fv[IdxAge] - 18) / (65 - 18)
	nv[IdxGameHours] = fv[IdxGameHours] / 5
	return nv
}
