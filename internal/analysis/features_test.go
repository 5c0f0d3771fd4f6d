package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/types"
)

func str(s string) *string { return &s }

// lowRiskAnswers answers every question in the least compulsive way
func lowRiskAnswers() *types.PredictRequest {
	age := 18
	hours := 0.0
	no := func() *string { return str(types.AnswerNo) }
	return &types.PredictRequest{
		Age:                              &age,
		Gender:                           str("Female"),
		UsePhoneForClassNotes:            no(),
		BuyBooksFromPhone:                no(),
		BatteryLastsDay:                  no(),
		RunForCharger:                    no(),
		WorryAboutLosingPhone:            no(),
		TakePhoneToBathroom:              no(),
		UsePhoneInSocialGatherings:       no(),
		CheckPhoneWithoutNotification:    str(types.FrequencyNever),
		CheckPhoneBeforeSleepAfterWaking: no(),
		KeepPhoneNextToWhileSleeping:     no(),
		CheckEmailsCallsTextsDuringClass: no(),
		RelyOnPhoneInAwkwardSituations:   no(),
		OnPhoneWhileWatchingTvEating:     no(),
		PanicAttackIfPhoneLeftElsewhere:  no(),
		CheckPhoneWithSomeone:            no(),
		PhoneUseForPlayingGames:          &hours,
		LiveADayWithoutPhone:             str(types.AnswerYes),
		AddictedToPhone:                  no(),
	}
}

// highRiskAnswers answers every question in the most compulsive way
func highRiskAnswers() *types.PredictRequest {
	age := 65
	hours := 5.0
	yes := func() *string { return str(types.AnswerYes) }
	return &types.PredictRequest{
		Age:                              &age,
		Gender:                           str(types.GenderMale),
		UsePhoneForClassNotes:            yes(),
		BuyBooksFromPhone:                yes(),
		BatteryLastsDay:                  yes(),
		RunForCharger:                    yes(),
		WorryAboutLosingPhone:            yes(),
		TakePhoneToBathroom:              yes(),
		UsePhoneInSocialGatherings:       yes(),
		CheckPhoneWithoutNotification:    str(types.FrequencyOften),
		CheckPhoneBeforeSleepAfterWaking: yes(),
		KeepPhoneNextToWhileSleeping:     yes(),
		CheckEmailsCallsTextsDuringClass: yes(),
		RelyOnPhoneInAwkwardSituations:   yes(),
		OnPhoneWhileWatchingTvEating:     yes(),
		PanicAttackIfPhoneLeftElsewhere:  yes(),
		CheckPhoneWithSomeone:            yes(),
		PhoneUseForPlayingGames:          &hours,
		LiveADayWithoutPhone:             str(types.AnswerNo),
		AddictedToPhone:                  yes(),
	}
}

func TestEncodeAnswersLowRisk(t *testing.T) {
	fv, err := EncodeAnswers(lowRiskAnswers())
	require.NoError(t, err)

	assert.Len(t, fv, FeatureCount)
	assert.Equal(t, 18.0, fv[IdxAge])
	for i, x := range fv {
		if i == IdxAge {
			continue
		}
		assert.Zero(t, x, "feature %d", i)
	}
}

func TestEncodeAnswersHighRisk(t *testing.T) {
	fv, err := EncodeAnswers(highRiskAnswers())
	require.NoError(t, err)

	assert.Equal(t, 65.0, fv[IdxAge])
	assert.Equal(t, 5.0, fv[IdxGameHours])
	for i, x := range fv {
		if i == IdxAge || i == IdxGameHours {
			continue
		}
		assert.Equal(t, 1.0, x, "feature %d", i)
	}
}

func TestEncodeFrequency(t *testing.T) {
	tests := []struct {
		answer   string
		expected float64
	}{
		{types.FrequencyNever, 0},
		{types.FrequencyRarely, 0.33},
		{types.FrequencySometimes, 0.66},
		{types.FrequencyOften, 1},
		{"Always", 0},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			req := lowRiskAnswers()
			req.CheckPhoneWithoutNotification = str(tt.answer)

			fv, err := EncodeAnswers(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, fv[IdxCheckWithoutNotification])
		})
	}
}

func TestEncodeGenderAndInvertedAnswer(t *testing.T) {
	req := lowRiskAnswers()
	req.Gender = str("male")
	req.LiveADayWithoutPhone = str("Maybe")

	fv, err := EncodeAnswers(req)
	require.NoError(t, err)

	// only the exact literal counts as male
	assert.Zero(t, fv[IdxGender])
	// anything other than "Yes" means the respondent cannot go a day without it
	assert.Equal(t, 1.0, fv[IdxCannotLiveWithout])
}

func TestEncodeAnswersMissingField(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *types.PredictRequest)
		missing []string
	}{
		{
			name:    "age",
			mutate:  func(r *types.PredictRequest) { r.Age = nil },
			missing: []string{"age"},
		},
		{
			name:    "game hours",
			mutate:  func(r *types.PredictRequest) { r.PhoneUseForPlayingGames = nil },
			missing: []string{"phoneUseForPlayingGames"},
		},
		{
			name: "reported in vector order",
			mutate: func(r *types.PredictRequest) {
				r.AddictedToPhone = nil
				r.PhoneUseForPlayingGames = nil
				r.Gender = nil
			},
			missing: []string{"gender", "phoneUseForPlayingGames", "addictedToPhone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := lowRiskAnswers()
			tt.mutate(req)

			assert.Equal(t, tt.missing, MissingFields(req))

			_, err := EncodeAnswers(req)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.missing[0])
		})
	}
}

func TestEncodeAnswersNilRequest(t *testing.T) {
	_, err := EncodeAnswers(nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestEncodeAnswersLenient(t *testing.T) {
	t.Run("empty request uses defaults", func(t *testing.T) {
		fv := EncodeAnswersLenient(&types.PredictRequest{})

		assert.Equal(t, 25.0, fv[IdxAge])
		assert.Zero(t, fv[IdxGameHours])
		// a missing "can live without" answer reads as "cannot"
		assert.Equal(t, 1.0, fv[IdxCannotLiveWithout])
	})

	t.Run("nil request", func(t *testing.T) {
		assert.NotPanics(t, func() { EncodeAnswersLenient(nil) })
	})

	t.Run("complete request matches strict encoder", func(t *testing.T) {
		strict, err := EncodeAnswers(highRiskAnswers())
		require.NoError(t, err)
		assert.Equal(t, strict, EncodeAnswersLenient(highRiskAnswers()))
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		age       float64
		hours     float64
		wantAge   float64
		wantHours float64
	}{
		{"lower bound", 18, 0, 0, 0},
		{"upper bound", 65, 5, 1, 1},
		{"midpoint hours", 41.5, 2.5, 0.5, 0.5},
		{"below range is kept", 10, 0, -8.0 / 47, 0},
		{"above range is kept", 80, 10, 62.0 / 47, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fv FeatureVector
			fv[IdxAge] = tt.age
			fv[IdxGameHours] = tt.hours
			fv[IdxPanicIfLeft] = 1

			nv := Normalize(fv)
			assert.InDelta(t, tt.wantAge, nv[IdxAge], 1e-12)
			assert.InDelta(t, tt.wantHours, nv[IdxGameHours], 1e-12)
			assert.Equal(t, 1.0, nv[IdxPanicIfLeft])
		})
	}
}
