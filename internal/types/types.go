package types

// PredictRequest represents the questionnaire submitted to the predict endpoint.
// Every field is a pointer so that an absent key can be told apart from a zero value.
type PredictRequest struct {
	Age                              *int     `json:"age" yaml:"age"`
	Gender                           *string  `json:"gender" yaml:"gender"`
	UsePhoneForClassNotes            *string  `json:"usePhoneForClassNotes" yaml:"usePhoneForClassNotes"`
	BuyBooksFromPhone                *string  `json:"buyBooksFromPhone" yaml:"buyBooksFromPhone"`
	BatteryLastsDay                  *string  `json:"batteryLastsDay" yaml:"batteryLastsDay"`
	RunForCharger                    *string  `json:"runForCharger" yaml:"runForCharger"`
	WorryAboutLosingPhone            *string  `json:"worryAboutLosingPhone" yaml:"worryAboutLosingPhone"`
	TakePhoneToBathroom              *string  `json:"takePhoneToBathroom" yaml:"takePhoneToBathroom"`
	UsePhoneInSocialGatherings       *string  `json:"usePhoneInSocialGatherings" yaml:"usePhoneInSocialGatherings"`
	CheckPhoneWithoutNotification    *string  `json:"checkPhoneWithoutNotification" yaml:"checkPhoneWithoutNotification"`
	CheckPhoneBeforeSleepAfterWaking *string  `json:"checkPhoneBeforeSleepAfterWaking" yaml:"checkPhoneBeforeSleepAfterWaking"`
	KeepPhoneNextToWhileSleeping     *string  `json:"keepPhoneNextToWhileSleeping" yaml:"keepPhoneNextToWhileSleeping"`
	CheckEmailsCallsTextsDuringClass *string  `json:"checkEmailsCallsTextsDuringClass" yaml:"checkEmailsCallsTextsDuringClass"`
	RelyOnPhoneInAwkwardSituations   *string  `json:"relyOnPhoneInAwkwardSituations" yaml:"relyOnPhoneInAwkwardSituations"`
	OnPhoneWhileWatchingTvEating     *string  `json:"onPhoneWhileWatchingTvEating" yaml:"onPhoneWhileWatchingTvEating"`
	PanicAttackIfPhoneLeftElsewhere  *string  `json:"panicAttackIfPhoneLeftElsewhere" yaml:"panicAttackIfPhoneLeftElsewhere"`
	CheckPhoneWithSomeone            *string  `json:"checkPhoneWithSomeone" yaml:"checkPhoneWithSomeone"`
	PhoneUseForPlayingGames          *float64 `json:"phoneUseForPlayingGames" yaml:"phoneUseForPlayingGames"`
	LiveADayWithoutPhone             *string  `json:"liveADayWithoutPhone" yaml:"liveADayWithoutPhone"`
	AddictedToPhone                  *string  `json:"addictedToPhone" yaml:"addictedToPhone"`
}

// Answer values accepted by the questionnaire
const (
	AnswerYes = "Yes"
	AnswerNo  = "No"

	GenderMale = "Male"

	FrequencyNever     = "Never"
	FrequencyRarely    = "Rarely"
	FrequencySometimes = "Sometimes"
	FrequencyOften     = "Often"
)

// ErrorResponse is the minimal error body returned outside the AppError path
type ErrorResponse struct {
	Error string `json:"error"`
}
