package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/analysis"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/config"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/monitoring"
)

func testConfig(t testing.TB) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Mode = gin.TestMode
	cfg.Storage.DataDir = t.TempDir()
	cfg.Storage.StoreAssessments = false
	cfg.RateLimit.PerMinute = 0
	return cfg
}

func newTestServer(t testing.TB, cfg *config.Config) (*server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := monitoring.NewLoggerWithWriter(io.Discard, slog.LevelError)
	s, err := newServer(context.Background(), cfg, logger, analysis.FixedSource(0.5))
	require.NoError(t, err)
	t.Cleanup(s.close)
	return s, s.router()
}

func setupRouter(t testing.TB) *gin.Engine {
	_, r := newTestServer(t, testConfig(t))
	return r
}

func lowRiskAnswers() map[string]interface{} {
	return map[string]interface{}{
		"age":                              18,
		"gender":                           "Female",
		"usePhoneForClassNotes":            "No",
		"buyBooksFromPhone":                "No",
		"batteryLastsDay":                  "No",
		"runForCharger":                    "No",
		"worryAboutLosingPhone":            "No",
		"takePhoneToBathroom":              "No",
		"usePhoneInSocialGatherings":       "No",
		"checkPhoneWithoutNotification":    "Never",
		"checkPhoneBeforeSleepAfterWaking": "No",
		"keepPhoneNextToWhileSleeping":     "No",
		"checkEmailsCallsTextsDuringClass": "No",
		"relyOnPhoneInAwkwardSituations":   "No",
		"onPhoneWhileWatchingTvEating":     "No",
		"panicAttackIfPhoneLeftElsewhere":  "No",
		"checkPhoneWithSomeone":            "No",
		"phoneUseForPlayingGames":          0,
		"liveADayWithoutPhone":             "Yes",
		"addictedToPhone":                  "No",
	}
}

func highRiskAnswers() map[string]interface{} {
	answers := lowRiskAnswers()
	for k, v := range answers {
		if v == "No" {
			answers[k] = "Yes"
		}
	}
	answers["age"] = 65
	answers["gender"] = "Male"
	answers["checkPhoneWithoutNotification"] = "Often"
	answers["phoneUseForPlayingGames"] = 5
	answers["liveADayWithoutPhone"] = "No"
	return answers
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		buf = bytes.NewBuffer(data)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeReport(t *testing.T, w *httptest.ResponseRecorder) predictResponse {
	t.Helper()
	var resp predictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestPredictEndpoint_ValidRequests(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		name               string
		answers            map[string]interface{}
		expectedPrediction analysis.Prediction
		expectedPercentage int
	}{
		{
			name:               "low risk questionnaire",
			answers:            lowRiskAnswers(),
			expectedPrediction: analysis.LowRisk,
			expectedPercentage: 14,
		},
		{
			name:               "high risk questionnaire",
			answers:            highRiskAnswers(),
			expectedPrediction: analysis.HighRisk,
			expectedPercentage: 87,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, "POST", "/predict", tt.answers)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			resp := decodeReport(t, w)
			require.Len(t, resp.Results, 5)

			names := make([]string, len(resp.Results))
			for i, res := range resp.Results {
				names[i] = res.Algorithm
				assert.GreaterOrEqual(t, res.AddictionPercentage, 0)
				assert.LessOrEqual(t, res.AddictionPercentage, 100)
			}
			assert.Equal(t, []string{"Decision Tree", "Random Forest", "SVM", "Logistic Regression", "Neural Network"}, names)

			assert.Equal(t, analysis.EnsembleName, resp.EnsembleResult.Algorithm)
			assert.Equal(t, tt.expectedPrediction, resp.EnsembleResult.Prediction)
			assert.Equal(t, tt.expectedPercentage, resp.EnsembleResult.AddictionPercentage)
			assert.Empty(t, resp.AssessmentID)
		})
	}
}

func TestPredictEndpoint_InvalidRequests(t *testing.T) {
	r := setupRouter(t)

	withoutAge := lowRiskAnswers()
	delete(withoutAge, "age")

	withoutGenderAndGames := lowRiskAnswers()
	delete(withoutGenderAndGames, "gender")
	delete(withoutGenderAndGames, "phoneUseForPlayingGames")

	wrongType := lowRiskAnswers()
	wrongType["age"] = "twenty"

	tooOld := lowRiskAnswers()
	tooOld["age"] = 500

	tests := []struct {
		name         string
		path         string
		body         interface{}
		expectedCode string
		errorMessage string
	}{
		{
			name:         "missing age",
			path:         "/predict",
			body:         withoutAge,
			expectedCode: "VALIDATION_ERROR",
			errorMessage: "missing required field: age",
		},
		{
			name:         "first missing field in vector order",
			path:         "/predict",
			body:         withoutGenderAndGames,
			expectedCode: "VALIDATION_ERROR",
			errorMessage: "missing required field: gender (and 1 more)",
		},
		{
			name:         "empty object",
			path:         "/predict",
			body:         map[string]interface{}{},
			expectedCode: "VALIDATION_ERROR",
			errorMessage: "missing required field: age",
		},
		{
			name:         "wrong field type",
			path:         "/predict",
			body:         wrongType,
			expectedCode: "VALIDATION_ERROR",
			errorMessage: "invalid JSON body",
		},
		{
			name:         "age out of range",
			path:         "/predict",
			body:         tooOld,
			expectedCode: "VALIDATION_ERROR",
			errorMessage: "age must be between",
		},
		{
			name:         "bad lenient flag",
			path:         "/predict?lenient=maybe",
			body:         lowRiskAnswers(),
			expectedCode: "VALIDATION_ERROR",
			errorMessage: "lenient must be true or false",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, "POST", tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedCode, body["code"])
			assert.Equal(t, "validation", body["category"])
			assert.Contains(t, body["error"], tt.errorMessage)
		})
	}
}

func TestPredictEndpoint_MissingFieldDetails(t *testing.T) {
	r := setupRouter(t)

	answers := lowRiskAnswers()
	delete(answers, "addictedToPhone")
	delete(answers, "checkPhoneWithSomeone")

	w := doJSON(r, "POST", "/predict", answers)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "checkPhoneWithSomeone")
	assert.Equal(t, map[string]string{"checkPhoneWithSomeone": "required", "addictedToPhone": "required"}, body.Details)
}

func TestPredictEndpoint_Lenient(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, "POST", "/predict?lenient=true", map[string]interface{}{"age": 30})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decodeReport(t, w).Results, 5)

	// a complete questionnaire scores the same either way
	strict := decodeReport(t, doJSON(r, "POST", "/predict", highRiskAnswers()))
	lenient := decodeReport(t, doJSON(r, "POST", "/predict?lenient=1", highRiskAnswers()))
	assert.Equal(t, strict.Report, lenient.Report)
}

func TestPredictEndpoint_MalformedBody(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		name           string
		contentType    string
		body           string
		expectedStatus int
	}{
		{"invalid JSON", "application/json", `{"age": 20,`, http.StatusBadRequest},
		{"JSON array", "application/json", `[1, 2, 3]`, http.StatusBadRequest},
		{"plain text", "text/plain", `age=20`, http.StatusUnsupportedMediaType},
		{"missing content type", "", `{}`, http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/predict", bytes.NewBufferString(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestPredictEndpoint_LargePayload(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.MaxBodyBytes = 1024
	_, r := newTestServer(t, cfg)

	answers := lowRiskAnswers()
	answers["padding"] = string(bytes.Repeat([]byte("x"), 2048))

	w := doJSON(r, "POST", "/predict", answers)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestPredictEndpoint_MethodNotAllowed(t *testing.T) {
	r := setupRouter(t)

	for _, method := range []string{"GET", "PUT", "DELETE"} {
		t.Run(method, func(t *testing.T) {
			w := doJSON(r, method, "/predict", nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestPredictEndpoint_Cache(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.TTL = "1m"
	s, r := newTestServer(t, cfg)

	first := doJSON(r, "POST", "/predict", highRiskAnswers())
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := doJSON(r, "POST", "/predict", highRiskAnswers())
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	// lenient requests are cached separately
	third := doJSON(r, "POST", "/predict?lenient=true", highRiskAnswers())
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))

	assert.Equal(t, 2, s.cache.Size())
}

func TestPredictEndpoint_CacheWithStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.TTL = "1m"
	cfg.Storage.StoreAssessments = true
	s, r := newTestServer(t, cfg)

	first := doJSON(r, "POST", "/predict", highRiskAnswers())
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := doJSON(r, "POST", "/predict", highRiskAnswers())
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))

	a, b := decodeReport(t, first), decodeReport(t, second)
	require.NotEmpty(t, a.AssessmentID)
	require.NotEmpty(t, b.AssessmentID)
	assert.NotEqual(t, a.AssessmentID, b.AssessmentID)
	assert.Equal(t, a.Report, b.Report)
	s.recorder.Wait()

	// each caller owns only its own outcome
	assert.Equal(t, http.StatusNoContent, doJSON(r, "DELETE", "/assessments/"+b.AssessmentID, nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(r, "GET", "/assessments/"+a.AssessmentID, nil).Code)

	// cached predictions are counted like fresh ones
	metrics := doJSON(r, "GET", "/metrics", nil)
	assert.Contains(t, metrics.Body.String(), `phonemeter_ensemble_predictions_total{prediction="High Risk"} 2`)
	assert.Contains(t, metrics.Body.String(), fmt.Sprintf(`phonemeter_algorithm_predictions_total{algorithm="Neural Network",prediction=%q} 2`, a.Results[4].Prediction))
}

func TestPredictEndpoint_CacheRescoresWeightedRandom(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.TTL = "1m"
	gin.SetMode(gin.TestMode)

	draws := make([]float64, 2*analysis.FeatureCount)
	for i := analysis.FeatureCount; i < len(draws); i++ {
		draws[i] = 1
	}
	logger := monitoring.NewLoggerWithWriter(io.Discard, slog.LevelError)
	s, err := newServer(context.Background(), cfg, logger, analysis.NewSequenceSource(draws...))
	require.NoError(t, err)
	t.Cleanup(s.close)
	r := s.router()

	// every draw of the first request is 0, every draw of the second is 1
	first := doJSON(r, "POST", "/predict", highRiskAnswers())
	second := doJSON(r, "POST", "/predict", highRiskAnswers())
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))

	a, b := decodeReport(t, first), decodeReport(t, second)
	assert.Equal(t, a.Results[:4], b.Results[:4])
	assert.Less(t, a.Results[4].AddictionPercentage, b.Results[4].AddictionPercentage)
}

func TestPredictEndpoint_RateLimited(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.PerMinute = 1
	cfg.RateLimit.BurstMultiplier = 1
	_, r := newTestServer(t, cfg)

	w := doJSON(r, "POST", "/predict", lowRiskAnswers())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = doJSON(r, "POST", "/predict", lowRiskAnswers())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body["code"])

	// health is never limited
	assert.Equal(t, http.StatusOK, doJSON(r, "GET", "/health", nil).Code)

	metrics := doJSON(r, "GET", "/metrics", nil)
	assert.Contains(t, metrics.Body.String(), `phonemeter_rate_limited_total{route="/predict"} 1`)
}

func TestAssessmentLifecycle(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.StoreAssessments = true
	s, r := newTestServer(t, cfg)

	w := doJSON(r, "POST", "/predict", highRiskAnswers())
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeReport(t, w)
	require.NotEmpty(t, resp.AssessmentID)
	s.recorder.Wait()

	w = doJSON(r, "GET", "/assessments/"+resp.AssessmentID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, "High Risk", stored["prediction"])
	assert.EqualValues(t, resp.EnsembleResult.AddictionPercentage, stored["addictionPercentage"])
	assert.NotContains(t, stored, "clientIpHash")
	assert.Len(t, stored["results"], 5)

	w = doJSON(r, "GET", "/assessments/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 1, stats["total"])
	assert.Equal(t, "all_time", stats["period"])
	assert.NotContains(t, stats, "periodStart")

	w = doJSON(r, "GET", "/assessments/stats?period=daily", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, "daily", stats["period"])
	assert.EqualValues(t, 1, stats["total"])
	assert.Contains(t, stats, "periodStart")

	w = doJSON(r, "GET", "/assessments/stats?period=yearly", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "DELETE", "/assessments/"+resp.AssessmentID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, "GET", "/assessments/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 0, stats["total"])

	w = doJSON(r, "GET", "/assessments/"+resp.AssessmentID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, "DELETE", "/assessments/"+resp.AssessmentID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, "GET", "/assessments/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssessmentEndpoints_StorageDisabled(t *testing.T) {
	r := setupRouter(t)

	assert.Equal(t, http.StatusNotFound, doJSON(r, "GET", "/assessments/stats", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, "GET", "/assessments/6f1c7c55-5a8e-4b43-9a55-0d3d8f7f3c11", nil).Code)

	w := doJSON(r, "GET", "/privacy", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"storage_enabled":false,"raw_answers_stored":false}`, w.Body.String())
}

func TestPrivacyEndpoint(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.StoreAssessments = true
	cfg.Storage.RetentionDays = 30
	_, r := newTestServer(t, cfg)

	w := doJSON(r, "GET", "/privacy", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["storage_enabled"])
	assert.Equal(t, false, body["raw_answers_stored"])
	assert.EqualValues(t, 30, body["assessment_retention_days"])
}

func TestServer_StatsAndMetrics(t *testing.T) {
	r := setupRouter(t)

	require.Equal(t, http.StatusOK, doJSON(r, "POST", "/predict", lowRiskAnswers()).Code)

	w := doJSON(r, "GET", "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Contains(t, stats, "metrics")
	assert.Contains(t, stats, "rate_limit")
	assert.Contains(t, stats, "memory")
	assert.Contains(t, stats, "compression")
	assert.NotContains(t, stats, "database")
	assert.NotContains(t, stats, "trends_cache")

	enc, ok := stats["encoding"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, enc["marshals"])

	w = doJSON(r, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `phonemeter_ensemble_predictions_total{prediction="Low Risk"} 1`)
	assert.Contains(t, body, `phonemeter_algorithm_predictions_total{algorithm="Decision Tree",prediction="Low Risk"} 1`)
	assert.Contains(t, body, "phonemeter_http_requests_total")
}

func TestPredict_Gzip(t *testing.T) {
	cfg := testConfig(t)
	cfg.Compression.MinSize = 64
	_, r := newTestServer(t, cfg)

	data, _ := json.Marshal(lowRiskAnswers())
	req, _ := http.NewRequest("POST", "/predict", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	var resp predictResponse
	require.NoError(t, json.NewDecoder(zr).Decode(&resp))
	assert.Equal(t, analysis.LowRisk, resp.EnsembleResult.Prediction)
	assert.Len(t, resp.Results, 5)

	// disabled compression leaves the body alone
	cfg = testConfig(t)
	cfg.Compression.Enabled = false
	_, r = newTestServer(t, cfg)
	req, _ = http.NewRequest("POST", "/predict", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, analysis.LowRisk, decodeReport(t, w).EnsembleResult.Prediction)
}

func TestServer_Headers(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("X-Request-ID", "req-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestServer_CORSPreflight(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.AllowedOrigins = []string{"https://quiz.example"}
	_, r := newTestServer(t, cfg)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("OPTIONS", "/predict", nil)
	req.Header.Set("Origin", "https://quiz.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://quiz.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("OPTIONS", "/predict", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_SwaggerDocument(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, "GET", "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/predict"`)
	assert.Contains(t, w.Body.String(), "Phone Addiction-o-Meter API")
	assert.Contains(t, w.Body.String(), "age is outside 0..120, gameHours is outside 0..24")
}

func TestServer_ConcurrentRequests(t *testing.T) {
	r := setupRouter(t)

	const workers = 20
	var wg sync.WaitGroup
	codes := make([]int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			answers := lowRiskAnswers()
			if i%2 == 0 {
				answers = highRiskAnswers()
			}
			codes[i] = doJSON(r, "POST", "/predict", answers).Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "request %d", i)
	}
}
