package main

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/analysis"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/cache"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/database"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/trends"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/types"
)

// predictResponse is the body of a successful prediction
type predictResponse struct {
	analysis.Report
	AssessmentID string `json:"assessmentId,omitempty"`
}

const jsonContentType = "application/json; charset=utf-8"

func pipelineMode(lenient bool) string {
	if lenient {
		return "lenient"
	}
	return "strict"
}

func (s *server) rejectInvalid(c *gin.Context, appErr *errors.AppError) {
	s.metrics.IncrementValidationFailure()
	errors.Respond(c, appErr)
}

// handlePredict scores a questionnaire
// @Summary      Score a questionnaire
// @Description  Encodes the answers, runs the five scoring algorithms and returns every verdict plus the ensemble.
// @Description  Requests are rejected with 400 when age is outside 0..120, gameHours is outside 0..24 or not a number,
// @Description  or a text answer is longer than 32 bytes.
// @Tags         prediction
// @Accept       json
// @Produce      json
// @Param        lenient  query     bool                  false  "substitute defaults for missing answers"
// @Param        request  body      types.PredictRequest  true   "questionnaire answers"
// @Success      200      {object}  predictResponse
// @Failure      400      {object}  errors.AppError
// @Failure      429      {object}  errors.AppError
// @Failure      500      {object}  errors.AppError
// @Router       /predict [post]
func (s *server) handlePredict(c *gin.Context) {
	start := time.Now()

	lenient := false
	if q := c.Query("lenient"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			s.rejectInvalid(c, errors.NewValidationError("lenient must be true or false"))
			return
		}
		lenient = v
	}

	var req types.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.rejectInvalid(c, errors.NewValidationError("invalid JSON body", err.Error()))
		return
	}
	if err := s.security.ValidatePredictRequest(&req); err != nil {
		s.rejectInvalid(c, errors.ToAppError(err))
		return
	}

	var fv analysis.FeatureVector
	if lenient {
		fv = analysis.EncodeAnswersLenient(&req)
	} else {
		var err error
		if fv, err = analysis.EncodeAnswers(&req); err != nil {
			s.rejectInvalid(c, errors.ToAppError(err))
			return
		}
	}
	nv := analysis.Normalize(fv)

	var (
		key   string
		known []analysis.AlgorithmResult
		hit   bool
	)
	if s.cache != nil {
		key = cache.Key(pipelineMode(lenient), nv[:])
		known, hit = s.cachedResults(key)
	}

	report, err := s.analyzer.EvaluateWith(c.Request.Context(), nv, known)
	if err != nil {
		errors.Respond(c, errors.ToAppError(err))
		return
	}
	s.observe(report, lenient)

	resp := predictResponse{Report: report}
	if s.recorder != nil {
		resp.AssessmentID = s.persist(c, report, lenient)
	}

	body, err := s.encoder.Marshal(resp)
	if err != nil {
		errors.Respond(c, errors.NewInternalError("failed to encode prediction", err))
		return
	}

	if s.cache != nil {
		if hit {
			c.Header("X-Cache", "HIT")
		} else {
			s.cacheResults(key, report)
			c.Header("X-Cache", "MISS")
		}
	}

	ensemble := report.EnsembleResult
	s.logger.PredictionLogger(string(ensemble.Prediction), ensemble.AddictionPercentage, ensemble.Confidence, lenient, time.Since(start), hit)

	c.Data(http.StatusOK, jsonContentType, body)
}

// cachedResults returns the deterministic algorithm results stored under key.
// Only scores are cached; assessment IDs are minted per request.
func (s *server) cachedResults(key string) ([]analysis.AlgorithmResult, bool) {
	data, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}

	var results []analysis.AlgorithmResult
	if err := json.Unmarshal(data, &results); err != nil {
		s.logger.Error("Failed to decode cached results", "error", err, "key", key)
		s.cache.Delete(key)
		return nil, false
	}
	s.logger.CacheLogger("get", key, true, s.cache.Size())
	return results, true
}

func (s *server) cacheResults(key string, report analysis.Report) {
	data, err := s.encoder.Marshal(s.analyzer.Reusable(report))
	if err != nil {
		s.logger.Error("Failed to encode results for cache", "error", err)
		return
	}
	s.cache.Set(key, data)
}

func (s *server) observe(report analysis.Report, lenient bool) {
	for _, r := range report.Results {
		s.collectors.ObserveAlgorithm(r.Algorithm, string(r.Prediction))
	}
	ensemble := report.EnsembleResult
	s.collectors.ObserveEnsemble(string(ensemble.Prediction), ensemble.AddictionPercentage)
	s.metrics.RecordPrediction(string(ensemble.Prediction), lenient)
}

// persist queues the outcome for storage and returns its ID. Raw answers are never stored.
func (s *server) persist(c *gin.Context, report analysis.Report, lenient bool) string {
	results, err := s.encoder.Marshal(report.Results)
	if err != nil {
		s.logger.Error("Failed to encode algorithm results", "error", err)
		return ""
	}

	ensemble := report.EnsembleResult
	a := database.NewAssessment(
		string(ensemble.Prediction),
		ensemble.AddictionPercentage,
		ensemble.Confidence,
		ensemble.Accuracy,
		lenient,
		results,
		s.privacy.HashIP(c.ClientIP()),
	)
	s.recorder.RecordAsync(a)
	return a.ID
}

// handleHealth reports service health
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (s *server) handleHealth(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	components := gin.H{
		"algorithms": len(s.analyzer.Algorithms()),
		"cache":      s.cache != nil,
		"database":   "disabled",
		"redis":      "disabled",
	}

	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			components["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			components["database"] = "ok"
		}
	}

	// the limiter falls back to memory, so redis never degrades health
	if s.redis.IsEnabled() {
		if err := s.redis.HealthCheck(ctx); err != nil {
			components["redis"] = "unavailable"
		} else {
			components["redis"] = "ok"
		}
	}

	health := "healthy"
	if status != http.StatusOK {
		health = "degraded"
	}

	c.JSON(status, gin.H{
		"status":     health,
		"timestamp":  time.Now().Format(time.RFC3339),
		"version":    version,
		"uptime":     time.Since(s.started).Round(time.Second).String(),
		"components": components,
	})
}

// handleStats returns in-process metrics
// @Summary      Service statistics
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /stats [get]
func (s *server) handleStats(c *gin.Context) {
	stats := gin.H{
		"metrics":    s.metrics.GetStats(),
		"rate_limit": s.limiter.GetStats(),
		"redis":      s.redis.GetPoolStats(),
		"encoding":   s.encoder.GetStats(),
		"memory":     s.memory.Sample(),
		"timestamp":  time.Now().Format(time.RFC3339),
	}
	if s.cache != nil {
		stats["cache"] = s.cache.Stats()
	}
	if s.db != nil {
		stats["database"] = s.db.GetPoolStats()
	}
	if s.compressor != nil {
		stats["compression"] = s.compressor.GetStats()
	}
	if s.trends != nil {
		stats["trends_cache"] = s.trends.Stats()
	}
	c.JSON(http.StatusOK, stats)
}

// handlePrivacy describes what the service keeps
// @Summary      Data retention policy
// @Tags         privacy
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /privacy [get]
func (s *server) handlePrivacy(c *gin.Context) {
	if s.privacy == nil {
		c.JSON(http.StatusOK, gin.H{
			"storage_enabled":    false,
			"raw_answers_stored": false,
		})
		return
	}

	info := s.privacy.GetDataRetentionInfo()
	info["storage_enabled"] = true
	c.JSON(http.StatusOK, info)
}

func (s *server) assessmentID(c *gin.Context) (string, bool) {
	if s.repo == nil {
		errors.Respond(c, errors.NewNotFoundError("assessment"))
		return "", false
	}
	id := c.Param("id")
	if !database.ValidID(id) {
		s.rejectInvalid(c, errors.NewValidationError("invalid assessment id"))
		return "", false
	}
	return id, true
}

func storageError(err error, message string) *errors.AppError {
	if stderrors.Is(err, database.ErrNotFound) {
		return errors.NewNotFoundError("assessment")
	}
	return errors.NewInternalError(message, err)
}

// handleGetAssessment returns a stored outcome
// @Summary      Get a stored assessment
// @Tags         assessments
// @Produce      json
// @Param        id   path      string  true  "assessment id"
// @Success      200  {object}  database.Assessment
// @Failure      400  {object}  errors.AppError
// @Failure      404  {object}  errors.AppError
// @Router       /assessments/{id} [get]
func (s *server) handleGetAssessment(c *gin.Context) {
	id, ok := s.assessmentID(c)
	if !ok {
		return
	}

	a, err := s.repo.GetAssessment(c.Request.Context(), id)
	if err != nil {
		errors.Respond(c, storageError(err, "failed to load assessment"))
		return
	}
	c.JSON(http.StatusOK, a)
}

// handleDeleteAssessment erases a stored outcome
// @Summary      Delete a stored assessment
// @Tags         assessments
// @Param        id   path  string  true  "assessment id"
// @Success      204
// @Failure      400  {object}  errors.AppError
// @Failure      404  {object}  errors.AppError
// @Router       /assessments/{id} [delete]
func (s *server) handleDeleteAssessment(c *gin.Context) {
	id, ok := s.assessmentID(c)
	if !ok {
		return
	}

	if err := s.privacy.DeleteAssessment(c.Request.Context(), id); err != nil {
		errors.Respond(c, storageError(err, "failed to delete assessment"))
		return
	}
	s.trends.Invalidate()
	c.Status(http.StatusNoContent)
}

// handleAssessmentStats aggregates stored outcomes over a trailing period
// @Summary      Assessment statistics
// @Tags         assessments
// @Produce      json
// @Param        period  query     string  false  "daily, weekly, monthly or all_time"
// @Success      200     {object}  trends.Response
// @Failure      400     {object}  errors.AppError
// @Failure      404     {object}  errors.AppError
// @Router       /assessments/stats [get]
func (s *server) handleAssessmentStats(c *gin.Context) {
	if s.trends == nil {
		errors.Respond(c, errors.NewNotFoundError("assessment storage"))
		return
	}

	period, err := trends.ParsePeriod(c.Query("period"))
	if err != nil {
		errors.Respond(c, errors.ToAppError(err))
		return
	}

	stats, err := s.trends.GetStats(c.Request.Context(), period)
	if err != nil {
		errors.Respond(c, errors.NewInternalError("failed to aggregate assessments", err))
		return
	}
	c.JSON(http.StatusOK, stats)
}
