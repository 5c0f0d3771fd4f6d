package security

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/types"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	MaxInputLength int           `json:"max_input_length"`
	MaxBodyBytes   int64         `json:"max_body_bytes"`
	MaxAge         int           `json:"max_age"`
	MaxGameHours   float64       `json:"max_game_hours"`
	RequestTimeout time.Duration `json:"request_timeout"`
	EnableHSTS     bool          `json:"enable_hsts"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxInputLength: 32,
		MaxBodyBytes:   16 * 1024,
		MaxAge:         120,
		MaxGameHours:   24,
		RequestTimeout: 30 * time.Second,
	}
}

// SecurityMiddleware bundles request hardening for the API
type SecurityMiddleware struct {
	config SecurityConfig
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	defaults := DefaultSecurityConfig()
	if config.MaxInputLength <= 0 {
		config.MaxInputLength = defaults.MaxInputLength
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if config.MaxAge <= 0 {
		config.MaxAge = defaults.MaxAge
	}
	if config.MaxGameHours <= 0 {
		config.MaxGameHours = defaults.MaxGameHours
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaults.RequestTimeout
	}
	return &SecurityMiddleware{config: config}
}

// Config returns the effective configuration
func (sm *SecurityMiddleware) Config() SecurityConfig {
	return sm.config
}

// ValidateInput checks a single answer string
func (sm *SecurityMiddleware) ValidateInput(input string) error {
	if len(input) > sm.config.MaxInputLength {
		return fmt.Errorf("input exceeds maximum length of %d characters", sm.config.MaxInputLength)
	}

	// Check for null bytes (potential injection attempt)
	if strings.Contains(input, "\x00") {
		return fmt.Errorf("input contains invalid characters")
	}

	if !utf8.ValidString(input) {
		return fmt.Errorf("input contains invalid UTF-8 encoding")
	}

	return nil
}

var requestType = reflect.TypeOf(types.PredictRequest{})

// ValidatePredictRequest bounds the questionnaire before it reaches the encoder.
// Unknown answer values are not rejected here; the encoder scores them as 0.
func (sm *SecurityMiddleware) ValidatePredictRequest(req *types.PredictRequest) error {
	if req == nil {
		return nil
	}

	if req.Age != nil && (*req.Age < 0 || *req.Age > sm.config.MaxAge) {
		return errors.NewValidationError(fmt.Sprintf("age must be between 0 and %d", sm.config.MaxAge))
	}
	if req.PhoneUseForPlayingGames != nil {
		h := *req.PhoneUseForPlayingGames
		if math.IsNaN(h) || h < 0 || h > sm.config.MaxGameHours {
			return errors.NewValidationError(fmt.Sprintf("phoneUseForPlayingGames must be between 0 and %g", sm.config.MaxGameHours))
		}
	}

	v := reflect.ValueOf(req).Elem()
	for i := 0; i < v.NumField(); i++ {
		s, ok := v.Field(i).Interface().(*string)
		if !ok || s == nil {
			continue
		}
		if err := sm.ValidateInput(*s); err != nil {
			field := strings.Split(requestType.Field(i).Tag.Get("json"), ",")[0]
			return errors.NewValidationError(fmt.Sprintf("%s: %v", field, err))
		}
	}
	return nil
}

// ValidateContentType rejects request bodies that are not JSON
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
		c.Next()
		return
	}

	contentType := strings.ToLower(c.GetHeader("Content-Type"))
	if !strings.HasPrefix(contentType, "application/json") {
		c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, types.ErrorResponse{
			Error: "unsupported content type, expected application/json",
		})
		return
	}

	c.Next()
}

// LimitBody caps the request body size
func (sm *SecurityMiddleware) LimitBody(c *gin.Context) {
	if c.Request.ContentLength > sm.config.MaxBodyBytes {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{
			Error: fmt.Sprintf("request body exceeds %d bytes", sm.config.MaxBodyBytes),
		})
		return
	}
	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, sm.config.MaxBodyBytes)
	}
	c.Next()
}

// RequestTimeout enforces request timeout
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)

	// Set timeout header for client
	c.Header("X-Timeout", strconv.Itoa(int(sm.config.RequestTimeout.Seconds())))

	c.Next()
}

// SecurityHeaders adds security headers to responses
func (sm *SecurityMiddleware) SecurityHeaders() gin.HandlerFunc {
	return SecurityHeadersMiddleware(sm.config.EnableHSTS)
}
