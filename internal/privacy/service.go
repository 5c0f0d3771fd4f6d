package privacy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/database"
)

// PrivacyService anonymizes client data and enforces assessment retention
type PrivacyService struct {
	repo          *database.Repository
	salt          string
	retentionDays int
}

// NewService creates a new privacy service. retentionDays of zero keeps assessments forever.
func NewService(repo *database.Repository, salt string, retentionDays int) *PrivacyService {
	return &PrivacyService{repo: repo, salt: salt, retentionDays: retentionDays}
}

// HashIP returns a salted SHA-256 of the client address so raw IPs are never stored
func (ps *PrivacyService) HashIP(ip string) string {
	if ip == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(ps.salt + ip))
	return hex.EncodeToString(hash[:])
}

// DeleteAssessment removes a stored assessment on request of its owner
func (ps *PrivacyService) DeleteAssessment(ctx context.Context, id string) error {
	if err := ps.repo.DeleteAssessment(ctx, id); err != nil {
		return err
	}
	slog.Info("Assessment deleted on request", "assessment_id", id)
	return nil
}

// ApplyRetention deletes assessments older than the retention period
func (ps *PrivacyService) ApplyRetention(ctx context.Context, now time.Time) (int64, error) {
	if ps.retentionDays <= 0 {
		return 0, nil
	}

	cutoff := now.AddDate(0, 0, -ps.retentionDays)
	deleted, err := ps.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		slog.Info("Retention cleanup completed", "cutoff", cutoff.Format(time.RFC3339), "assessments_deleted", deleted)
	}
	return deleted, nil
}

// RunRetention applies retention every interval until ctx is cancelled
func (ps *PrivacyService) RunRetention(ctx context.Context, interval time.Duration) {
	if ps.retentionDays <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := ps.ApplyRetention(ctx, time.Now()); err != nil {
			slog.Warn("Retention cleanup failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// GetDataRetentionInfo describes what is stored and for how long
func (ps *PrivacyService) GetDataRetentionInfo() map[string]interface{} {
	return map[string]interface{}{
		"stored_fields":             []string{"prediction", "addictionPercentage", "confidence", "accuracy", "results", "createdAt"},
		"raw_answers_stored":        false,
		"client_ip":                 "salted SHA-256 hash",
		"assessment_retention_days": ps.retentionDays,
		"deletion":                  "DELETE /assessments/{id}",
	}
}
