package services

import (
	"time"

	"gorm.io/gorm"

	"attesta/internal/models"
)

// CleanupDrafts garbage-collects draft attestations whose token can no
// longer be completed (used or expired). Runs on every admin dashboard
// load. When no valid token remains, every draft goes: "not in the empty
// set" matches everything.
func CleanupDrafts(db *gorm.DB) (int64, error) {
	var validIDs []string
	if err := db.Model(&models.Token{}).
		Where("used = ? AND expires_at > ?", false, time.Now()).
		Pluck("id", &validIDs).Error; err != nil {
		return 0, err
	}

	q := db.Where("status = ?", models.AttestationStatusDraft)
	if len(validIDs) > 0 {
		q = q.Where("token_id NOT IN ?", validIDs)
	}
	res := q.Delete(&models.Attestation{})
	return res.RowsAffected, res.Error
}
