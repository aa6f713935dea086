package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"attesta/internal/models"
	"attesta/internal/services/storage"
)

// Finalize turns the draft for a token into a completed, PDF-backed
// attestation. Steps run strictly in order; a failure before the record is
// completed aborts everything and leaves the token unused and the draft
// intact so the client can retry. Completing the row, purging stray
// drafts and retiring the token commit together.
func Finalize(ctx context.Context, db *gorm.DB, st storage.Storage, tokenID string, f DraftFields, pdf []byte) (*models.Attestation, error) {
	var token models.Token
	if err := db.Where("id = ?", tokenID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}
	if token.Used {
		// Retry after a partial failure between completion and retirement:
		// hand back the already-produced document instead of re-uploading.
		var done models.Attestation
		err := db.Where("token_id = ? AND status = ?", tokenID, models.AttestationStatusCompleted).
			First(&done).Error
		if err == nil && done.PDFURL != nil {
			return &done, nil
		}
		return nil, ErrTokenUsed
	}

	// 1. Persist the latest form state; auto-save may be lagging behind.
	if _, err := UpsertDraft(db, tokenID, token.ClientID, f); err != nil {
		return nil, err
	}

	// 2. Upload the rendered document. Timestamp suffix avoids collisions.
	objectName := fmt.Sprintf("attestation_%s_%d.pdf", tokenID, time.Now().UnixMilli())
	if _, err := st.Upload(ctx, objectName, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	// 3. Publicly resolvable URL for the stored object.
	pdfURL := st.PublicURL(objectName)

	// 4-6. Complete the draft in place (insert fresh if no draft survived,
	// which should not happen since the upsert above just wrote one), purge
	// stray duplicate drafts left by racing saves, and retire the token.
	// One transaction, so a completed attestation and a live token can
	// never coexist. The uploaded object is orphaned on rollback, which is
	// harmless.
	now := time.Now()
	var att models.Attestation
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("token_id = ? AND status = ?", tokenID, models.AttestationStatusDraft).
			First(&att).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			att = models.Attestation{
				TokenID:  tokenID,
				ClientID: token.ClientID,
			}
		}
		f.applyDefaults()
		applyFields(&att, f)
		att.Status = models.AttestationStatusCompleted
		att.PDFGenerated = true
		att.PDFURL = &pdfURL
		att.SentAt = &now
		if att.ID == "" {
			if err := tx.Create(&att).Error; err != nil {
				return err
			}
		} else if err := tx.Save(&att).Error; err != nil {
			return err
		}

		if err := tx.Where("token_id = ? AND status = ? AND id <> ?",
			tokenID, models.AttestationStatusDraft, att.ID).
			Delete(&models.Attestation{}).Error; err != nil {
			return err
		}

		return MarkTokenUsed(tx, tokenID)
	})
	if err != nil {
		return nil, err
	}

	return &att, nil
}
