package services

import (
	"time"

	"gorm.io/gorm"

	"attesta/internal/models"
	"attesta/internal/utils"
)

const (
	// DefaultClientNom and DefaultClientAdresse identify the service buyer
	// printed on every attestation.
	DefaultClientNom     = "TGZ Conciergerie"
	DefaultClientAdresse = "4 rue de sontay, 75116 Paris"

	draftPlaceholder = "À compléter par le client"
)

// IssueToken creates a new single-use access code for a client, plus the
// initial empty draft attestation the client will fill in. Fails with
// ErrActiveTokenExists while an unused, unexpired token is outstanding.
func IssueToken(db *gorm.DB, clientID string, ttlDays int) (*models.Token, error) {
	var count int64
	if err := db.Model(&models.Token{}).
		Where("client_id = ? AND used = ? AND expires_at > ?", clientID, false, time.Now()).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrActiveTokenExists
	}

	code, err := utils.GenerateAccessCode()
	if err != nil {
		return nil, err
	}
	token := models.Token{
		Token:     code,
		ClientID:  clientID,
		Type:      models.TokenTypePrestation,
		Used:      false,
		ExpiresAt: time.Now().AddDate(0, 0, ttlDays),
	}
	if err := db.Create(&token).Error; err != nil {
		return nil, err
	}

	// Pre-create the draft so the reconciliation job and the admin pending
	// list see it immediately, even before the client's first save.
	today := time.Now().Format("2006-01-02")
	if _, err := UpsertDraft(db, token.ID, clientID, DraftFields{
		ClientNom:             DefaultClientNom,
		ClientAdresse:         DefaultClientAdresse,
		PrestationDescription: draftPlaceholder,
		PrestationDateDebut:   today,
		PrestationDateFin:     today,
	}); err != nil {
		return nil, err
	}

	return &token, nil
}

// RedeemToken looks a code up for a client starting the form. The token is
// not consumed here; it stays unused until finalization.
func RedeemToken(db *gorm.DB, code string) (*models.Token, error) {
	var token models.Token
	err := db.Preload("Client").
		Where("token = ? AND used = ?", code, false).
		First(&token).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidCode
		}
		return nil, err
	}
	if token.ExpiresAt.Before(time.Now()) {
		return nil, ErrExpiredCode
	}
	return &token, nil
}

// MarkTokenUsed retires a token. Called exactly once per successful
// finalization; setting used twice is harmless.
func MarkTokenUsed(db *gorm.DB, tokenID string) error {
	now := time.Now()
	return db.Model(&models.Token{}).
		Where("id = ?", tokenID).
		Updates(map[string]any{"used": true, "used_at": now}).Error
}
