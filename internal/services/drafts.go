package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"attesta/internal/models"
)

// DraftFields is the writable business payload of an attestation. The
// description arrives already packed (see internal/prestation).
type DraftFields struct {
	PrestataireNom       string
	PrestatairePrenom    string
	PrestataireAdresse   string
	PrestataireEmail     string
	PrestataireTelephone string
	PrestataireSiret     string

	ClientNom     string
	ClientAdresse string

	PrestationDescription string
	PrestationDateDebut   string
	PrestationDateFin     string
	PrestationMontant     decimal.Decimal
	PrestationLieu        string
}

func (f *DraftFields) applyDefaults() {
	if f.ClientNom == "" {
		f.ClientNom = DefaultClientNom
	}
	if f.ClientAdresse == "" {
		f.ClientAdresse = DefaultClientAdresse
	}
}

// UpsertDraft maintains the one-draft-per-token invariant: the existing
// draft row for the token is overwritten in place, or a new one inserted
// when none exists. The find-then-write pair runs inside a transaction;
// two near-simultaneous saves from the same session can still both insert
// on some stores, which the finalize cleanup step and the reconciliation
// job mop up.
func UpsertDraft(db *gorm.DB, tokenID, clientID string, f DraftFields) (*models.Attestation, error) {
	f.applyDefaults()

	var att models.Attestation
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("token_id = ? AND status = ?", tokenID, models.AttestationStatusDraft).
			First(&att).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			att = models.Attestation{
				TokenID:      tokenID,
				ClientID:     clientID,
				Status:       models.AttestationStatusDraft,
				PDFGenerated: false,
			}
			applyFields(&att, f)
			return tx.Create(&att).Error
		}
		applyFields(&att, f)
		return tx.Save(&att).Error
	})
	if err != nil {
		return nil, err
	}
	return &att, nil
}

// FindDraft returns the current draft for a token, or
// gorm.ErrRecordNotFound.
func FindDraft(db *gorm.DB, tokenID string) (*models.Attestation, error) {
	var att models.Attestation
	err := db.Where("token_id = ? AND status = ?", tokenID, models.AttestationStatusDraft).
		First(&att).Error
	if err != nil {
		return nil, err
	}
	return &att, nil
}

func applyFields(att *models.Attestation, f DraftFields) {
	att.PrestataireNom = f.PrestataireNom
	att.PrestatairePrenom = f.PrestatairePrenom
	att.PrestataireAdresse = f.PrestataireAdresse
	att.PrestataireEmail = f.PrestataireEmail
	att.PrestataireTelephone = f.PrestataireTelephone
	att.PrestataireSiret = f.PrestataireSiret
	att.ClientNom = f.ClientNom
	att.ClientAdresse = f.ClientAdresse
	att.PrestationDescription = f.PrestationDescription
	att.PrestationDateDebut = f.PrestationDateDebut
	att.PrestationDateFin = f.PrestationDateFin
	att.PrestationMontant = f.PrestationMontant
	att.PrestationLieu = f.PrestationLieu
}
