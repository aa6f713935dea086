package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"attesta/internal/utils"
)

type AttestationStatus string

const (
	AttestationStatusDraft     AttestationStatus = "draft"
	AttestationStatusCompleted AttestationStatus = "completed"
	// AttestationStatusSent is modeled for a future delivery flow; nothing
	// transitions into it today.
	AttestationStatusSent AttestationStatus = "sent"
)

type Attestation struct {
	ID       string `gorm:"primaryKey;size:21" json:"id"`
	TokenID  string `gorm:"size:21;index;not null" json:"token_id"`
	Token    Token  `gorm:"foreignKey:TokenID" json:"token"`
	ClientID string `gorm:"size:21;index;not null" json:"client_id"`
	Client   Client `gorm:"foreignKey:ClientID" json:"client"`

	PrestataireNom       string `gorm:"type:varchar(255)" json:"prestataire_nom"`
	PrestatairePrenom    string `gorm:"type:varchar(255)" json:"prestataire_prenom"`
	PrestataireAdresse   string `gorm:"type:text" json:"prestataire_adresse"`
	PrestataireEmail     string `gorm:"type:varchar(255)" json:"prestataire_email"`
	PrestataireTelephone string `gorm:"type:varchar(64)" json:"prestataire_telephone"`
	PrestataireSiret     string `gorm:"type:varchar(32)" json:"prestataire_siret"`

	ClientNom     string `gorm:"type:varchar(255)" json:"client_nom"`
	ClientAdresse string `gorm:"type:text" json:"client_adresse"`

	PrestationDescription string          `gorm:"type:text" json:"prestation_description"`
	PrestationDateDebut   string          `gorm:"type:varchar(10)" json:"prestation_date_debut"`
	PrestationDateFin     string          `gorm:"type:varchar(10)" json:"prestation_date_fin"`
	PrestationMontant     decimal.Decimal `gorm:"type:decimal(12,2)" json:"prestation_montant"`
	PrestationLieu        string          `gorm:"type:varchar(255)" json:"prestation_lieu"`

	Status           AttestationStatus `gorm:"type:varchar(10);not null;default:'draft';index" json:"status"`
	PDFGenerated     bool              `gorm:"not null;default:false" json:"pdf_generated"`
	PDFURL           *string           `gorm:"type:text" json:"pdf_url"`
	InvoiceProcessed bool              `gorm:"not null;default:false" json:"invoice_processed"`

	SentAt    *time.Time `json:"sent_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Attestation) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID, err = utils.GenerateNanoID()
	}
	return
}
