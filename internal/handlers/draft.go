package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"attesta/internal/models"
	"attesta/internal/prestation"
	"attesta/internal/services"
)

// AttestationData is the form payload shared by draft saves and
// finalization. Field names mirror the multi-step form.
type AttestationData struct {
	Nom              string           `json:"nom"`
	Prenom           string           `json:"prenom"`
	Adresse          string           `json:"adresse"`
	Email            string           `json:"email"`
	Telephone        string           `json:"telephone"`
	Siret            string           `json:"siret"`
	TypePrestation   string           `json:"type_prestation"`
	Evenement        string           `json:"evenement"`
	Lots             []prestation.Lot `json:"lots"`
	AutresPrecisions string           `json:"autres_precisions"`
	Prix             string           `json:"prix"`
	Ville            string           `json:"ville"`
	Date             string           `json:"date"`
}

type SaveDraftRequest struct {
	TokenID string          `json:"tokenId"`
	Data    AttestationData `json:"attestationData"`
}

type DraftResponse struct {
	Attestation *models.Attestation `json:"attestation"`
	Data        AttestationData     `json:"attestationData"`
}

// toDraftFields packs the structured form payload into the persisted
// column layout.
func toDraftFields(d AttestationData) services.DraftFields {
	details := prestation.Details{
		Precisions: d.AutresPrecisions,
	}
	if d.TypePrestation == "evenement_sportif" {
		details.EventName = d.Evenement
		details.Lots = d.Lots
	}

	montant, err := decimal.NewFromString(d.Prix)
	if err != nil {
		montant = decimal.Zero
	}

	date := d.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	return services.DraftFields{
		PrestataireNom:        d.Nom,
		PrestatairePrenom:     d.Prenom,
		PrestataireAdresse:    d.Adresse,
		PrestataireEmail:      d.Email,
		PrestataireTelephone:  d.Telephone,
		PrestataireSiret:      d.Siret,
		PrestationDescription: prestation.Pack(details),
		PrestationDateDebut:   date,
		PrestationDateFin:     date,
		PrestationMontant:     montant,
		PrestationLieu:        d.Ville,
	}
}

// fromAttestation is the inverse of toDraftFields: it rebuilds the form
// payload from a stored row so a draft can be re-edited.
func fromAttestation(att *models.Attestation) AttestationData {
	details := prestation.Parse(att.PrestationDescription)
	typePrestation := "autre"
	if len(details.Lots) > 0 {
		typePrestation = "evenement_sportif"
	}
	prix := ""
	if !att.PrestationMontant.IsZero() {
		prix = att.PrestationMontant.String()
	}
	return AttestationData{
		Nom:              att.PrestataireNom,
		Prenom:           att.PrestatairePrenom,
		Adresse:          att.PrestataireAdresse,
		Email:            att.PrestataireEmail,
		Telephone:        att.PrestataireTelephone,
		Siret:            att.PrestataireSiret,
		TypePrestation:   typePrestation,
		Evenement:        details.EventName,
		Lots:             details.Lots,
		AutresPrecisions: details.Precisions,
		Prix:             prix,
		Ville:            att.PrestationLieu,
		Date:             att.PrestationDateDebut,
	}
}

// requireValidToken loads a token and rejects the request when it can no
// longer authorize draft edits.
func requireValidToken(c *gin.Context, db *gorm.DB, tokenID string) (*models.Token, bool) {
	var token models.Token
	if err := db.Preload("Client").Where("id = ?", tokenID).First(&token).Error; err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Code d'accès invalide ou déjà utilisé"})
		return nil, false
	}
	if token.Used {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Code d'accès invalide ou déjà utilisé"})
		return nil, false
	}
	if token.ExpiresAt.Before(time.Now()) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Code d'accès expiré"})
		return nil, false
	}
	return &token, true
}

// GetDraft godoc
// @Summary Load the draft for a token
// @Description Returns the draft attestation with the packed description parsed back into form fields.
// @Tags attestation
// @Produce json
// @Param tokenID path string true "token id"
// @Success 200 {object} DraftResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /attestations/draft/{tokenID} [get]
func GetDraft(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenID := c.Param("tokenID")
		if _, ok := requireValidToken(c, db, tokenID); !ok {
			return
		}
		att, err := services.FindDraft(db, tokenID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, ErrorResponse{Error: "no draft"})
				return
			}
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, DraftResponse{Attestation: att, Data: fromAttestation(att)})
	}
}

// SaveDraft godoc
// @Summary Save (upsert) the draft for a token
// @Description Called by the 3-second auto-save and by explicit step-navigation saves. The draft row for the token is overwritten in place; last write wins.
// @Tags attestation
// @Accept json
// @Produce json
// @Param input body SaveDraftRequest true "token id + form data"
// @Success 200 {object} models.Attestation
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /attestations/draft [put]
func SaveDraft(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r SaveDraftRequest
		if err := c.BindJSON(&r); err != nil || r.TokenID == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
			return
		}
		token, ok := requireValidToken(c, db, r.TokenID)
		if !ok {
			return
		}
		att, err := services.UpsertDraft(db, token.ID, token.ClientID, toDraftFields(r.Data))
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, att)
	}
}
