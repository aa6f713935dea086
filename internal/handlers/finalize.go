package handlers

import (
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"attesta/internal/notifications"
	"attesta/internal/services"
	"attesta/internal/services/mailer"
	"attesta/internal/services/storage"
)

type FinalizeRequest struct {
	TokenID         string          `json:"tokenId"`
	AttestationData AttestationData `json:"attestationData"`
	// PDFBase64 is a data-URL-prefixed base64 PDF payload rendered
	// client-side ("data:application/pdf;base64,...").
	PDFBase64 string `json:"pdfBase64"`
}

type FinalizeResponse struct {
	Success bool   `json:"success"`
	PDFURL  string `json:"pdfUrl,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func decodePDFDataURL(s string) ([]byte, error) {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[i+1:]
	}
	return base64.StdEncoding.DecodeString(s)
}

// FinalizeAttestation godoc
// @Summary Finalize an attestation
// @Description Persists the final form state, uploads the signed PDF, completes the draft in place, purges stray drafts and retires the token. The admin notification email is best-effort and never fails the request.
// @Tags attestation
// @Accept json
// @Produce json
// @Param input body FinalizeRequest true "token id + form data + rendered PDF"
// @Success 200 {object} FinalizeResponse
// @Failure 400 {object} FinalizeResponse
// @Failure 401 {object} FinalizeResponse
// @Failure 500 {object} FinalizeResponse
// @Router /finalize-attestation [post]
func FinalizeAttestation(db *gorm.DB, st storage.Storage, mail mailer.Mailer, adminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r FinalizeRequest
		if err := c.BindJSON(&r); err != nil || r.TokenID == "" {
			c.JSON(http.StatusBadRequest, FinalizeResponse{Success: false, Error: "invalid json"})
			return
		}
		pdf, err := decodePDFDataURL(r.PDFBase64)
		if err != nil || len(pdf) == 0 {
			c.JSON(http.StatusBadRequest, FinalizeResponse{Success: false, Error: "invalid pdf payload"})
			return
		}

		att, err := services.Finalize(c.Request.Context(), db, st, r.TokenID, toDraftFields(r.AttestationData), pdf)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCode), errors.Is(err, services.ErrTokenUsed):
				c.JSON(http.StatusUnauthorized, FinalizeResponse{Success: false, Error: "Code d'accès invalide ou déjà utilisé"})
			default:
				c.JSON(http.StatusInternalServerError, FinalizeResponse{Success: false, Error: err.Error()})
			}
			return
		}

		pdfURL := ""
		if att.PDFURL != nil {
			pdfURL = *att.PDFURL
		}

		// Side channel: notify the admin. The document is already produced
		// and stored, so failures here are logged only.
		if adminEmail != "" {
			name := strings.TrimSpace(att.PrestataireNom + " " + att.PrestatairePrenom)
			if err := mail.SendAttestation(adminEmail, name, pdfURL, pdf); err != nil {
				log.Printf("finalize %s: admin email failed: %v", r.TokenID, err)
			}
		}
		notifications.BroadcastFinalized(att)

		c.JSON(http.StatusOK, FinalizeResponse{
			Success: true,
			PDFURL:  pdfURL,
			Message: "Attestation finalisée avec succès",
		})
	}
}
