package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"attesta/internal/models"
	"attesta/internal/services"
)

type VerifyCodeRequest struct {
	Code string `json:"code"`
}

type VerifyCodeResponse struct {
	Valid     bool          `json:"valid"`
	TokenData *models.Token `json:"tokenData,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// VerifyCode godoc
// @Summary Redeem an access code
// @Description Looks up an unused access code and returns the token with its owning client. The token stays unused until finalization.
// @Tags attestation
// @Accept json
// @Produce json
// @Param input body VerifyCodeRequest true "access code"
// @Success 200 {object} VerifyCodeResponse
// @Failure 401 {object} VerifyCodeResponse
// @Router /verify-code [post]
func VerifyCode(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r VerifyCodeRequest
		if err := c.BindJSON(&r); err != nil || r.Code == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
			return
		}
		token, err := services.RedeemToken(db, r.Code)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCode):
				c.JSON(http.StatusUnauthorized, VerifyCodeResponse{Valid: false, Error: "Code d'accès invalide ou déjà utilisé"})
			case errors.Is(err, services.ErrExpiredCode):
				c.JSON(http.StatusUnauthorized, VerifyCodeResponse{Valid: false, Error: "Code d'accès expiré"})
			default:
				c.JSON(http.StatusInternalServerError, VerifyCodeResponse{Valid: false, Error: "Erreur lors de la vérification"})
			}
			return
		}
		c.JSON(http.StatusOK, VerifyCodeResponse{Valid: true, TokenData: token})
	}
}
