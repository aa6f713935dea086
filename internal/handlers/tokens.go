package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"attesta/internal/models"
	"attesta/internal/services"
	"attesta/internal/services/mailer"
)

type IssueTokenResponse struct {
	Token *models.Token `json:"token"`
	Code  string        `json:"code"`
}

type WhatsAppLinkResponse struct {
	URL  string `json:"url"`
	Code string `json:"code"`
}

// IssueToken godoc
// @Summary Issue an access code for a client
// @Description Creates a fresh single-use access code. A client may hold at most one active code; issuing while one exists returns 409.
// @Tags admin
// @Produce json
// @Param id path string true "client id"
// @Success 200 {object} IssueTokenResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/clients/{id}/tokens [post]
func IssueToken(db *gorm.DB, ttlDays int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var client models.Client
		if err := db.Where("id = ?", c.Param("id")).First(&client).Error; err != nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "client not found"})
			return
		}
		token, err := services.IssueToken(db, client.ID, ttlDays)
		if err != nil {
			if errors.Is(err, services.ErrActiveTokenExists) {
				c.JSON(http.StatusConflict, ErrorResponse{Error: "client already has an active code"})
				return
			}
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, IssueTokenResponse{Token: token, Code: token.Token})
	}
}

// TokenHistory godoc
// @Summary List all codes ever issued for a client
// @Tags admin
// @Produce json
// @Param id path string true "client id"
// @Success 200 {array} models.Token
// @Failure 404 {object} ErrorResponse
// @Router /admin/clients/{id}/tokens [get]
func TokenHistory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var client models.Client
		if err := db.Where("id = ?", c.Param("id")).First(&client).Error; err != nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "client not found"})
			return
		}
		var tokens []models.Token
		if err := db.Where("client_id = ?", client.ID).
			Order("created_at DESC").Find(&tokens).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, tokens)
	}
}

// activeTokenFor fetches the client's current active code, 404ing through
// the handlers when there is none.
func activeTokenFor(c *gin.Context, db *gorm.DB) (*models.Client, *models.Token, bool) {
	var client models.Client
	if err := db.Where("id = ?", c.Param("id")).First(&client).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "client not found"})
		return nil, nil, false
	}
	var token models.Token
	err := db.Where("client_id = ? AND used = ? AND expires_at > ?", client.ID, false, time.Now()).
		Order("created_at DESC").First(&token).Error
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no active code for this client"})
		return nil, nil, false
	}
	return &client, &token, true
}

func whatsAppMessage(clientName, code, baseURL string) string {
	return fmt.Sprintf(
		"Bonjour %s,\n\nVoici votre code d'accès pour remplir votre attestation de prestation de services : *%s*\n\nAccès direct : %s/?code=%s\n\nCe code est valable 7 jours et à usage unique.\n\nTGZ Conciergerie",
		clientName, code, baseURL, code)
}

// digitsOnly keeps the characters wa.me accepts in a phone number.
func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppLink godoc
// @Summary Build a WhatsApp deep link carrying the active access code
// @Description Returns a wa.me link with a prefilled French message. The link is opened by the admin's browser; a message log row records the handoff.
// @Tags admin
// @Produce json
// @Param id path string true "client id"
// @Success 200 {object} WhatsAppLinkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/clients/{id}/whatsapp-link [get]
func WhatsAppLink(db *gorm.DB, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		client, token, ok := activeTokenFor(c, db)
		if !ok {
			return
		}
		if client.Phone == nil || *client.Phone == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "client has no phone number"})
			return
		}
		phone := digitsOnly(*client.Phone)
		if phone == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "client has no phone number"})
			return
		}

		link := "https://wa.me/" + phone + "?text=" +
			url.QueryEscape(whatsAppMessage(client.Name, token.Token, baseURL))

		db.Create(&models.MessageLog{
			ClientID:   client.ID,
			Channel:    models.MessageChannelWhatsApp,
			Recipient:  phone,
			AccessCode: token.Token,
			Success:    true,
		})

		c.JSON(http.StatusOK, WhatsAppLinkResponse{URL: link, Code: token.Token})
	}
}

// SendCodeEmail godoc
// @Summary Email the active access code to the client
// @Tags admin
// @Produce json
// @Param id path string true "client id"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /admin/clients/{id}/send-code [post]
func SendCodeEmail(db *gorm.DB, mail mailer.Mailer, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		client, token, ok := activeTokenFor(c, db)
		if !ok {
			return
		}
		if client.Email == nil || *client.Email == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "client has no email address"})
			return
		}

		sendErr := mail.SendAccessCode(*client.Email, client.Name, token.Token, baseURL)

		logRow := models.MessageLog{
			ClientID:   client.ID,
			Channel:    models.MessageChannelEmail,
			Recipient:  *client.Email,
			AccessCode: token.Token,
			Success:    sendErr == nil,
		}
		if sendErr != nil {
			msg := sendErr.Error()
			logRow.Error = &msg
		}
		db.Create(&logRow)

		if sendErr != nil {
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "email delivery failed"})
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{Success: true})
	}
}

// MessageHistory godoc
// @Summary List delivery attempts for a client
// @Tags admin
// @Produce json
// @Param id path string true "client id"
// @Success 200 {array} models.MessageLog
// @Router /admin/clients/{id}/messages [get]
func MessageHistory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var logs []models.MessageLog
		if err := db.Where("client_id = ?", c.Param("id")).
			Order("sent_at DESC").Find(&logs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}
