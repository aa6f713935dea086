package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"attesta/internal/models"
	"attesta/internal/services"
)

type ClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Discord string `json:"discord"`
}

// ClientWithStats decorates a client with token/attestation counters for
// the dashboard list.
type ClientWithStats struct {
	models.Client
	ActiveToken                *models.Token  `json:"activeToken"`
	ActiveTokensCount          int            `json:"activeTokensCount"`
	TotalAttestationsCount     int            `json:"totalAttestationsCount"`
	CompletedAttestationsCount int            `json:"completedAttestationsCount"`
	PendingAttestationsCount   int            `json:"pendingAttestationsCount"`
	Tokens                     []models.Token `json:"tokens"`
}

// ListClients godoc
// @Summary List clients with stats
// @Description Runs the draft reconciliation job first, then returns every client with its active token and attestation counters.
// @Tags admin
// @Produce json
// @Success 200 {array} ClientWithStats
// @Failure 500 {object} ErrorResponse
// @Router /admin/clients [get]
func ListClients(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Dashboard load doubles as the reconciliation trigger.
		if _, err := services.CleanupDrafts(db); err != nil {
			log.Printf("draft cleanup failed: %v", err)
		}

		var clients []models.Client
		if err := db.Preload("Tokens").Preload("Attestations").
			Order("created_at DESC").Find(&clients).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}

		now := time.Now()
		out := make([]ClientWithStats, 0, len(clients))
		for _, cl := range clients {
			s := ClientWithStats{Client: cl, Tokens: cl.Tokens}
			for i := range cl.Tokens {
				if cl.Tokens[i].Active(now) {
					s.ActiveTokensCount++
					if s.ActiveToken == nil {
						s.ActiveToken = &cl.Tokens[i]
					}
				}
			}
			for _, a := range cl.Attestations {
				s.TotalAttestationsCount++
				if a.PDFGenerated {
					s.CompletedAttestationsCount++
				} else {
					s.PendingAttestationsCount++
				}
			}
			out = append(out, s)
		}
		c.JSON(http.StatusOK, out)
	}
}

// CreateClient godoc
// @Summary Create a client
// @Tags admin
// @Accept json
// @Produce json
// @Param input body ClientRequest true "client data"
// @Success 200 {object} models.Client
// @Failure 400 {object} ErrorResponse
// @Router /admin/clients [post]
func CreateClient(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r ClientRequest
		if err := c.BindJSON(&r); err != nil || r.Name == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
			return
		}
		client := models.Client{Name: r.Name}
		setOptional(&client, r)
		if err := db.Create(&client).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

// UpdateClient godoc
// @Summary Update a client
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "client id"
// @Param input body ClientRequest true "client data"
// @Success 200 {object} models.Client
// @Failure 404 {object} ErrorResponse
// @Router /admin/clients/{id} [put]
func UpdateClient(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var client models.Client
		if err := db.Where("id = ?", c.Param("id")).First(&client).Error; err != nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "client not found"})
			return
		}
		var r ClientRequest
		if err := c.BindJSON(&r); err != nil || r.Name == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
			return
		}
		client.Name = r.Name
		client.Email, client.Phone, client.Discord = nil, nil, nil
		setOptional(&client, r)
		if err := db.Save(&client).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

// DeleteClient godoc
// @Summary Delete a client and everything it owns
// @Tags admin
// @Produce json
// @Param id path string true "client id"
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/clients/{id} [delete]
func DeleteClient(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var client models.Client
		if err := db.Where("id = ?", c.Param("id")).First(&client).Error; err != nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "client not found"})
			return
		}
		if err := db.Select(clause.Associations).Delete(&client).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, StatusResponse{Status: "deleted"})
	}
}

func setOptional(client *models.Client, r ClientRequest) {
	if r.Email != "" {
		client.Email = &r.Email
	}
	if r.Phone != "" {
		client.Phone = &r.Phone
	}
	if r.Discord != "" {
		client.Discord = &r.Discord
	}
}
