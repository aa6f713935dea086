package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"attesta/internal/models"
	"attesta/internal/services"
)

type DashboardStats struct {
	ClientsCount           int64 `json:"clientsCount"`
	CompletedAttestations  int64 `json:"completedAttestations"`
	PendingAttestations    int64 `json:"pendingAttestations"`
	UnprocessedInvoices    int64 `json:"unprocessedInvoices"`
	DraftsCleaned          int64 `json:"draftsCleaned"`
	ActiveTokens           int64 `json:"activeTokens"`
}

type InvoiceToggleRequest struct {
	Processed bool `json:"processed"`
}

// ListAttestations godoc
// @Summary List attestations, newest first
// @Tags admin
// @Produce json
// @Success 200 {array} models.Attestation
// @Failure 500 {object} ErrorResponse
// @Router /admin/attestations [get]
func ListAttestations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var attestations []models.Attestation
		if err := db.Preload("Client").Preload("Token").
			Order("created_at DESC").Find(&attestations).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, attestations)
	}
}

// GetStats godoc
// @Summary Dashboard counters
// @Description Reconciles drafts first so the pending count only reflects drafts that can still be completed.
// @Tags admin
// @Produce json
// @Success 200 {object} DashboardStats
// @Router /admin/stats [get]
func GetStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cleaned, err := services.CleanupDrafts(db)
		if err != nil {
			log.Printf("draft cleanup failed: %v", err)
		}

		var s DashboardStats
		s.DraftsCleaned = cleaned
		db.Model(&models.Client{}).Count(&s.ClientsCount)
		db.Model(&models.Attestation{}).Where("pdf_generated = ?", true).Count(&s.CompletedAttestations)
		db.Model(&models.Attestation{}).Where("pdf_generated = ?", false).Count(&s.PendingAttestations)
		db.Model(&models.Attestation{}).
			Where("pdf_generated = ? AND invoice_processed = ?", true, false).
			Count(&s.UnprocessedInvoices)
		db.Model(&models.Token{}).Where("used = ? AND expires_at > ?", false, time.Now()).Count(&s.ActiveTokens)

		c.JSON(http.StatusOK, s)
	}
}

// ToggleInvoice godoc
// @Summary Set the invoice-reconciliation flag on an attestation
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "attestation id"
// @Param input body InvoiceToggleRequest true "processed flag"
// @Success 200 {object} models.Attestation
// @Failure 404 {object} ErrorResponse
// @Router /admin/attestations/{id}/invoice-toggle [post]
func ToggleInvoice(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var att models.Attestation
		if err := db.Where("id = ?", c.Param("id")).First(&att).Error; err != nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "attestation not found"})
			return
		}
		var r InvoiceToggleRequest
		if err := c.BindJSON(&r); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
			return
		}
		if err := db.Model(&att).Update("invoice_processed", r.Processed).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, att)
	}
}

// DeleteAttestation godoc
// @Summary Delete an attestation
// @Tags admin
// @Produce json
// @Param id path string true "attestation id"
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/attestations/{id} [delete]
func DeleteAttestation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var att models.Attestation
		if err := db.Where("id = ?", c.Param("id")).First(&att).Error; err != nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "attestation not found"})
			return
		}
		if err := db.Delete(&att).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, StatusResponse{Status: "deleted"})
	}
}
