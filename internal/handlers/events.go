package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"attesta/internal/models"
)

type EventRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Courts      []string `json:"courts"`
	Categories  []string `json:"categories"`
	Active      *bool    `json:"active"`
}

// ListEvents godoc
// @Summary List active events
// @Description Public catalog backing the sporting-event step of the form.
// @Tags attestation
// @Produce json
// @Success 200 {array} models.Event
// @Router /events [get]
func ListEvents(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var events []models.Event
		if err := db.Where("active = ?", true).Order("name ASC").Find(&events).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

// ListAllEvents godoc
// @Summary List every event, active or not
// @Tags admin
// @Produce json
// @Success 200 {array} models.Event
// @Router /admin/events [get]
func ListAllEvents(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var events []models.Event
		if err := db.Order("name ASC").Find(&events).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Tags admin
// @Accept json
// @Produce json
// @Param input body EventRequest true "event data"
// @Success 200 {object} models.Event
// @Failure 400 {object} ErrorResponse
// @Router /admin/events [post]
func CreateEvent(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r EventRequest
		if err := c.BindJSON(&r); err != nil || r.Name == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
			return
		}
		event := models.Event{
			Name:        r.Name,
			Description: r.Description,
			Courts:      datatypes.JSONSlice[string](r.Courts),
			Categories:  datatypes.JSONSlice[string](r.Categories),
			Active:      true,
		}
		if r.Active != nil {
			event.Active = *r.Active
		}
		if err := db.Create(&event).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, event)
	}
}

// UpdateEvent godoc
// @Summary Update an event
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "event id"
// @Param input body EventRequest true "event data"
// @Success 200 {object} models.Event
// @Failure 404 {object} ErrorResponse
// @Router /admin/events/{id} [put]
func UpdateEvent(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event models.Event
		if err := db.Where("id = ?", c.Param("id")).First(&event).Error; err != nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "event not found"})
			return
		}
		var r EventRequest
		if err := c.BindJSON(&r); err != nil || r.Name == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
			return
		}
		event.Name = r.Name
		event.Description = r.Description
		event.Courts = datatypes.JSONSlice[string](r.Courts)
		event.Categories = datatypes.JSONSlice[string](r.Categories)
		if r.Active != nil {
			event.Active = *r.Active
		}
		if err := db.Save(&event).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, event)
	}
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags admin
// @Produce json
// @Param id path string true "event id"
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/events/{id} [delete]
func DeleteEvent(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event models.Event
		if err := db.Where("id = ?", c.Param("id")).First(&event).Error; err != nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "event not found"})
			return
		}
		if err := db.Delete(&event).Error; err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
			return
		}
		c.JSON(http.StatusOK, StatusResponse{Status: "deleted"})
	}
}
