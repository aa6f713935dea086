package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"attesta/internal/utils"
)

// Event is reference data for ticketed prestations: the venue "courts" and
// ticket categories a client can pick from when describing a lot.
type Event struct {
	ID          string                        `gorm:"primaryKey;size:21" json:"id"`
	Name        string                        `gorm:"type:varchar(255);not null;unique" json:"name"`
	Description string                        `gorm:"type:text" json:"description"`
	Courts      datatypes.JSONSlice[string]   `gorm:"type:json" json:"courts"`
	Categories  datatypes.JSONSlice[string]   `gorm:"type:json" json:"categories"`
	Active      bool                          `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time                     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time                     `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID, err = utils.GenerateNanoID()
	}
	return
}
