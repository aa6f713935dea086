package models

import (
	"time"

	"gorm.io/gorm"

	"attesta/internal/utils"
)

type Client struct {
	ID        string    `gorm:"primaryKey;size:21" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     *string   `gorm:"type:varchar(255)" json:"email"`
	Phone     *string   `gorm:"type:varchar(64)" json:"phone"`
	Discord   *string   `gorm:"type:varchar(255)" json:"discord"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Tokens       []Token       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Attestations []Attestation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID, err = utils.GenerateNanoID()
	}
	return
}
