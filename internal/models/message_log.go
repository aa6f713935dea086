package models

import (
	"time"

	"gorm.io/gorm"

	"attesta/internal/utils"
)

const (
	MessageChannelEmail    = "email"
	MessageChannelWhatsApp = "whatsapp"
)

// MessageLog records every access-code delivery attempt, successful or not.
type MessageLog struct {
	ID         string    `gorm:"primaryKey;size:21" json:"id"`
	ClientID   string    `gorm:"size:21;index;not null" json:"clientId"`
	Channel    string    `gorm:"type:varchar(10);not null" json:"channel"`
	Recipient  string    `gorm:"type:varchar(255);not null" json:"recipient"`
	AccessCode string    `gorm:"type:varchar(16);not null" json:"accessCode"`
	Success    bool      `gorm:"not null" json:"success"`
	Error      *string   `gorm:"type:text" json:"error"`
	SentAt     time.Time `gorm:"autoCreateTime;index" json:"sentAt"`
}

func (m *MessageLog) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID, err = utils.GenerateNanoID()
	}
	return
}
