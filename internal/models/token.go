package models

import (
	"time"

	"gorm.io/gorm"

	"attesta/internal/utils"
)

// TokenTypePrestation is the only token type issued today. The column is
// kept so other one-shot flows can reuse the table later.
const TokenTypePrestation = "prestation"

type Token struct {
	ID        string     `gorm:"primaryKey;size:21" json:"id"`
	Token     string     `gorm:"type:varchar(16);not null;unique" json:"token"`
	ClientID  string     `gorm:"size:21;index;not null" json:"clientId"`
	Client    Client     `gorm:"foreignKey:ClientID" json:"-"`
	Type      string     `gorm:"type:varchar(20);not null" json:"type"`
	Used      bool       `gorm:"not null;default:false" json:"used"`
	UsedAt    *time.Time `json:"usedAt"`
	ExpiresAt time.Time  `gorm:"not null" json:"expiresAt"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (t *Token) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID, err = utils.GenerateNanoID()
	}
	return
}

// Active reports whether the token can still be redeemed.
func (t *Token) Active(now time.Time) bool {
	return !t.Used && t.ExpiresAt.After(now)
}
