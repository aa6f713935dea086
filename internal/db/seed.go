package db

import (
	"gorm.io/gorm"

	"attesta/internal/models"
)

// SeedEvents inserts the default event reference data if the table is empty.
func SeedEvents(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Event{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	events := []models.Event{
		{
			Name:        "Roland-Garros",
			Description: "Tournoi de tennis, Porte d'Auteuil, Paris",
			Courts: []string{
				"Court Philippe-Chatrier",
				"Court Suzanne-Lenglen",
				"Court Simonne-Mathieu",
				"Courts annexes",
			},
			Categories: []string{"Catégorie Or", "Catégorie 1", "Catégorie 2", "Catégorie 3"},
			Active:     true,
		},
	}
	return db.Create(&events).Error
}
