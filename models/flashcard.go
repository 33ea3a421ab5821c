package models

import "gorm.io/gorm"

// Flashcard represents a question/answer pair belonging to exactly one
// collection. Read access is inherited from the parent collection.
type Flashcard struct {
	gorm.Model
	PublicID string `gorm:"size:100;uniqueIndex"`
	Question string `gorm:"not null;size:500"`
	Answer   string `gorm:"not null;size:1000"`

	CollectionID uint       `gorm:"not null;index"`
	Collection   Collection `gorm:"foreignKey:CollectionID" json:"-"`

	CreatorID uint `gorm:"not null"`
}
