package models

import "gorm.io/gorm"

// Collection represents a named, owned set of flashcards
type Collection struct {
	gorm.Model
	PublicID    string `gorm:"size:100;uniqueIndex"`
	Name        string `gorm:"not null;size:50"`
	Description string `gorm:"size:500;default:''"`
	IsPublic    bool   `gorm:"default:false"`
	Submitted   bool   `gorm:"default:false"`

	CreatorID uint `gorm:"not null"`
	Creator   User `gorm:"foreignKey:CreatorID" json:"-"`

	Flashcards []Flashcard `gorm:"foreignKey:CollectionID" json:"-"`
}

// CanRead reports whether the given user may see this collection.
// Visibility is governed solely by the public flag and creator identity.
func (c *Collection) CanRead(userID uint) bool {
	return c.IsPublic || c.CreatorID == userID
}

// IsOwnedBy reports whether the given user created this collection.
// Mutations (update, delete, submit, card creation) require ownership.
func (c *Collection) IsOwnedBy(userID uint) bool {
	return c.CreatorID == userID
}
