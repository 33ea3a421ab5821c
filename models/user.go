package models

import "gorm.io/gorm"

// User represents a user in the system. Users are created lazily on the
// first verified sign-in; the identity itself lives with the external
// provider, we only keep the stable subject identifier.
type User struct {
	gorm.Model
	ExternalID  string `gorm:"uniqueIndex;not null;size:128"`
	DisplayName string `gorm:"size:100"`
	Email       string `gorm:"index;size:254"`

	Collections []Collection `gorm:"foreignKey:CreatorID" json:"-"`

	// Personal library membership, distinct from ownership. The join table
	// gives set semantics: appending an existing pair is a no-op.
	AddedCollections []Collection `gorm:"many2many:user_added_collections" json:"-"`
}
