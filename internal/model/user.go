package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered author. AccessToken is the bearer credential issued at
// sign-up and never rotated.
type User struct {
	ID           string `json:"id" gorm:"type:char(36);primaryKey" bson:"_id"`
	Username     string `json:"username" gorm:"uniqueIndex;size:255;not null" bson:"username"`
	PasswordHash string `json:"-" gorm:"size:255;not null" bson:"password"` // Never expose in JSON
	AccessToken  string `json:"-" gorm:"uniqueIndex;size:256;not null" bson:"accessToken"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Identity is what sign-up, sign-in and token validation hand back.
type Identity struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	AccessToken string `json:"accessToken"`
}

// Identity projects the user onto its public identity.
func (u *User) Identity() *Identity {
	return &Identity{
		UserID:      u.ID,
		Username:    u.Username,
		AccessToken: u.AccessToken,
	}
}
