package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Thought is a short post with a like counter. Message is write-once; Hearts
// only ever grows through an atomic increment.
type Thought struct {
	ID       string `json:"_id" gorm:"type:char(36);primaryKey" bson:"_id"`
	Username string `json:"username" gorm:"size:255" bson:"username"`
	Message  string `json:"message" gorm:"type:text" bson:"message"`
	// AccessToken is the raw Authorization header seen at creation. It is
	// persisted but never serialized.
	AccessToken string    `json:"-" gorm:"size:256;index" bson:"accessToken"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index;not null" bson:"createdAt"`
	Hearts      int       `json:"hearts" gorm:"not null;default:0" bson:"hearts"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Thought) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
