// models/user.go
package models

import (
	"time"
)

// User is a local snapshot of account data mirrored from the auth service by
// the user sync worker. The vote core only ever checks existence; profile
// fields are denormalized for history/response payloads.
type User struct {
	ID                string  `json:"id" gorm:"primaryKey"` // the auth service's external identity key
	Username          string  `json:"username" gorm:"index"`
	Email             string  `json:"email,omitempty"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime;index"`
}
