// models/movie.go
package models

import (
	"time"
)

// Movie mirrors a record from the external movie catalog. Catalog fields are
// overwritten on every re-sync; VoteCount is the one locally-owned field and
// is only ever changed through an atomic increment.
type Movie struct {
	ID         string `json:"id" gorm:"primaryKey"`
	ExternalID int64  `json:"external_id" gorm:"uniqueIndex;not null"`
	Title      string `json:"title" gorm:"not null"`
	Slug       string `json:"slug" gorm:"index"`

	// 🖼️ Media paths as served by the catalog CDN
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`

	Overview    string     `json:"overview" gorm:"type:text"`
	Popularity  float64    `json:"popularity" gorm:"default:0"`
	VoteCount   int64      `json:"vote_count" gorm:"default:0"`
	VoteAverage float64    `json:"vote_average" gorm:"default:0"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Genres []Genre `json:"genres,omitempty" gorm:"many2many:movie_genres"`
}

// Genre uses the catalog's own genre id as primary key so re-syncs stay
// idempotent.
type Genre struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
}
