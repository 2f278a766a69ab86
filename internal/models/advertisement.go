package models

import "time"

// Advertisement is a promotional video with a click-through link.
type Advertisement struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	VideoURL    string    `db:"video_url" json:"video_url"`
	RedirectURL string    `db:"redirect_url" json:"redirect_url"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
