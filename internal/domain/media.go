package domain

import "time"

// Media es un documento subido durante el registro (JPEG, PNG o PDF).
type Media struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
