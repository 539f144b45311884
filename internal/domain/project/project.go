package project

import (
	"time"
)

type Project struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"user_id"`
	Name           string    `json:"name"`
	OriginalImage  string    `json:"original_image"`
	GeneratedImage string    `json:"generated_image"`
	Prompt         string    `json:"prompt"`
	Style          string    `json:"style"`
	CreatedAt      time.Time `json:"created_at"`
}

// Images are base64 data-URIs end to end, so they bind as plain strings.
type CreateProjectRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=200"`
	OriginalImage  string `json:"original_image" binding:"required"`
	GeneratedImage string `json:"generated_image" binding:"required"`
	Prompt         string `json:"prompt" binding:"required,max=2000"`
	Style          string `json:"style" binding:"required,max=80"`
}
