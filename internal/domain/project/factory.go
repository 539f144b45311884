package project

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(ownerID string, req CreateProjectRequest) Project {
	return Project{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Name:           req.Name,
		OriginalImage:  req.OriginalImage,
		GeneratedImage: req.GeneratedImage,
		Prompt:         req.Prompt,
		Style:          req.Style,
		CreatedAt:      time.Now().UTC(),
	}
}
