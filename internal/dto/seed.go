package dto

import "github.com/andreyxaxa/Seed-Manager/internal/entity"

// SeedRequest is the create/update body: the observation fields plus base64 images.
type SeedRequest struct {
	entity.Observation
	Images []string `json:"images"`
}

type Pictures struct {
	Pictures []string `json:"pictures"`
}
