package response

import "github.com/andreyxaxa/Seed-Manager/internal/entity"

type Page struct {
	Page  int                   `json:"page" example:"1"`
	Limit int                   `json:"limit" example:"25"`
	Data  []*entity.Observation `json:"data"`
}

type Pictures struct {
	Pictures []string `json:"pictures"`
}
