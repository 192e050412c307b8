package dto

import "github.com/andreyxaxa/Seed-Manager/internal/entity"

// Flags holds the quality-flag filters of a listing. Only a flag set to true
// constrains the result.
type Flags struct {
	Germinated *bool
	Vigorous   *bool
	Small      *bool
	Abnormal   *bool
	Usable     *bool
}

type Filter struct {
	Query string // substring of qr_code, seed_id or description
	Flags Flags
}

type Page struct {
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
	Data  []*entity.Observation `json:"data"`
}

type ChangeEvent struct {
	ID           int64             `json:"id"`
	Change       entity.ChangeType `json:"change"`
	QRCode       string            `json:"qr_code"`
	SeedID       string            `json:"seed_id"`
	PictureCount int               `json:"picture_count"`
}
