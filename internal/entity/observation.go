package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/andreyxaxa/Seed-Manager/pkg/types/errs"
)

type Observation struct {
	ID int64 `json:"id"`

	QRCode      string  `json:"qr_code"`
	SeedID      string  `json:"seed_id"`
	Description *string `json:"description"`

	Germinated bool `json:"germinated"`
	Vigorous   bool `json:"vigorous"`
	Small      bool `json:"small"`
	Abnormal   bool `json:"abnormal"`
	Usable     bool `json:"usable"`

	GroupSize *int `json:"group_size"`
	DayNumber *int `json:"day_number"`

	DateScanned string `json:"date_scanned"` // YYYY-MM-DD
	TimeScanned string `json:"time_scanned"` // HH:MM
	HasPictures bool   `json:"has_pictures"`
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Validate checks the fields a submission cannot go without.
func (o *Observation) Validate() error {
	switch {
	case strings.TrimSpace(o.QRCode) == "":
		return fmt.Errorf("qr_code is required: %w", errs.ErrValidation)
	case strings.TrimSpace(o.SeedID) == "":
		return fmt.Errorf("seed_id is required: %w", errs.ErrValidation)
	case o.DateScanned == "":
		return fmt.Errorf("date_scanned is required: %w", errs.ErrValidation)
	case o.TimeScanned == "":
		return fmt.Errorf("time_scanned is required: %w", errs.ErrValidation)
	}

	if _, err := time.Parse(DateLayout, o.DateScanned); err != nil {
		return fmt.Errorf("date_scanned must be YYYY-MM-DD: %w", errs.ErrValidation)
	}
	if _, err := parseClock(o.TimeScanned); err != nil {
		return fmt.Errorf("time_scanned must be HH:MM: %w", errs.ErrValidation)
	}
	if o.GroupSize != nil && *o.GroupSize < 0 {
		return fmt.Errorf("group_size must not be negative: %w", errs.ErrValidation)
	}
	if o.DayNumber != nil && *o.DayNumber < 0 {
		return fmt.Errorf("day_number must not be negative: %w", errs.ErrValidation)
	}

	return nil
}

// Normalize maps empty optionals to absent values and trims time to minutes.
func (o *Observation) Normalize() {
	if o.Description != nil && *o.Description == "" {
		o.Description = nil
	}
	if o.GroupSize != nil && *o.GroupSize == 0 {
		o.GroupSize = nil
	}
	if o.DayNumber != nil && *o.DayNumber == 0 {
		o.DayNumber = nil
	}
	if t, err := parseClock(o.TimeScanned); err == nil {
		o.TimeScanned = t.Format(TimeLayout)
	}
}

// accepts HH:MM and HH:MM:SS
func parseClock(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("15:04:05", s)
}
