package models

import (
	"time"

	"github.com/zaqqye/attendance_backend/internal/admission"
)

// SettingsID is the primary key of the single settings row.
const SettingsID = 1

// PolicySettings is the process-wide admission policy, edited by admins.
type PolicySettings struct {
	ID                      uint      `gorm:"primaryKey" json:"-"`
	LocationRadius          float64   `json:"location_radius"`
	RequireLocation         bool      `json:"require_location"`
	PreventDuplicate        bool      `json:"prevent_duplicate"`
	AllowManualLocationEdit bool      `json:"allow_manual_location_edit"`
	DuplicateMatch          string    `gorm:"size:16" json:"duplicate_match"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// DefaultSettings mirrors the values a fresh installation starts with.
func DefaultSettings(radius float64) PolicySettings {
	if radius <= 0 {
		radius = 100
	}
	return PolicySettings{
		ID:                      SettingsID,
		LocationRadius:          radius,
		RequireLocation:         true,
		PreventDuplicate:        true,
		AllowManualLocationEdit: true,
		DuplicateMatch:          string(admission.MatchIDOrName),
	}
}

func (p PolicySettings) Policy() admission.Policy {
	return admission.Policy{
		LocationRadius:   p.LocationRadius,
		RequireLocation:  p.RequireLocation,
		PreventDuplicate: p.PreventDuplicate,
		DuplicateMatch:   admission.DuplicateMatch(p.DuplicateMatch),
	}
}
